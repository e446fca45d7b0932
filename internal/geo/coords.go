// Package geo checks capture coordinates attached to a proof of delivery.
package geo

import "fmt"

const (
	// MaxLatitude bounds latitude in degrees, in both directions.
	MaxLatitude = 90.0
	// MaxLongitude bounds longitude in degrees, in both directions.
	MaxLongitude = 180.0
)

// ValidLatitude reports whether lat is within [-90, 90].
func ValidLatitude(lat float64) bool {
	return lat >= -MaxLatitude && lat <= MaxLatitude
}

// ValidLongitude reports whether lng is within [-180, 180].
func ValidLongitude(lng float64) bool {
	return lng >= -MaxLongitude && lng <= MaxLongitude
}

// Check validates a partial point. Either coordinate may be nil on its own.
func Check(lat, lng *float64) error {
	if lat != nil && !ValidLatitude(*lat) {
		return fmt.Errorf("latitude %v out of range", *lat)
	}
	if lng != nil && !ValidLongitude(*lng) {
		return fmt.Errorf("longitude %v out of range", *lng)
	}
	return nil
}
