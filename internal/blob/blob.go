// Package blob stores proof-of-delivery images and returns their public references.
package blob

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"
)

// Store is an object store for uploaded assets.
type Store interface {
	// Put uploads the content under key and returns the URL clients should use.
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename reduces a client supplied file name to a safe key segment.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "upload"
	}
	if len(name) > 100 {
		name = name[len(name)-100:]
	}
	return name
}

// PODKey builds the object key for a proof-of-delivery upload.
//
//	pod/<orderID>/<unixMillis>-<filename>
func PODKey(orderID, filename string, at time.Time) string {
	return fmt.Sprintf("pod/%s/%d-%s", orderID, at.UnixMilli(), SanitizeFilename(filename))
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
