// Package portalv1 is the wire API of the delivery portal: request and response
// messages, service descriptors and client stubs for portal.v1.AdminService,
// portal.v1.RiderService and portal.v1.ProfileService.
//
// Messages travel as JSON using the "json" gRPC content subtype. Protobuf
// messages (for example the standard health service) keep working through the
// same codec via protojson.
package portalv1

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// ContentSubtype is the gRPC content subtype used by every portal call.
const ContentSubtype = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		return protojson.Marshal(m)
	}
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if m, ok := v.(proto.Message); ok {
		return protojson.Unmarshal(data, m)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string { return ContentSubtype }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
