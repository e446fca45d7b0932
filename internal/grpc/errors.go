package grpcserver

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"riderDeliveryPortal/internal/apperr"
)

// toStatus maps an application error onto a gRPC status. Errors that already
// carry a status pass through unchanged.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	var code codes.Code
	switch apperr.KindOf(err) {
	case apperr.NotFound:
		code = codes.NotFound
	case apperr.Conflict:
		code = codes.Aborted
	case apperr.ValidationFailure:
		code = codes.InvalidArgument
	case apperr.TransientIO:
		code = codes.Unavailable
	default:
		code = codes.Internal
	}
	return status.Error(code, err.Error())
}
