//go:build grpcserver

package grpcserver

import (
	"errors"

	"cylinderManagement/internal/lifecycle"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps lifecycle errors onto gRPC codes. Validation failures and
// refused preconditions stay client errors; a partial transition surfaces as
// Internal so clients know the data needs reconciliation, not a retry of the
// same form.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	var ve *lifecycle.ValidationError
	if errors.As(err, &ve) {
		return status.Error(codes.InvalidArgument, ve.Error())
	}
	var pe *lifecycle.PreconditionError
	if errors.As(err, &pe) {
		return status.Error(codes.FailedPrecondition, pe.Error())
	}
	var nde *lifecycle.NoDeliveryRecordError
	if errors.As(err, &nde) {
		return status.Error(codes.FailedPrecondition, nde.Error())
	}
	var ise *lifecycle.InconsistentStateError
	if errors.As(err, &ise) {
		return status.Error(codes.Internal, ise.Error())
	}
	switch {
	case errors.Is(err, lifecycle.ErrCylinderNotFound),
		errors.Is(err, lifecycle.ErrOrderNotFound),
		errors.Is(err, lifecycle.ErrPickupNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, lifecycle.ErrTransitionInFlight):
		return status.Error(codes.Aborted, err.Error())
	}
	return status.Errorf(codes.Internal, "%v", err)
}
