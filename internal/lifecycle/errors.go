package lifecycle

import (
	"errors"
	"fmt"
)

// Sentinel errors for missing rows and duplicate submissions.
var (
	ErrCylinderNotFound   = errors.New("cylinder not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrPickupNotFound     = errors.New("pickup not found")
	ErrTransitionInFlight = errors.New("another transition is in flight for this entity")
)

// ValidationError reports a required field that is missing or blank.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// PreconditionError reports an entity that is not in the state the requested
// transition expects. The transition was refused; nothing was written.
type PreconditionError struct {
	Entity string // "cylinder", "order" or "pickup"
	ID     string
	Got    string
	Want   string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s %s is %s, want %s", e.Entity, e.ID, e.Got, e.Want)
}

// NoDeliveryRecordError reports a pickup request for a cylinder that has no
// Delivered order to copy customer details from.
type NoDeliveryRecordError struct {
	Serial string
}

func (e *NoDeliveryRecordError) Error() string {
	return fmt.Sprintf("no delivery record found for cylinder %s", e.Serial)
}

// InconsistentStateError reports a partial transition: the order/pickup write
// succeeded but the cylinder write failed (or the reverse). The affected rows
// no longer agree and need reconciliation; see Service.Reconcile.
type InconsistentStateError struct {
	Serial string
	Event  Event
	Err    error
}

func (e *InconsistentStateError) Error() string {
	return fmt.Sprintf("cylinder %s left inconsistent after %s: %v", e.Serial, e.Event, e.Err)
}

func (e *InconsistentStateError) Unwrap() error { return e.Err }
