// Package lifecycle holds the cylinder state machine: the legal
// (status, location) combinations, the transitions between them, and the
// service that applies each transition together with its order/pickup side
// effect. Every dashboard mutation goes through this package.
package lifecycle

import "cylinderManagement/models"

// State is a cylinder's (status, location) pair.
type State struct {
	Status   models.CylinderStatus
	Location models.CylinderLocation
}

func (s State) String() string {
	return string(s.Status) + "@" + string(s.Location)
}

// The five states a transition can produce. A newly created cylinder starts
// in StateEmptyWarehouse, and a completed pickup returns it there.
var (
	StateEmptyWarehouse    = State{models.CylinderStatusEmpty, models.LocationWarehouse}
	StateOrderedCustomer   = State{models.CylinderStatusOrdered, models.LocationCustomer}
	StateFilledCustomer    = State{models.CylinderStatusFilled, models.LocationCustomer}
	StateDeliveredCustomer = State{models.CylinderStatusDelivered, models.LocationCustomer}
	StateAssignedPickup    = State{models.CylinderStatusAssignedPickup, models.LocationCustomer}
)

// Event names a lifecycle transition.
type Event string

const (
	EventPlaceOrder    Event = "place_order"
	EventMarkFilled    Event = "mark_filled"
	EventMarkDelivered Event = "mark_delivered"
	EventRequestPickup Event = "request_pickup"
	EventMarkPickedUp  Event = "mark_picked_up"
)

// transitions is the authoritative table: for each event, the state the
// cylinder must be in and the state it moves to. The mark_filled row keeps
// the location the place_order row set; the fill step never touches location.
var transitions = map[Event]struct{ from, to State }{
	EventPlaceOrder:    {StateEmptyWarehouse, StateOrderedCustomer},
	EventMarkFilled:    {StateOrderedCustomer, StateFilledCustomer},
	EventMarkDelivered: {StateFilledCustomer, StateDeliveredCustomer},
	EventRequestPickup: {StateDeliveredCustomer, StateAssignedPickup},
	EventMarkPickedUp:  {StateAssignedPickup, StateEmptyWarehouse},
}

// StateOf extracts the lifecycle state of a cylinder row.
func StateOf(c *models.Cylinder) State {
	if c == nil {
		return State{}
	}
	return State{Status: c.Status, Location: c.Location}
}

// Valid reports whether s is one of the five states a transition can produce.
func (s State) Valid() bool {
	switch s {
	case StateEmptyWarehouse, StateOrderedCustomer, StateFilledCustomer, StateDeliveredCustomer, StateAssignedPickup:
		return true
	}
	return false
}

// Next returns the state the event moves a cylinder into, and whether the
// event is permitted from the given state.
func Next(from State, ev Event) (State, bool) {
	t, ok := transitions[ev]
	if !ok || t.from != from {
		return State{}, false
	}
	return t.to, true
}

// CanPlaceOrder reports whether the cylinder may be selected for a new order.
func CanPlaceOrder(c *models.Cylinder) bool {
	return StateOf(c) == StateEmptyWarehouse
}

// CanRequestPickup reports whether the cylinder may be selected for a pickup.
func CanRequestPickup(c *models.Cylinder) bool {
	return StateOf(c) == StateDeliveredCustomer
}
