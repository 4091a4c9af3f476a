package lifecycle

import (
	"testing"

	"cylinderManagement/models"
)

func TestTransitionTable_FullCycle(t *testing.T) {
	// Walking the five events from the initial state must visit exactly the
	// five legal states and end back at empty@Warehouse.
	order := []Event{EventPlaceOrder, EventMarkFilled, EventMarkDelivered, EventRequestPickup, EventMarkPickedUp}
	state := StateEmptyWarehouse
	seen := map[State]bool{state: true}
	for _, ev := range order {
		next, ok := Next(state, ev)
		if !ok {
			t.Fatalf("event %s not permitted from %s", ev, state)
		}
		if !next.Valid() {
			t.Fatalf("event %s produced invalid state %s", ev, next)
		}
		seen[next] = true
		state = next
	}
	if state != StateEmptyWarehouse {
		t.Fatalf("cycle did not return to empty@Warehouse, ended at %s", state)
	}
	if len(seen) != 5 {
		t.Fatalf("expected 5 distinct states, saw %d", len(seen))
	}
}

func TestNext_RejectsWrongSourceState(t *testing.T) {
	cases := []struct {
		from State
		ev   Event
	}{
		{StateOrderedCustomer, EventPlaceOrder},
		{StateFilledCustomer, EventMarkFilled},
		{StateEmptyWarehouse, EventMarkDelivered},
		{StateEmptyWarehouse, EventRequestPickup},
		{StateDeliveredCustomer, EventMarkPickedUp},
	}
	for _, c := range cases {
		if _, ok := Next(c.from, c.ev); ok {
			t.Errorf("event %s must not be permitted from %s", c.ev, c.from)
		}
	}
}

func TestStateValid(t *testing.T) {
	invalid := []State{
		{models.CylinderStatusEmpty, models.LocationCustomer},
		{models.CylinderStatusOrdered, models.LocationWarehouse},
		{models.CylinderStatusDispatched, models.LocationCustomer},
		{models.CylinderStatusPickupDone, models.LocationWarehouse},
		{},
	}
	for _, s := range invalid {
		if s.Valid() {
			t.Errorf("state %s must not be valid", s)
		}
	}
}

func TestSelectionPredicates(t *testing.T) {
	empty := &models.Cylinder{SerialNumber: "CYL-001", Status: models.CylinderStatusEmpty, Location: models.LocationWarehouse}
	delivered := &models.Cylinder{SerialNumber: "CYL-002", Status: models.CylinderStatusDelivered, Location: models.LocationCustomer}
	filled := &models.Cylinder{SerialNumber: "CYL-003", Status: models.CylinderStatusFilled, Location: models.LocationCustomer}

	if !CanPlaceOrder(empty) || CanPlaceOrder(delivered) || CanPlaceOrder(filled) {
		t.Fatalf("CanPlaceOrder must accept only empty@Warehouse")
	}
	if !CanRequestPickup(delivered) || CanRequestPickup(empty) || CanRequestPickup(filled) {
		t.Fatalf("CanRequestPickup must accept only delivered@Customer")
	}
	if CanPlaceOrder(nil) || CanRequestPickup(nil) {
		t.Fatalf("nil cylinder must never be selectable")
	}
}
