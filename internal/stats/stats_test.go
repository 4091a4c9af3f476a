package stats

import (
	"testing"

	"cylinderManagement/internal/lifecycle"
	"cylinderManagement/models"
)

func cyl(serial string, status models.CylinderStatus, loc models.CylinderLocation) models.Cylinder {
	return models.Cylinder{SerialNumber: serial, Status: status, Location: loc}
}

var fleet = []models.Cylinder{
	cyl("CYL-001", models.CylinderStatusEmpty, models.LocationWarehouse),
	cyl("CYL-002", models.CylinderStatusEmpty, models.LocationWarehouse),
	cyl("CYL-003", models.CylinderStatusOrdered, models.LocationCustomer),
	cyl("CYL-004", models.CylinderStatusFilled, models.LocationCustomer),
	cyl("CYL-010", models.CylinderStatusDelivered, models.LocationCustomer),
	cyl("CYL-011", models.CylinderStatusAssignedPickup, models.LocationCustomer),
}

func TestSummarize(t *testing.T) {
	s := Summarize(fleet)

	if s.Total != 6 {
		t.Fatalf("Total = %d, want 6", s.Total)
	}
	if s.EmptyAtWarehouse != 2 {
		t.Fatalf("EmptyAtWarehouse = %d, want 2", s.EmptyAtWarehouse)
	}
	if s.AtCustomer != 4 {
		t.Fatalf("AtCustomer = %d, want 4", s.AtCustomer)
	}
	if got := s.ByState[lifecycle.StateEmptyWarehouse]; got != 2 {
		t.Fatalf("ByState[empty@Warehouse] = %d, want 2", got)
	}
	if got := s.ByState[lifecycle.StateDeliveredCustomer]; got != 1 {
		t.Fatalf("ByState[delivered@Customer] = %d, want 1", got)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 || s.EmptyAtWarehouse != 0 || s.AtCustomer != 0 {
		t.Fatalf("unexpected summary for empty fleet: %+v", s)
	}
}

func TestFilterCylinders(t *testing.T) {
	// Serial substring match is case-insensitive.
	got := FilterCylinders(fleet, "cyl-01", "")
	if len(got) != 2 {
		t.Fatalf("substring filter returned %d, want 2", len(got))
	}

	// Status filter alone.
	got = FilterCylinders(fleet, "", models.CylinderStatusEmpty)
	if len(got) != 2 {
		t.Fatalf("status filter returned %d, want 2", len(got))
	}

	// Both filters must hold.
	got = FilterCylinders(fleet, "001", models.CylinderStatusFilled)
	if len(got) != 0 {
		t.Fatalf("combined filter returned %d, want 0", len(got))
	}
	got = FilterCylinders(fleet, "004", models.CylinderStatusFilled)
	if len(got) != 1 || got[0].SerialNumber != "CYL-004" {
		t.Fatalf("combined filter returned %+v, want CYL-004", got)
	}

	// Empty filters match everything.
	if got = FilterCylinders(fleet, "", ""); len(got) != len(fleet) {
		t.Fatalf("empty filters returned %d, want %d", len(got), len(fleet))
	}
}

func TestAvailableForOrder(t *testing.T) {
	got := AvailableForOrder(fleet)
	if len(got) != 2 {
		t.Fatalf("AvailableForOrder returned %d, want 2", len(got))
	}
	for _, c := range got {
		if c.Status != models.CylinderStatusEmpty || c.Location != models.LocationWarehouse {
			t.Fatalf("ineligible cylinder in order list: %+v", c)
		}
	}

	// An empty cylinder still at the customer is not orderable.
	stray := append(fleet[:len(fleet):len(fleet)], cyl("CYL-099", models.CylinderStatusEmpty, models.LocationCustomer))
	if got = AvailableForOrder(stray); len(got) != 2 {
		t.Fatalf("AvailableForOrder with stray returned %d, want 2", len(got))
	}
}

func TestAvailableForPickup(t *testing.T) {
	got := AvailableForPickup(fleet)
	if len(got) != 1 || got[0].SerialNumber != "CYL-010" {
		t.Fatalf("AvailableForPickup returned %+v, want CYL-010", got)
	}
}
