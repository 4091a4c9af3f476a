package repository

import (
	"context"
	"testing"

	"cylinderManagement/internal/db"
	"cylinderManagement/models"
)

func TestPickupRepository_CreateStatusQueries(t *testing.T) {
	d, err := db.Open("file:pickuprepo?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	pickups := NewPickupRepository(d)
	ctx := context.Background()

	arg := &models.Pickup{
		CylinderSerial:  "CYL-001",
		CustomerName:    "Alice",
		CustomerPhone:   "555-0100",
		CustomerAddress: "1 Main St",
	}
	p, err := pickups.Create(ctx, arg)
	if err != nil {
		t.Fatalf("create pickup: %v", err)
	}
	if p.ID == 0 || p.PickupStatus != models.PickupStatusAssigned || p.CreatedAt == "" {
		t.Fatalf("unexpected created pickup: %+v", p)
	}
	// The default status lands on the returned row, not the argument.
	if arg.PickupStatus != "" || arg.ID != 0 {
		t.Fatalf("argument mutated by Create: %+v", arg)
	}

	assigned, err := pickups.ListByStatus(ctx, models.PickupStatusAssigned)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(assigned) != 1 || assigned[0].ID != p.ID {
		t.Fatalf("assigned queue mismatch: %+v", assigned)
	}

	if err := pickups.UpdateStatus(ctx, p.ID, models.PickupStatusDone); err != nil {
		t.Fatalf("update status: %v", err)
	}
	p2, _ := pickups.GetByID(ctx, p.ID)
	if p2.PickupStatus != models.PickupStatusDone {
		t.Fatalf("status not updated: %+v", p2)
	}
	if left, _ := pickups.ListByStatus(ctx, models.PickupStatusAssigned); len(left) != 0 {
		t.Fatalf("expected empty assigned queue, got %+v", left)
	}

	latest, err := pickups.LatestBySerial(ctx, "CYL-001")
	if err != nil {
		t.Fatalf("LatestBySerial: %v", err)
	}
	if latest == nil || latest.ID != p.ID {
		t.Fatalf("LatestBySerial mismatch: %+v", latest)
	}
	if none, _ := pickups.LatestBySerial(ctx, "CYL-404"); none != nil {
		t.Fatalf("expected nil for unknown serial, got %+v", none)
	}

	page, err := pickups.ListPage(ctx, 10, 0, 0)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if len(page) != 1 {
		t.Fatalf("expected 1 pickup, got %d", len(page))
	}
}
