//go:build grpcserver

package grpcserver

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	adminv1 "cylinderManagement/api/admin/v1"
	"cylinderManagement/internal/auth"
	"cylinderManagement/internal/db"
	"cylinderManagement/internal/lifecycle"
	"cylinderManagement/models"
	"cylinderManagement/repository"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// newTestDeps opens an in-memory sqlite DB and returns the repo bundle,
// the lifecycle service and a cleanup func.
func newTestDeps(t *testing.T, name string) (Repos, *lifecycle.Service, func()) {
	t.Helper()
	d, err := db.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	repos := Repos{
		Users:     repository.NewUserRepository(d),
		Cylinders: repository.NewCylinderRepository(d),
		Orders:    repository.NewOrderRepository(d),
		Pickups:   repository.NewPickupRepository(d),
	}
	lc := lifecycle.NewService(repos.Cylinders, repos.Orders, repos.Pickups)
	return repos, lc, func() { _ = d.Close() }
}

// newPrincipalCtx returns a context with the given principal injected.
func newPrincipalCtx(email, kind string) context.Context {
	return auth.WithPrincipal(context.Background(), &auth.Principal{Email: email, Kind: kind})
}

// createAdmin ensures an Admin row exists for RequireAdmin's DB check.
func createAdmin(t *testing.T, users *repository.UserRepository, email string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	hash, err := auth.HashPassword("pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if _, err := users.Create(ctx, &models.User{Name: "Root", Email: email, PasswordHash: hash, UserType: models.UserTypeAdmin}); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
}

func TestAdmin_CreateCylinderAndStatistics(t *testing.T) {
	repos, lc, cleanup := newTestDeps(t, "admin_stats")
	defer cleanup()

	createAdmin(t, repos.Users, "root@example.com")
	s := &AdminServer{Repos: repos, Lifecycle: lc}
	ctx := newPrincipalCtx("root@example.com", "admin")

	for _, serial := range []string{"CYL-001", "CYL-002", "CYL-003"} {
		if _, err := s.CreateCylinder(ctx, &adminv1.CreateCylinderRequest{SerialNumber: serial}); err != nil {
			t.Fatalf("CreateCylinder(%s): %v", serial, err)
		}
	}
	if _, err := s.PlaceOrder(ctx, &adminv1.PlaceOrderRequest{
		CylinderSerial:  "CYL-001",
		CustomerName:    "Alice",
		CustomerPhone:   "555-0100",
		CustomerAddress: "1 Main St",
	}); err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	resp, err := s.GetStatistics(ctx, &adminv1.GetStatisticsRequest{})
	if err != nil {
		t.Fatalf("GetStatistics: %v", err)
	}
	if resp.GetTotal() != 3 || resp.GetEmptyAtWarehouse() != 2 || resp.GetAtCustomer() != 1 {
		t.Fatalf("unexpected statistics: %+v", resp)
	}
}

func TestAdmin_CreateCylinderDuplicateSerial(t *testing.T) {
	repos, lc, cleanup := newTestDeps(t, "admin_dup_serial")
	defer cleanup()

	createAdmin(t, repos.Users, "root@example.com")
	s := &AdminServer{Repos: repos, Lifecycle: lc}
	ctx := newPrincipalCtx("root@example.com", "admin")

	if _, err := s.CreateCylinder(ctx, &adminv1.CreateCylinderRequest{SerialNumber: "CYL-001"}); err != nil {
		t.Fatalf("CreateCylinder: %v", err)
	}
	_, err := s.CreateCylinder(ctx, &adminv1.CreateCylinderRequest{SerialNumber: "CYL-001"})
	if status.Code(err) != codes.AlreadyExists {
		t.Fatalf("expected AlreadyExists for duplicate serial, got %v", err)
	}
}

func TestAdmin_ListCylindersFilters(t *testing.T) {
	repos, lc, cleanup := newTestDeps(t, "admin_filters")
	defer cleanup()

	createAdmin(t, repos.Users, "root@example.com")
	s := &AdminServer{Repos: repos, Lifecycle: lc}
	ctx := newPrincipalCtx("root@example.com", "admin")

	for _, serial := range []string{"CYL-001", "CYL-002", "TANK-001"} {
		if _, err := s.CreateCylinder(ctx, &adminv1.CreateCylinderRequest{SerialNumber: serial}); err != nil {
			t.Fatalf("CreateCylinder(%s): %v", serial, err)
		}
	}

	resp, err := s.ListCylinders(ctx, &adminv1.ListCylindersRequest{SerialContains: "cyl"})
	if err != nil {
		t.Fatalf("ListCylinders: %v", err)
	}
	if len(resp.GetCylinders()) != 2 {
		t.Fatalf("serial filter returned %d, want 2", len(resp.GetCylinders()))
	}

	resp, err = s.ListCylinders(ctx, &adminv1.ListCylindersRequest{Status: "empty"})
	if err != nil {
		t.Fatalf("ListCylinders: %v", err)
	}
	if len(resp.GetCylinders()) != 3 {
		t.Fatalf("status filter returned %d, want 3", len(resp.GetCylinders()))
	}
}

func TestAdmin_RequiresAdminRow(t *testing.T) {
	repos, lc, cleanup := newTestDeps(t, "admin_gate")
	defer cleanup()

	s := &AdminServer{Repos: repos, Lifecycle: lc}

	// Principal claims admin but no matching users row exists.
	ctx := newPrincipalCtx("ghost@example.com", "admin")
	_, err := s.GetStatistics(ctx, &adminv1.GetStatisticsRequest{})
	if status.Code(err) != codes.PermissionDenied {
		t.Fatalf("expected PermissionDenied, got %v", err)
	}

	// A filler principal is refused before the DB check.
	_, err = s.GetStatistics(newPrincipalCtx("f@example.com", "filler"), &adminv1.GetStatisticsRequest{})
	if status.Code(err) != codes.PermissionDenied {
		t.Fatalf("expected PermissionDenied for filler, got %v", err)
	}
}

func TestListOrders_PaginationChaining(t *testing.T) {
	repos, lc, cleanup := newTestDeps(t, "admin_pagination")
	defer cleanup()

	createAdmin(t, repos.Users, "root@example.com")
	s := &AdminServer{Repos: repos, Lifecycle: lc}
	ctx := newPrincipalCtx("root@example.com", "admin")

	for i, serial := range []string{"CYL-001", "CYL-002", "CYL-003"} {
		if _, err := s.CreateCylinder(ctx, &adminv1.CreateCylinderRequest{SerialNumber: serial}); err != nil {
			t.Fatalf("CreateCylinder: %v", err)
		}
		// slight delay to vary order_date seconds (not strictly required)
		if i > 0 {
			time.Sleep(10 * time.Millisecond)
		}
		if _, err := s.PlaceOrder(ctx, &adminv1.PlaceOrderRequest{
			CylinderSerial:  serial,
			CustomerName:    "Alice",
			CustomerPhone:   "555-0100",
			CustomerAddress: "1 Main St",
		}); err != nil {
			t.Fatalf("PlaceOrder(%s): %v", serial, err)
		}
	}

	// List with page_size=1, follow next_page_token until exhausted.
	var allIDs []int64
	token := ""
	for page := 0; page < 5; page++ { // upper bound guard
		resp, err := s.ListOrders(ctx, &adminv1.ListOrdersRequest{PageSize: 1, PageToken: token})
		if err != nil {
			t.Fatalf("ListOrders page=%d: %v", page, err)
		}
		if len(resp.GetOrders()) > 0 {
			allIDs = append(allIDs, resp.GetOrders()[0].GetOrderId())
		}
		if resp.GetNextPageToken() == "" {
			break
		}
		if resp.GetNextPageToken() == token {
			t.Fatalf("next_page_token did not advance: %q", token)
		}
		token = resp.GetNextPageToken()
	}

	if len(allIDs) != 3 {
		t.Fatalf("expected 3 orders across pages, got %d (%v)", len(allIDs), allIDs)
	}
	seen := map[int64]bool{}
	for _, id := range allIDs {
		if seen[id] {
			t.Fatalf("duplicate id in pagination sequence: %d (all=%v)", id, allIDs)
		}
		seen[id] = true
	}
}

func TestListOrders_InvalidToken(t *testing.T) {
	repos, lc, cleanup := newTestDeps(t, "admin_badtoken")
	defer cleanup()

	createAdmin(t, repos.Users, "root@example.com")
	s := &AdminServer{Repos: repos, Lifecycle: lc}
	ctx := newPrincipalCtx("root@example.com", "admin")

	_, err := s.ListOrders(ctx, &adminv1.ListOrdersRequest{PageSize: 1, PageToken: "***invalid***"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for invalid token, got %v", err)
	}
}

// TestEncodeDecodeCursor_RoundTrip tests cursor encoding and decoding round trip.
func TestEncodeDecodeCursor_RoundTrip(t *testing.T) {
	sec := int64(1700000000)
	id := int64(42)
	token := encodeCursor(sec, id)
	if strings.Contains(token, "=") {
		t.Fatalf("cursor token should be raw base64 url without padding: %q", token)
	}
	if _, err := base64.RawURLEncoding.DecodeString(token); err != nil {
		t.Fatalf("token not valid base64: %v", err)
	}
	var gotSec, gotID int64
	if err := decodeCursor(token, &gotSec, &gotID); err != nil {
		t.Fatalf("decodeCursor: %v", err)
	}
	if gotSec != sec || gotID != id {
		t.Fatalf("round trip mismatch: got (%d,%d) want (%d,%d)", gotSec, gotID, sec, id)
	}
}

// TestDecodeCursor_InvalidFormat tests decoding with invalid formats.
func TestDecodeCursor_InvalidFormat(t *testing.T) {
	var s, i int64
	if err := decodeCursor("***", &s, &i); err == nil {
		t.Fatalf("expected error for non-base64 token")
	}
	bad := base64.RawURLEncoding.EncodeToString([]byte("not-a-cursor"))
	if err := decodeCursor(bad, &s, &i); err == nil {
		t.Fatalf("expected error for invalid parts")
	}
}

// TestDateToUnixSeconds tests stored date parsing.
func TestDateToUnixSeconds(t *testing.T) {
	// RFC3339
	sec, err := dateToUnixSeconds("2024-01-02T03:04:05Z")
	if err != nil || sec == 0 {
		t.Fatalf("RFC3339 parse failed: sec=%d err=%v", sec, err)
	}
	// SQLite default format
	if _, err := dateToUnixSeconds("2024-01-02 03:04:05"); err != nil {
		t.Fatalf("sqlite format parse failed: %v", err)
	}
	// Unsupported
	if _, err := dateToUnixSeconds("02/01/2024"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
