//go:build grpcserver

package grpcserver

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	adminv1 "cylinderManagement/api/admin/v1"
	"cylinderManagement/internal/auth"
	"cylinderManagement/internal/lifecycle"
	"cylinderManagement/internal/stats"
	"cylinderManagement/models"
	"cylinderManagement/repository"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	maxPageSize      = 100 // Maximum allowed page size for list operations.
	defaultPageSize  = 20  // Default page size for list operations.
	cursorSeparator  = "|" // Separator for cursor components.
	sqliteDateFormat = "2006-01-02 15:04:05"
)

// AdminServer bundles dependencies and implements the AdminService.
type AdminServer struct {
	adminv1.UnimplementedAdminServiceServer
	Repos     Repos
	Lifecycle *lifecycle.Service
}

// CreateUser creates a staff account. The plain-text password is hashed
// before it touches the repository.
func (s *AdminServer) CreateUser(ctx context.Context, req *adminv1.CreateUserRequest) (*adminv1.CreateUserResponse, error) {
	if _, err := auth.RequireAdmin(ctx, s.Repos.Users); err != nil {
		return nil, err
	}
	if req.GetName() == "" || req.GetEmail() == "" || req.GetPassword() == "" {
		return nil, status.Error(codes.InvalidArgument, "name, email and password are required")
	}
	userType := models.UserType(req.GetUserType())
	switch userType {
	case models.UserTypeAdmin, models.UserTypeFiller, models.UserTypeDispatcher:
	default:
		return nil, status.Errorf(codes.InvalidArgument, "invalid user_type: %q", req.GetUserType())
	}

	hash, err := auth.HashPassword(req.GetPassword())
	if err != nil {
		return nil, status.Errorf(codes.Internal, "hash password: %v", err)
	}
	u, err := s.Repos.Users.Create(ctx, &models.User{
		Name:         req.GetName(),
		Email:        req.GetEmail(),
		PasswordHash: hash,
		UserType:     userType,
		Age:          int(req.GetAge()),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "create user: %v", err)
	}
	return &adminv1.CreateUserResponse{Id: u.ID}, nil
}

// CreateCylinder registers a new cylinder in its initial state.
func (s *AdminServer) CreateCylinder(ctx context.Context, req *adminv1.CreateCylinderRequest) (*adminv1.CreateCylinderResponse, error) {
	if _, err := auth.RequireAdmin(ctx, s.Repos.Users); err != nil {
		return nil, err
	}
	serial := strings.TrimSpace(req.GetSerialNumber())
	if serial == "" {
		return nil, status.Error(codes.InvalidArgument, "serial_number is required")
	}
	c, err := s.Repos.Cylinders.Create(ctx, serial)
	if errors.Is(err, repository.ErrDuplicateSerial) {
		return nil, status.Errorf(codes.AlreadyExists, "cylinder %q already registered", serial)
	}
	if err != nil {
		return nil, status.Errorf(codes.Internal, "create cylinder: %v", err)
	}
	return &adminv1.CreateCylinderResponse{Cylinder: toProtoCylinder(c)}, nil
}

// PlaceOrder runs the place-order transition.
func (s *AdminServer) PlaceOrder(ctx context.Context, req *adminv1.PlaceOrderRequest) (*adminv1.PlaceOrderResponse, error) {
	if _, err := auth.RequireAdmin(ctx, s.Repos.Users); err != nil {
		return nil, err
	}
	ord, err := s.Lifecycle.PlaceOrder(ctx, req.GetCylinderSerial(), lifecycle.CustomerInfo{
		Name:    req.GetCustomerName(),
		Phone:   req.GetCustomerPhone(),
		Address: req.GetCustomerAddress(),
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &adminv1.PlaceOrderResponse{Order: toProtoAdminOrder(ord)}, nil
}

// RequestPickup runs the request-pickup transition.
func (s *AdminServer) RequestPickup(ctx context.Context, req *adminv1.RequestPickupRequest) (*adminv1.RequestPickupResponse, error) {
	if _, err := auth.RequireAdmin(ctx, s.Repos.Users); err != nil {
		return nil, err
	}
	p, err := s.Lifecycle.RequestPickup(ctx, req.GetCylinderSerial())
	if err != nil {
		return nil, toStatus(err)
	}
	return &adminv1.RequestPickupResponse{Pickup: toProtoAdminPickup(p)}, nil
}

// GetStatistics returns the dashboard counters derived from the full
// cylinder snapshot.
func (s *AdminServer) GetStatistics(ctx context.Context, _ *adminv1.GetStatisticsRequest) (*adminv1.GetStatisticsResponse, error) {
	if _, err := auth.RequireAdmin(ctx, s.Repos.Users); err != nil {
		return nil, err
	}
	list, err := s.Repos.Cylinders.List(ctx)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "list cylinders: %v", err)
	}
	sum := stats.Summarize(list)
	return &adminv1.GetStatisticsResponse{
		EmptyAtWarehouse: int32(sum.EmptyAtWarehouse),
		AtCustomer:       int32(sum.AtCustomer),
		Total:            int32(sum.Total),
	}, nil
}

// ListCylinders returns cylinders filtered by serial substring and status.
func (s *AdminServer) ListCylinders(ctx context.Context, req *adminv1.ListCylindersRequest) (*adminv1.ListCylindersResponse, error) {
	if _, err := auth.RequireAdmin(ctx, s.Repos.Users); err != nil {
		return nil, err
	}
	list, err := s.Repos.Cylinders.List(ctx)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "list cylinders: %v", err)
	}
	filtered := stats.FilterCylinders(list, req.GetSerialContains(), models.CylinderStatus(req.GetStatus()))
	out := make([]*adminv1.Cylinder, 0, len(filtered))
	for i := range filtered {
		out = append(out, toProtoCylinder(&filtered[i]))
	}
	return &adminv1.ListCylindersResponse{Cylinders: out}, nil
}

// ListOrders retrieves paginated orders, most recent first.
func (s *AdminServer) ListOrders(ctx context.Context, req *adminv1.ListOrdersRequest) (*adminv1.ListOrdersResponse, error) {
	if _, err := auth.RequireAdmin(ctx, s.Repos.Users); err != nil {
		return nil, err
	}

	pageSize, afterSeconds, afterID, err := pageParams(req.GetPageSize(), req.GetPageToken())
	if err != nil {
		return nil, err
	}

	list, err := s.Repos.Orders.ListPage(ctx, pageSize, afterSeconds, afterID)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "list orders: %v", err)
	}

	out := make([]*adminv1.Order, 0, len(list))
	for i := range list {
		out = append(out, toProtoAdminOrder(&list[i]))
	}

	nextToken := ""
	if len(list) == pageSize && len(list) > 0 {
		last := list[len(list)-1]
		sec, err := dateToUnixSeconds(last.OrderDate)
		if err == nil {
			nextToken = encodeCursor(sec, last.ID)
		}
	}

	return &adminv1.ListOrdersResponse{Orders: out, NextPageToken: nextToken}, nil
}

// ListPickups retrieves paginated pickups, most recent first.
func (s *AdminServer) ListPickups(ctx context.Context, req *adminv1.ListPickupsRequest) (*adminv1.ListPickupsResponse, error) {
	if _, err := auth.RequireAdmin(ctx, s.Repos.Users); err != nil {
		return nil, err
	}

	pageSize, afterSeconds, afterID, err := pageParams(req.GetPageSize(), req.GetPageToken())
	if err != nil {
		return nil, err
	}

	list, err := s.Repos.Pickups.ListPage(ctx, pageSize, afterSeconds, afterID)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "list pickups: %v", err)
	}

	out := make([]*adminv1.Pickup, 0, len(list))
	for i := range list {
		out = append(out, toProtoAdminPickup(&list[i]))
	}

	nextToken := ""
	if len(list) == pageSize && len(list) > 0 {
		last := list[len(list)-1]
		sec, err := dateToUnixSeconds(last.CreatedAt)
		if err == nil {
			nextToken = encodeCursor(sec, last.ID)
		}
	}

	return &adminv1.ListPickupsResponse{Pickups: out, NextPageToken: nextToken}, nil
}

// pageParams validates page size and decodes the optional cursor.
func pageParams(size int32, token string) (int, int64, int64, error) {
	pageSize := defaultPageSize
	if size > 0 {
		pageSize = int(size)
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	var afterSeconds, afterID int64
	if token != "" {
		if err := decodeCursor(token, &afterSeconds, &afterID); err != nil {
			return 0, 0, 0, status.Errorf(codes.InvalidArgument, "invalid page_token: %v", err)
		}
	}
	return pageSize, afterSeconds, afterID, nil
}

func toProtoCylinder(c *models.Cylinder) *adminv1.Cylinder {
	if c == nil {
		return nil
	}
	out := &adminv1.Cylinder{
		SerialNumber: c.SerialNumber,
		Status:       string(c.Status),
		Location:     string(c.Location),
		CreatedAt:    c.CreatedAt,
	}
	if c.OrderID != nil {
		out.OrderId = *c.OrderID
	}
	return out
}

func toProtoAdminOrder(o *models.Order) *adminv1.Order {
	if o == nil {
		return nil
	}
	return &adminv1.Order{
		OrderId:         o.ID,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		CustomerAddress: o.CustomerAddress,
		CylinderSerial:  o.CylinderSerial,
		Status:          string(o.Status),
		OrderDate:       o.OrderDate,
	}
}

func toProtoAdminPickup(p *models.Pickup) *adminv1.Pickup {
	if p == nil {
		return nil
	}
	return &adminv1.Pickup{
		PickupId:        p.ID,
		CylinderSerial:  p.CylinderSerial,
		CustomerName:    p.CustomerName,
		CustomerPhone:   p.CustomerPhone,
		CustomerAddress: p.CustomerAddress,
		PickupStatus:    string(p.PickupStatus),
		CreatedAt:       p.CreatedAt,
	}
}

// encodeCursor builds an opaque next_page_token from unix seconds and row id.
func encodeCursor(seconds int64, id int64) string {
	raw := strconv.FormatInt(seconds, 10) + cursorSeparator + strconv.FormatInt(id, 10)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// decodeCursor parses an opaque page_token into unix seconds and row id.
func decodeCursor(token string, seconds *int64, id *int64) error {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return fmt.Errorf("base64: %w", err)
	}
	parts := strings.SplitN(string(b), cursorSeparator, 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid cursor format")
	}
	sec, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return fmt.Errorf("parse seconds: %w", err)
	}
	pid, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return fmt.Errorf("parse id: %w", err)
	}
	*seconds = sec
	*id = pid
	return nil
}

// dateToUnixSeconds parses stored dates into unix seconds.
// Supports RFC3339 and the SQLite CURRENT_TIMESTAMP format (UTC).
func dateToUnixSeconds(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Unix(), nil
	}
	if t, err := time.ParseInLocation(sqliteDateFormat, s, time.UTC); err == nil {
		return t.Unix(), nil
	}
	return 0, fmt.Errorf("unsupported date format: %q", s)
}
