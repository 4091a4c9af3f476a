//go:build grpcserver

package grpcserver

import (
	"context"

	dispatcherv1 "cylinderManagement/api/dispatcher/v1"
	"cylinderManagement/internal/auth"
	"cylinderManagement/internal/lifecycle"
	"cylinderManagement/models"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DispatcherServer implements the dispatcher dashboard.
type DispatcherServer struct {
	dispatcherv1.UnimplementedDispatcherServiceServer
	Repos     Repos
	Lifecycle *lifecycle.Service
}

// ListPendingDeliveries returns Filled orders, oldest first.
func (s *DispatcherServer) ListPendingDeliveries(ctx context.Context, _ *dispatcherv1.ListPendingDeliveriesRequest) (*dispatcherv1.ListPendingDeliveriesResponse, error) {
	if _, err := auth.RequireDispatcher(ctx); err != nil {
		return nil, err
	}
	list, err := s.Repos.Orders.ListByStatus(ctx, models.OrderStatusFilled)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "list orders: %v", err)
	}
	out := make([]*dispatcherv1.Order, 0, len(list))
	for i := range list {
		out = append(out, toProtoDispatcherOrder(&list[i]))
	}
	return &dispatcherv1.ListPendingDeliveriesResponse{Orders: out}, nil
}

// ListPendingPickups returns Assigned Pickup rows, oldest first.
func (s *DispatcherServer) ListPendingPickups(ctx context.Context, _ *dispatcherv1.ListPendingPickupsRequest) (*dispatcherv1.ListPendingPickupsResponse, error) {
	if _, err := auth.RequireDispatcher(ctx); err != nil {
		return nil, err
	}
	list, err := s.Repos.Pickups.ListByStatus(ctx, models.PickupStatusAssigned)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "list pickups: %v", err)
	}
	out := make([]*dispatcherv1.Pickup, 0, len(list))
	for i := range list {
		out = append(out, toProtoDispatcherPickup(&list[i]))
	}
	return &dispatcherv1.ListPendingPickupsResponse{Pickups: out}, nil
}

// MarkDelivered runs the delivery transition and returns the updated order.
func (s *DispatcherServer) MarkDelivered(ctx context.Context, req *dispatcherv1.MarkDeliveredRequest) (*dispatcherv1.MarkDeliveredResponse, error) {
	if _, err := auth.RequireDispatcher(ctx); err != nil {
		return nil, err
	}
	if req == nil || req.GetOrderId() == 0 {
		return nil, status.Error(codes.InvalidArgument, "order_id is required")
	}
	if err := s.Lifecycle.MarkDelivered(ctx, req.GetOrderId()); err != nil {
		return nil, toStatus(err)
	}
	ord, err := s.Repos.Orders.GetByID(ctx, req.GetOrderId())
	if err != nil {
		return nil, status.Errorf(codes.Internal, "get order: %v", err)
	}
	return &dispatcherv1.MarkDeliveredResponse{Order: toProtoDispatcherOrder(ord)}, nil
}

// MarkPickedUp completes a pickup and returns the updated row.
func (s *DispatcherServer) MarkPickedUp(ctx context.Context, req *dispatcherv1.MarkPickedUpRequest) (*dispatcherv1.MarkPickedUpResponse, error) {
	if _, err := auth.RequireDispatcher(ctx); err != nil {
		return nil, err
	}
	if req == nil || req.GetPickupId() == 0 {
		return nil, status.Error(codes.InvalidArgument, "pickup_id is required")
	}
	if err := s.Lifecycle.MarkPickedUp(ctx, req.GetPickupId()); err != nil {
		return nil, toStatus(err)
	}
	p, err := s.Repos.Pickups.GetByID(ctx, req.GetPickupId())
	if err != nil {
		return nil, status.Errorf(codes.Internal, "get pickup: %v", err)
	}
	return &dispatcherv1.MarkPickedUpResponse{Pickup: toProtoDispatcherPickup(p)}, nil
}

func toProtoDispatcherOrder(o *models.Order) *dispatcherv1.Order {
	if o == nil {
		return nil
	}
	return &dispatcherv1.Order{
		OrderId:         o.ID,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		CustomerAddress: o.CustomerAddress,
		CylinderSerial:  o.CylinderSerial,
		Status:          string(o.Status),
		OrderDate:       o.OrderDate,
	}
}

func toProtoDispatcherPickup(p *models.Pickup) *dispatcherv1.Pickup {
	if p == nil {
		return nil
	}
	return &dispatcherv1.Pickup{
		PickupId:        p.ID,
		CylinderSerial:  p.CylinderSerial,
		CustomerName:    p.CustomerName,
		CustomerPhone:   p.CustomerPhone,
		CustomerAddress: p.CustomerAddress,
		PickupStatus:    string(p.PickupStatus),
		CreatedAt:       p.CreatedAt,
	}
}
