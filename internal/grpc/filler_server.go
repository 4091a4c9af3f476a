//go:build grpcserver

package grpcserver

import (
	"context"

	fillerv1 "cylinderManagement/api/filler/v1"
	"cylinderManagement/internal/auth"
	"cylinderManagement/internal/lifecycle"
	"cylinderManagement/models"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FillerServer implements the filler dashboard.
type FillerServer struct {
	fillerv1.UnimplementedFillerServiceServer
	Repos     Repos
	Lifecycle *lifecycle.Service
}

// ListPendingOrders returns the Ordered queue, oldest first.
func (s *FillerServer) ListPendingOrders(ctx context.Context, _ *fillerv1.ListPendingOrdersRequest) (*fillerv1.ListPendingOrdersResponse, error) {
	if _, err := auth.RequireFiller(ctx); err != nil {
		return nil, err
	}
	list, err := s.Repos.Orders.ListByStatus(ctx, models.OrderStatusOrdered)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "list orders: %v", err)
	}
	out := make([]*fillerv1.Order, 0, len(list))
	for i := range list {
		out = append(out, toProtoFillerOrder(&list[i]))
	}
	return &fillerv1.ListPendingOrdersResponse{Orders: out}, nil
}

// MarkFilled runs the fill transition and returns the updated order.
func (s *FillerServer) MarkFilled(ctx context.Context, req *fillerv1.MarkFilledRequest) (*fillerv1.MarkFilledResponse, error) {
	if _, err := auth.RequireFiller(ctx); err != nil {
		return nil, err
	}
	if req == nil || req.GetOrderId() == 0 {
		return nil, status.Error(codes.InvalidArgument, "order_id is required")
	}
	if err := s.Lifecycle.MarkFilled(ctx, req.GetOrderId()); err != nil {
		return nil, toStatus(err)
	}
	ord, err := s.Repos.Orders.GetByID(ctx, req.GetOrderId())
	if err != nil {
		return nil, status.Errorf(codes.Internal, "get order: %v", err)
	}
	return &fillerv1.MarkFilledResponse{Order: toProtoFillerOrder(ord)}, nil
}

func toProtoFillerOrder(o *models.Order) *fillerv1.Order {
	if o == nil {
		return nil
	}
	return &fillerv1.Order{
		OrderId:         o.ID,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		CustomerAddress: o.CustomerAddress,
		CylinderSerial:  o.CylinderSerial,
		Status:          string(o.Status),
		OrderDate:       o.OrderDate,
	}
}
