package repository

import (
	"context"

	"cylinderManagement/models"
)

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}

// CylinderRepositoryI defines operations on Cylinder entities.
type CylinderRepositoryI interface {
	Create(ctx context.Context, serial string) (*models.Cylinder, error)
	GetBySerial(ctx context.Context, serial string) (*models.Cylinder, error)
	List(ctx context.Context) ([]models.Cylinder, error)
	ListByStatusAndLocation(ctx context.Context, status models.CylinderStatus, location models.CylinderLocation) ([]models.Cylinder, error)
	UpdateState(ctx context.Context, serial string, status models.CylinderStatus, location models.CylinderLocation) error
	UpdateStatus(ctx context.Context, serial string, status models.CylinderStatus) error
	SetOrderID(ctx context.Context, serial string, orderID *int64) error
}

// OrderRepositoryI defines operations on Order entities.
type OrderRepositoryI interface {
	Create(ctx context.Context, o *models.Order) (*models.Order, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, limit, offset int) ([]models.Order, error)
	ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	LatestDeliveredBySerial(ctx context.Context, serial string) (*models.Order, error)
	LatestBySerial(ctx context.Context, serial string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error
}

// PickupRepositoryI defines operations on Pickup entities.
type PickupRepositoryI interface {
	Create(ctx context.Context, p *models.Pickup) (*models.Pickup, error)
	GetByID(ctx context.Context, id int64) (*models.Pickup, error)
	List(ctx context.Context, limit, offset int) ([]models.Pickup, error)
	ListByStatus(ctx context.Context, status models.PickupStatus) ([]models.Pickup, error)
	LatestBySerial(ctx context.Context, serial string) (*models.Pickup, error)
	UpdateStatus(ctx context.Context, id int64, status models.PickupStatus) error
}
