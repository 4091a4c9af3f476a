package models

// CylinderStatus represents where a cylinder is in the fill/delivery cycle.
// The literal strings are stored in the DB and compared by clients; they must
// not be renamed.
type CylinderStatus string

const (
	CylinderStatusEmpty          CylinderStatus = "empty"
	CylinderStatusOrdered        CylinderStatus = "ordered"
	CylinderStatusFilled         CylinderStatus = "filled"
	CylinderStatusDispatched     CylinderStatus = "dispatched"
	CylinderStatusDelivered      CylinderStatus = "delivered"
	CylinderStatusAssignedPickup CylinderStatus = "assigned_pickup"
	CylinderStatusPickupDone     CylinderStatus = "pickup_done"
)

// CylinderLocation is where the cylinder physically is. Case-sensitive.
type CylinderLocation string

const (
	LocationWarehouse CylinderLocation = "Warehouse"
	LocationCustomer  CylinderLocation = "Customer"
)

// Cylinder represents a physical gas cylinder tracked by serial number.
// OrderID has a one-to-one relation to Order while a cycle is in progress
// (nullable when the cylinder sits empty in the warehouse).
type Cylinder struct {
	SerialNumber string           `db:"serial_number" json:"serial_number"`
	Status       CylinderStatus   `db:"status" json:"status"`
	Location     CylinderLocation `db:"location" json:"location"`
	OrderID      *int64           `db:"order_id" json:"order_id,omitempty"`
	CreatedAt    string           `db:"created_at" json:"created_at"`
}
