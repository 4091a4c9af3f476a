package models

// PickupStatus represents the progress of a cylinder retrieval.
// The wire values contain a space; they must match exactly.
type PickupStatus string

const (
	PickupStatusAssigned PickupStatus = "Assigned Pickup"
	PickupStatusDone     PickupStatus = "Pickup Done"
)

// Pickup represents a request to retrieve a used cylinder from a customer.
// Customer fields are copied from the most recent Delivered order for the
// cylinder, not re-entered.
type Pickup struct {
	ID              int64        `db:"pickup_id" json:"pickup_id"`
	CylinderSerial  string       `db:"cylinder_serial" json:"cylinder_serial"`
	CustomerName    string       `db:"customer_name" json:"customer_name"`
	CustomerPhone   string       `db:"customer_phone" json:"customer_phone"`
	CustomerAddress string       `db:"customer_address" json:"customer_address"`
	PickupStatus    PickupStatus `db:"pickup_status" json:"pickup_status"`
	CreatedAt       string       `db:"created_at" json:"created_at"`
}
