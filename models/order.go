package models

// OrderStatus represents the current progress of a customer order.
// Note the capitalized wire values; clients compare these for equality.
type OrderStatus string

const (
	OrderStatusOrdered    OrderStatus = "Ordered"
	OrderStatusFilled     OrderStatus = "Filled"
	OrderStatusDispatched OrderStatus = "Dispatched"
	OrderStatusDelivered  OrderStatus = "Delivered"
)

// Order represents a customer request for a filled cylinder, linked to
// exactly one cylinder serial. Customer fields are captured once at creation
// and not re-validated downstream.
type Order struct {
	ID              int64       `db:"order_id" json:"order_id"`
	CustomerName    string      `db:"customer_name" json:"customer_name"`
	CustomerPhone   string      `db:"customer_phone" json:"customer_phone"`
	CustomerAddress string      `db:"customer_address" json:"customer_address"`
	CylinderSerial  string      `db:"cylinder_serial" json:"cylinder_serial"`
	Status          OrderStatus `db:"status" json:"status"`
	OrderDate       string      `db:"order_date" json:"order_date"`
}
