package repository

import (
	"context"
	"database/sql"
	"time"

	"cylinderManagement/models"
)

// ListPage returns a page of orders ordered by order_date desc, id desc.
// Uses keyset pagination with a numeric cursor (order_date unix seconds, id).
func (r *OrderRepository) ListPage(ctx context.Context, pageSize int, afterSeconds int64, afterID int64) ([]models.Order, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rows *sql.Rows
	var err error
	if afterSeconds > 0 && afterID > 0 {
		// Keyset pagination using numeric time to avoid string-format pitfalls
		rows, err = r.db.QueryContext(ctx, `
SELECT order_id, customer_name, customer_phone, customer_address, cylinder_serial, status, order_date
FROM orders
WHERE (
        CAST(strftime('%s', order_date) AS INTEGER) < ?
        OR (CAST(strftime('%s', order_date) AS INTEGER) = ? AND order_id < ?)
      )
ORDER BY order_date DESC, order_id DESC
LIMIT ?`, afterSeconds, afterSeconds, afterID, pageSize)
	} else {
		rows, err = r.db.QueryContext(ctx, `
SELECT order_id, customer_name, customer_phone, customer_address, cylinder_serial, status, order_date
FROM orders
ORDER BY order_date DESC, order_id DESC
LIMIT ?`, pageSize)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectOrders(rows)
}

// ListPage returns a page of pickups ordered by created_at desc, id desc,
// with the same keyset cursor scheme as orders.
func (r *PickupRepository) ListPage(ctx context.Context, pageSize int, afterSeconds int64, afterID int64) ([]models.Pickup, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rows *sql.Rows
	var err error
	if afterSeconds > 0 && afterID > 0 {
		rows, err = r.db.QueryContext(ctx, `
SELECT pickup_id, cylinder_serial, customer_name, customer_phone, customer_address, pickup_status, created_at
FROM pickups
WHERE (
        CAST(strftime('%s', created_at) AS INTEGER) < ?
        OR (CAST(strftime('%s', created_at) AS INTEGER) = ? AND pickup_id < ?)
      )
ORDER BY created_at DESC, pickup_id DESC
LIMIT ?`, afterSeconds, afterSeconds, afterID, pageSize)
	} else {
		rows, err = r.db.QueryContext(ctx, `
SELECT pickup_id, cylinder_serial, customer_name, customer_phone, customer_address, pickup_status, created_at
FROM pickups
ORDER BY created_at DESC, pickup_id DESC
LIMIT ?`, pageSize)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPickups(rows)
}
