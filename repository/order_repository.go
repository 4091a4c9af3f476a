package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cylinderManagement/models"
)

// OrderRepository is the core repository for Order entities.
type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts a new order. Status defaults to 'Ordered' if empty.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) (*models.Order, error) {
	if o == nil {
		return nil, errors.New("order is nil")
	}
	st := o.Status
	if st == "" {
		st = models.OrderStatusOrdered
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	// Insert then query back to capture order_date.
	res, err := r.db.ExecContext(ctx, `INSERT INTO orders (customer_name, customer_phone, customer_address, cylinder_serial, status) VALUES (?,?,?,?,?)`,
		o.CustomerName, o.CustomerPhone, o.CustomerAddress, o.CylinderSerial, string(st))
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	o2, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o2 == nil {
		return nil, fmt.Errorf("created order not found: id=%d", id)
	}
	return o2, nil
}

// GetByID fetches an order by its ID. Returns nil when absent.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanOrder(r.db.QueryRowContext(ctx, `SELECT order_id, customer_name, customer_phone, customer_address, cylinder_serial, status, order_date FROM orders WHERE order_id = ?`, id))
}

// List returns orders most recent first.
func (r *OrderRepository) List(ctx context.Context, limit, offset int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT order_id, customer_name, customer_phone, customer_address, cylinder_serial, status, order_date FROM orders ORDER BY order_date DESC, order_id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

// ListByStatus returns orders with the given status, oldest first, which is
// the order the filler and dispatcher queues work through them.
func (r *OrderRepository) ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT order_id, customer_name, customer_phone, customer_address, cylinder_serial, status, order_date FROM orders WHERE status = ? ORDER BY order_date ASC, order_id ASC`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

// LatestDeliveredBySerial returns the most recent Delivered order referencing
// the given cylinder serial (order_date desc, id desc tiebreak), or nil when
// the cylinder has no delivery record.
func (r *OrderRepository) LatestDeliveredBySerial(ctx context.Context, serial string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanOrder(r.db.QueryRowContext(ctx, `SELECT order_id, customer_name, customer_phone, customer_address, cylinder_serial, status, order_date FROM orders WHERE cylinder_serial = ? AND status = ? ORDER BY order_date DESC, order_id DESC LIMIT 1`,
		serial, string(models.OrderStatusDelivered)))
}

// LatestBySerial returns the most recent order of any status referencing the
// given cylinder serial, or nil when none exists.
func (r *OrderRepository) LatestBySerial(ctx context.Context, serial string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanOrder(r.db.QueryRowContext(ctx, `SELECT order_id, customer_name, customer_phone, customer_address, cylinder_serial, status, order_date FROM orders WHERE cylinder_serial = ? ORDER BY order_date DESC, order_id DESC LIMIT 1`, serial))
}

// UpdateStatus updates the status of an order.
// Returns sql.ErrNoRows when the order does not exist.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = ? WHERE order_id = ?`, string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an order by ID.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE order_id = ?`, id)
	return err
}

func scanOrder(row *sql.Row) (*models.Order, error) {
	var o models.Order
	var status string
	var serial sql.NullString
	err := row.Scan(&o.ID, &o.CustomerName, &o.CustomerPhone, &o.CustomerAddress, &serial, &status, &o.OrderDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	o.Status = models.OrderStatus(status)
	if serial.Valid {
		o.CylinderSerial = serial.String
	}
	return &o, nil
}

func collectOrders(rows *sql.Rows) ([]models.Order, error) {
	var out []models.Order
	for rows.Next() {
		var o models.Order
		var status string
		var serial sql.NullString
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.CustomerPhone, &o.CustomerAddress, &serial, &status, &o.OrderDate); err != nil {
			return nil, err
		}
		o.Status = models.OrderStatus(status)
		if serial.Valid {
			o.CylinderSerial = serial.String
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
