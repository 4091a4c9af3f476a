package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"cylinderManagement/models"
)

// ErrDuplicateSerial reports an attempt to register a serial number that
// already exists.
var ErrDuplicateSerial = errors.New("serial number already registered")

// CylinderRepository is the repository for Cylinder entities, keyed by
// serial number rather than a generated id.
type CylinderRepository struct {
	db *sql.DB
}

func NewCylinderRepository(db *sql.DB) *CylinderRepository {
	return &CylinderRepository{db: db}
}

// Create inserts a new cylinder in its initial state (empty, Warehouse).
// Returns ErrDuplicateSerial when the serial is already registered.
func (r *CylinderRepository) Create(ctx context.Context, serial string) (*models.Cylinder, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `INSERT INTO cylinders (serial_number, status, location) VALUES (?,?,?)`,
		serial, string(models.CylinderStatusEmpty), string(models.LocationWarehouse))
	if err != nil {
		var serr sqlite3.Error
		if errors.As(err, &serr) &&
			(serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey || serr.ExtendedCode == sqlite3.ErrConstraintUnique) {
			return nil, ErrDuplicateSerial
		}
		return nil, err
	}
	c, err := r.GetBySerial(ctx, serial)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("created cylinder not found: serial=%s", serial)
	}
	return c, nil
}

// GetBySerial fetches a cylinder by its serial number. Returns nil when absent.
func (r *CylinderRepository) GetBySerial(ctx context.Context, serial string) (*models.Cylinder, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var c models.Cylinder
	var status, location string
	var orderID sql.NullInt64
	err := r.db.QueryRowContext(ctx, `SELECT serial_number, status, location, order_id, created_at FROM cylinders WHERE serial_number = ?`, serial).
		Scan(&c.SerialNumber, &status, &location, &orderID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	c.Status = models.CylinderStatus(status)
	c.Location = models.CylinderLocation(location)
	if orderID.Valid {
		v := orderID.Int64
		c.OrderID = &v
	}
	return &c, nil
}

// List returns all cylinders ordered by serial number.
func (r *CylinderRepository) List(ctx context.Context) ([]models.Cylinder, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT serial_number, status, location, order_id, created_at FROM cylinders ORDER BY serial_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCylinders(rows)
}

// ListByStatusAndLocation returns cylinders matching both fields, ordered by
// serial number. Used for the order/pickup selection lists.
func (r *CylinderRepository) ListByStatusAndLocation(ctx context.Context, status models.CylinderStatus, location models.CylinderLocation) ([]models.Cylinder, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT serial_number, status, location, order_id, created_at FROM cylinders WHERE status = ? AND location = ? ORDER BY serial_number`,
		string(status), string(location))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCylinders(rows)
}

// UpdateState sets both status and location in a single statement.
// Returns sql.ErrNoRows when the serial does not exist.
func (r *CylinderRepository) UpdateState(ctx context.Context, serial string, status models.CylinderStatus, location models.CylinderLocation) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `UPDATE cylinders SET status = ?, location = ? WHERE serial_number = ?`,
		string(status), string(location), serial)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateStatus sets the status only, leaving location untouched.
func (r *CylinderRepository) UpdateStatus(ctx context.Context, serial string, status models.CylinderStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `UPDATE cylinders SET status = ? WHERE serial_number = ?`, string(status), serial)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetOrderID links (or, with nil, unlinks) the cylinder's current order.
func (r *CylinderRepository) SetOrderID(ctx context.Context, serial string, orderID *int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var v interface{}
	if orderID != nil {
		v = *orderID
	}
	res, err := r.db.ExecContext(ctx, `UPDATE cylinders SET order_id = ? WHERE serial_number = ?`, v, serial)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func collectCylinders(rows *sql.Rows) ([]models.Cylinder, error) {
	var out []models.Cylinder
	for rows.Next() {
		var c models.Cylinder
		var status, location string
		var orderID sql.NullInt64
		if err := rows.Scan(&c.SerialNumber, &status, &location, &orderID, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Status = models.CylinderStatus(status)
		c.Location = models.CylinderLocation(location)
		if orderID.Valid {
			v := orderID.Int64
			c.OrderID = &v
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
