package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cylinderManagement/models"
)

// PickupRepository is the repository for Pickup entities.
type PickupRepository struct {
	db *sql.DB
}

func NewPickupRepository(db *sql.DB) *PickupRepository {
	return &PickupRepository{db: db}
}

// Create inserts a new pickup. Status defaults to 'Assigned Pickup' if empty.
func (r *PickupRepository) Create(ctx context.Context, p *models.Pickup) (*models.Pickup, error) {
	if p == nil {
		return nil, errors.New("pickup is nil")
	}
	st := p.PickupStatus
	if st == "" {
		st = models.PickupStatusAssigned
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `INSERT INTO pickups (cylinder_serial, customer_name, customer_phone, customer_address, pickup_status) VALUES (?,?,?,?,?)`,
		p.CylinderSerial, p.CustomerName, p.CustomerPhone, p.CustomerAddress, string(st))
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	p2, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p2 == nil {
		return nil, fmt.Errorf("created pickup not found: id=%d", id)
	}
	return p2, nil
}

// GetByID fetches a pickup by its ID. Returns nil when absent.
func (r *PickupRepository) GetByID(ctx context.Context, id int64) (*models.Pickup, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanPickup(r.db.QueryRowContext(ctx, `SELECT pickup_id, cylinder_serial, customer_name, customer_phone, customer_address, pickup_status, created_at FROM pickups WHERE pickup_id = ?`, id))
}

// List returns pickups most recent first.
func (r *PickupRepository) List(ctx context.Context, limit, offset int) ([]models.Pickup, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT pickup_id, cylinder_serial, customer_name, customer_phone, customer_address, pickup_status, created_at FROM pickups ORDER BY created_at DESC, pickup_id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPickups(rows)
}

// ListByStatus returns pickups with the given status, oldest first.
func (r *PickupRepository) ListByStatus(ctx context.Context, status models.PickupStatus) ([]models.Pickup, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT pickup_id, cylinder_serial, customer_name, customer_phone, customer_address, pickup_status, created_at FROM pickups WHERE pickup_status = ? ORDER BY created_at ASC, pickup_id ASC`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPickups(rows)
}

// LatestBySerial returns the most recent pickup referencing the given
// cylinder serial, or nil when none exists.
func (r *PickupRepository) LatestBySerial(ctx context.Context, serial string) (*models.Pickup, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanPickup(r.db.QueryRowContext(ctx, `SELECT pickup_id, cylinder_serial, customer_name, customer_phone, customer_address, pickup_status, created_at FROM pickups WHERE cylinder_serial = ? ORDER BY created_at DESC, pickup_id DESC LIMIT 1`, serial))
}

// UpdateStatus updates the status of a pickup.
// Returns sql.ErrNoRows when the pickup does not exist.
func (r *PickupRepository) UpdateStatus(ctx context.Context, id int64, status models.PickupStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `UPDATE pickups SET pickup_status = ? WHERE pickup_id = ?`, string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanPickup(row *sql.Row) (*models.Pickup, error) {
	var p models.Pickup
	var status string
	var serial sql.NullString
	err := row.Scan(&p.ID, &serial, &p.CustomerName, &p.CustomerPhone, &p.CustomerAddress, &status, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	p.PickupStatus = models.PickupStatus(status)
	if serial.Valid {
		p.CylinderSerial = serial.String
	}
	return &p, nil
}

func collectPickups(rows *sql.Rows) ([]models.Pickup, error) {
	var out []models.Pickup
	for rows.Next() {
		var p models.Pickup
		var status string
		var serial sql.NullString
		if err := rows.Scan(&p.ID, &serial, &p.CustomerName, &p.CustomerPhone, &p.CustomerAddress, &status, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.PickupStatus = models.PickupStatus(status)
		if serial.Valid {
			p.CylinderSerial = serial.String
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
