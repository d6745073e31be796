package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/unitravel/tour-booking-api/internal/model"
)

// ErrPackageNotFound is returned when a travel package id cannot be
// resolved.
var ErrPackageNotFound = errors.New("travel package not found")

// PackageRepo provides CRUD operations for travel packages.
type PackageRepo struct {
	db *sql.DB
}

func NewPackageRepo(db *sql.DB) *PackageRepo { return &PackageRepo{db: db} }

const packageCols = `id, name, description, price, is_active, created_at`

func scanPackage(s interface{ Scan(...interface{}) error }) (model.TravelPackage, error) {
	var p model.TravelPackage
	err := s.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.IsActive, &p.CreatedAt)
	return p, err
}

// Create inserts a package and returns its ID.
func (r *PackageRepo) Create(ctx context.Context, p *model.TravelPackage) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO travel_packages (name, description, price, is_active) VALUES (?,?,?,?)`,
		p.Name, p.Description, p.Price, p.IsActive)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update rewrites the mutable columns of a package.
func (r *PackageRepo) Update(ctx context.Context, p *model.TravelPackage) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE travel_packages SET name=?, description=?, price=?, is_active=? WHERE id=?`,
		p.Name, p.Description, p.Price, p.IsActive, p.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPackageNotFound
	}
	return nil
}

// Delete removes a package.  Bookings cascade via foreign keys.
func (r *PackageRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM travel_packages WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPackageNotFound
	}
	return nil
}

// GetActiveByID returns a package only when it is open for booking.
func (r *PackageRepo) GetActiveByID(ctx context.Context, id uint64) (model.TravelPackage, error) {
	p, err := scanPackage(r.db.QueryRowContext(ctx,
		`SELECT `+packageCols+` FROM travel_packages WHERE id=? AND is_active=1 LIMIT 1`, id))
	if err == sql.ErrNoRows {
		return model.TravelPackage{}, ErrPackageNotFound
	}
	return p, err
}

// ListActive returns all bookable packages, newest first.
func (r *PackageRepo) ListActive(ctx context.Context) ([]model.TravelPackage, error) {
	return r.list(ctx, `SELECT `+packageCols+` FROM travel_packages WHERE is_active=1 ORDER BY created_at DESC`)
}

// ListAll returns every package for the admin inventory view.
func (r *PackageRepo) ListAll(ctx context.Context) ([]model.TravelPackage, error) {
	return r.list(ctx, `SELECT `+packageCols+` FROM travel_packages ORDER BY created_at DESC`)
}

func (r *PackageRepo) list(ctx context.Context, q string) ([]model.TravelPackage, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	packages := make([]model.TravelPackage, 0)
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		packages = append(packages, p)
	}
	return packages, rows.Err()
}
