package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/unitravel/tour-booking-api/internal/model"
)

// ErrSpotNotFound is returned when a tourist spot id cannot be resolved.
var ErrSpotNotFound = errors.New("tourist spot not found")

// SpotRepo provides CRUD operations for the tourist spot guide.
type SpotRepo struct {
	db *sql.DB
}

func NewSpotRepo(db *sql.DB) *SpotRepo { return &SpotRepo{db: db} }

const spotCols = `id, name, description, COALESCE(image_url,''), COALESCE(highlights,''),
	COALESCE(travel_info,''), COALESCE(best_time,''), COALESCE(safety_info,''), created_by, created_at, updated_at`

func scanSpot(s interface{ Scan(...interface{}) error }) (model.TouristSpot, error) {
	var sp model.TouristSpot
	err := s.Scan(&sp.ID, &sp.Name, &sp.Description, &sp.ImageURL, &sp.Highlights,
		&sp.TravelInfo, &sp.BestTime, &sp.SafetyInfo, &sp.CreatedBy, &sp.CreatedAt, &sp.UpdatedAt)
	return sp, err
}

// Create inserts a spot and returns its ID.
func (r *SpotRepo) Create(ctx context.Context, sp *model.TouristSpot) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tourist_spots (name, description, image_url, highlights, travel_info, best_time, safety_info, created_by)
		 VALUES (?,?,?,?,?,?,?,?)`,
		sp.Name, sp.Description, sp.ImageURL, sp.Highlights, sp.TravelInfo, sp.BestTime, sp.SafetyInfo, sp.CreatedBy)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update rewrites the editorial fields of a spot.
func (r *SpotRepo) Update(ctx context.Context, sp *model.TouristSpot) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tourist_spots SET name=?, description=?, image_url=?, highlights=?, travel_info=?, best_time=?, safety_info=?
		 WHERE id=?`,
		sp.Name, sp.Description, sp.ImageURL, sp.Highlights, sp.TravelInfo, sp.BestTime, sp.SafetyInfo, sp.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSpotNotFound
	}
	return nil
}

// Delete removes a spot.
func (r *SpotRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tourist_spots WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSpotNotFound
	}
	return nil
}

// GetByID returns one spot.
func (r *SpotRepo) GetByID(ctx context.Context, id uint64) (model.TouristSpot, error) {
	sp, err := scanSpot(r.db.QueryRowContext(ctx,
		`SELECT `+spotCols+` FROM tourist_spots WHERE id=? LIMIT 1`, id))
	if err == sql.ErrNoRows {
		return model.TouristSpot{}, ErrSpotNotFound
	}
	return sp, err
}

// List returns all spots, newest first.
func (r *SpotRepo) List(ctx context.Context) ([]model.TouristSpot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+spotCols+` FROM tourist_spots ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	spots := make([]model.TouristSpot, 0)
	for rows.Next() {
		sp, err := scanSpot(rows)
		if err != nil {
			return nil, err
		}
		spots = append(spots, sp)
	}
	return spots, rows.Err()
}
