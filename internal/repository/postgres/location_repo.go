package postgres

import (
	"context"
	"database/sql"

	"weeklydinner/internal/domain"
)

type locationRepository struct {
	DB *sql.DB
}

func NewLocationRepository(db *sql.DB) domain.LocationRepository {
	return &locationRepository{DB: db}
}

func (r *locationRepository) List(ctx context.Context) ([]*domain.Location, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT location, lat, lng FROM locations ORDER BY location`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locs []*domain.Location
	for rows.Next() {
		l := &domain.Location{}
		if err := rows.Scan(&l.Name, &l.Lat, &l.Lng); err != nil {
			return nil, err
		}
		locs = append(locs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return locs, nil
}

func (r *locationRepository) Upsert(ctx context.Context, loc *domain.Location) error {
	query := `
		INSERT INTO locations (location, lat, lng)
		VALUES ($1, $2, $3)
		ON CONFLICT (location) DO UPDATE SET lat = EXCLUDED.lat, lng = EXCLUDED.lng
	`
	_, err := r.DB.ExecContext(ctx, query, loc.Name, loc.Lat, loc.Lng)
	return err
}
