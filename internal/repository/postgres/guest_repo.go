package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/lib/pq"

	"weeklydinner/internal/domain"
)

type guestRepository struct {
	DB *sql.DB
}

func NewGuestRepository(db *sql.DB) domain.GuestRepository {
	return &guestRepository{DB: db}
}

const guestColumns = `id, name, age, location, email, table_label, submitted_at`

func (r *guestRepository) Create(ctx context.Context, g *domain.Guest) error {
	query := `
		INSERT INTO guests (name, age, location, email, table_label, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, g.Name, g.Age, g.Location, g.Email, g.Table, g.SubmittedAt).Scan(&g.ID)
	if err != nil {
		var perr *pq.Error
		if errors.As(err, &perr) && perr.Code == "23505" {
			return domain.ErrDuplicateGuest
		}
		return err
	}
	return nil
}

func (r *guestRepository) GetByIdentity(ctx context.Context, name string, age int, location string) (*domain.Guest, error) {
	query := `
		SELECT ` + guestColumns + `
		FROM guests
		WHERE name = $1 AND age = $2 AND location = $3
	`
	g := &domain.Guest{}
	err := r.DB.QueryRowContext(ctx, query, name, age, location).
		Scan(&g.ID, &g.Name, &g.Age, &g.Location, &g.Email, &g.Table, &g.SubmittedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

func (r *guestRepository) List(ctx context.Context) ([]*domain.Guest, error) {
	query := `
		SELECT ` + guestColumns + `
		FROM guests
		ORDER BY submitted_at, id
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guests []*domain.Guest
	for rows.Next() {
		g := &domain.Guest{}
		if err := rows.Scan(&g.ID, &g.Name, &g.Age, &g.Location, &g.Email, &g.Table, &g.SubmittedAt); err != nil {
			return nil, err
		}
		guests = append(guests, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if guests == nil {
		guests = []*domain.Guest{}
	}
	return guests, nil
}

// UpdateTables writes every label in one statement inside a transaction. If any guest ID no
// longer exists the transaction is rolled back and ErrNotFound is returned.
func (r *guestRepository) UpdateTables(ctx context.Context, labels map[string]string) error {
	if len(labels) == 0 {
		return nil
	}
	ids := make([]string, 0, len(labels))
	for id := range labels {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	tables := make([]string, len(ids))
	for i, id := range ids {
		tables[i] = labels[id]
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		UPDATE guests AS g
		SET table_label = u.table_label
		FROM unnest($1::uuid[], $2::text[]) AS u(id, table_label)
		WHERE g.id = u.id
	`
	result, err := tx.ExecContext(ctx, query, pq.Array(ids), pq.Array(tables))
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if int(n) != len(ids) {
		return fmt.Errorf("%w: updated %d of %d guests", domain.ErrNotFound, n, len(ids))
	}
	return tx.Commit()
}
