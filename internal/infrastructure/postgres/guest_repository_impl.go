package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/eventhub-backend/internal/domain/entity"
	"github.com/oksasatya/eventhub-backend/internal/domain/repository"
)

// GuestRepository is the pgx-backed persistence gateway for guests.
type GuestRepository struct {
	pool *pgxpool.Pool
}

func NewGuestRepository(pool *pgxpool.Pool) *GuestRepository {
	return &GuestRepository{pool: pool}
}

func (r *GuestRepository) Save(ctx context.Context, g *entity.Guest) (bool, error) {
	if g.ID == "" {
		// xmax = 0 only holds for a freshly inserted row, so the conflict
		// update path reports created = false.
		row := r.pool.QueryRow(ctx, `
			INSERT INTO guests (event_id, user_id, status)
			VALUES ($1, $2, $3)
			ON CONFLICT (event_id, user_id)
			DO UPDATE SET status = EXCLUDED.status, updated_at = now()
			RETURNING id, created_at, updated_at, (xmax = 0)
		`, g.EventID, g.UserID, g.Status)
		var created bool
		if err := row.Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt, &created); err != nil {
			return false, err
		}
		return created, nil
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE guests
		SET event_id = $1, user_id = $2, status = $3, updated_at = now()
		WHERE id = $4
		RETURNING created_at, updated_at
	`, g.EventID, g.UserID, g.Status, g.ID)
	if err := row.Scan(&g.CreatedAt, &g.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, repository.ErrNotFound
		}
		return false, err
	}
	return false, nil
}

func (r *GuestRepository) GetByID(ctx context.Context, id string) (*entity.Guest, error) {
	g := &entity.Guest{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, event_id, user_id, status, created_at, updated_at
		FROM guests
		WHERE id = $1
	`, id)
	if err := row.Scan(&g.ID, &g.EventID, &g.UserID, &g.Status, &g.CreatedAt, &g.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

func (r *GuestRepository) ListByEventID(ctx context.Context, eventID string) ([]*entity.Guest, error) {
	return r.list(ctx, `
		SELECT id, event_id, user_id, status, created_at, updated_at
		FROM guests
		WHERE event_id = $1
		ORDER BY created_at
	`, eventID)
}

func (r *GuestRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Guest, error) {
	return r.list(ctx, `
		SELECT id, event_id, user_id, status, created_at, updated_at
		FROM guests
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
}

func (r *GuestRepository) list(ctx context.Context, query string, arg any) ([]*entity.Guest, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	guests := make([]*entity.Guest, 0)
	for rows.Next() {
		g := &entity.Guest{}
		if err := rows.Scan(&g.ID, &g.EventID, &g.UserID, &g.Status, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		guests = append(guests, g)
	}
	return guests, rows.Err()
}

func (r *GuestRepository) UpdateStatus(ctx context.Context, id string, status entity.GuestStatus) (*entity.Guest, error) {
	g := &entity.Guest{}
	row := r.pool.QueryRow(ctx, `
		UPDATE guests
		SET status = $1, updated_at = now()
		WHERE id = $2
		RETURNING id, event_id, user_id, status, created_at, updated_at
	`, status, id)
	if err := row.Scan(&g.ID, &g.EventID, &g.UserID, &g.Status, &g.CreatedAt, &g.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

func (r *GuestRepository) AcceptedEventIDsByUserID(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT event_id
		FROM guests
		WHERE user_id = $1 AND status = $2
	`, userID, entity.GuestStatusAccepted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var _ repository.GuestRepository = (*GuestRepository)(nil)
