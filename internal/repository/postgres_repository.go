package repository

import (
	"context"
	"fmt"

	"advent-bot/internal/domain"
	"advent-bot/pkg/database"

	"github.com/jackc/pgx/v5"
)

// postgresRepository stores subscribers in a single table:
//
//	CREATE TABLE IF NOT EXISTS subscribers (
//	    id          TEXT PRIMARY KEY,
//	    joined_date TIMESTAMPTZ NOT NULL,
//	    current_day INTEGER NOT NULL DEFAULT 0,
//	    subscribed  BOOLEAN NOT NULL DEFAULT FALSE
//	);
type postgresRepository struct {
	db *database.PostgresDB
}

// NewPostgresRepository creates a Postgres-backed subscriber repository and
// ensures the subscribers table exists.
func NewPostgresRepository(ctx context.Context, db *database.PostgresDB) (SubscriberRepository, error) {
	schema := `
		CREATE TABLE IF NOT EXISTS subscribers (
			id          TEXT PRIMARY KEY,
			joined_date TIMESTAMPTZ NOT NULL,
			current_day INTEGER NOT NULL DEFAULT 0,
			subscribed  BOOLEAN NOT NULL DEFAULT FALSE
		)
	`
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("ensure subscribers table: %w", err)
	}

	return &postgresRepository{db: db}, nil
}

func (r *postgresRepository) Get(ctx context.Context, id string) (*domain.Subscriber, error) {
	query := `
		SELECT id, joined_date, current_day, subscribed
		FROM subscribers
		WHERE id = $1
	`

	sub := &domain.Subscriber{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&sub.ID,
		&sub.JoinedDate,
		&sub.CurrentDay,
		&sub.Subscribed,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Unknown user, not an error
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscriber %s: %w", id, err)
	}

	return sub, nil
}

func (r *postgresRepository) Put(ctx context.Context, subscriber *domain.Subscriber) error {
	query := `
		INSERT INTO subscribers (id, joined_date, current_day, subscribed)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			joined_date = EXCLUDED.joined_date,
			current_day = EXCLUDED.current_day,
			subscribed = EXCLUDED.subscribed
	`

	_, err := r.db.Pool.Exec(ctx, query,
		subscriber.ID,
		subscriber.JoinedDate,
		subscriber.CurrentDay,
		subscriber.Subscribed,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert subscriber %s: %w", subscriber.ID, err)
	}

	return nil
}

func (r *postgresRepository) SetSubscribed(ctx context.Context, id string, subscribed bool) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE subscribers SET subscribed = $2 WHERE id = $1`, id, subscribed)
	if err != nil {
		return fmt.Errorf("failed to update subscription for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownSubscriber, id)
	}

	return nil
}

func (r *postgresRepository) ListSubscribed(ctx context.Context) ([]*domain.Subscriber, error) {
	query := `
		SELECT id, joined_date, current_day, subscribed
		FROM subscribers
		WHERE subscribed = TRUE
		ORDER BY id
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer rows.Close()

	var subscribers []*domain.Subscriber
	for rows.Next() {
		sub := &domain.Subscriber{}
		if err := rows.Scan(&sub.ID, &sub.JoinedDate, &sub.CurrentDay, &sub.Subscribed); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		subscribers = append(subscribers, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read subscribers: %w", err)
	}

	return subscribers, nil
}

func (r *postgresRepository) Health(ctx context.Context) error {
	return r.db.Health(ctx)
}

func (r *postgresRepository) Close() error {
	r.db.Close()
	return nil
}
