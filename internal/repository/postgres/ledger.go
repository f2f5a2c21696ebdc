package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/gincana/placar/internal/domain"
)

// LedgerRepository implements repository.LedgerRepository for PostgreSQL
type LedgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// RecordEvent increments the team and inserts the event in one transaction
func (r *LedgerRepository) RecordEvent(ctx context.Context, event *domain.Event) (*domain.Team, error) {
	var team *domain.Team

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		team, err = increment(ctx, tx, event.Team, event.Points, decimal.Zero)
		if err != nil {
			return err
		}

		query := `
			INSERT INTO events (id, name, points, team, event_date)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.Exec(ctx, query, event.ID, event.Name, event.Points, event.Team, event.Date); err != nil {
			return storageError("insert event", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return team, nil
}

// RecordContribution increments the team value and inserts the contribution in one transaction
func (r *LedgerRepository) RecordContribution(ctx context.Context, c *domain.Contribution) (*domain.Team, error) {
	var team *domain.Team

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		team, err = increment(ctx, tx, c.Team, 0, c.Value)
		if err != nil {
			return err
		}

		query := `
			INSERT INTO contributions (id, name, value, team, entry_date)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.Exec(ctx, query, c.ID, c.Name, c.Value, c.Team, c.Date); err != nil {
			return storageError("insert contribution", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return team, nil
}

// ListEvents returns events in insertion order
func (r *LedgerRepository) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	query := `
		SELECT id, name, points, team, event_date
		FROM events
		ORDER BY seq
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storageError("list events", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Points, &e.Team, &e.Date); err != nil {
			return nil, storageError("scan event", err)
		}
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("list events", err)
	}
	return events, nil
}

// ListContributions returns contributions in insertion order
func (r *LedgerRepository) ListContributions(ctx context.Context) ([]*domain.Contribution, error) {
	query := `
		SELECT id, name, value, team, entry_date
		FROM contributions
		ORDER BY seq
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storageError("list contributions", err)
	}
	defer rows.Close()

	var contributions []*domain.Contribution
	for rows.Next() {
		var c domain.Contribution
		if err := rows.Scan(&c.ID, &c.Name, &c.Value, &c.Team, &c.Date); err != nil {
			return nil, storageError("scan contribution", err)
		}
		contributions = append(contributions, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("list contributions", err)
	}
	return contributions, nil
}

func (r *LedgerRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return storageError("begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // no-op after a successful commit
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return storageError("commit transaction", err)
	}
	return nil
}
