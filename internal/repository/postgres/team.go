package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/gincana/placar/internal/domain"
)

// querier is satisfied by both the pool and a transaction
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TeamRepository implements repository.TeamRepository for PostgreSQL
type TeamRepository struct {
	db *pgxpool.Pool
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{db: db}
}

// EnsureTeams inserts missing teams with zero totals
func (r *TeamRepository) EnsureTeams(ctx context.Context, names []string) error {
	query := `INSERT INTO teams (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`

	batch := &pgx.Batch{}
	for _, name := range names {
		batch.Queue(query, name)
	}

	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return storageError("ensure teams", err)
	}
	return nil
}

// GetAll returns every team ordered by name
func (r *TeamRepository) GetAll(ctx context.Context) ([]*domain.Team, error) {
	query := `
		SELECT name, points, value
		FROM teams
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storageError("list teams", err)
	}
	defer rows.Close()

	var teams []*domain.Team
	for rows.Next() {
		var team domain.Team
		if err := rows.Scan(&team.Name, &team.Points, &team.Value); err != nil {
			return nil, storageError("scan team", err)
		}
		teams = append(teams, &team)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("list teams", err)
	}
	return teams, nil
}

// Increment adds the deltas in a single UPDATE so concurrent callers never lose updates
func (r *TeamRepository) Increment(ctx context.Context, teamName string, points int64, value decimal.Decimal) (*domain.Team, error) {
	return increment(ctx, r.db, teamName, points, value)
}

func increment(ctx context.Context, q querier, teamName string, points int64, value decimal.Decimal) (*domain.Team, error) {
	query := `
		UPDATE teams
		SET points = points + $2,
		    value = value + $3
		WHERE name = $1
		RETURNING name, points, value
	`

	var team domain.Team
	err := q.QueryRow(ctx, query, teamName, points, value).Scan(&team.Name, &team.Points, &team.Value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.NumericValueOutOfRange {
			return nil, domain.NewValidationError("pontos", "would overflow the team total")
		}
		return nil, storageError("increment team", err)
	}

	return &team, nil
}
