package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/gincana/placar/internal/domain"
)

// UserRepository defines access to user accounts
type UserRepository interface {
	// Upsert creates a user or replaces the password and role of an existing one
	Upsert(ctx context.Context, user *domain.User) error

	// GetByUsername returns the user or domain.ErrUserNotFound
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// List returns all users ordered by username
	List(ctx context.Context) ([]*domain.User, error)
}

// TeamRepository defines access to the team ledger
type TeamRepository interface {
	// EnsureTeams creates any missing team with zero totals
	EnsureTeams(ctx context.Context, names []string) error

	// GetAll returns every team ordered by name
	GetAll(ctx context.Context) ([]*domain.Team, error)

	// Increment adds the deltas to a team atomically and returns the updated team.
	// Unknown teams yield domain.ErrTeamNotFound.
	Increment(ctx context.Context, teamName string, points int64, value decimal.Decimal) (*domain.Team, error)
}

// LedgerRepository records log entries together with the matching ledger increment
type LedgerRepository interface {
	// RecordEvent appends the event and adds its points to the team as one unit
	RecordEvent(ctx context.Context, event *domain.Event) (*domain.Team, error)

	// RecordContribution appends the contribution and adds its value to the team as one unit
	RecordContribution(ctx context.Context, c *domain.Contribution) (*domain.Team, error)

	// ListEvents returns events in insertion order
	ListEvents(ctx context.Context) ([]*domain.Event, error)

	// ListContributions returns contributions in insertion order
	ListContributions(ctx context.Context) ([]*domain.Contribution, error)
}

// Store bundles every repository a storage backend provides
type Store interface {
	UserRepository
	TeamRepository
	LedgerRepository

	// Close releases backend resources
	Close() error
}
