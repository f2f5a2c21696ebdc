package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/gincana/placar/internal/domain"
	"github.com/gincana/placar/migrations"
)

// Store combines the PostgreSQL repositories behind repository.Store
type Store struct {
	*UserRepository
	*TeamRepository
	*LedgerRepository

	db *pgxpool.Pool
}

// NewStore wraps an open pool
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{
		UserRepository:   NewUserRepository(db),
		TeamRepository:   NewTeamRepository(db),
		LedgerRepository: NewLedgerRepository(db),
		db:               db,
	}
}

// Connect opens a connection pool and verifies the database is reachable
func Connect(ctx context.Context, dsn string, maxConns, minConns int32) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = maxConns
	poolConfig.MinConns = minConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, storageError("create connection pool", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, storageError("ping database", err)
	}

	return pool, nil
}

// Migrate applies the embedded goose migrations
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	sqlDB := stdlib.OpenDBFromPool(db)
	defer func() { _ = sqlDB.Close() }()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Ping reports whether the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return storageError("ping database", err)
	}
	return nil
}

// Close releases the pool
func (s *Store) Close() error {
	s.db.Close()
	return nil
}

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
}
