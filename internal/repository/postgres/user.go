package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gincana/placar/internal/domain"
)

// UserRepository implements repository.UserRepository for PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert creates a user or overwrites password and role of an existing one
func (r *UserRepository) Upsert(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (username, password, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE
		SET password = EXCLUDED.password,
		    role = EXCLUDED.role,
		    updated_at = NOW()
	`

	if _, err := r.db.Exec(ctx, query, user.Username, user.Password, string(user.Role)); err != nil {
		return storageError("upsert user", err)
	}
	return nil
}

// GetByUsername returns a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT username, password, role
		FROM users
		WHERE username = $1
	`

	var (
		user domain.User
		role string
	)
	err := r.db.QueryRow(ctx, query, username).Scan(&user.Username, &user.Password, &role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storageError("get user", err)
	}
	user.Role = domain.Role(role)

	return &user, nil
}

// List returns all users ordered by username
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT username, password, role
		FROM users
		ORDER BY username
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storageError("list users", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var (
			user domain.User
			role string
		)
		if err := rows.Scan(&user.Username, &user.Password, &role); err != nil {
			return nil, storageError("scan user", err)
		}
		user.Role = domain.Role(role)
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("list users", err)
	}
	return users, nil
}
