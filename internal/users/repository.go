package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// NOTE: This repository assumes the following exist:
// - enum user_role ('persona_user', 'company_user', 'admin')
// - table users with UNIQUE (username)

const pgUniqueViolation = "23505"

// Repository is the persistence contract for users.
type Repository interface {
	Create(ctx context.Context, u NewUser) (uuid.UUID, error)
	FindByUsername(ctx context.Context, username string) (User, error)
}

// PostgresRepo implements Repository over database/sql with the pgx driver.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Create(ctx context.Context, u NewUser) (uuid.UUID, error) {
	role, err := roleToDB(u.Role)
	if err != nil {
		return uuid.Nil, err
	}

	const q = `
INSERT INTO users (username, password_hash, first_name, last_name, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5::user_role, now(), now())
RETURNING id
`
	var id uuid.UUID
	if err := r.db.QueryRowContext(ctx, q, u.Username, u.PasswordHash, u.FirstName, u.LastName, role).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return uuid.Nil, ErrUsernameTaken
		}
		return uuid.Nil, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

func (r *PostgresRepo) FindByUsername(ctx context.Context, username string) (User, error) {
	const q = `
SELECT id, username, password_hash, COALESCE(display_name, ''), role::text,
       first_name, last_name, created_at, updated_at
FROM users
WHERE username = $1
`
	var (
		u    User
		role string
	)
	if err := r.db.QueryRowContext(ctx, q, username).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.DisplayName,
		&role,
		&u.FirstName,
		&u.LastName,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("select user: %w", err)
	}

	parsed, err := roleFromDB(role)
	if err != nil {
		return User{}, err
	}
	u.Role = parsed
	return u, nil
}
