package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/discera/discera-client/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {
	query :=
		`INSERT INTO users (email, username, full_name, role, is_active, is_verified, password_hash)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.Username, user.FullName, string(user.Role), user.IsActive, user.IsVerified, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const selectUser = `SELECT id, email, username, full_name, role, is_active, is_verified, password_hash, created_at FROM users`

func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (*User, error) {
	query := selectUser + ` WHERE lower(email) = lower($1) OR username = $1`
	return r.getOne(ctx, query, login)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := selectUser + ` WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*User, error) {
	user := &User{}
	var role string

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.Username, &user.FullName, &role,
		&user.IsActive, &user.IsVerified, &user.PasswordHash, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.Role = Role(role)
	return user, nil
}
