package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/quickmart/backend/internal/user/dal/postgres"
	"github.com/quickmart/backend/internal/user/service/models/user"
)

const uniqueViolation = "23505"

type PostgresUserRepository struct {
	pgClient *postgres.Client
}

func NewPostgresUserRepository(pgClient *postgres.Client) *PostgresUserRepository {
	return &PostgresUserRepository{
		pgClient: pgClient,
	}
}

// Create inserts a user and returns its id. The unique constraint on email
// decides duplicate registrations.
func (r *PostgresUserRepository) Create(ctx context.Context, email string, passwordHash string) (int64, error) {
	query, args, err := sq.Insert("users").
		Columns("email", "password_hash").
		Values(email, passwordHash).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build user insert query: %w", err)
	}

	var id int64
	err = r.pgClient.Pool().QueryRow(ctx, query, args...).Scan(&id)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return 0, user.ErrEmailTaken
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	return id, nil
}

// GetByEmail retrieves a user by email.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query, args, err := sq.Select("id", "email", "password_hash").
		From("users").
		Where(sq.Eq{"email": email}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	var u user.User
	err = r.pgClient.Pool().QueryRow(ctx, query, args...).Scan(&u.ID, &u.Email, &u.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &u, nil
}
