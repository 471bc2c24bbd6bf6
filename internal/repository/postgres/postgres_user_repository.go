package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/honeynil/FinanceService/internal/models"
	pkgerrors "github.com/honeynil/FinanceService/pkg/errors"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
)

const uniqueViolation = "23505"

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Insert(ctx context.Context, user *models.User) (stored *models.User, err error) {
	ctx, done := observe(ctx, "user-repository", "InsertUser")
	defer func() { done(err) }()

	if user == nil {
		err = pkgerrors.ErrNilUser
		return nil, err
	}
	if user.Email == "" || user.Password == "" {
		err = fmt.Errorf("%w: email and password are required", pkgerrors.ErrInvalidInput)
		return nil, err
	}

	row := *user

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "method", "Insert", "error", err)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING id, created_at`
	err = dbTx.QueryRowContext(ctx, query, row.Name, row.Email, row.Password).Scan(&row.ID, &row.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			err = rollback(dbTx, "Insert", pkgerrors.ErrEmailAlreadyExists)
			slog.Warn("email already registered", "method", "Insert", "email", row.Email)
			return nil, err
		}
		err = rollback(dbTx, "Insert", err)
		slog.Error("failed to insert user", "method", "Insert", "email", row.Email, "error", err)
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	if err = dbTx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "method", "Insert", "error", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Info("user inserted", "method", "Insert", "user_id", row.ID)
	return &row, nil
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id int64) (user *models.User, err error) {
	ctx, done := observe(ctx, "user-repository", "FindUserByID", attribute.Int64("user_id", id))
	defer func() { done(err) }()

	query := `SELECT id, name, email, password, created_at FROM users WHERE id = $1`
	var u models.User
	err = r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, pkgerrors.ErrUserNotFound
	case err != nil:
		slog.Error("failed to get user by id", "method", "FindByID", "user_id", id, "error", err)
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &u, nil
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (user *models.User, err error) {
	ctx, done := observe(ctx, "user-repository", "FindUserByEmail")
	defer func() { done(err) }()

	if email == "" {
		err = fmt.Errorf("email cannot be empty")
		return nil, err
	}

	query := `SELECT id, name, email, password, created_at FROM users WHERE email = $1`
	var u models.User
	err = r.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, pkgerrors.ErrUserNotFound
	case err != nil:
		slog.Error("failed to get user by email", "method", "FindByEmail", "error", err)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &u, nil
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (exists bool, err error) {
	ctx, done := observe(ctx, "user-repository", "ExistsUserByEmail")
	defer func() { done(err) }()

	err = r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		slog.Error("failed to check email", "method", "ExistsByEmail", "error", err)
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}
