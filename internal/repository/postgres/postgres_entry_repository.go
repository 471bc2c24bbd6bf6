package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/honeynil/FinanceService/internal/models"
	pkgerrors "github.com/honeynil/FinanceService/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

const entryColumns = `id, description, month, year, value, type, status, user_id, registration_date`

type PostgresEntryRepository struct {
	db *sql.DB
}

func NewPostgresEntryRepository(db *sql.DB) *PostgresEntryRepository {
	return &PostgresEntryRepository{db: db}
}

func (r *PostgresEntryRepository) Insert(ctx context.Context, entry *models.Entry) (stored *models.Entry, err error) {
	ctx, done := observe(ctx, "entry-repository", "InsertEntry")
	defer func() { done(err) }()

	if entry == nil {
		err = pkgerrors.ErrNilEntry
		slog.Error("failed to insert entry", "method", "Insert", "error", err)
		return nil, err
	}

	row := *entry
	if row.Status == "" {
		row.Status = models.StatusPending
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "method", "Insert", "error", err)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `INSERT INTO entries (description, month, year, value, type, status, user_id) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, registration_date`
	err = dbTx.QueryRowContext(ctx, query, row.Description, row.Month, row.Year, row.Value, row.Type, row.Status, row.UserID).
		Scan(&row.ID, &row.RegistrationDate)
	if err != nil {
		err = rollback(dbTx, "Insert", err)
		slog.Error("failed to insert entry", "method", "Insert", "user_id", row.UserID, "error", err)
		return nil, fmt.Errorf("failed to insert entry: %w", err)
	}

	if err = dbTx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "method", "Insert", "error", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Info("entry inserted", "method", "Insert", "entry_id", row.ID, "user_id", row.UserID, "type", row.Type, "status", row.Status)
	return &row, nil
}

func (r *PostgresEntryRepository) Overwrite(ctx context.Context, entry *models.Entry) (stored *models.Entry, err error) {
	if entry == nil {
		return nil, pkgerrors.ErrNilEntry
	}
	ctx, done := observe(ctx, "entry-repository", "OverwriteEntry", attribute.Int64("entry_id", entry.ID))
	defer func() { done(err) }()

	row := *entry

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "method", "Overwrite", "error", err)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `UPDATE entries SET description = $1, month = $2, year = $3, value = $4, type = $5, status = $6, user_id = $7 WHERE id = $8 RETURNING registration_date`
	err = dbTx.QueryRowContext(ctx, query, row.Description, row.Month, row.Year, row.Value, row.Type, row.Status, row.UserID, row.ID).
		Scan(&row.RegistrationDate)
	if stderrors.Is(err, sql.ErrNoRows) {
		err = rollback(dbTx, "Overwrite", pkgerrors.ErrEntryNotFound)
		slog.Error("entry not found", "method", "Overwrite", "entry_id", row.ID)
		return nil, err
	}
	if err != nil {
		err = rollback(dbTx, "Overwrite", err)
		slog.Error("failed to overwrite entry", "method", "Overwrite", "entry_id", row.ID, "error", err)
		return nil, fmt.Errorf("failed to overwrite entry: %w", err)
	}

	if err = dbTx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "method", "Overwrite", "error", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Info("entry overwritten", "method", "Overwrite", "entry_id", row.ID, "status", row.Status)
	return &row, nil
}

func (r *PostgresEntryRepository) Remove(ctx context.Context, id int64) (err error) {
	ctx, done := observe(ctx, "entry-repository", "RemoveEntry", attribute.Int64("entry_id", id))
	defer func() { done(err) }()

	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		slog.Error("failed to remove entry", "method", "Remove", "entry_id", id, "error", err)
		return fmt.Errorf("failed to remove entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to remove entry: %w", err)
	}
	if affected == 0 {
		err = pkgerrors.ErrEntryNotFound
		slog.Warn("entry not found", "method", "Remove", "entry_id", id)
		return err
	}

	slog.Info("entry removed", "method", "Remove", "entry_id", id)
	return nil
}

func (r *PostgresEntryRepository) FindByID(ctx context.Context, id int64) (entry *models.Entry, err error) {
	ctx, done := observe(ctx, "entry-repository", "FindEntryByID", attribute.Int64("entry_id", id))
	defer func() { done(err) }()

	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`
	entry, err = scanEntry(r.db.QueryRowContext(ctx, query, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		slog.Info("entry not found", "method", "FindByID", "entry_id", id)
		return nil, pkgerrors.ErrEntryNotFound
	}
	if err != nil {
		slog.Error("failed to get entry by id", "method", "FindByID", "entry_id", id, "error", err)
		return nil, fmt.Errorf("failed to get entry by id: %w", err)
	}

	return entry, nil
}

func (r *PostgresEntryRepository) FindByFilter(ctx context.Context, filter models.EntryFilter) (entries []models.Entry, err error) {
	ctx, done := observe(ctx, "entry-repository", "FindEntriesByFilter", attribute.Int64("user_id", filter.UserID))
	defer func() { done(err) }()

	query, args := buildFilterQuery(filter)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Error("failed to search entries", "method", "FindByFilter", "user_id", filter.UserID, "error", err)
		return nil, fmt.Errorf("failed to search entries: %w", err)
	}
	defer rows.Close()

	entries = []models.Entry{}
	for rows.Next() {
		entry, scanErr := scanEntry(rows)
		if scanErr != nil {
			err = scanErr
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to search entries: %w", err)
	}

	slog.Info("entries retrieved", "method", "FindByFilter", "user_id", filter.UserID, "count", len(entries))
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	var e models.Entry
	if err := row.Scan(&e.ID, &e.Description, &e.Month, &e.Year, &e.Value, &e.Type, &e.Status, &e.UserID, &e.RegistrationDate); err != nil {
		return nil, err
	}
	return &e, nil
}
