package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/honeynil/FinanceService/internal/models"
	"github.com/honeynil/FinanceService/internal/repository"
	pkgerrors "github.com/honeynil/FinanceService/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type EntryService interface {
	Create(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	Update(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	UpdateStatus(ctx context.Context, entry *models.Entry, status models.EntryStatus) (*models.Entry, error)
	Delete(ctx context.Context, entry *models.Entry) error
	Search(ctx context.Context, filter models.EntryFilter) ([]models.Entry, error)
	ObtainByID(ctx context.Context, id int64) (*models.Entry, bool, error)
	Validate(entry *models.Entry) error
}

type entryService struct {
	entryRepo repository.EntryRepository
}

func NewEntryService(entryRepo repository.EntryRepository) *entryService {
	return &entryService{entryRepo: entryRepo}
}

func (s *entryService) Validate(entry *models.Entry) error {
	return ValidateEntry(entry)
}

func (s *entryService) Create(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	tracer := otel.Tracer("entry-service")
	ctx, span := tracer.Start(ctx, "CreateEntry")
	defer span.End()

	if err := s.Validate(entry); err != nil {
		span.SetStatus(codes.Error, err.Error())
		slog.Warn("entry rejected", "user_id", userOf(entry), "error", err)
		return nil, err
	}

	stored, err := s.entryRepo.Insert(ctx, entry)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "entry insert failed")
		slog.Error("failed to create entry", "user_id", entry.UserID, "error", err)
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	span.SetAttributes(attribute.Int64("entry_id", stored.ID))
	slog.Info("entry created", "entry_id", stored.ID, "user_id", stored.UserID, "status", stored.Status)
	return stored, nil
}

func (s *entryService) Update(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	tracer := otel.Tracer("entry-service")
	ctx, span := tracer.Start(ctx, "UpdateEntry")
	defer span.End()

	if err := requirePersisted(entry); err != nil {
		span.SetStatus(codes.Error, err.Error())
		slog.Error("update called on an unsaved entry", "error", err)
		return nil, err
	}
	span.SetAttributes(attribute.Int64("entry_id", entry.ID))

	if err := s.Validate(entry); err != nil {
		span.SetStatus(codes.Error, err.Error())
		slog.Warn("entry update rejected", "entry_id", entry.ID, "error", err)
		return nil, err
	}

	stored, err := s.entryRepo.Overwrite(ctx, entry)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "entry overwrite failed")
		slog.Error("failed to update entry", "entry_id", entry.ID, "error", err)
		if stderrors.Is(err, pkgerrors.ErrEntryNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	slog.Info("entry updated", "entry_id", stored.ID, "status", stored.Status)
	return stored, nil
}

// UpdateStatus goes through Update, so a status change is validated and
// persisted like any other edit.
func (s *entryService) UpdateStatus(ctx context.Context, entry *models.Entry, status models.EntryStatus) (*models.Entry, error) {
	if entry == nil {
		return nil, pkgerrors.ErrNilEntry
	}
	if !status.Valid() {
		return nil, pkgerrors.ErrInvalidStatus
	}
	slog.Info("changing entry status", "entry_id", entry.ID, "from", entry.Status, "to", status)
	entry.Status = status
	return s.Update(ctx, entry)
}

func (s *entryService) Delete(ctx context.Context, entry *models.Entry) error {
	tracer := otel.Tracer("entry-service")
	ctx, span := tracer.Start(ctx, "DeleteEntry")
	defer span.End()

	if err := requirePersisted(entry); err != nil {
		span.SetStatus(codes.Error, err.Error())
		slog.Error("delete called on an unsaved entry", "error", err)
		return err
	}

	if err := s.entryRepo.Remove(ctx, entry.ID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "entry remove failed")
		slog.Error("failed to delete entry", "entry_id", entry.ID, "error", err)
		if stderrors.Is(err, pkgerrors.ErrEntryNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	slog.Info("entry deleted", "entry_id", entry.ID)
	return nil
}

func (s *entryService) Search(ctx context.Context, filter models.EntryFilter) ([]models.Entry, error) {
	tracer := otel.Tracer("entry-service")
	ctx, span := tracer.Start(ctx, "SearchEntries")
	defer span.End()

	if filter.UserID == 0 {
		span.SetStatus(codes.Error, "missing owner")
		return nil, pkgerrors.ErrMissingUser
	}

	entries, err := s.entryRepo.FindByFilter(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "entry search failed")
		slog.Error("failed to search entries", "user_id", filter.UserID, "error", err)
		return nil, fmt.Errorf("failed to search entries: %w", err)
	}

	slog.Info("entries searched", "user_id", filter.UserID, "count", len(entries))
	return entries, nil
}

// ObtainByID reports a missing entry through the boolean, not the error.
func (s *entryService) ObtainByID(ctx context.Context, id int64) (*models.Entry, bool, error) {
	tracer := otel.Tracer("entry-service")
	ctx, span := tracer.Start(ctx, "ObtainEntryByID")
	defer span.End()

	entry, err := s.entryRepo.FindByID(ctx, id)
	if stderrors.Is(err, pkgerrors.ErrEntryNotFound) {
		return nil, false, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "entry lookup failed")
		slog.Error("failed to obtain entry", "entry_id", id, "error", err)
		return nil, false, fmt.Errorf("failed to obtain entry: %w", err)
	}
	return entry, true, nil
}

func requirePersisted(entry *models.Entry) error {
	if entry == nil {
		return pkgerrors.ErrNilEntry
	}
	if entry.ID == 0 {
		return pkgerrors.ErrEntryNotPersisted
	}
	return nil
}

func userOf(entry *models.Entry) int64 {
	if entry == nil {
		return 0
	}
	return entry.UserID
}
