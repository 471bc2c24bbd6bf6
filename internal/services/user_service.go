package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	stderrors "errors"

	"github.com/honeynil/FinanceService/internal/infrastructure/kafka"
	"github.com/honeynil/FinanceService/internal/models"
	"github.com/honeynil/FinanceService/internal/repository"
	pkgerrors "github.com/honeynil/FinanceService/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"
)

const UsersTopic = "users"

type UserService interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) (*models.User, error)
	ValidateEmail(ctx context.Context, email string) error
	ObtainByID(ctx context.Context, id int64) (*models.User, bool, error)
}

type userService struct {
	userRepo repository.UserRepository
	producer kafka.KafkaProducer
	hashCost int
}

// NewUserService builds the service. producer may be nil, in which case no
// registration events are published.
func NewUserService(userRepo repository.UserRepository, producer kafka.KafkaProducer, hashCost int) *userService {
	if hashCost == 0 {
		hashCost = bcrypt.DefaultCost
	}
	return &userService{
		userRepo: userRepo,
		producer: producer,
		hashCost: hashCost,
	}
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	tracer := otel.Tracer("user-service")
	ctx, span := tracer.Start(ctx, "Authenticate")
	defer span.End()

	user, err := s.userRepo.FindByEmail(ctx, email)
	if stderrors.Is(err, pkgerrors.ErrUserNotFound) {
		span.SetStatus(codes.Error, "user not found")
		slog.Warn("authentication failed", "reason", "unknown email")
		return nil, pkgerrors.ErrAuthUserNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "user lookup failed")
		slog.Error("failed to look up user", "error", err)
		return nil, fmt.Errorf("%w: failed to look up user", pkgerrors.ErrInternal)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		span.SetStatus(codes.Error, "password mismatch")
		slog.Warn("authentication failed", "reason", "password mismatch", "user_id", user.ID)
		return nil, pkgerrors.ErrPasswordMismatch
	}

	slog.Info("user authenticated", "user_id", user.ID)
	return user, nil
}

func (s *userService) ValidateEmail(ctx context.Context, email string) error {
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		slog.Error("failed to check email", "error", err)
		return fmt.Errorf("%w: failed to check email", pkgerrors.ErrInternal)
	}
	if exists {
		return pkgerrors.ErrEmailAlreadyExists
	}
	return nil
}

func (s *userService) SaveUser(ctx context.Context, user *models.User) (*models.User, error) {
	tracer := otel.Tracer("user-service")
	ctx, span := tracer.Start(ctx, "SaveUser")
	defer span.End()

	if user == nil {
		return nil, pkgerrors.ErrNilUser
	}

	if err := s.ValidateEmail(ctx, user.Email); err != nil {
		span.SetStatus(codes.Error, err.Error())
		slog.Warn("user rejected", "error", err)
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.hashCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "password hashing failed")
		slog.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("%w: failed to hash password", pkgerrors.ErrInternal)
	}

	candidate := *user
	candidate.Password = string(hash)

	stored, err := s.userRepo.Insert(ctx, &candidate)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "user insert failed")
		if pkgerrors.IsBusiness(err) {
			return nil, err
		}
		slog.Error("failed to save user", "error", err)
		return nil, fmt.Errorf("%w: failed to save user", pkgerrors.ErrInternal)
	}

	s.publishRegistered(ctx, stored)

	slog.Info("user saved", "user_id", stored.ID)
	return stored, nil
}

func (s *userService) ObtainByID(ctx context.Context, id int64) (*models.User, bool, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if stderrors.Is(err, pkgerrors.ErrUserNotFound) {
		return nil, false, nil
	}
	if err != nil {
		slog.Error("failed to obtain user", "user_id", id, "error", err)
		return nil, false, fmt.Errorf("failed to obtain user: %w", err)
	}
	return user, true, nil
}

// publishRegistered is best effort: a lost event never fails a registration.
func (s *userService) publishRegistered(ctx context.Context, user *models.User) {
	if s.producer == nil {
		return
	}
	event := map[string]interface{}{
		"event_type": "user_registered",
		"user_id":    user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"created_at": time.Now().UTC().Format(time.RFC3339),
	}
	eventBytes, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal kafka event", "user_id", user.ID, "error", err)
		return
	}
	if err := s.producer.Send(ctx, UsersTopic, user.ID, eventBytes); err != nil {
		slog.Error("failed to send user registration event", "user_id", user.ID, "error", err)
	}
}
