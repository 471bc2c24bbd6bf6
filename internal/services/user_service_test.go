package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	kafkamocks "github.com/honeynil/FinanceService/internal/infrastructure/kafka/mocks"
	"github.com/honeynil/FinanceService/internal/models"
	repositorymocks "github.com/honeynil/FinanceService/internal/repository/mocks"
	pkgerrors "github.com/honeynil/FinanceService/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{ID: 1, Name: "Ana", Email: "ana@example.com", Password: string(hash)}

	t.Run("successful authentication", func(t *testing.T) {
		repo := new(repositorymocks.MockUserRepository)
		svc := NewUserService(repo, nil, bcrypt.MinCost)
		repo.On("FindByEmail", mock.Anything, "ana@example.com").Return(user, nil).Once()

		got, err := svc.Authenticate(ctx, "ana@example.com", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.ID)
	})

	t.Run("password mismatch", func(t *testing.T) {
		repo := new(repositorymocks.MockUserRepository)
		svc := NewUserService(repo, nil, bcrypt.MinCost)
		repo.On("FindByEmail", mock.Anything, "ana@example.com").Return(user, nil).Once()

		got, err := svc.Authenticate(ctx, "ana@example.com", "wrong")
		assert.Nil(t, got)
		assert.ErrorIs(t, err, pkgerrors.ErrPasswordMismatch)
		assert.ErrorIs(t, err, pkgerrors.ErrAuthentication)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(repositorymocks.MockUserRepository)
		svc := NewUserService(repo, nil, bcrypt.MinCost)
		repo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, pkgerrors.ErrUserNotFound).Once()

		_, err := svc.Authenticate(ctx, "nobody@example.com", "s3cret")
		assert.ErrorIs(t, err, pkgerrors.ErrAuthUserNotFound)
		assert.ErrorIs(t, err, pkgerrors.ErrAuthentication)
	})

	t.Run("store failure is not a business error", func(t *testing.T) {
		repo := new(repositorymocks.MockUserRepository)
		svc := NewUserService(repo, nil, bcrypt.MinCost)
		repo.On("FindByEmail", mock.Anything, "ana@example.com").Return(nil, errors.New("db down")).Once()

		_, err := svc.Authenticate(ctx, "ana@example.com", "s3cret")
		assert.ErrorIs(t, err, pkgerrors.ErrInternal)
		assert.False(t, pkgerrors.IsBusiness(err))
	})
}

func TestUserService_SaveUser(t *testing.T) {
	ctx := context.Background()

	t.Run("successful save", func(t *testing.T) {
		repo := new(repositorymocks.MockUserRepository)
		producer := new(kafkamocks.MockKafkaProducer)
		svc := NewUserService(repo, producer, bcrypt.MinCost)

		repo.On("ExistsByEmail", mock.Anything, "bob@example.com").Return(false, nil).Once()
		repo.On("Insert", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("pw")) == nil
		})).Return(&models.User{ID: 2, Name: "Bob", Email: "bob@example.com"}, nil).Once()
		producer.On("Send", mock.Anything, UsersTopic, int64(2), mock.MatchedBy(func(b []byte) bool {
			var event map[string]any
			return json.Unmarshal(b, &event) == nil && event["event_type"] == "user_registered"
		})).Return(nil).Once()

		input := &models.User{Name: "Bob", Email: "bob@example.com", Password: "pw"}
		got, err := svc.SaveUser(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.ID)
		assert.Equal(t, "pw", input.Password)
		repo.AssertExpectations(t)
		producer.AssertExpectations(t)
	})

	t.Run("duplicate email is never inserted", func(t *testing.T) {
		repo := new(repositorymocks.MockUserRepository)
		svc := NewUserService(repo, nil, bcrypt.MinCost)
		repo.On("ExistsByEmail", mock.Anything, "bob@example.com").Return(true, nil).Once()

		_, err := svc.SaveUser(ctx, &models.User{Email: "bob@example.com", Password: "pw"})
		assert.ErrorIs(t, err, pkgerrors.ErrEmailAlreadyExists)
		assert.ErrorIs(t, err, pkgerrors.ErrUniqueness)
		repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("unique violation from the store", func(t *testing.T) {
		repo := new(repositorymocks.MockUserRepository)
		svc := NewUserService(repo, nil, bcrypt.MinCost)
		repo.On("ExistsByEmail", mock.Anything, "bob@example.com").Return(false, nil).Once()
		repo.On("Insert", mock.Anything, mock.Anything).Return(nil, pkgerrors.ErrEmailAlreadyExists).Once()

		_, err := svc.SaveUser(ctx, &models.User{Email: "bob@example.com", Password: "pw"})
		assert.ErrorIs(t, err, pkgerrors.ErrEmailAlreadyExists)
	})

	t.Run("event failure does not fail registration", func(t *testing.T) {
		repo := new(repositorymocks.MockUserRepository)
		producer := new(kafkamocks.MockKafkaProducer)
		svc := NewUserService(repo, producer, bcrypt.MinCost)

		repo.On("ExistsByEmail", mock.Anything, "eve@example.com").Return(false, nil).Once()
		repo.On("Insert", mock.Anything, mock.Anything).Return(&models.User{ID: 3, Email: "eve@example.com"}, nil).Once()
		producer.On("Send", mock.Anything, UsersTopic, int64(3), mock.Anything).Return(errors.New("broker unavailable")).Once()

		got, err := svc.SaveUser(ctx, &models.User{Email: "eve@example.com", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), got.ID)
	})

	t.Run("nil user", func(t *testing.T) {
		svc := NewUserService(new(repositorymocks.MockUserRepository), nil, bcrypt.MinCost)

		_, err := svc.SaveUser(ctx, nil)
		assert.ErrorIs(t, err, pkgerrors.ErrNilUser)
	})
}

func TestUserService_ObtainByID(t *testing.T) {
	ctx := context.Background()
	repo := new(repositorymocks.MockUserRepository)
	svc := NewUserService(repo, nil, bcrypt.MinCost)

	repo.On("FindByID", mock.Anything, int64(1)).Return(&models.User{ID: 1}, nil).Once()
	repo.On("FindByID", mock.Anything, int64(2)).Return(nil, pkgerrors.ErrUserNotFound).Once()

	user, found, err := svc.ObtainByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(1), user.ID)

	user, found, err = svc.ObtainByID(ctx, 2)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, user)
}
