package server

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/course-planner/internal/config"
	"github.com/jonathan/course-planner/internal/db"
	"github.com/jonathan/course-planner/internal/types"
)

// memoryUserStore is an in-memory UserStore for unit tests
type memoryUserStore struct {
	users map[uuid.UUID]*db.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: make(map[uuid.UUID]*db.User)}
}

func (m *memoryUserStore) CreateUser(_ context.Context, name, email string) (uuid.UUID, error) {
	id := uuid.New()
	now := time.Now()
	m.users[id] = &db.User{ID: id, Name: name, Email: email, CreatedAt: now, UpdatedAt: now}
	return id, nil
}

func (m *memoryUserStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memoryUserStore) GetUserByID(_ context.Context, userID uuid.UUID) (*db.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (m *memoryUserStore) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	u, ok := m.users[userID]
	if !ok {
		return &ErrUserNotFound{UserID: userID}
	}
	u.PasswordHash = passwordHash
	return nil
}

func newTestUserService(t *testing.T) (*UserService, *memoryUserStore) {
	t.Helper()
	t.Setenv("BCRYPT_COST", "10")
	passwordConfig, err := config.NewPasswordConfig()
	require.NoError(t, err)
	store := newMemoryUserStore()
	return NewUserService(store, passwordConfig), store
}

func TestConvertDBUserToTypesUser(t *testing.T) {
	t.Run("valid user", func(t *testing.T) {
		now := time.Now()
		dbUser := &db.User{
			ID:           uuid.New(),
			Name:         "Dana Trainer",
			Email:        "dana@example.com",
			PasswordHash: "hashed-password",
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		typesUser := convertDBUserToTypesUser(dbUser)
		require.NotNil(t, typesUser)
		assert.Equal(t, dbUser.ID, typesUser.ID)
		assert.Equal(t, dbUser.Name, typesUser.Name)
		assert.Equal(t, dbUser.Email, typesUser.Email)
		assert.Equal(t, dbUser.CreatedAt, typesUser.CreatedAt)
		assert.Equal(t, dbUser.UpdatedAt, typesUser.UpdatedAt)
	})

	t.Run("nil user", func(t *testing.T) {
		assert.Nil(t, convertDBUserToTypesUser(nil))
	})
}

func TestUserService_Register(t *testing.T) {
	svc, store := newTestUserService(t)
	ctx := context.Background()

	req := &types.CreateUserRequest{
		Name:     "Dana Trainer",
		Email:    "dana@example.com",
		Password: "correct-horse-battery",
	}

	user, err := svc.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", user.Email)

	stored := store.users[user.ID]
	require.NotNil(t, stored)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, req.Password, stored.PasswordHash)

	// Duplicate email is rejected
	_, err = svc.Register(ctx, req)
	require.Error(t, err)
	var dupErr *ErrEmailAlreadyExists
	assert.ErrorAs(t, err, &dupErr)
}

func TestUserService_Login(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &types.CreateUserRequest{
		Name:     "Dana Trainer",
		Email:    "dana@example.com",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Login(ctx, &types.LoginRequest{
			Email:    "dana@example.com",
			Password: "correct-horse-battery",
		})
		require.NoError(t, err)
		assert.Equal(t, "dana@example.com", user.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &types.LoginRequest{
			Email:    "dana@example.com",
			Password: "wrong",
		})
		var credErr *ErrInvalidCredentials
		assert.ErrorAs(t, err, &credErr)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, &types.LoginRequest{
			Email:    "nobody@example.com",
			Password: "whatever",
		})
		var credErr *ErrInvalidCredentials
		assert.ErrorAs(t, err, &credErr)
	})
}

func TestUserService_UpdatePassword(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{
		Name:     "Dana Trainer",
		Email:    "dana@example.com",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.UpdatePassword(ctx, user.ID, "wrong", "new-password-123")
		var mismatch *ErrPasswordMismatch
		assert.ErrorAs(t, err, &mismatch)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := svc.UpdatePassword(ctx, uuid.New(), "x", "new-password-123")
		var notFound *ErrUserNotFound
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("successful change", func(t *testing.T) {
		require.NoError(t, svc.UpdatePassword(ctx, user.ID, "correct-horse-battery", "new-password-123"))

		_, err := svc.Login(ctx, &types.LoginRequest{Email: "dana@example.com", Password: "new-password-123"})
		assert.NoError(t, err)

		_, err = svc.Login(ctx, &types.LoginRequest{Email: "dana@example.com", Password: "correct-horse-battery"})
		assert.Error(t, err)
	})
}
