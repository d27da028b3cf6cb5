package service_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	appErrors "github.com/gamedistrict/storefront/internal/errors"
	"github.com/gamedistrict/storefront/internal/models"
	repository "github.com/gamedistrict/storefront/internal/repositories"
	service "github.com/gamedistrict/storefront/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeRateLimiter replaces the redis-backed limiter in tests.
type fakeRateLimiter struct {
	allowed    bool
	remaining  int
	retryAfter int
}

func (f *fakeRateLimiter) CheckLoginRateLimit(_ context.Context, _ string) (bool, int, int, error) {
	return f.allowed, f.remaining, f.retryAfter, nil
}

var userColumns = []string{"id", "name", "email", "password", "photo", "role", "is_active", "created_at", "updated_at"}

func userRow(id uuid.UUID, email, passwordHash string, active bool) *sqlmock.Rows {
	now := time.Now()

	return sqlmock.NewRows(userColumns).
		AddRow(id, "Test User", email, passwordHash, "", "customer", active, now, now)
}

func TestRegister(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	svc := service.NewUserService(repository.NewUserRepo(db), &fakeRateLimiter{allowed: true}, []byte("test-key"))
	ctx := t.Context()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		now := time.Now()

		mock.ExpectQuery(`SELECT .+ FROM users\s+WHERE email = \$1`).
			WithArgs("new@example.com").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		// Act
		user, err := svc.Register(ctx, &models.RegisterRequest{
			Name:     "New User",
			Email:    "new@example.com",
			Password: "secret-password",
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.RoleCustomer, user.Role)
		assert.True(t, user.IsActive)
		assert.NotEqual(t, "secret-password", user.Password, "password must be stored hashed")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - duplicate email", func(t *testing.T) {
		// Arrange
		mock.ExpectQuery(`SELECT .+ FROM users\s+WHERE email = \$1`).
			WithArgs("taken@example.com").
			WillReturnRows(userRow(uuid.New(), "taken@example.com", "hash", true))

		// Act
		user, err := svc.Register(ctx, &models.RegisterRequest{
			Name:     "Other User",
			Email:    "taken@example.com",
			Password: "secret-password",
		})

		// Assert
		require.Error(t, err)
		assert.Nil(t, user)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDuplicateEntry, appErr.Code)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLogin(t *testing.T) {
	ctx := t.Context()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	require.NoError(t, err)

	newService := func(t *testing.T, limiter repository.RateLimitRepository) (*service.UserService, sqlmock.Sqlmock) {
		t.Helper()

		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })

		return service.NewUserService(repository.NewUserRepo(db), limiter, []byte("test-key")), mock
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		svc, mock := newService(t, &fakeRateLimiter{allowed: true, remaining: 4})

		mock.ExpectQuery(`SELECT .+ FROM users\s+WHERE email = \$1`).
			WithArgs("user@example.com").
			WillReturnRows(userRow(uuid.New(), "user@example.com", string(hash), true))

		// Act
		resp, err := svc.Login(ctx, &models.LoginRequest{Email: "user@example.com", Password: "correct-password"})

		// Assert
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Token)
		assert.Positive(t, resp.ExpiresIn)
	})

	t.Run("Failure - wrong password", func(t *testing.T) {
		// Arrange
		svc, mock := newService(t, &fakeRateLimiter{allowed: true, remaining: 3})

		mock.ExpectQuery(`SELECT .+ FROM users\s+WHERE email = \$1`).
			WithArgs("user@example.com").
			WillReturnRows(userRow(uuid.New(), "user@example.com", string(hash), true))

		// Act
		resp, err := svc.Login(ctx, &models.LoginRequest{Email: "user@example.com", Password: "wrong"})

		// Assert
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Empty(t, resp.Token)
		assert.Equal(t, 3, resp.RemainingTries)
	})

	t.Run("Failure - deactivated account cannot log in", func(t *testing.T) {
		// Arrange
		svc, mock := newService(t, &fakeRateLimiter{allowed: true})

		mock.ExpectQuery(`SELECT .+ FROM users\s+WHERE email = \$1`).
			WithArgs("user@example.com").
			WillReturnRows(userRow(uuid.New(), "user@example.com", string(hash), false))

		// Act
		resp, err := svc.Login(ctx, &models.LoginRequest{Email: "user@example.com", Password: "correct-password"})

		// Assert
		require.NoError(t, err)
		assert.False(t, resp.Success)
	})

	t.Run("Failure - rate limited without touching the database", func(t *testing.T) {
		// Arrange
		svc, mock := newService(t, &fakeRateLimiter{allowed: false, retryAfter: 120})

		// Act
		resp, err := svc.Login(ctx, &models.LoginRequest{Email: "user@example.com", Password: "correct-password"})

		// Assert
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, 120, resp.RetryAfter)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
