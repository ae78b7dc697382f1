package services

import (
	"testing"

	"github.com/devspacehq/devspace-api/internal/models"
	"github.com/devspacehq/devspace-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthServiceTestEnv(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return NewAuthService(repository.NewUserRepository(db))
}

func TestAuthService_Signup_UsernameRequired(t *testing.T) {
	authService := setupAuthServiceTestEnv(t)

	_, err := authService.Signup(SignupInput{
		Username: "",
		Email:    "user@example.com",
		Password: "supersecret",
	})
	require.ErrorIs(t, err, ErrUsernameRequired)

	// Whitespace-only is just as empty
	_, err = authService.Signup(SignupInput{
		Username: "   ",
		Email:    "user@example.com",
		Password: "supersecret",
	})
	require.ErrorIs(t, err, ErrUsernameRequired)
}

func TestAuthService_Signup_ShortPassword(t *testing.T) {
	authService := setupAuthServiceTestEnv(t)

	_, err := authService.Signup(SignupInput{
		Username: "user",
		Email:    "user@example.com",
		Password: "short",
	})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	authService := setupAuthServiceTestEnv(t)

	_, err := authService.Signup(SignupInput{
		Username: "first",
		Email:    "user@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	// Email comparison is case-insensitive
	_, err = authService.Signup(SignupInput{
		Username: "second",
		Email:    "User@Example.COM",
		Password: "supersecret",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_LoginRoundTrip(t *testing.T) {
	authService := setupAuthServiceTestEnv(t)

	created, err := authService.Signup(SignupInput{
		Username: "user",
		Email:    "user@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.Equal(t, models.PlanFree, created.Plan)

	user, err := authService.Login(LoginInput{Email: "USER@example.com", Password: "supersecret"})
	require.NoError(t, err)
	require.Equal(t, created.ID, user.ID)

	_, err = authService.Login(LoginInput{Email: "user@example.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
