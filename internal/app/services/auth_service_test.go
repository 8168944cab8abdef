package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/auth"
)

func TestMain(m *testing.M) {
	auth.BcryptCost = 4
	os.Exit(m.Run())
}

func newAuthService() (*AuthService, *fakeUsers, *fakeProfiles) {
	profiles := newFakeProfiles()
	users := newFakeUsers(profiles)
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	return NewAuthService(users, jwt, zerolog.Nop()), users, profiles
}

func TestRegisterStudentCreatesEmptyProfile(t *testing.T) {
	svc, _, profiles := newAuthService()

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email: "  Alice@College.edu ", Password: "demo123", Name: "Alice", Role: models.RoleStudent,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@college.edu", resp.Email)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	p, err := profiles.GetByUserID(context.Background(), resp.UserID)
	require.NoError(t, err)
	assert.Equal(t, "", p.Department)
	assert.Equal(t, 0, p.Batch)
	assert.Empty(t, p.Skills)
}

func TestRegisterAdminHasNoProfile(t *testing.T) {
	svc, _, profiles := newAuthService()

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email: "tpo@college.edu", Password: "demo123", Name: "Placement Officer", Role: models.RoleAdmin,
	})
	require.NoError(t, err)

	_, err = profiles.GetByUserID(context.Background(), resp.UserID)
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService()
	req := func() *dto.RegisterRequest {
		return &dto.RegisterRequest{Email: "bob@college.edu", Password: "demo123", Name: "Bob", Role: models.RoleStudent}
	}

	_, err := svc.Register(context.Background(), req())
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), req())
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newAuthService()

	cases := map[string]*dto.RegisterRequest{
		"bad email":      {Email: "not-an-email", Password: "demo123", Name: "Carol", Role: models.RoleStudent},
		"short password": {Email: "c@college.edu", Password: "abc", Name: "Carol", Role: models.RoleStudent},
		"short name":     {Email: "c@college.edu", Password: "demo123", Name: "C", Role: models.RoleStudent},
		"unknown role":   {Email: "c@college.edu", Password: "demo123", Name: "Carol", Role: "dean"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), req)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
}

func TestLogin(t *testing.T) {
	svc, _, _ := newAuthService()
	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email: "david@college.edu", Password: "demo123", Name: "David", Role: models.RoleStudent,
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "DAVID@college.edu", Password: "demo123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, resp.Role)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: "david@college.edu", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@college.edu", Password: "demo123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestMe(t *testing.T) {
	svc, _, _ := newAuthService()
	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email: "eve@college.edu", Password: "demo123", Name: "Eve", Role: models.RoleStudent,
	})
	require.NoError(t, err)

	user, err := svc.Me(context.Background(), resp.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Eve", user.Name)

	_, err = svc.Me(context.Background(), 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
