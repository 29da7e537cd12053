package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"walletwise/internal/dto"
	"walletwise/internal/repository/memory"
	"walletwise/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthService() *AuthService {
	return NewAuthService(
		memory.NewUserRepository(),
		auth.NewJWTManager("test-secret", 15*time.Minute, time.Hour),
		zap.NewNop(),
	)
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Email: " Alice@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, "alice", resp.User.Username)
	assert.True(t, resp.User.WalletBalance.IsZero())
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Email: "alice@example.com", Password: "another"})
	assert.ErrorIs(t, err, ErrUserExists)

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "ALICE@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc := newAuthService()

	tests := []struct {
		req  dto.RegisterRequest
		want string
	}{
		{dto.RegisterRequest{Email: "", Password: "secret1"}, "Valid email is required"},
		{dto.RegisterRequest{Email: "not-an-email", Password: "secret1"}, "Valid email is required"},
		{dto.RegisterRequest{Email: "a@b.co", Password: "123"}, "Password must be at least 6 characters"},
	}
	for _, tt := range tests {
		_, err := svc.Register(context.Background(), &tt.req)
		var ve *ValidationError
		require.True(t, errors.As(err, &ve), "%+v: got %v", tt.req, err)
		assert.Equal(t, tt.want, ve.Message)
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "bob", refreshed.User.Username)

	_, err = svc.RefreshToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "an access token cannot be used to refresh")

	_, err = svc.RefreshToken(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
