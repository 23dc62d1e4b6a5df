package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retrostylings/shop/internal/repo"
	"github.com/retrostylings/shop/internal/repo/repotest"
	"github.com/retrostylings/shop/pkg/tokens"
)

func newTestAuthService(t *testing.T) *AuthService {
	return &AuthService{
		Repo:      repo.New(repotest.NewDB(t)),
		JWTSecret: []byte("test-jwt-secret"),
		AccessTTL: time.Hour,
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{name: "empty name", userName: "", email: "a@example.com", password: "secret1"},
		{name: "bad email", userName: "Ann", email: "not-an-email", password: "secret1"},
		{name: "short password", userName: "Ann", email: "a@example.com", password: "123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.userName, tt.email, tt.password)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_RegisterLoginProfile(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "Ann", "  Ann@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.Equal(t, tokens.RoleUser, u.Role)

	_, err = svc.Register(ctx, "Ann again", "ann@example.com", "secret2")
	assert.ErrorIs(t, err, ErrUserAlreadyExist)

	_, err = svc.Login(ctx, "ann@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := svc.Login(ctx, "ANN@example.com", "secret1")
	require.NoError(t, err)

	claims, err := tokens.AccessClaimsFromToken(res.AccessToken, svc.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.Subject)
	assert.Equal(t, "ann@example.com", claims.Email)
	assert.WithinDuration(t, res.AccessExp, claims.ExpiresAt.Time, time.Second)

	p, err := svc.Profile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", p.Name)
}
