package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/festa/internal/auth"
	"github.com/dukerupert/festa/internal/telemetry"
)

func newAuthFixture(t *testing.T, ttl time.Duration) (AdminAuthService, *telemetry.BusinessMetrics) {
	t.Helper()
	hash, err := auth.HashPasswordWithCost("segredo-da-loja", bcrypt.MinCost)
	require.NoError(t, err)

	metrics := telemetry.NewBusinessMetrics("test", prometheus.NewRegistry())
	creds := AdminCredentials{Email: "Dona@Festa.com.br", PasswordHash: hash}
	return NewAdminAuthService(creds, ttl, metrics, discardLogger()), metrics
}

func TestAdminAuthService_Login(t *testing.T) {
	svc, metrics := newAuthFixture(t, time.Hour)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{name: "valid, email case and spaces ignored", email: " dona@festa.com.br ", password: "segredo-da-loja"},
		{name: "wrong password", email: "dona@festa.com.br", password: "outra-coisa", wantErr: true},
		{name: "unknown email", email: "alguem@festa.com.br", password: "segredo-da-loja", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := svc.Login(ctx, tt.email, tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCredentials)
				assert.Empty(t, id)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, id)
		})
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AdminLogins))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.AdminLoginFailed))
}

func TestAdminAuthService_SessionLifecycle(t *testing.T) {
	svc, _ := newAuthFixture(t, time.Hour)
	ctx := context.Background()

	id, err := svc.Login(ctx, "dona@festa.com.br", "segredo-da-loja")
	require.NoError(t, err)

	admin, err := svc.Authenticate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Dona@Festa.com.br", admin.Email)

	svc.Logout(ctx, id)
	_, err = svc.Authenticate(ctx, id)
	assert.ErrorIs(t, err, ErrAdminSessionExpired)

	_, err = svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrAdminSessionExpired)
}

func TestAdminAuthService_SessionExpires(t *testing.T) {
	svc, _ := newAuthFixture(t, 50*time.Millisecond)
	ctx := context.Background()

	id, err := svc.Login(ctx, "dona@festa.com.br", "segredo-da-loja")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, err := svc.Authenticate(ctx, id)
		return err != nil
	}, time.Second, 10*time.Millisecond)
}

func TestAdminAuthService_NoAdminConfigured(t *testing.T) {
	svc := NewAdminAuthService(AdminCredentials{}, time.Hour, nil, discardLogger())

	_, err := svc.Login(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
