package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoppos/m/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "pos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewService(st, "test-secret")
}

func TestLoginAndVerify(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	op, err := svc.AddOperator(ctx, " Admin ", "secret123", RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, "admin", op.Username)

	_, _, err = svc.Login(ctx, "admin", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, logged, err := svc.Login(ctx, "ADMIN", "secret123")
	require.NoError(t, err)
	assert.Empty(t, logged.Password)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, op.ID, claims.OperatorID)
	assert.Equal(t, RoleOwner, claims.Role)
	assert.Equal(t, "admin", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	op, err := svc.AddOperator(ctx, "cashier", "secret123", RoleCashier)
	require.NoError(t, err)

	token, err := svc.Issue(op)
	require.NoError(t, err)

	other := NewService(nil, "another-secret")
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	svc.now = func() time.Time { return time.Now().Add(13 * time.Hour) }
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")
}

func TestAddOperatorValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.AddOperator(ctx, "x", "short", RoleOwner)
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.AddOperator(ctx, "x", "secret123", "manager")
	assert.Error(t, err)

	_, err = svc.AddOperator(ctx, "x", "secret123", RoleOwner)
	require.NoError(t, err)
	_, err = svc.AddOperator(ctx, "x", "secret123", RoleOwner)
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	_, err := svc.AddOperator(ctx, "admin", "secret123", RoleOwner)
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, "admin", "fresh-pass"))

	_, _, err = svc.Login(ctx, "admin", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "admin", "fresh-pass")
	assert.NoError(t, err)
}
