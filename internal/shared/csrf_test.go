package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCSRFTokenLifecycle(t *testing.T) {
	manager := NewCSRFManager("secret")
	sess := &Session{ID: "sess-1", values: map[string]string{}}
	ctx := context.Background()

	token, err := manager.EnsureToken(ctx, sess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// EnsureToken is stable for the life of the session.
	again, err := manager.EnsureToken(ctx, sess)
	require.NoError(t, err)
	require.Equal(t, token, again)

	require.NoError(t, manager.VerifyToken(ctx, sess, token))
	require.ErrorIs(t, manager.VerifyToken(ctx, sess, "forged"), ErrCSRFTokenMismatch)
	require.ErrorIs(t, manager.VerifyToken(ctx, sess, ""), ErrCSRFTokenMissing)
	require.ErrorIs(t, manager.VerifyToken(ctx, nil, token), ErrCSRFTokenMissing)
}

func TestVerifyTokenWithoutSessionToken(t *testing.T) {
	manager := NewCSRFManager("secret")
	sess := &Session{ID: "sess-2", values: map[string]string{}}

	err := manager.VerifyToken(context.Background(), sess, "anything")
	require.ErrorIs(t, err, ErrCSRFTokenMissing)
}
