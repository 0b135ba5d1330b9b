package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/potluckhq/potluck/internal/domain"
	"github.com/potluckhq/potluck/internal/store"
	"github.com/potluckhq/potluck/internal/store/drivers/sqlite"
	"github.com/potluckhq/potluck/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingSweepsExpiredTokens(t *testing.T) {
	ctx := context.Background()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	user := seedUser(t, st, "alice@example.com")

	mint := func(value string, expires time.Time) {
		require.NoError(t, st.Tokens().CreateToken(ctx, domain.OneTimeToken{
			ID:        idx.New().String(),
			UserID:    user.ID,
			Kind:      domain.TokenKindValidation,
			Value:     value,
			ExpiresAt: expires,
			CreatedAt: time.Now().UTC(),
		}))
	}
	mint("stale-token", time.Now().UTC().Add(-time.Hour))
	mint("fresh-token", time.Now().UTC().Add(time.Hour))

	// Start runs a cleanup before entering its loop, and Stop blocks until
	// the worker exits, so one sweep is guaranteed in between.
	svc := NewHousekeepingService(st, slog.New(slog.DiscardHandler), time.Hour)
	svc.Start()
	svc.Stop()

	_, err = st.Tokens().GetTokenByValue(ctx, "stale-token")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.Tokens().GetTokenByValue(ctx, "fresh-token")
	require.NoError(t, err)
}
