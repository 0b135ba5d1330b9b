package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	tok := OneTimeToken{ExpiresAt: now}

	// Expiry exactly at now is still valid; only a strictly earlier expiry
	// counts as expired.
	require.False(t, tok.Expired(now))
	require.False(t, tok.Expired(now.Add(-time.Second)))
	require.True(t, tok.Expired(now.Add(time.Second)))
}
