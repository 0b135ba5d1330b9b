package app

import (
	"fmt"
	"log/slog"

	"github.com/potluckhq/potluck/pkg/cryptox"
	"github.com/potluckhq/potluck/pkg/idx"
	"github.com/potluckhq/potluck/pkg/jwtx"
)

// InitKeys generates an ephemeral Ed25519 signing key and wires it into a
// KeySet plus a verifier. The key lives only in memory, so every access
// token is invalidated when the service restarts. That matches the short
// access-token lifetime: the longest-lived credential is minutes old.
func InitKeys(cfg Config, logger *slog.Logger) (jwtx.Signer, *jwtx.KeySet, jwtx.Verifier, error) {
	pemKey, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to generate signing key: %w", err)
	}

	kid := idx.New().String()
	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create signer: %w", err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to register signing key: %w", err)
	}

	verifier := jwtx.NewCommonEdDSA(keys, cfg.Issuer, nil)

	logger.Info("generated ephemeral signing key",
		slog.String("kid", kid),
		slog.String("issuer", cfg.Issuer),
	)
	logger.Warn("all previously issued tokens are now invalid")

	return signer, keys, verifier, nil
}
