package http

import (
	"net/http"

	"github.com/potluckhq/potluck/pkg/httpx"
	"github.com/potluckhq/potluck/pkg/jwtx"
)

// JWKSHandler exposes the JSON Web Key Set for public key discovery, so
// other services can verify access tokens without sharing the private key.
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, keys.PublicJWKS())
	}
}
