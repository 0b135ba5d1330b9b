package http

import (
	"net/http"
	"time"

	"github.com/potluckhq/potluck/internal/store"
	"github.com/potluckhq/potluck/pkg/api"
	"github.com/potluckhq/potluck/pkg/httpx"
	"github.com/potluckhq/potluck/pkg/jwtx"
)

// ReadyzHandler returns a readiness probe handler. It checks the database
// connection and that the signing key set is loaded, and answers 503 with a
// per-dependency breakdown when either is unhealthy.
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	keys *jwtx.KeySet,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &api.HealthChecks{
			Database: "ok",
			Signer:   "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if !keys.IsReady() {
			checks.Signer = "error: no keys loaded"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, api.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
