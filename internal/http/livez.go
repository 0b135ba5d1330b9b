package http

import (
	"net/http"
	"time"

	"github.com/potluckhq/potluck/pkg/api"
	"github.com/potluckhq/potluck/pkg/httpx"
)

// LivezHandler returns a liveness probe handler. It answers 200 whenever the
// process is up, with uptime and build version for operators.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, api.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}
