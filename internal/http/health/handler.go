package health

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	applog "github.com/janisto/sampleapp/internal/platform/logging"
)

// Response is the payload for the health endpoint.
type Response struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Handler returns a plain HTTP handler reporting liveness and the running build version.
func Handler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(Response{Status: "healthy", Version: version}); err != nil {
			applog.LogWarn(r.Context(), "failed to write health response", zap.Error(err))
		}
	}
}
