package server

import (
	"context"
	"net/http"
	"time"

	"github.com/badmik-games/badmik/internal/logging"
)

// HandleHealth returns the liveness probe handler.
func HandleHealth(ctx context.Context) http.Handler {
	logger := logging.FromContext(ctx).Named("server.health")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"status": "healthy", "timestamp": "` +
			time.Now().Format(time.RFC3339) + `"}`)); err != nil {
			logger.Errorf("write response: %v", err)
		}
	})
}
