// Package httpapi exposes the JSON API the mini-app talks to.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/badmik-games/badmik/internal/arena"
	"github.com/badmik-games/badmik/internal/logging"
	"github.com/badmik-games/badmik/internal/metrics"
	"github.com/badmik-games/badmik/internal/server"
)

func New(registry *arena.Registry) *API {
	return &API{registry: registry}
}

type API struct {
	registry *arena.Registry
}

// Handler assembles the route tree. The mini-app frontend issues some
// verbs through DELETE, so the action routes accept both.
func (a *API) Handler(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(withLogger(logging.FromContext(ctx).Named("httpapi")))
	r.Use(cors)

	r.Get("/", a.handleRoot)
	r.Method(http.MethodGet, "/health", server.HandleHealth(ctx))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/players", func(r chi.Router) {
		r.Get("/", a.handleListPlayers)
		r.Post("/", a.handleUpsertPlayer)
		r.Get("/{telegramID}", a.handleGetPlayer)
	})

	r.Route("/rooms", func(r chi.Router) {
		r.Get("/", a.handleListRooms)
		r.Post("/", a.handleCreateRoom)

		r.Route("/{roomID}", func(r chi.Router) {
			r.Get("/", a.handleGetRoom)
			r.Delete("/", a.handleDeleteRoom)
			r.Post("/join", a.handleJoinRoom)
			r.Post("/leave", a.handleLeaveRoom)
			r.Post("/finish-game", a.handleFinishGame)
			r.Delete("/finish-game", a.handleFinishGame)
		})
	})

	r.Route("/tournament", func(r chi.Router) {
		r.Post("/start", a.handleStartTournament)
		r.Delete("/start", a.handleStartTournament)
		r.Post("/end", a.handleEndTournament)
		r.Delete("/end", a.handleEndTournament)
		r.Get("/{tournamentID}", a.handleGetTournament)
	})

	return r
}

func withLogger(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(logging.WithLogger(r.Context(), logger)))
		})
	}
}

// cors lets the mini-app call the API from its own origin.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
