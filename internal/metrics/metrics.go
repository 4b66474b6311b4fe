// Package metrics exposes the process Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "badmik_rooms_created_total",
		Help: "Rooms created since process start.",
	})

	RoomsDisbanded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "badmik_rooms_disbanded_total",
		Help: "Rooms removed by creator departure, emptying or deletion.",
	})

	GamesFinished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "badmik_games_finished_total",
		Help: "Games resolved into rating changes.",
	})

	TournamentGames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "badmik_tournament_games_total",
		Help: "Game records appended to tournament logs.",
	})

	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "badmik_active_rooms",
		Help: "Rooms currently open.",
	})
)

// Handler serves the default prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
