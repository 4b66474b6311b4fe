package arena

import (
	"errors"
	"fmt"
	"time"

	roomModel "github.com/badmik-games/badmik/internal/database/room/model"
	tournamentDb "github.com/badmik-games/badmik/internal/database/tournament/database"
	tournamentModel "github.com/badmik-games/badmik/internal/database/tournament/model"
	"github.com/badmik-games/badmik/internal/metrics"
)

// StartTournament opens a new tournament, at most one runs at a time.
func (r *Registry) StartTournament() (tournamentModel.Tournament, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.tournament != nil {
		return *r.tournament, fmt.Errorf("%w: #%d", TournamentActiveErr, r.tournament.ID)
	}

	id, err := r.tournamentDb.NextID()
	if err != nil {
		return tournamentModel.Tournament{}, fmt.Errorf("tournament db next id: %w", err)
	}

	t := tournamentModel.NewTournament(id)
	if err := r.tournamentDb.Store(t); err != nil {
		return t, fmt.Errorf("tournament db store: %w", err)
	}

	r.tournament = &t
	r.logger.Infof("tournament #%d started", id)

	return t, nil
}

func (r *Registry) EndTournament() (tournamentModel.Tournament, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.tournament == nil {
		return tournamentModel.Tournament{}, NoTournamentErr
	}

	t := *r.tournament
	now := time.Now()
	t.Status = tournamentModel.StatusFinished
	t.EndTime = &now

	if err := r.tournamentDb.Store(t); err != nil {
		return t, fmt.Errorf("tournament db store: %w", err)
	}

	r.tournament = nil
	r.logger.Infof("tournament #%d finished", t.ID)

	return t, nil
}

// Tournament returns stored metadata and the game log in append order.
// Finished tournaments stay readable.
func (r *Registry) Tournament(id int64) (tournamentModel.Tournament, []tournamentModel.GameRecord, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	t, err := r.tournamentDb.Fetch(id)
	if err != nil {
		if errors.Is(err, tournamentDb.NotFoundErr) {
			return t, nil, TournamentNotFoundErr
		}
		return t, nil, fmt.Errorf("tournament db fetch: %w", err)
	}

	games, err := r.tournamentDb.FetchGames(id)
	if err != nil && !errors.Is(err, tournamentDb.NotFoundErr) {
		return t, nil, fmt.Errorf("tournament db fetch games: %w", err)
	}

	return t, games, nil
}

// recordGameLocked appends the game to the running tournament. When none
// is running the game is simply not logged.
func (r *Registry) recordGameLocked(roomID int64, team1, team2 []int64, score1, score2 int,
	changes map[int64]roomModel.RatingChange) {
	if r.tournament == nil {
		return
	}

	rec := tournamentModel.NewGameRecord(r.tournament.ID, roomID, team1, team2, score1, score2, changes)
	if err := r.tournamentDb.AddGame(rec); err != nil {
		r.logger.Errorf("tournament db add game: %v", err)
		return
	}

	metrics.TournamentGames.Inc()
}
