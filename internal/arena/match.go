package arena

import (
	"fmt"

	playerModel "github.com/badmik-games/badmik/internal/database/player/model"
	roomModel "github.com/badmik-games/badmik/internal/database/room/model"
	"github.com/badmik-games/badmik/internal/glicko"
	"github.com/badmik-games/badmik/internal/metrics"
)

// Outcome classifies a finished game. A draw is an explicit variant, not
// a degenerate win.
type Outcome uint8

const (
	OutcomeDraw Outcome = iota
	OutcomeTeam1
	OutcomeTeam2
)

func ClassifyScore(score1, score2 int) Outcome {
	switch {
	case score1 > score2:
		return OutcomeTeam1
	case score2 > score1:
		return OutcomeTeam2
	default:
		return OutcomeDraw
	}
}

// score is the glicko score the given team plays the game with.
func (o Outcome) score(team int) float64 {
	switch o {
	case OutcomeTeam1:
		if team == 1 {
			return 1
		}
		return 0
	case OutcomeTeam2:
		if team == 2 {
			return 1
		}
		return 0
	default:
		return 0.5
	}
}

// won reports whether the team took the game, false for both on a draw.
func (o Outcome) won(team int) bool {
	switch o {
	case OutcomeTeam1:
		return team == 1
	case OutcomeTeam2:
		return team == 2
	default:
		return false
	}
}

// FinishGame resolves the room's game: ratings move for every known
// roster player, the room flips to finished and the game lands in the
// tournament log when one is running. The whole effect is applied under
// one lock hold.
func (r *Registry) FinishGame(roomID int64, team1, team2 []int64, score1, score2 int) (*roomModel.Room, map[int64]roomModel.RatingChange, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil, nil, RoomNotFoundErr
	}

	if room.GameFinished {
		return nil, nil, RoomFinishedErr
	}

	if len(room.Members) != 2 && len(room.Members) != 4 {
		return nil, nil, fmt.Errorf("%w: %d members", InvalidRosterErr, len(room.Members))
	}

	changes, err := r.resolveLocked(team1, team2, score1, score2)
	if err != nil {
		return nil, nil, err
	}

	room.Finish(score1, score2, changes)

	metrics.GamesFinished.Inc()
	metrics.ActiveRooms.Dec()

	r.recordGameLocked(roomID, team1, team2, score1, score2, changes)

	r.logger.Infof("room #%d finished %d:%d", roomID, score1, score2)

	return r.viewLocked(room), changes, nil
}

// resolveLocked applies the rating step to both sides. Unknown ids are
// skipped, an empty opposing side leaves ratings untouched.
func (r *Registry) resolveLocked(team1, team2 []int64, score1, score2 int) (map[int64]roomModel.RatingChange, error) {
	t1 := r.lookupPlayersLocked(team1)
	t2 := r.lookupPlayersLocked(team2)

	outcome := ClassifyScore(score1, score2)

	// aggregate both sides up front so a bad roster fails before any
	// rating is written
	res1, err := opponentResults(t2, outcome.score(1))
	if err != nil {
		return nil, err
	}

	res2, err := opponentResults(t1, outcome.score(2))
	if err != nil {
		return nil, err
	}

	changes := make(map[int64]roomModel.RatingChange, len(t1)+len(t2))

	if err := r.updateSideLocked(changes, t1, res1, 1, outcome); err != nil {
		return nil, err
	}

	if err := r.updateSideLocked(changes, t2, res2, 2, outcome); err != nil {
		return nil, err
	}

	return changes, nil
}

// lookupPlayersLocked resolves roster ids, unknown ids are dropped so a
// stale client roster cannot fail a whole game.
func (r *Registry) lookupPlayersLocked(ids []int64) []playerModel.Player {
	players := make([]playerModel.Player, 0, len(ids))
	for _, id := range ids {
		p, err := r.playerDb.Fetch(id)
		if err != nil {
			r.logger.Debugf("roster id %d unknown, skipped", id)
			continue
		}
		players = append(players, p)
	}

	return players
}

// opponentResults reduces the opposing side to the single result a team
// plays against. No opponents means no results and a no-op update.
func opponentResults(opponents []playerModel.Player, score float64) ([]glicko.Result, error) {
	if len(opponents) == 0 {
		return nil, nil
	}

	ratings := make([]int, 0, len(opponents))
	for _, p := range opponents {
		ratings = append(ratings, p.Rating)
	}

	rating, err := glicko.TeamRating(ratings)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", InvalidRosterErr, err)
	}

	return []glicko.Result{{
		OpponentRating: float64(rating),
		OpponentRD:     glicko.DefaultRD,
		Score:          score,
	}}, nil
}

func (r *Registry) updateSideLocked(changes map[int64]roomModel.RatingChange, side []playerModel.Player,
	results []glicko.Result, team int, outcome Outcome) error {
	for _, p := range side {
		newRating, _, _ := glicko.Update(p.Rating, glicko.DefaultRD, glicko.DefaultVolatility, results)
		if err := r.playerDb.SetRating(p.TelegramID, newRating); err != nil {
			return fmt.Errorf("player db set rating: %w", err)
		}

		changes[p.TelegramID] = roomModel.RatingChange{
			OldRating: p.Rating,
			NewRating: newRating,
			Change:    newRating - p.Rating,
			Team:      team,
			Won:       outcome.won(team),
		}
	}

	return nil
}
