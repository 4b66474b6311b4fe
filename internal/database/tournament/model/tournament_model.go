package model

import (
	"time"

	"github.com/google/uuid"

	roomModel "github.com/badmik-games/badmik/internal/database/room/model"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

func NewTournament(id int64) Tournament {
	return Tournament{
		ID:        id,
		Status:    StatusActive,
		StartTime: time.Now(),
	}
}

type Tournament struct {
	ID        int64      `json:"id"`
	Status    Status     `json:"status"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

func NewGameRecord(tournamentID, roomID int64, team1, team2 []int64, score1, score2 int,
	changes map[int64]roomModel.RatingChange) GameRecord {
	rec := GameRecord{
		ID:            uuid.New(),
		TournamentID:  tournamentID,
		RoomID:        roomID,
		Timestamp:     time.Now(),
		Team1:         append([]int64(nil), team1...),
		Team2:         append([]int64(nil), team2...),
		Score1:        score1,
		Score2:        score2,
		RatingChanges: make(map[int64]roomModel.RatingChange, len(changes)),
	}

	for id, change := range changes {
		rec.RatingChanges[id] = change
	}

	return rec
}

// GameRecord is one entry of a tournament game log.
type GameRecord struct {
	ID            uuid.UUID                        `json:"id"`
	TournamentID  int64                            `json:"tournament_id"`
	RoomID        int64                            `json:"room_id"`
	Timestamp     time.Time                        `json:"timestamp"`
	Team1         []int64                          `json:"team1"`
	Team2         []int64                          `json:"team2"`
	Score1        int                              `json:"score1"`
	Score2        int                              `json:"score2"`
	RatingChanges map[int64]roomModel.RatingChange `json:"rating_changes"`
}
