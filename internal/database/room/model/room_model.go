package model

import (
	"time"

	playerModel "github.com/badmik-games/badmik/internal/database/player/model"
)

func NewRoom(id int64, name string, creator playerModel.Player, maxPlayers int) *Room {
	now := time.Now()
	return &Room{
		ID:              id,
		Name:            name,
		CreatorID:       creator.TelegramID,
		CreatorFullName: creator.FullName(),
		MaxPlayers:      maxPlayers,
		MemberCount:     1,
		Active:          true,
		CreatedAt:       now,
		Members: []*Member{{
			ID:       1,
			Player:   creator,
			IsLeader: true,
			JoinedAt: now,
		}},
	}
}

type Room struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	CreatorID       int64       `json:"creator_id"`
	CreatorFullName string      `json:"creator_full_name"`
	MaxPlayers      int         `json:"max_players"`
	MemberCount     int         `json:"member_count"`
	Active          bool        `json:"is_active"`
	GameFinished    bool        `json:"game_finished"`
	CreatedAt       time.Time   `json:"created_at"`
	FinishedAt      *time.Time  `json:"finished_at,omitempty"`
	Members         []*Member   `json:"members"`
	FinalScore      *FinalScore `json:"final_score,omitempty"`

	// telegram id -> change applied by the final game
	RatingChanges map[int64]RatingChange `json:"rating_changes,omitempty"`
}

type Member struct {
	ID       int                `json:"id"`
	Player   playerModel.Player `json:"player"`
	IsLeader bool               `json:"is_leader"`
	JoinedAt time.Time          `json:"joined_at"`
}

type FinalScore struct {
	Team1 int `json:"team1"`
	Team2 int `json:"team2"`
}

type RatingChange struct {
	OldRating int  `json:"old_rating"`
	NewRating int  `json:"new_rating"`
	Change    int  `json:"rating_change"`
	Team      int  `json:"team"`
	Won       bool `json:"won"`
}

func (r *Room) Member(telegramID int64) (*Member, bool) {
	for _, m := range r.Members {
		if m.Player.TelegramID == telegramID {
			return m, true
		}
	}

	return nil, false
}

// AddMember appends a member with the next join-ordered id. Ids of
// departed members are never reused.
func (r *Room) AddMember(p playerModel.Player) *Member {
	next := 0
	for _, m := range r.Members {
		if m.ID > next {
			next = m.ID
		}
	}

	m := &Member{
		ID:       next + 1,
		Player:   p,
		JoinedAt: time.Now(),
	}

	r.Members = append(r.Members, m)
	r.MemberCount = len(r.Members)

	return m
}

func (r *Room) RemoveMember(telegramID int64) (*Member, bool) {
	for i, m := range r.Members {
		if m.Player.TelegramID == telegramID {
			r.Members = append(r.Members[:i], r.Members[i+1:]...)
			r.MemberCount = len(r.Members)

			return m, true
		}
	}

	return nil, false
}

func (r *Room) MemberIDs() []int64 {
	ids := make([]int64, 0, len(r.Members))
	for _, m := range r.Members {
		ids = append(ids, m.Player.TelegramID)
	}

	return ids
}

// Finish closes the room: the game result is recorded and the room stops
// accepting membership changes.
func (r *Room) Finish(score1, score2 int, changes map[int64]RatingChange) {
	now := time.Now()
	r.GameFinished = true
	r.Active = false
	r.FinishedAt = &now
	r.FinalScore = &FinalScore{Team1: score1, Team2: score2}
	r.RatingChanges = changes
}

// Clone returns a deep copy safe to hand outside the registry lock.
func (r *Room) Clone() *Room {
	room := *r

	room.Members = make([]*Member, 0, len(r.Members))
	for _, m := range r.Members {
		member := *m
		room.Members = append(room.Members, &member)
	}

	if r.FinishedAt != nil {
		finishedAt := *r.FinishedAt
		room.FinishedAt = &finishedAt
	}

	if r.FinalScore != nil {
		score := *r.FinalScore
		room.FinalScore = &score
	}

	if r.RatingChanges != nil {
		room.RatingChanges = make(map[int64]RatingChange, len(r.RatingChanges))
		for id, change := range r.RatingChanges {
			room.RatingChanges[id] = change
		}
	}

	return &room
}
