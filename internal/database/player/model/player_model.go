package model

import (
	"strings"
	"time"
)

// DefaultRating is the rating every player starts from.
const DefaultRating = 1500

func NewPlayer(telegramID int64, firstName, lastName, username string) Player {
	return Player{
		ID:         telegramID,
		TelegramID: telegramID,
		FirstName:  firstName,
		LastName:   lastName,
		Username:   username,
		Rating:     DefaultRating,
		CreatedAt:  time.Now(),
	}
}

type Player struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name,omitempty"`
	Username   string    `json:"username,omitempty"`
	Rating     int       `json:"rating"`
	CreatedAt  time.Time `json:"created_at"`
}

// FullName joins the display fields the way room listings show players.
func (p Player) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
