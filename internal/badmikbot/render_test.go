package badmikbot

import (
	"strings"
	"testing"

	"github.com/enescakir/emoji"

	"github.com/badmik-games/badmik/internal/badmikbot/resource"
	playerModel "github.com/badmik-games/badmik/internal/database/player/model"
)

func TestRenderLeaderboardEmpty(t *testing.T) {
	t.Parallel()

	if got := renderLeaderboard(nil); got != resource.TextLeaderboardEmpty {
		t.Errorf("unexpected empty render %q", got)
	}
}

func TestRenderLeaderboardOrder(t *testing.T) {
	t.Parallel()

	players := []playerModel.Player{
		{TelegramID: 1, FirstName: "Анна", LastName: "Смирнова", Rating: 1720},
		{TelegramID: 2, FirstName: "Борис", Rating: 1640},
		{TelegramID: 3, FirstName: "Вера", Rating: 1500},
		{TelegramID: 4, FirstName: "Глеб", Rating: 1480},
	}

	got := renderLeaderboard(players)

	if !strings.Contains(got, "*Анна Смирнова*") || !strings.Contains(got, "1720") {
		t.Errorf("leaderboard missing first place: %q", got)
	}

	if strings.Index(got, "Анна") > strings.Index(got, "Борис") {
		t.Errorf("places out of order: %q", got)
	}

	if !strings.Contains(got, emoji.FirstPlaceMedal.String()) ||
		!strings.Contains(got, emoji.ThirdPlaceMedal.String()) {
		t.Errorf("medals missing: %q", got)
	}

	// fourth place gets a number, no medal
	if !strings.Contains(got, "4. *Глеб*") {
		t.Errorf("unexpected fourth place render: %q", got)
	}
}

func TestRenderLeaderboardCap(t *testing.T) {
	t.Parallel()

	players := make([]playerModel.Player, 0, 12)
	for i := 0; i < 12; i++ {
		players = append(players, playerModel.Player{
			TelegramID: int64(i + 1),
			FirstName:  "Игрок",
			Rating:     1500 - i,
		})
	}

	got := renderLeaderboard(players)
	if !strings.Contains(got, "10. ") {
		t.Errorf("tenth place missing: %q", got)
	}

	if strings.Contains(got, "11. ") {
		t.Errorf("leaderboard not capped: %q", got)
	}
}

func TestGreetingEmoji(t *testing.T) {
	t.Parallel()

	for i := 0; i < 20; i++ {
		if greetingEmoji() == "" {
			t.Fatal("empty greeting emoji")
		}
	}
}
