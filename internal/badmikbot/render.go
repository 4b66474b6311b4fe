package badmikbot

import (
	"fmt"
	"strconv"

	"github.com/enescakir/emoji"
	"github.com/valyala/fastrand"

	"github.com/badmik-games/badmik/internal/badmikbot/resource"
	playerModel "github.com/badmik-games/badmik/internal/database/player/model"
	"github.com/badmik-games/badmik/internal/strpool"
)

const leaderboardSize = 10

var greetingEmojis = []fmt.Stringer{
	emoji.WavingHand,
	emoji.FlexedBiceps,
	emoji.Badminton,
	emoji.Fire,
	emoji.Trophy,
}

func greetingEmoji() string {
	idx := int(fastrand.Uint32n(uint32(len(greetingEmojis))))
	return greetingEmojis[idx].String()
}

func renderLeaderboard(players []playerModel.Player) string {
	if len(players) == 0 {
		return resource.TextLeaderboardEmpty
	}

	if len(players) > leaderboardSize {
		players = players[:leaderboardSize]
	}

	buf := strpool.Get()
	defer strpool.Put(buf)

	buf.WriteString(resource.TextLeaderboardHeader)

	var medalIcon = func(n int) string {
		var medal string
		if n == 0 {
			medal = emoji.FirstPlaceMedal.String()
		} else if n == 1 {
			medal = emoji.SecondPlaceMedal.String()
		} else if n == 2 {
			medal = emoji.ThirdPlaceMedal.String()
		}

		return medal
	}

	for n, p := range players {
		buf.WriteString(strconv.Itoa(n + 1))
		buf.WriteString(". ")
		buf.WriteString(medalIcon(n))
		buf.WriteString("*")
		buf.WriteString(p.FullName())
		buf.WriteString("*")
		buf.WriteString(" - ")
		buf.WriteString(strconv.Itoa(p.Rating))
		buf.WriteString("\n")
	}

	return buf.String()
}
