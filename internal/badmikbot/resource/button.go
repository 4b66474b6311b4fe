package resource

import (
	"github.com/enescakir/emoji"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

var (
	// inline menu button text
	PlayButtonText     = emoji.Badminton.String() + " Начать игру"
	InitialsButtonText = emoji.Pencil.String() + " Изменить инициалы"

	InitialsButtonData = "change_initials"
)

// StartButtons assembles the /start inline keyboard. The play button
// opens the mini-app.
func StartButtons(miniAppURL string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(InitialsButtonText, InitialsButtonData),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(PlayButtonText, miniAppURL),
		),
	)
}
