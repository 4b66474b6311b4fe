package badmikbot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/badmik-games/badmik/internal/badmikbot/resource"
)

func (m *manager) isAdmin(chatID int64) (bool, error) {
	if m.config.AdminChatID == 0 || chatID != m.config.AdminChatID {
		if _, err := m.tg.Send(tgbotapi.NewMessage(chatID, resource.TextAdminOnlyMsg)); err != nil {
			return false, fmt.Errorf("send msg: %w", err)
		}

		return false, nil
	}

	return true, nil
}
