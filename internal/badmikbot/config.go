package badmikbot

import (
	"time"

	"github.com/badmik-games/badmik/internal/database"
)

type Config struct {
	// Chat id allowed to run admin commands, 0 disables them
	AdminChatID int64 `envconfig:"BADMIK_ADMIN_CHAT_ID"`

	// Logging all requests and responses from telegram
	Debug bool `envconfig:"BADMIK_DEBUG" default:"false"`

	// Number of items in the player and game caches
	CacheSize int `envconfig:"BADMIK_CACHE_SIZE" default:"1024"`

	// Port on which health check and REST API are launched
	Port string `envconfig:"BADMIK_PORT" default:"1234"`

	// profile port
	ProfPort string `envconfig:"BADMIK_PROF_PORT" default:"8888"`

	// Telegram bot token
	BotToken string `envconfig:"BADMIK_BOT_TOKEN"`

	// Mini-app frontend opened by the play button
	MiniAppURL string `envconfig:"BADMIK_MINI_APP_URL" default:"https://vanporigon-tech.github.io/badminton-rating-app"`

	TgBotPollTimeout time.Duration `envconfig:"BADMIK_TG_BOT_POLL_TIMEOUT" default:"60s"`
	Db               database.Config
}
