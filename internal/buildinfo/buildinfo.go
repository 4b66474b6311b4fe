package buildinfo

const (
	ProjectName = "badmik"

	// Version is the fallback when the binary is built without ldflags.
	Version = "1.0.0"

	TgBotURL     = "https://t.me/GoBadmikAppBot"
	GithubURL    = "https://github.com/badmik-games/badmik"
	BotFatherURL = "https://t.me/BotFather"
)

const Graffiti = `
 _               _           _ _
| |__   __ _  __| |_ __ ___ (_) | __
| '_ \ / _' |/ _' | '_ ' _ \| | |/ /
| |_) | (_| | (_| | | | | | | |   <
|_.__/ \__,_|\__,_|_| |_| |_|_|_|\_\

`

const GreetingCLI = "%s version: %s\nTelegram: %s\nGithub: %s\n\n"
