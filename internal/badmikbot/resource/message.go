package resource

import "github.com/enescakir/emoji"

// bot commands
const (
	CmdStart           = "/start"
	CmdTop             = "/top"
	CmdAdminClearRooms = "/admin_clear_rooms"
)

// bot text messages
var (
	TextGreetingMsg = "Привет, %s! %s\n\n" +
		"Добро пожаловать в систему рейтинга бадминтона!\n\n" +
		"Нажмите на кнопку *Начать игру* чтобы открыть Mini App."

	TextSendInitialsMsg    = emoji.Pencil.String() + " Отправьте новые инициалы сообщением в формате: Имя Фамилия"
	TextInitialsUpdatedMsg = emoji.CheckMarkButton.String() + " Инициалы обновлены: %s"
	TextInitialsInvalidMsg = "Нужно два слова: Имя Фамилия. Попробуйте еще раз"

	TextAdminOnlyMsg    = emoji.CrossMark.String() + " У вас нет прав для выполнения этой команды."
	TextRoomsClearedMsg = emoji.CheckMarkButton.String() + " Все комнаты успешно очищены и расформированы. Удалено: %d %s"

	TextLeaderboardHeader = emoji.Trophy.String() + " *Таблица лидеров*\n\n"
	TextLeaderboardEmpty  = "Пока нет ни одного игрока. Сыграйте первую игру!"

	TextUnknownCmdMsg     = "Не знаю такую команду. Отправьте " + CmdStart
	TextChatNotAllowedMsg = emoji.WomanGesturingNo.String() + " Бот не работает с групповыми чатами =("
)
