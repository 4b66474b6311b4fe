package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/enescakir/emoji"

	"github.com/badmik-games/badmik/internal/arena"
	roomModel "github.com/badmik-games/badmik/internal/database/room/model"
	tournamentModel "github.com/badmik-games/badmik/internal/database/tournament/model"
	"github.com/badmik-games/badmik/internal/logging"
)

const (
	textJoinedRoom    = "Успешно присоединились к комнате"
	textAlreadyInRoom = "Вы уже в комнате"
	textRoomDisbanded = "Комната расформирована"
	textLeftRoomEmpty = "Вы покинули комнату. Комната удалена."
	textLeftRoom      = "Вы покинули комнату"
	textGameFinished  = "Игра завершена!"
	textRoomDeleted   = "Комната успешно удалена"
)

var textAPIBanner = emoji.Badminton.String() + " Badminton Rating API"

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type rootResponse struct {
	Message  string `json:"message"`
	Version  string `json:"version"`
	Status   string `json:"status"`
	Database string `json:"database"`
	Players  int    `json:"players"`
	Rooms    int    `json:"rooms"`
}

type joinResponse struct {
	Message string            `json:"message"`
	Room    *roomModel.Room   `json:"room"`
	Member  *roomModel.Member `json:"member"`
}

type alreadyJoinedResponse struct {
	Message string          `json:"message"`
	Room    *roomModel.Room `json:"room"`
}

type leaveResponse struct {
	Message       string            `json:"message"`
	Room          *roomModel.Room   `json:"room"`
	RemovedMember *roomModel.Member `json:"removed_member"`
}

type disbandedResponse struct {
	Message         string  `json:"message"`
	RoomDisbanded   bool    `json:"room_disbanded"`
	AffectedMembers []int64 `json:"affected_members"`
}

type finishResponse struct {
	Message       string                           `json:"message"`
	Room          *roomModel.Room                  `json:"room"`
	RatingChanges map[int64]roomModel.RatingChange `json:"rating_changes"`
}

type tournamentActionResponse struct {
	Message      string `json:"message"`
	TournamentID int64  `json:"tournament_id"`
}

type tournamentResponse struct {
	TournamentID int64                        `json:"tournament_id"`
	Tournament   tournamentModel.Tournament   `json:"tournament"`
	Games        []tournamentModel.GameRecord `json:"games"`
	Message      string                       `json:"message"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Errorf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusCode(err)
	if status == http.StatusInternalServerError {
		logging.FromContext(r.Context()).Errorf("internal error: %v", err)
	}

	writeJSON(w, r, status, errorResponse{Error: errorText(err)})
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, arena.RoomNotFoundErr),
		errors.Is(err, arena.PlayerNotFoundErr),
		errors.Is(err, arena.TournamentNotFoundErr):
		return http.StatusNotFound
	case errors.Is(err, arena.ValidationErr),
		errors.Is(err, arena.InvalidRosterErr),
		errors.Is(err, arena.NotMemberErr):
		return http.StatusBadRequest
	case errors.Is(err, arena.DuplicateRoomErr),
		errors.Is(err, arena.RoomFullErr),
		errors.Is(err, arena.RoomFinishedErr),
		errors.Is(err, arena.TournamentActiveErr),
		errors.Is(err, arena.NoTournamentErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorText keeps user-facing texts in the language the mini-app shows.
func errorText(err error) string {
	switch {
	case errors.Is(err, arena.RoomNotFoundErr):
		return "Комната не найдена"
	case errors.Is(err, arena.PlayerNotFoundErr):
		return "Игрок не найден"
	case errors.Is(err, arena.TournamentNotFoundErr):
		return "Турнир не найден"
	case errors.Is(err, arena.DuplicateRoomErr):
		return "Вы уже создали комнату. Можно создать только одну комнату одновременно."
	case errors.Is(err, arena.RoomFullErr):
		return "Комната заполнена"
	case errors.Is(err, arena.RoomFinishedErr):
		return "Игра в комнате уже завершена"
	case errors.Is(err, arena.NotMemberErr):
		return "Вы не состоите в этой комнате"
	case errors.Is(err, arena.InvalidRosterErr):
		return "Для завершения игры в комнате должно быть 2 или 4 игрока"
	case errors.Is(err, arena.TournamentActiveErr):
		return "Турнир уже запущен"
	case errors.Is(err, arena.NoTournamentErr):
		return "Нет активного турнира"
	default:
		return err.Error()
	}
}

func tournamentStartedText(id int64) string {
	return fmt.Sprintf("Турнир #%d начат!", id)
}

func tournamentEndedText(id int64) string {
	return fmt.Sprintf("Турнир #%d завершен!", id)
}

func tournamentDataText(id int64) string {
	return fmt.Sprintf("Данные турнира #%d", id)
}
