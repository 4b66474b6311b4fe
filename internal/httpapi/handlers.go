package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/badmik-games/badmik/internal/arena"
	"github.com/badmik-games/badmik/internal/buildinfo"
	playerModel "github.com/badmik-games/badmik/internal/database/player/model"
	tournamentModel "github.com/badmik-games/badmik/internal/database/tournament/model"
)

type upsertPlayerRequest struct {
	TelegramID int64  `json:"telegram_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Username   string `json:"username"`
}

type createRoomRequest struct {
	Name              string `json:"name"`
	CreatorTelegramID int64  `json:"creator_telegram_id"`
	MaxPlayers        int    `json:"max_players"`
}

type joinRoomRequest struct {
	TelegramID int64  `json:"telegram_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Username   string `json:"username"`
}

type leaveRoomRequest struct {
	TelegramID int64 `json:"telegram_id"`
}

type finishGameRequest struct {
	Team1  []int64 `json:"team1"`
	Team2  []int64 `json:"team2"`
	Score1 *int    `json:"score1"`
	Score2 *int    `json:"score2"`
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad %s", arena.ValidationErr, name)
	}

	return id, nil
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: bad json body", arena.ValidationErr)
	}

	return nil
}

func (a *API) handleRoot(w http.ResponseWriter, r *http.Request) {
	players, rooms := a.registry.Counts()
	writeJSON(w, r, http.StatusOK, rootResponse{
		Message:  textAPIBanner,
		Version:  buildinfo.Version,
		Status:   "active",
		Database: "bbolt",
		Players:  players,
		Rooms:    rooms,
	})
}

func (a *API) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := a.registry.Players()
	if err != nil {
		writeError(w, r, err)
		return
	}

	if players == nil {
		players = []playerModel.Player{}
	}

	writeJSON(w, r, http.StatusOK, players)
}

func (a *API) handleUpsertPlayer(w http.ResponseWriter, r *http.Request) {
	var req upsertPlayerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if req.TelegramID == 0 {
		writeError(w, r, fmt.Errorf("%w: telegram_id required", arena.ValidationErr))
		return
	}

	p, err := a.registry.RegisterPlayer(playerModel.Player{
		TelegramID: req.TelegramID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Username:   req.Username,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, p)
}

func (a *API) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "telegramID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := a.registry.Player(id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, p)
}

func (a *API) handleListRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, a.registry.Rooms())
}

func (a *API) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if req.CreatorTelegramID == 0 {
		writeError(w, r, fmt.Errorf("%w: creator_telegram_id required", arena.ValidationErr))
		return
	}

	room, err := a.registry.CreateRoom(req.CreatorTelegramID, req.Name, req.MaxPlayers)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, room)
}

func (a *API) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "roomID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	room, err := a.registry.Room(id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, room)
}

func (a *API) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "roomID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := a.registry.DeleteRoom(id); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, messageResponse{Message: textRoomDeleted})
}

func (a *API) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "roomID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req joinRoomRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if req.TelegramID == 0 {
		writeError(w, r, fmt.Errorf("%w: telegram_id required", arena.ValidationErr))
		return
	}

	room, member, already, err := a.registry.JoinRoom(id, playerModel.Player{
		TelegramID: req.TelegramID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Username:   req.Username,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	if already {
		writeJSON(w, r, http.StatusOK, alreadyJoinedResponse{Message: textAlreadyInRoom, Room: room})
		return
	}

	writeJSON(w, r, http.StatusOK, joinResponse{Message: textJoinedRoom, Room: room, Member: member})
}

func (a *API) handleLeaveRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "roomID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req leaveRoomRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if req.TelegramID == 0 {
		writeError(w, r, fmt.Errorf("%w: telegram_id required", arena.ValidationErr))
		return
	}

	res, err := a.registry.LeaveRoom(id, req.TelegramID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	switch {
	case res.Disbanded:
		writeJSON(w, r, http.StatusOK, disbandedResponse{
			Message:         textRoomDisbanded,
			RoomDisbanded:   true,
			AffectedMembers: res.AffectedMembers,
		})
	case res.Deleted:
		writeJSON(w, r, http.StatusOK, messageResponse{Message: textLeftRoomEmpty})
	default:
		writeJSON(w, r, http.StatusOK, leaveResponse{
			Message:       textLeftRoom,
			Room:          res.Room,
			RemovedMember: res.Removed,
		})
	}
}

func (a *API) handleFinishGame(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "roomID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req finishGameRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if req.Score1 == nil || req.Score2 == nil {
		writeError(w, r, fmt.Errorf("%w: score1 and score2 required", arena.ValidationErr))
		return
	}

	room, changes, err := a.registry.FinishGame(id, req.Team1, req.Team2, *req.Score1, *req.Score2)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, finishResponse{
		Message:       textGameFinished,
		Room:          room,
		RatingChanges: changes,
	})
}

func (a *API) handleStartTournament(w http.ResponseWriter, r *http.Request) {
	tournament, err := a.registry.StartTournament()
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, tournamentActionResponse{
		Message:      tournamentStartedText(tournament.ID),
		TournamentID: tournament.ID,
	})
}

func (a *API) handleEndTournament(w http.ResponseWriter, r *http.Request) {
	tournament, err := a.registry.EndTournament()
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, tournamentActionResponse{
		Message:      tournamentEndedText(tournament.ID),
		TournamentID: tournament.ID,
	})
}

func (a *API) handleGetTournament(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "tournamentID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	tournament, games, err := a.registry.Tournament(id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if games == nil {
		games = []tournamentModel.GameRecord{}
	}

	writeJSON(w, r, http.StatusOK, tournamentResponse{
		TournamentID: tournament.ID,
		Tournament:   tournament,
		Games:        games,
		Message:      tournamentDataText(tournament.ID),
	})
}
