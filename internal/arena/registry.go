// Package arena owns the live room state and every rating mutation.
package arena

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"go.uber.org/zap"

	playerDb "github.com/badmik-games/badmik/internal/database/player/database"
	playerModel "github.com/badmik-games/badmik/internal/database/player/model"
	roomDb "github.com/badmik-games/badmik/internal/database/room/database"
	roomModel "github.com/badmik-games/badmik/internal/database/room/model"
	tournamentDb "github.com/badmik-games/badmik/internal/database/tournament/database"
	tournamentModel "github.com/badmik-games/badmik/internal/database/tournament/model"
	"github.com/badmik-games/badmik/internal/logging"
	"github.com/badmik-games/badmik/internal/metrics"
)

const defaultMaxPlayers = 4

func New(ctx context.Context, players *playerDb.DB, rooms *roomDb.DB, tournaments *tournamentDb.DB) *Registry {
	return &Registry{
		logger:       logging.FromContext(ctx).Named("arena"),
		playerDb:     players,
		roomDb:       rooms,
		tournamentDb: tournaments,
		rooms:        map[int64]*roomModel.Room{},
	}
}

// Registry serializes every room and rating mutation behind one lock, so
// readers observe either the whole effect of a game or none of it.
type Registry struct {
	mtx sync.RWMutex

	logger *zap.SugaredLogger

	playerDb     *playerDb.DB
	roomDb       *roomDb.DB
	tournamentDb *tournamentDb.DB

	// room id -> live room, open and finished rooms until deleted
	rooms map[int64]*roomModel.Room

	// running tournament, nil when none
	tournament *tournamentModel.Tournament
}

// RegisterPlayer upserts a player profile. The rating and the creation
// time of an existing player are never touched.
func (r *Registry) RegisterPlayer(p playerModel.Player) (playerModel.Player, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return r.registerPlayerLocked(p)
}

func (r *Registry) registerPlayerLocked(p playerModel.Player) (playerModel.Player, error) {
	existing, err := r.playerDb.Fetch(p.TelegramID)
	if err != nil {
		if !errors.Is(err, playerDb.NotFoundErr) {
			return p, fmt.Errorf("player db fetch: %w", err)
		}

		created := playerModel.NewPlayer(p.TelegramID, p.FirstName, p.LastName, p.Username)
		if err := r.playerDb.Store(created); err != nil {
			return created, fmt.Errorf("player db store: %w", err)
		}

		r.logger.Infof("player %d registered", p.TelegramID)

		return created, nil
	}

	existing.FirstName = p.FirstName
	if p.LastName != "" {
		existing.LastName = p.LastName
	}
	if p.Username != "" {
		existing.Username = p.Username
	}

	if err := r.playerDb.Store(existing); err != nil {
		return existing, fmt.Errorf("player db store: %w", err)
	}

	return existing, nil
}

func (r *Registry) Player(telegramID int64) (playerModel.Player, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	p, err := r.playerDb.Fetch(telegramID)
	if err != nil {
		if errors.Is(err, playerDb.NotFoundErr) {
			return p, PlayerNotFoundErr
		}
		return p, fmt.Errorf("player db fetch: %w", err)
	}

	return p, nil
}

// Players lists every registered player, best rating first.
func (r *Registry) Players() ([]playerModel.Player, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	players, err := r.playerDb.FetchAll()
	if err != nil {
		if errors.Is(err, playerDb.NotFoundErr) {
			return nil, nil
		}
		return nil, fmt.Errorf("player db fetch all: %w", err)
	}

	sort.Slice(players, func(i, j int) bool {
		return players[i].Rating > players[j].Rating
	})

	return players, nil
}

// Counts reports registered players and live rooms for the status page.
func (r *Registry) Counts() (int, int) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	players, err := r.playerDb.FetchAll()
	if err != nil {
		players = nil
	}

	return len(players), len(r.rooms)
}

func (r *Registry) CreateRoom(creatorID int64, name string, maxPlayers int) (*roomModel.Room, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name required", ValidationErr)
	}

	if maxPlayers == 0 {
		maxPlayers = defaultMaxPlayers
	}

	if maxPlayers < 2 {
		return nil, fmt.Errorf("%w: max players must be at least 2", ValidationErr)
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, room := range r.rooms {
		if room.Active && room.CreatorID == creatorID {
			return nil, fmt.Errorf("%w: room #%d", DuplicateRoomErr, room.ID)
		}
	}

	creator, err := r.playerDb.Fetch(creatorID)
	if err != nil {
		if !errors.Is(err, playerDb.NotFoundErr) {
			return nil, fmt.Errorf("player db fetch: %w", err)
		}

		// an unknown creator gets a placeholder profile, the bot or the
		// mini-app fills the real initials later
		creator = playerModel.NewPlayer(creatorID, "Игрок", strconv.FormatInt(creatorID, 10), "")
		if err := r.playerDb.Store(creator); err != nil {
			return nil, fmt.Errorf("player db store: %w", err)
		}
	}

	id, err := r.roomDb.NextID()
	if err != nil {
		return nil, fmt.Errorf("room db next id: %w", err)
	}

	room := roomModel.NewRoom(id, name, creator, maxPlayers)
	r.rooms[id] = room

	metrics.RoomsCreated.Inc()
	metrics.ActiveRooms.Inc()

	r.logger.Infof("room #%d created by %d", id, creatorID)

	return r.viewLocked(room), nil
}

// JoinRoom adds the player to the room, registering the profile on the
// fly. Joining a room you are already in is a no-op, the bool reports it.
func (r *Registry) JoinRoom(roomID int64, p playerModel.Player) (*roomModel.Room, *roomModel.Member, bool, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil, nil, false, RoomNotFoundErr
	}

	if room.GameFinished {
		return nil, nil, false, RoomFinishedErr
	}

	if _, ok := room.Member(p.TelegramID); ok {
		return r.viewLocked(room), nil, true, nil
	}

	if len(room.Members) >= room.MaxPlayers {
		return nil, nil, false, fmt.Errorf("%w: %d/%d", RoomFullErr, len(room.Members), room.MaxPlayers)
	}

	stored, err := r.registerPlayerLocked(p)
	if err != nil {
		return nil, nil, false, err
	}

	member := *room.AddMember(stored)

	r.logger.Infof("player %d joined room #%d", p.TelegramID, roomID)

	return r.viewLocked(room), &member, false, nil
}

type LeaveResult struct {
	// Room is nil when the departure removed the room.
	Room    *roomModel.Room
	Removed *roomModel.Member

	// Disbanded marks a creator departure that evicted everyone else.
	Disbanded bool

	// Deleted marks a room removed because the last member left.
	Deleted bool

	// AffectedMembers holds the evicted player ids on disband.
	AffectedMembers []int64
}

func (r *Registry) LeaveRoom(roomID, telegramID int64) (*LeaveResult, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil, RoomNotFoundErr
	}

	if room.GameFinished {
		return nil, RoomFinishedErr
	}

	member, ok := room.RemoveMember(telegramID)
	if !ok {
		return nil, NotMemberErr
	}

	removed := *member
	res := &LeaveResult{Removed: &removed}

	switch {
	case telegramID == room.CreatorID:
		res.Disbanded = true
		res.AffectedMembers = room.MemberIDs()
		delete(r.rooms, roomID)
		metrics.RoomsDisbanded.Inc()
		metrics.ActiveRooms.Dec()
		r.logger.Infof("room #%d disbanded by creator %d", roomID, telegramID)
	case len(room.Members) == 0:
		res.Deleted = true
		delete(r.rooms, roomID)
		metrics.RoomsDisbanded.Inc()
		metrics.ActiveRooms.Dec()
		r.logger.Infof("room #%d removed, last member left", roomID)
	default:
		res.Room = r.viewLocked(room)
		r.logger.Infof("player %d left room #%d", telegramID, roomID)
	}

	return res, nil
}

func (r *Registry) DeleteRoom(roomID int64) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return RoomNotFoundErr
	}

	delete(r.rooms, roomID)
	metrics.RoomsDisbanded.Inc()
	if room.Active {
		metrics.ActiveRooms.Dec()
	}

	r.logger.Infof("room #%d deleted", roomID)

	return nil
}

// ClearRooms drops every room regardless of state, the admin escape
// hatch. Returns the number of removed rooms.
func (r *Registry) ClearRooms() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	n := len(r.rooms)
	for id, room := range r.rooms {
		if room.Active {
			metrics.ActiveRooms.Dec()
		}
		delete(r.rooms, id)
	}

	if n > 0 {
		r.logger.Infof("cleared %d rooms", n)
	}

	return n
}

// Room returns a room in any state, finished rooms stay readable.
func (r *Registry) Room(roomID int64) (*roomModel.Room, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil, RoomNotFoundErr
	}

	return r.viewLocked(room), nil
}

// Rooms lists open rooms in creation order.
func (r *Registry) Rooms() []*roomModel.Room {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	list := make([]*roomModel.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		if !room.Active {
			continue
		}
		list = append(list, r.viewLocked(room))
	}

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	return list
}

// viewLocked clones a room and refreshes member snapshots so responses
// carry current ratings.
func (r *Registry) viewLocked(room *roomModel.Room) *roomModel.Room {
	view := room.Clone()
	for _, m := range view.Members {
		if p, err := r.playerDb.Fetch(m.Player.TelegramID); err == nil {
			m.Player = p
		}
	}

	return view
}
