package arena

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/badmik-games/badmik/internal/cache"
	"github.com/badmik-games/badmik/internal/database"
	playerDb "github.com/badmik-games/badmik/internal/database/player/database"
	playerModel "github.com/badmik-games/badmik/internal/database/player/model"
	roomDb "github.com/badmik-games/badmik/internal/database/room/database"
	tournamentDb "github.com/badmik-games/badmik/internal/database/tournament/database"
)

var testPlayers = []playerModel.Player{
	{TelegramID: 1, FirstName: "Анна"},
	{TelegramID: 2, FirstName: "Борис"},
	{TelegramID: 3, FirstName: "Вера"},
	{TelegramID: 4, FirstName: "Глеб"},
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	ctx := context.Background()
	sDB, err := database.NewFromEnv(ctx, &database.Config{
		FilePath: filepath.Join(t.TempDir(), "badmik.db"),
	})
	if err != nil {
		t.Fatalf("new from env: %v", err)
	}

	t.Cleanup(func() {
		_ = sDB.Close(ctx)
	})

	playerCache, err := cache.NewLRU(64)
	if err != nil {
		t.Fatalf("new lru: %v", err)
	}

	gamesCache, err := cache.NewLRU(64)
	if err != nil {
		t.Fatalf("new lru: %v", err)
	}

	return New(ctx, playerDb.New(sDB, playerCache), roomDb.New(sDB), tournamentDb.New(sDB, gamesCache))
}

func registerPlayers(t *testing.T, reg *Registry) {
	t.Helper()

	for _, p := range testPlayers {
		if _, err := reg.RegisterPlayer(p); err != nil {
			t.Fatalf("register player %d: %v", p.TelegramID, err)
		}
	}
}

// newFullRoom creates a room by player 1 and joins players 2..n.
func newFullRoom(t *testing.T, reg *Registry, n int) int64 {
	t.Helper()

	registerPlayers(t, reg)
	room, err := reg.CreateRoom(1, "Вечерняя игра", 4)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	for _, p := range testPlayers[1:n] {
		if _, _, _, err := reg.JoinRoom(room.ID, p); err != nil {
			t.Fatalf("join room: %v", err)
		}
	}

	return room.ID
}

func TestCreateRoomValidation(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	if _, err := reg.CreateRoom(1, "", 4); !errors.Is(err, ValidationErr) {
		t.Errorf("expected ValidationErr got %v", err)
	}

	if _, err := reg.CreateRoom(1, "Вечерняя игра", 1); !errors.Is(err, ValidationErr) {
		t.Errorf("expected ValidationErr got %v", err)
	}

	room, err := reg.CreateRoom(1, "Вечерняя игра", 0)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	if room.MaxPlayers != defaultMaxPlayers {
		t.Errorf("expected default max players got %d", room.MaxPlayers)
	}
}

func TestCreateRoomDuplicate(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	registerPlayers(t, reg)

	first, err := reg.CreateRoom(1, "Вечерняя игра", 4)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	if _, err := reg.CreateRoom(1, "Вторая", 4); !errors.Is(err, DuplicateRoomErr) {
		t.Fatalf("expected DuplicateRoomErr got %v", err)
	}

	// the existing room is untouched
	room, err := reg.Room(first.ID)
	if err != nil {
		t.Fatalf("room: %v", err)
	}

	if room.Name != "Вечерняя игра" || len(room.Members) != 1 {
		t.Errorf("unexpected room %+v", room)
	}
}

func TestCreateRoomUnknownCreator(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	room, err := reg.CreateRoom(99, "Вечерняя игра", 4)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	if room.CreatorFullName != "Игрок 99" {
		t.Errorf("expected placeholder creator got %q", room.CreatorFullName)
	}

	p, err := reg.Player(99)
	if err != nil {
		t.Fatalf("player: %v", err)
	}

	if p.Rating != playerModel.DefaultRating {
		t.Errorf("expected default rating got %d", p.Rating)
	}
}

func TestCreateRoomAfterFinish(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	roomID := newFullRoom(t, reg, 2)

	if _, _, err := reg.FinishGame(roomID, []int64{1}, []int64{2}, 21, 15); err != nil {
		t.Fatalf("finish game: %v", err)
	}

	// a finished room no longer blocks its creator
	if _, err := reg.CreateRoom(1, "Новая игра", 4); err != nil {
		t.Errorf("create room after finish: %v", err)
	}
}

func TestJoinRoomIdempotent(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	roomID := newFullRoom(t, reg, 2)

	room, member, already, err := reg.JoinRoom(roomID, testPlayers[1])
	if err != nil {
		t.Fatalf("join room: %v", err)
	}

	if !already || member != nil {
		t.Errorf("expected idempotent join got already=%v member=%v", already, member)
	}

	if len(room.Members) != 2 {
		t.Errorf("expected 2 members got %d", len(room.Members))
	}
}

func TestJoinRoomFull(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	registerPlayers(t, reg)

	room, err := reg.CreateRoom(1, "Вечерняя игра", 2)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	if _, _, _, err := reg.JoinRoom(room.ID, testPlayers[1]); err != nil {
		t.Fatalf("join room: %v", err)
	}

	if _, _, _, err := reg.JoinRoom(room.ID, testPlayers[2]); !errors.Is(err, RoomFullErr) {
		t.Errorf("expected RoomFullErr got %v", err)
	}
}

func TestJoinRoomNotFound(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	if _, _, _, err := reg.JoinRoom(404, testPlayers[0]); !errors.Is(err, RoomNotFoundErr) {
		t.Errorf("expected RoomNotFoundErr got %v", err)
	}
}

func TestLeaveRoomNotMember(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	roomID := newFullRoom(t, reg, 2)

	if _, err := reg.LeaveRoom(roomID, 4); !errors.Is(err, NotMemberErr) {
		t.Errorf("expected NotMemberErr got %v", err)
	}
}

func TestLeaveRoomCreatorDisbands(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	roomID := newFullRoom(t, reg, 4)

	res, err := reg.LeaveRoom(roomID, 1)
	if err != nil {
		t.Fatalf("leave room: %v", err)
	}

	if !res.Disbanded {
		t.Fatal("expected disband")
	}

	if len(res.AffectedMembers) != 3 {
		t.Fatalf("expected 3 affected members got %d", len(res.AffectedMembers))
	}

	seen := map[int64]bool{}
	for _, id := range res.AffectedMembers {
		seen[id] = true
	}

	for _, id := range []int64{2, 3, 4} {
		if !seen[id] {
			t.Errorf("expected member %d in affected list", id)
		}
	}

	if _, err := reg.Room(roomID); !errors.Is(err, RoomNotFoundErr) {
		t.Errorf("expected room removed got %v", err)
	}
}

func TestLeaveRoomLastMember(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	registerPlayers(t, reg)

	room, err := reg.CreateRoom(2, "Вечерняя игра", 4)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	// a solo creator leaving is still the creator path, nobody is evicted
	res, err := reg.LeaveRoom(room.ID, 2)
	if err != nil {
		t.Fatalf("leave room: %v", err)
	}

	if !res.Disbanded {
		t.Fatalf("expected disband got %+v", res)
	}

	if len(res.AffectedMembers) != 0 {
		t.Errorf("expected no affected members got %v", res.AffectedMembers)
	}

	if _, err := reg.Room(room.ID); !errors.Is(err, RoomNotFoundErr) {
		t.Errorf("expected room removed got %v", err)
	}
}

func TestLeaveRoomRegular(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	roomID := newFullRoom(t, reg, 3)

	res, err := reg.LeaveRoom(roomID, 3)
	if err != nil {
		t.Fatalf("leave room: %v", err)
	}

	if res.Disbanded || res.Deleted {
		t.Fatalf("expected plain departure got %+v", res)
	}

	if res.Room == nil || len(res.Room.Members) != 2 {
		t.Fatalf("expected 2 members left got %+v", res.Room)
	}

	if res.Removed == nil || res.Removed.Player.TelegramID != 3 {
		t.Errorf("expected removed member 3 got %+v", res.Removed)
	}
}

func TestRoomsListsOpenOnly(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	roomID := newFullRoom(t, reg, 2)

	other, err := reg.CreateRoom(3, "Утренняя игра", 4)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	if _, _, err := reg.FinishGame(roomID, []int64{1}, []int64{2}, 21, 15); err != nil {
		t.Fatalf("finish game: %v", err)
	}

	rooms := reg.Rooms()
	if len(rooms) != 1 {
		t.Fatalf("expected 1 open room got %d", len(rooms))
	}

	if rooms[0].ID != other.ID {
		t.Errorf("expected room #%d got #%d", other.ID, rooms[0].ID)
	}

	// the finished room is still readable directly
	room, err := reg.Room(roomID)
	if err != nil {
		t.Fatalf("room: %v", err)
	}

	if !room.GameFinished || room.Active {
		t.Errorf("expected finished room got %+v", room)
	}
}

func TestDeleteRoom(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	roomID := newFullRoom(t, reg, 2)

	if err := reg.DeleteRoom(roomID); err != nil {
		t.Fatalf("delete room: %v", err)
	}

	if err := reg.DeleteRoom(roomID); !errors.Is(err, RoomNotFoundErr) {
		t.Errorf("expected RoomNotFoundErr got %v", err)
	}
}

func TestClearRooms(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	registerPlayers(t, reg)

	if _, err := reg.CreateRoom(1, "Первая", 4); err != nil {
		t.Fatalf("create room: %v", err)
	}

	if _, err := reg.CreateRoom(2, "Вторая", 4); err != nil {
		t.Fatalf("create room: %v", err)
	}

	if n := reg.ClearRooms(); n != 2 {
		t.Errorf("expected 2 cleared got %d", n)
	}

	if rooms := reg.Rooms(); len(rooms) != 0 {
		t.Errorf("expected no rooms got %d", len(rooms))
	}
}

func TestRoomIDsNotReused(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	registerPlayers(t, reg)

	first, err := reg.CreateRoom(1, "Первая", 4)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	if err := reg.DeleteRoom(first.ID); err != nil {
		t.Fatalf("delete room: %v", err)
	}

	second, err := reg.CreateRoom(1, "Вторая", 4)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	if second.ID <= first.ID {
		t.Errorf("expected fresh id got %d after %d", second.ID, first.ID)
	}
}

func TestRegisterPlayerPreservesRating(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	roomID := newFullRoom(t, reg, 2)

	if _, _, err := reg.FinishGame(roomID, []int64{1}, []int64{2}, 21, 15); err != nil {
		t.Fatalf("finish game: %v", err)
	}

	played, err := reg.Player(1)
	if err != nil {
		t.Fatalf("player: %v", err)
	}

	if played.Rating == playerModel.DefaultRating {
		t.Fatal("expected rating moved by the game")
	}

	updated, err := reg.RegisterPlayer(playerModel.Player{TelegramID: 1, FirstName: "Анна", LastName: "Каренина"})
	if err != nil {
		t.Fatalf("register player: %v", err)
	}

	if updated.Rating != played.Rating {
		t.Errorf("expected rating %d kept got %d", played.Rating, updated.Rating)
	}

	if updated.LastName != "Каренина" {
		t.Errorf("expected last name updated got %q", updated.LastName)
	}
}

func TestPlayersLeaderboardOrder(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	roomID := newFullRoom(t, reg, 2)

	if _, _, err := reg.FinishGame(roomID, []int64{1}, []int64{2}, 21, 15); err != nil {
		t.Fatalf("finish game: %v", err)
	}

	players, err := reg.Players()
	if err != nil {
		t.Fatalf("players: %v", err)
	}

	if len(players) != 4 {
		t.Fatalf("expected 4 players got %d", len(players))
	}

	for i := 1; i < len(players); i++ {
		if players[i-1].Rating < players[i].Rating {
			t.Fatalf("expected descending ratings got %d before %d",
				players[i-1].Rating, players[i].Rating)
		}
	}

	if players[0].TelegramID != 1 {
		t.Errorf("expected winner on top got %d", players[0].TelegramID)
	}
}

func TestSnapshotRestore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sDB, err := database.NewFromEnv(ctx, &database.Config{
		FilePath: filepath.Join(t.TempDir(), "badmik.db"),
	})
	if err != nil {
		t.Fatalf("new from env: %v", err)
	}

	t.Cleanup(func() {
		_ = sDB.Close(ctx)
	})

	players := playerDb.New(sDB, nil)
	rooms := roomDb.New(sDB)
	tournaments := tournamentDb.New(sDB, nil)

	reg := New(ctx, players, rooms, tournaments)
	registerPlayers(t, reg)

	created, err := reg.CreateRoom(1, "Вечерняя игра", 4)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	if _, _, _, err := reg.JoinRoom(created.ID, testPlayers[1]); err != nil {
		t.Fatalf("join room: %v", err)
	}

	if err := reg.Snapshot(ctx); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	restored := New(ctx, players, rooms, tournaments)
	if err := restored.Restore(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}

	room, err := restored.Room(created.ID)
	if err != nil {
		t.Fatalf("room: %v", err)
	}

	if len(room.Members) != 2 || room.CreatorID != 1 {
		t.Errorf("unexpected restored room %+v", room)
	}

	// the snapshot bucket is consumed by restore
	if _, err := rooms.FetchAll(); !errors.Is(err, roomDb.EntryNotFoundErr) {
		t.Errorf("expected empty snapshot bucket got %v", err)
	}
}
