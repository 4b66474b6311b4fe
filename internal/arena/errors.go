package arena

import "fmt"

var (
	RoomNotFoundErr       = fmt.Errorf("room not found")
	PlayerNotFoundErr     = fmt.Errorf("player not found")
	TournamentNotFoundErr = fmt.Errorf("tournament not found")

	DuplicateRoomErr    = fmt.Errorf("creator already has an open room")
	RoomFullErr         = fmt.Errorf("room is full")
	RoomFinishedErr     = fmt.Errorf("game in the room is already finished")
	NotMemberErr        = fmt.Errorf("player is not a room member")
	InvalidRosterErr    = fmt.Errorf("game requires 2 or 4 players")
	TournamentActiveErr = fmt.Errorf("tournament already running")
	NoTournamentErr     = fmt.Errorf("no tournament running")

	ValidationErr = fmt.Errorf("invalid request")
)
