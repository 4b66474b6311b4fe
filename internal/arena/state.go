package arena

import (
	"context"
	"errors"
	"fmt"

	roomDb "github.com/badmik-games/badmik/internal/database/room/database"
	"github.com/badmik-games/badmik/internal/logging"
	"github.com/badmik-games/badmik/internal/metrics"
)

// Restore reloads rooms serialized by the previous shutdown and clears
// the snapshot bucket.
func (r *Registry) Restore(ctx context.Context) error {
	logger := logging.FromContext(ctx).Named("arena")

	rooms, err := r.roomDb.FetchAll()
	if err != nil {
		if errors.Is(err, roomDb.EntryNotFoundErr) {
			return nil
		}
		return fmt.Errorf("room db fetch all: %w", err)
	}

	r.mtx.Lock()
	for _, room := range rooms {
		r.rooms[room.ID] = room
		if room.Active {
			metrics.ActiveRooms.Inc()
		}
	}
	r.mtx.Unlock()

	if err := r.roomDb.Clean(); err != nil && !errors.Is(err, roomDb.BucketNotFoundErr) {
		return fmt.Errorf("room db clean: %w", err)
	}

	logger.Infof("restored %d rooms", len(rooms))

	return nil
}

// Snapshot serializes live rooms for the next start.
func (r *Registry) Snapshot(ctx context.Context) error {
	logger := logging.FromContext(ctx).Named("arena")

	r.mtx.RLock()
	defer r.mtx.RUnlock()

	for _, room := range r.rooms {
		if err := r.roomDb.Add(room); err != nil {
			return fmt.Errorf("room db add: %w", err)
		}
	}

	logger.Infof("serialized %d rooms", len(r.rooms))

	return nil
}
