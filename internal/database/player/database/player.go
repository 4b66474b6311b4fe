package database

import (
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/badmik-games/badmik/internal/byteutil"
	"github.com/badmik-games/badmik/internal/cache"
	"github.com/badmik-games/badmik/internal/database"
	"github.com/badmik-games/badmik/internal/database/player/model"
)

var NotFoundErr = fmt.Errorf("not found")

const bucket = "players"

func New(db *database.DB, cache cache.Cache) *DB {
	return &DB{sDB: db, cache: cache}
}

type DB struct {
	sDB *database.DB

	cache cache.Cache
}

type fetchFn func(key int64) ([]byte, error)

func (db *DB) cachedValue(key int64, fn fetchFn) (model.Player, error) {
	if db.cache != nil {
		v, ok := db.cache.Get(key)
		if ok {
			return v.(model.Player), nil
		}
	}

	var p model.Player
	bytes, err := fn(key)
	if err != nil {
		return p, fmt.Errorf("fetch: %w", err)
	}

	if len(bytes) == 0 {
		return p, NotFoundErr
	}

	if err := json.Unmarshal(bytes, &p); err != nil {
		return p, fmt.Errorf("unmarshal: %v", err)
	}

	if db.cache != nil {
		db.cache.Add(key, p)
	}

	return p, nil
}

func (db *DB) Fetch(telegramID int64) (model.Player, error) {
	var p model.Player
	pk := byteutil.EncodeInt64ToBytes(telegramID)
	p, err := db.cachedValue(telegramID, func(key int64) ([]byte, error) {
		var bytes []byte

		if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
			b := tx.Bucket([]byte(bucket))
			if b == nil {
				return NotFoundErr
			}
			bytes = b.Get(pk)
			return nil
		}); err != nil {
			return nil, fmt.Errorf("view transaction error: %w", err)
		}

		return bytes, nil
	})

	if err != nil {
		return p, fmt.Errorf("cached value: %w", err)
	}

	return p, nil
}

func (db *DB) FetchByUsername(username string) (model.Player, error) {
	var player model.Player
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return NotFoundErr
		}
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var p model.Player
			if err := json.Unmarshal(v, &p); err != nil {
				return fmt.Errorf("json unmarshal error, %q", err)
			}
			if p.Username == username {
				player = p

				return nil
			}
		}
		return NotFoundErr
	}); err != nil {
		return player, fmt.Errorf("view transaction error: %w", err)
	}
	return player, nil
}

func (db *DB) FetchAll() ([]model.Player, error) {
	var players []model.Player
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return NotFoundErr
		}
		return b.ForEach(func(k, v []byte) error {
			var p model.Player
			if err := json.Unmarshal(v, &p); err != nil {
				return fmt.Errorf("json unmarshal error, %q", err)
			}
			players = append(players, p)
			return nil
		})
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}
	return players, nil
}

func (db *DB) Store(m model.Player) error {
	var b *bolt.Bucket
	bytes, err := json.Marshal(m)
	if err != nil {
		return err
	}
	pk := byteutil.EncodeInt64ToBytes(m.TelegramID)
	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b = tx.Bucket([]byte(bucket))
		if b == nil {
			bs, err := tx.CreateBucket([]byte(bucket))
			if err != nil {
				return fmt.Errorf("create bucket: %w", err)
			}

			b = bs
		}

		if err := b.Put(pk, bytes); err != nil {
			return fmt.Errorf("put to bucket error: %w", err)
		}

		if db.cache != nil {
			db.cache.Add(m.TelegramID, m)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %v", err)
	}

	return nil
}

// SetRating rewrites the stored rating, the rest of the player record is
// kept as is.
func (db *DB) SetRating(telegramID int64, rating int) error {
	p, err := db.Fetch(telegramID)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	p.Rating = rating
	if err := db.Store(p); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	return nil
}
