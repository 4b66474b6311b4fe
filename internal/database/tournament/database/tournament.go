package database

import (
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/badmik-games/badmik/internal/byteutil"
	"github.com/badmik-games/badmik/internal/cache"
	"github.com/badmik-games/badmik/internal/database"
	"github.com/badmik-games/badmik/internal/database/tournament/model"
)

const (
	bucket = "tournaments"

	// one game log bucket per tournament
	prefix = "games"
)

var (
	pLen        = len(prefix)
	NotFoundErr = fmt.Errorf("not found")
)

func New(db *database.DB, cache cache.Cache) *DB {
	return &DB{sDB: db, cache: cache}
}

type DB struct {
	sDB *database.DB

	cache cache.Cache
}

func (db *DB) BytesBucket(tournamentID int64) []byte {
	b := make([]byte, pLen+8) // prefix + uint64
	copy(b, prefix[:])
	copy(b[pLen:], byteutil.EncodeInt64ToBytes(tournamentID))
	return b
}

func (db *DB) SerialBucket(tournamentID int64) string {
	return fmt.Sprintf("%s%d", prefix, tournamentID)
}

// NextID draws the next tournament id, the sequence lives on the metadata
// bucket and never resets.
func (db *DB) NextID() (int64, error) {
	var id uint64
	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return fmt.Errorf("can not create bucket: %w", err)
		}

		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}

		id = seq
		return nil
	}); err != nil {
		return 0, fmt.Errorf("update transaction error: %w", err)
	}

	return int64(id), nil
}

func (db *DB) Fetch(tournamentID int64) (model.Tournament, error) {
	var t model.Tournament
	pk := byteutil.EncodeInt64ToBytes(tournamentID)
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return NotFoundErr
		}

		bytes := b.Get(pk)
		if len(bytes) == 0 {
			return NotFoundErr
		}

		if err := json.Unmarshal(bytes, &t); err != nil {
			return fmt.Errorf("json unmarshal error, %w", err)
		}

		return nil
	}); err != nil {
		return t, fmt.Errorf("view transaction error: %w", err)
	}

	return t, nil
}

func (db *DB) Store(m model.Tournament) error {
	bytes, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	pk := byteutil.EncodeInt64ToBytes(m.ID)
	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return fmt.Errorf("can not create bucket: %w", err)
		}

		if err := b.Put(pk, bytes); err != nil {
			return fmt.Errorf("put to bucket error: %w", err)
		}

		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %w", err)
	}

	return nil
}

// AddGame appends a record to the tournament game log. Records are keyed
// by a bucket sequence so a fetch replays them in append order.
func (db *DB) AddGame(m model.GameRecord) error {
	tx, err := db.sDB.DB.Begin(true)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	defer tx.Rollback() // nolint

	bBucket := db.BytesBucket(m.TournamentID)
	sBucket := db.SerialBucket(m.TournamentID)

	b := tx.Bucket(bBucket)
	if b == nil {
		bs, err := tx.CreateBucket(bBucket)
		if err != nil {
			return fmt.Errorf("can not create bucket %d: %w", m.TournamentID, err)
		}
		b = bs
	}

	seq, err := b.NextSequence()
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	bytes, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if err := b.Put(byteutil.EncodeInt64ToBytes(int64(seq)), bytes); err != nil {
		return fmt.Errorf("put to bucket error: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	if db.cache != nil {
		db.cache.Delete(sBucket)
	}

	return nil
}

func (db *DB) FetchGames(tournamentID int64) ([]model.GameRecord, error) {
	var list []model.GameRecord
	bBucket := db.BytesBucket(tournamentID)
	sBucket := db.SerialBucket(tournamentID)
	if db.cache != nil {
		v, ok := db.cache.Get(sBucket)
		if ok {
			return v.([]model.GameRecord), nil
		}
	}

	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bBucket)
		if b == nil {
			return NotFoundErr
		}

		if err := b.ForEach(func(k, v []byte) error {
			var rec model.GameRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("json unmarshal error, %w", err)
			}
			list = append(list, rec)
			return nil
		}); err != nil {
			return fmt.Errorf("bucket for each: %w", err)
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}

	if db.cache != nil {
		db.cache.Add(sBucket, list)
	}

	return list, nil
}
