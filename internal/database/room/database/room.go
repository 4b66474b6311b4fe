package database

import (
	"encoding/json"
	"errors"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/badmik-games/badmik/internal/byteutil"
	"github.com/badmik-games/badmik/internal/database"
	"github.com/badmik-games/badmik/internal/database/room/model"
)

const (
	prefix = "rooms"

	// seqBucket survives Clean so room ids are never reused
	seqBucket = "room_ids"
)

var (
	EntryNotFoundErr  = fmt.Errorf("not found")
	BucketNotFoundErr = fmt.Errorf("bucket not found")
)

func New(db *database.DB) *DB {
	return &DB{sDB: db}
}

type DB struct {
	sDB *database.DB
}

// NextID draws the next room id from a durable sequence.
func (db *DB) NextID() (int64, error) {
	var id uint64
	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(seqBucket))
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

func (db *DB) FetchAll() ([]*model.Room, error) {
	var list []*model.Room

	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(prefix))
		if b == nil {
			return EntryNotFoundErr
		}

		if err := b.ForEach(func(k, v []byte) error {
			var room model.Room
			if err := json.Unmarshal(v, &room); err != nil {
				return fmt.Errorf("json unmarshal error, %w", err)
			}
			list = append(list, &room)
			return nil
		}); err != nil {
			return fmt.Errorf("bucket for each: %w", err)
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}

	return list, nil
}

func (db *DB) Clean() error {
	tx, err := db.sDB.DB.Begin(true)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	defer tx.Rollback() // nolint

	if err := tx.DeleteBucket([]byte(prefix)); err != nil {
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return BucketNotFoundErr
		}
		return fmt.Errorf("delete bucket: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (db *DB) Add(m *model.Room) error {
	tx, err := db.sDB.DB.Begin(true)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	defer tx.Rollback() // nolint

	b := tx.Bucket([]byte(prefix))
	if b == nil {
		bs, err := tx.CreateBucket([]byte(prefix))
		if err != nil {
			return fmt.Errorf("can not create bucket: %w", err)
		}
		b = bs
	}

	bytes, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if err := b.Put(byteutil.EncodeInt64ToBytes(m.ID), bytes); err != nil {
		return fmt.Errorf("put to bucket error: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
