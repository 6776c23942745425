package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	ConfigBucket    = []byte("config")    // Format version, timestamps
	SnapshotsBucket = []byte("snapshots") // Encrypted envelopes by capture time
)

// Config keys
var (
	ConfigVersion = []byte("version")
	ConfigCreated = []byte("created")
)

const DefaultLimit = 20

var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot describes one stored envelope.
type Snapshot struct {
	ID    uint64
	Taken time.Time
	Size  int
}

// Storage provides BBolt-based snapshot storage
type Storage struct {
	db    *bolt.DB
	path  string
	limit int
	now   func() time.Time
}

// Open opens or creates a history database and makes sure its buckets exist.
func Open(path string, limit int) (*Storage, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Storage{db: db, path: path, limit: limit, now: time.Now}
	if err := s.Initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func openDB(path string) (*bolt.DB, error) {
	return bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
}

// Close closes the database. Closing twice, or after a failed Compact left
// the database closed, is a no-op.
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Path returns the database file path
func (s *Storage) Path() string {
	return s.path
}

// Initialize creates the bucket structure if missing
func (s *Storage) Initialize() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{ConfigBucket, SnapshotsBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(ConfigBucket)
		if config.Get(ConfigVersion) != nil {
			return nil
		}
		if err := config.Put(ConfigVersion, []byte("1")); err != nil {
			return err
		}
		created, _ := s.now().UTC().MarshalBinary()
		return config.Put(ConfigCreated, created)
	})
}

// Created returns when the history database was first initialized.
func (s *Storage) Created() (time.Time, error) {
	var created time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(ConfigBucket).Get(ConfigCreated)
		if raw == nil {
			return fmt.Errorf("history database has no creation time")
		}
		return created.UnmarshalBinary(raw)
	})
	return created, err
}

func idKey(id uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, id)
	return k
}

// Record stores an envelope and prunes the history to the configured limit.
func (s *Storage) Record(envelope []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		snapshots := tx.Bucket(SnapshotsBucket)
		id := uint64(s.now().UnixNano())
		// Keys must be unique and increasing even if the clock is coarse
		if last, _ := snapshots.Cursor().Last(); last != nil {
			if prev := binary.BigEndian.Uint64(last); id <= prev {
				id = prev + 1
			}
		}
		return snapshots.Put(idKey(id), envelope)
	})
	if err != nil {
		return fmt.Errorf("failed to record snapshot: %w", err)
	}

	if s.limit > 0 {
		if _, err := s.Prune(s.limit); err != nil {
			return err
		}
	}
	return nil
}

// List returns stored snapshots, newest first
func (s *Storage) List() ([]Snapshot, error) {
	var list []Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(SnapshotsBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			id := binary.BigEndian.Uint64(k)
			list = append(list, Snapshot{
				ID:    id,
				Taken: time.Unix(0, int64(id)).UTC(),
				Size:  len(v),
			})
		}
		return nil
	})
	return list, err
}

// Get retrieves a stored envelope
func (s *Storage) Get(id uint64) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(SnapshotsBucket).Get(idKey(id))
		if v == nil {
			return ErrSnapshotNotFound
		}
		// Make a copy since the slice is only valid during the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	return data, err
}

// Latest retrieves the newest stored envelope
func (s *Storage) Latest() (Snapshot, []byte, error) {
	var (
		snap Snapshot
		data []byte
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		k, v := tx.Bucket(SnapshotsBucket).Cursor().Last()
		if k == nil {
			return ErrSnapshotNotFound
		}
		id := binary.BigEndian.Uint64(k)
		snap = Snapshot{ID: id, Taken: time.Unix(0, int64(id)).UTC(), Size: len(v)}
		data = append([]byte(nil), v...)
		return nil
	})
	return snap, data, err
}

// Delete removes a snapshot
func (s *Storage) Delete(id uint64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		snapshots := tx.Bucket(SnapshotsBucket)
		if snapshots.Get(idKey(id)) == nil {
			return ErrSnapshotNotFound
		}
		return snapshots.Delete(idKey(id))
	})
}

// Prune keeps the newest keep snapshots and returns how many were removed.
func (s *Storage) Prune(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		snapshots := tx.Bucket(SnapshotsBucket)

		// Walk newest to oldest; everything past keep is stale
		var stale [][]byte
		c := snapshots.Cursor()
		seen := 0
		for k, _ := c.Last(); k != nil; k, _ = c.Prev() {
			seen++
			if seen > keep {
				stale = append(stale, append([]byte(nil), k...))
			}
		}
		for _, k := range stale {
			if err := snapshots.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return removed, nil
}

// Compact creates a compacted copy of the database, removing unused space.
// This is useful after pruning to reclaim disk space.
func (s *Storage) Compact() error {
	srcPath := s.path
	tmpPath := srcPath + ".compact"

	// Create new database
	dst, err := bolt.Open(tmpPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to create compact database: %w", err)
	}

	// Copy all buckets
	err = s.db.View(func(srcTx *bolt.Tx) error {
		return dst.Update(func(dstTx *bolt.Tx) error {
			return srcTx.ForEach(func(name []byte, srcBucket *bolt.Bucket) error {
				dstBucket, err := dstTx.CreateBucketIfNotExists(name)
				if err != nil {
					return err
				}
				return srcBucket.ForEach(func(k, v []byte) error {
					return dstBucket.Put(k, v)
				})
			})
		})
	})

	if err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy data: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close compact database: %w", err)
	}

	if err := s.db.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close source database: %w", err)
	}

	// Atomic replace
	replaceErr := os.Rename(tmpPath, srcPath)
	if replaceErr != nil {
		os.Remove(tmpPath)
		replaceErr = fmt.Errorf("failed to replace database: %w", replaceErr)
	}

	// Reopen whichever file is now in place. On failure the storage stays
	// closed and only Close may be called.
	db, err := openDB(srcPath)
	if err != nil {
		s.db = nil
		return errors.Join(replaceErr, fmt.Errorf("failed to reopen database: %w", err))
	}
	s.db = db

	return replaceErr
}
