// Package history keeps a local archive of analysis summaries in bbolt.
package history

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/Adda-Baaj/reddit-sentiment/internal/aggregate"
	"github.com/Adda-Baaj/reddit-sentiment/internal/domain"
)

var bucketReports = []byte("reports")

// Entry is one archived analysis. Only the query and the aggregate are
// stored; raw posts and comments are not.
type Entry struct {
	Query     domain.Query      `json:"query"`
	Summary   aggregate.Summary `json:"summary"`
	FetchedAt time.Time         `json:"fetched_at"`
}

// Store is a bbolt-backed archive.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the archive at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketReports)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save appends an entry. Keys are big-endian sequence numbers so cursor order
// is insertion order.
func (s *Store) Save(e Entry) error {
	if s == nil {
		return errors.New("history store is not open")
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketReports)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(seqKey(seq), raw)
	})
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(n int) ([]Entry, error) {
	if s == nil {
		return nil, errors.New("history store is not open")
	}
	if n <= 0 {
		return nil, nil
	}

	var out []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketReports).Cursor()
		for k, v := c.Last(); k != nil && len(out) < n; k, v = c.Prev() {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("decode history entry %d: %w", binary.BigEndian.Uint64(k), err)
			}
			out = append(out, e)
		}
		return nil
	})
	return out, err
}

func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}
