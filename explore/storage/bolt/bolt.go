// Package bolt is a storage.Storage backed by a BoltDB file, for
// searches whose visited sets don't fit in memory.
package bolt

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Storage records keys in one bucket of a BoltDB file.
//
// Each search should use its own bucket.  Remove drops that bucket.
type Storage struct {
	Debug bool

	filename string
	bucket   []byte
	db       *bolt.DB
	n        int64
}

func NewStorage(filename, bucket string) (*Storage, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bolt storage %s needs a bucket", filename)
	}
	return &Storage{
		filename: filename,
		bucket:   []byte(bucket),
	}, nil
}

// Open opens the file and makes a fresh bucket.  An existing bucket
// with the same name is replaced.
func (s *Storage) Open(ctx context.Context) error {
	opts := &bolt.Options{
		Timeout: time.Second,
	}

	db, err := bolt.Open(s.filename, 0644, opts)
	if err != nil {
		return err
	}
	s.db = db

	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(s.bucket) != nil {
			if err := tx.DeleteBucket(s.bucket); err != nil {
				return err
			}
		}
		_, err := tx.CreateBucket(s.bucket)
		return err
	})
}

func (s *Storage) logf(format string, args ...interface{}) {
	if s.Debug {
		log.Printf("BoltDB Storage."+format, args...)
	}
}

func (s *Storage) Visit(ctx context.Context, key string) (bool, error) {
	fresh := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return fmt.Errorf("bucket %s not found", s.bucket)
		}
		k := []byte(key)
		if b.Get(k) != nil {
			return nil
		}
		fresh = true
		return b.Put(k, []byte{1})
	})
	if err != nil {
		return false, err
	}
	if fresh {
		atomic.AddInt64(&s.n, 1)
	}
	s.logf("Visit %s fresh=%v", key, fresh)
	return fresh, nil
}

func (s *Storage) Len() int {
	return int(atomic.LoadInt64(&s.n))
}

// Remove drops the bucket.
func (s *Storage) Remove(ctx context.Context) error {
	s.logf("Remove %s", s.bucket)
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.DeleteBucket(s.bucket)
	})
}

func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
