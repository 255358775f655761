package bolt

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Comcast/soup/explore/storage"
)

func TestImpl(t *testing.T) {
	// Just confirm that this code compiles.
	var _ storage.Storage = &Storage{}
}

func TestBasics(t *testing.T) {
	dir, err := os.MkdirTemp("", "soup-bolt")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	filename := filepath.Join(dir, "visited.db")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := NewStorage(filename, "run1")
	if err != nil {
		t.Fatal(err)
	}
	if err = s.Open(ctx); err != nil {
		t.Fatal(err)
	}

	for i, want := range []bool{true, false} {
		fresh, err := s.Visit(ctx, "a=i0,b=i0")
		if err != nil {
			t.Fatal(err)
		}
		if fresh != want {
			t.Fatalf("visit %d: got %v", i, fresh)
		}
	}
	if fresh, _ := s.Visit(ctx, "a=i1,b=i0"); !fresh {
		t.Fatal("should be new")
	}
	if s.Len() != 2 {
		t.Fatal(s.Len())
	}
	if err = s.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopening starts a fresh run.
	s, err = NewStorage(filename, "run1")
	if err != nil {
		t.Fatal(err)
	}
	if err = s.Open(ctx); err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if fresh, _ := s.Visit(ctx, "a=i0,b=i0"); !fresh {
		t.Fatal("bucket should have been reset")
	}
	if err = s.Remove(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err = NewStorage(filename, ""); err == nil {
		t.Fatal("empty bucket name")
	}
}
