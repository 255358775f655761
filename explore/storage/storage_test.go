package storage

import (
	"context"
	"testing"
)

func TestMemStorage(t *testing.T) {
	var s Storage = NewMemStorage()
	defer s.Close()

	ctx := context.Background()
	for i, want := range []bool{true, false} {
		fresh, err := s.Visit(ctx, "x=i0")
		if err != nil {
			t.Fatal(err)
		}
		if fresh != want {
			t.Fatalf("visit %d: got %v", i, fresh)
		}
	}
	if fresh, _ := s.Visit(ctx, "x=i1"); !fresh {
		t.Fatal("x=i1 should be new")
	}
	if n := s.Len(); n != 2 {
		t.Fatal(n)
	}
}
