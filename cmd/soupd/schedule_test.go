package main

import (
	"context"
	"testing"
	"time"

	"github.com/Comcast/soup/core"
	"github.com/Comcast/soup/interpreters"
	"github.com/Comcast/soup/tools"

	"github.com/gorhill/cronexpr"
)

func TestNextRun(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		expr string
		want time.Time
	}{
		{"0 0 * * *", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"*/15 * * * *", time.Date(2024, 1, 1, 10, 45, 0, 0, time.UTC)},
		{"@hourly", time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			got := nextRun(cronexpr.MustParse(tc.expr), now)
			if !got.Equal(tc.want) {
				t.Fatalf("got %v", got)
			}
		})
	}
}

func TestSchedule(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := makeService(t)
	n, err := s.Schedule(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatal(n)
	}

	// The goroutine records the next run.
	deadline := time.Now().Add(5 * time.Second)
	for {
		sum, err := s.Summary("ab1-exclusion")
		if err != nil {
			t.Fatal(err)
		}
		if !sum.Next.IsZero() {
			if !sum.Next.After(time.Now()) {
				t.Fatal(sum.Next)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no next run")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestScheduleBad(t *testing.T) {
	dir := t.TempDir()
	writeCheck(t, dir, &tools.Check{
		Name:        "bad",
		ModelSource: core.AliceBob0Source,
		Schedule:    "whenever",
	})
	s := NewService(dir, interpreters.Standard())
	if err := s.Load(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Schedule(context.Background()); err == nil {
		t.Fatal("should have failed")
	}
}
