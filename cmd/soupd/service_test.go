package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Comcast/soup/core"
	"github.com/Comcast/soup/interpreters"
	"github.com/Comcast/soup/tools"
	. "github.com/Comcast/soup/util/testutil"

	"github.com/jsccast/yaml"
)

func writeCheck(t *testing.T, dir string, c *tools.Check) {
	bs, err := yaml.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	filename := filepath.Join(dir, c.Name+tools.CheckSuffix)
	if err = os.WriteFile(filename, bs, 0644); err != nil {
		t.Fatal(err)
	}
}

func makeService(t *testing.T) *Service {
	dir := t.TempDir()
	writeCheck(t, dir, &tools.Check{
		Name:        "ab0",
		Doc:         "Both can be in the critical section.",
		ModelSource: core.AliceBob0Source,
		Accept:      "a == 2 && b == 2",
	})
	writeCheck(t, dir, &tools.Check{
		Name:           "ab1-exclusion",
		ModelSource:    core.AliceBob1Source,
		PropertySource: core.ExclusionSource,
		Accept:         core.PropertyAccept,
		Schedule:       "0 0 * * *",
	})

	s := NewService(dir, interpreters.Standard())
	if err := s.Load(); err != nil {
		t.Fatal(err)
	}
	return s
}

type recorder struct {
	sync.Mutex
	results []*Result
}

func (r *recorder) Publish(ctx context.Context, res *Result) error {
	r.Lock()
	r.results = append(r.results, res)
	r.Unlock()
	return nil
}

func TestService(t *testing.T) {
	ctx := context.Background()
	s := makeService(t)
	pub := &recorder{}
	s.Publisher = pub

	sums := s.Summaries()
	if len(sums) != 2 || sums[0].Name != "ab0" || sums[1].Name != "ab1-exclusion" {
		t.Fatal(JS(sums))
	}

	r, err := s.Run(ctx, "ab0")
	if err != nil {
		t.Fatal(err)
	}
	if r.Holds || r.Verdict != "violated (accept)" || r.Err != "" {
		t.Fatal(JS(r))
	}

	if r, err = s.Run(ctx, "ab1-exclusion"); err != nil {
		t.Fatal(err)
	}
	if !r.Holds || r.Verdict != "holds" {
		t.Fatal(JS(r))
	}

	if _, err = s.Run(ctx, "nope"); !errors.Is(err, NotFound) {
		t.Fatalf("got %v", err)
	}

	if len(pub.results) != 2 {
		t.Fatalf("published %d", len(pub.results))
	}

	sum, err := s.Summary("ab0")
	if err != nil {
		t.Fatal(err)
	}
	if sum.Last == nil || sum.Last.Holds {
		t.Fatal(JS(sum))
	}
}

func TestSetModel(t *testing.T) {
	ctx := context.Background()
	s := makeService(t)

	e, err := s.entry("ab1-exclusion")
	if err != nil {
		t.Fatal(err)
	}
	u := e.model

	if err = s.SetModel("ab1-exclusion", "var a = 0 | [a == 0] / a = 2"); err == nil {
		t.Fatal("the property uses b")
	}
	if err = s.SetModel("ab1-exclusion", "var a = "); err == nil {
		t.Fatal("should not parse")
	}

	if err = s.SetModel("ab1-exclusion", core.AliceBob0Source); err != nil {
		t.Fatal(err)
	}
	if len(u.Model().Soup.Variables) != 2 {
		t.Fatal("model wasn't swapped")
	}

	r, err := s.Run(ctx, "ab1-exclusion")
	if err != nil {
		t.Fatal(err)
	}
	if r.Holds {
		t.Fatal(JS(r))
	}

	// Reloading restores the file's version in the same
	// UpdatableModel.
	if err = s.Load(); err != nil {
		t.Fatal(err)
	}
	if e, _ = s.entry("ab1-exclusion"); e.model != u {
		t.Fatal("lost the UpdatableModel")
	}
	if len(u.Model().Soup.Variables) != 4 {
		t.Fatal("model wasn't reloaded")
	}
	if e.last == nil {
		t.Fatal("lost the last result")
	}
}

func TestWalk(t *testing.T) {
	ctx := context.Background()
	s := makeService(t)

	w, err := s.Walk(ctx, "ab0", []string{"a1", "b1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(w.Steps) != 2 || JS(w.Enabled) != `["a2","b2"]` || JS(w.Bindings) != `{"a":1,"b":1}` {
		t.Fatal(JS(w))
	}

	var ne *NotEnabled
	if _, err = s.Walk(ctx, "ab0", []string{"a2"}); !errors.As(err, &ne) || ne.Piece != "a2" {
		t.Fatalf("got %v", err)
	}
}

func TestReloadWhileRunning(t *testing.T) {
	ctx := context.Background()
	s := makeService(t)

	old, err := s.entry("ab0")
	if err != nil {
		t.Fatal(err)
	}
	s.Lock()
	old.running = true
	s.Unlock()

	if err = s.Load(); err != nil {
		t.Fatal(err)
	}
	if _, err = s.Run(ctx, "ab0"); err != Busy {
		t.Fatalf("got %v", err)
	}

	// The run that was in flight finishes against the old entry.
	r := &Result{Check: "ab0", Verdict: "holds", Holds: true}
	s.finish("ab0", old, r)

	cur, err := s.entry("ab0")
	if err != nil {
		t.Fatal(err)
	}
	if cur == old {
		t.Fatal("Load should have replaced the entry")
	}
	if cur.running || cur.last != r {
		t.Fatal("result lost across reload")
	}

	if r, err = s.Run(ctx, "ab0"); err != nil {
		t.Fatal(err)
	}
	if r.Holds {
		t.Fatal(JS(r))
	}
}
