package explore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/Comcast/soup/core"
)

// DefaultControl is used by Reach and Product when given a nil
// Control.
var DefaultControl = &Control{
	Limit:     -1,
	MaxStates: 100000,
	Strategy:  BFS,
}

// StopReason represents the possible reasons for a search to
// terminate.
type StopReason int

const (
	Done              StopReason = iota // Explored everything reachable.
	Limited                             // Hit the depth or state limit.
	InternalError                       // What else to do?
	BreakpointReached                   // A breakpoint matched.
	Violated                            // Found a counterexample.
)

var stopReasonNames = []string{"Done", "Limited", "InternalError", "BreakpointReached", "Violated"}

func (r StopReason) String() string {
	if r < 0 || int(r) >= len(stopReasonNames) {
		return fmt.Sprintf("StopReason(%d)", int(r))
	}
	return stopReasonNames[r]
}

func (r StopReason) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *StopReason) UnmarshalJSON(bs []byte) error {
	var s string
	if err := json.Unmarshal(bs, &s); err != nil {
		return err
	}
	for i, name := range stopReasonNames {
		if name == s {
			*r = StopReason(i)
			return nil
		}
	}
	return fmt.Errorf("unknown StopReason '%s'", s)
}

// Strategy is the order in which the frontier is expanded.
type Strategy int

const (
	BFS Strategy = iota
	DFS
)

func (s Strategy) String() string {
	switch s {
	case BFS:
		return "bfs"
	case DFS:
		return "dfs"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy accepts "bfs" or "dfs".  The empty string means BFS.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "bfs", "BFS":
		return BFS, nil
	case "dfs", "DFS":
		return DFS, nil
	}
	return BFS, fmt.Errorf("unknown strategy '%s'", s)
}

// Breakpoint is a configuration predicate.
//
// When a Breakpoint returns true for a model configuration, then the
// search stops at that point.
type Breakpoint func(context.Context, *core.Environment) bool

// Control influences how a search operates.
type Control struct {
	// Limit is the maximum depth explored.  A negative Limit
	// means no limit.
	Limit int

	// MaxStates bounds the number of distinct states visited.
	// Zero means no bound.
	MaxStates int

	Strategy Strategy

	// Invariants are checked on every model step.  A step that
	// violates one stops the search.
	Invariants StepInvariants

	Breakpoints map[string]Breakpoint
}

func (c *Control) Copy() *Control {
	bs := make(map[string]Breakpoint, len(c.Breakpoints))
	for id, b := range c.Breakpoints {
		bs[id] = b
	}
	return &Control{
		Limit:       c.Limit,
		MaxStates:   c.MaxStates,
		Strategy:    c.Strategy,
		Invariants:  c.Invariants,
		Breakpoints: bs,
	}
}

// breakpoint returns the id of the first (by id) breakpoint that
// matches env.
func (c *Control) breakpoint(ctx context.Context, env *core.Environment) (string, bool) {
	if len(c.Breakpoints) == 0 {
		return "", false
	}
	ids := make([]string, 0, len(c.Breakpoints))
	for id := range c.Breakpoints {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if c.Breakpoints[id](ctx, env) {
			return id, true
		}
	}
	return "", false
}
