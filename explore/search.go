package explore

import (
	"context"

	"github.com/Comcast/soup/core"
	"github.com/Comcast/soup/explore/storage"
	"github.com/Comcast/soup/syntax/parse"
	"github.com/Comcast/soup/util"
)

// ProgressEvery is how often (in visited states) a search logs its
// progress via util.Logf.
var ProgressEvery = 10000

// Accept is a predicate on search states.  The property is nil in a
// plain reachability search.
type Accept func(ctx context.Context, model, property *core.Environment) (bool, error)

// ModelProposition makes an Accept that evaluates the expression
// against the model configuration (see core.HoldsIn).
func ModelProposition(text string) (Accept, error) {
	x, _, err := parse.ReadExpression(text)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, model, property *core.Environment) (bool, error) {
		return core.HoldsIn(x, model)
	}, nil
}

// PropertyProposition makes an Accept that evaluates the expression
// against the property configuration.
func PropertyProposition(text string) (Accept, error) {
	x, _, err := parse.ReadExpression(text)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, model, property *core.Environment) (bool, error) {
		if property == nil {
			return false, nil
		}
		return core.HoldsIn(x, property)
	}, nil
}

type state struct {
	model    *core.Environment
	property *core.Environment
	key      string
	depth    int
	parent   *state
	via      *Stride
	node     *Node
}

func newState(model, property *core.Environment) *state {
	key := model.Key()
	if property != nil {
		key += "|" + property.Key()
	}
	return &state{
		model:    model,
		property: property,
		key:      key,
	}
}

// trace returns the strides from an initial state to st.
func (st *state) trace() []*Stride {
	var acc []*Stride
	for ; st != nil && st.via != nil; st = st.parent {
		acc = append(acc, st.via)
	}
	for i, j := 0, len(acc)-1; i < j; i, j = i+1, j-1 {
		acc[i], acc[j] = acc[j], acc[i]
	}
	return acc
}

type search struct {
	ctl    *Control
	store  storage.Storage
	accept Accept
	expand func(context.Context, *state) ([]*state, error)
	report *Report
}

func newSearch(ctl *Control, store storage.Storage, accept Accept) *search {
	if ctl == nil {
		ctl = DefaultControl
	}
	if store == nil {
		store = storage.NewMemStorage()
	}
	return &search{
		ctl:    ctl,
		store:  store,
		accept: accept,
		report: &Report{
			Holds: true,
			Graph: NewGraph(),
		},
	}
}

func (s *search) fail(err error) (*Report, error) {
	s.report.StoppedBecause = InternalError
	s.report.Error = err.Error()
	return s.report, err
}

func (s *search) violated(name string, trace []*Stride) (*Report, error) {
	s.report.Holds = false
	s.report.StoppedBecause = Violated
	s.report.Violation = name
	s.report.Counterexample = trace
	util.Logf("explore violation %s after %d states", name, s.report.States)
	return s.report, nil
}

// visit records st and reports whether it's new.
func (s *search) visit(ctx context.Context, st *state) (bool, error) {
	fresh, err := s.store.Visit(ctx, st.key)
	if err != nil {
		return false, err
	}
	st.node = s.report.Graph.node(st.key, st.model, st.property)
	if fresh {
		s.report.States++
		if st.depth > s.report.Depth {
			s.report.Depth = st.depth
		}
		if 0 < ProgressEvery && s.report.States%ProgressEvery == 0 {
			util.Logf("explore %d states %d transitions depth %d", s.report.States, s.report.Transitions, st.depth)
		}
	}
	return fresh, nil
}

func (s *search) accepting(ctx context.Context, st *state) (bool, error) {
	if s.accept == nil {
		return false, nil
	}
	yes, err := s.accept(ctx, st.model, st.property)
	if err != nil {
		return false, err
	}
	if yes {
		st.node.Accepting = true
	}
	return yes, nil
}

func (s *search) run(ctx context.Context, inits []*state) (*Report, error) {
	var (
		r        = s.report
		limited  bool
		frontier = make([]*state, 0, len(inits))
	)

	for _, st := range inits {
		fresh, err := s.visit(ctx, st)
		if err != nil {
			return s.fail(err)
		}
		if !fresh {
			continue
		}
		st.node.Initial = true
		yes, err := s.accepting(ctx, st)
		if err != nil {
			return s.fail(err)
		}
		if yes {
			return s.violated(AcceptViolation, nil)
		}
		frontier = append(frontier, st)
	}

	for 0 < len(frontier) {
		if err := ctx.Err(); err != nil {
			return s.fail(err)
		}

		var st *state
		if s.ctl.Strategy == DFS {
			st = frontier[len(frontier)-1]
			frontier = frontier[:len(frontier)-1]
		} else {
			st = frontier[0]
			frontier = frontier[1:]
		}

		if id, hit := s.ctl.breakpoint(ctx, st.model); hit {
			r.StoppedBecause = BreakpointReached
			r.BreakpointId = id
			r.Counterexample = st.trace()
			return r, nil
		}

		if 0 <= s.ctl.Limit && s.ctl.Limit <= st.depth {
			limited = true
			continue
		}

		children, err := s.expand(ctx, st)
		if err != nil {
			return s.fail(err)
		}

		for _, c := range children {
			r.Transitions++
			c.parent = st
			c.depth = st.depth + 1

			name, err := s.ctl.Invariants.Check(ctx, c.via.Step)
			if err != nil {
				return s.fail(err)
			}
			if name != "" {
				return s.violated(name, append(st.trace(), c.via))
			}

			fresh, err := s.visit(ctx, c)
			if err != nil {
				return s.fail(err)
			}
			r.Graph.edge(st.node, c.node, c.via)
			if !fresh {
				continue
			}

			yes, err := s.accepting(ctx, c)
			if err != nil {
				return s.fail(err)
			}
			if yes {
				return s.violated(AcceptViolation, c.trace())
			}

			if 0 < s.ctl.MaxStates && s.ctl.MaxStates < r.States {
				r.StoppedBecause = Limited
				return r, nil
			}

			frontier = append(frontier, c)
		}
	}

	if limited {
		r.StoppedBecause = Limited
	} else {
		r.StoppedBecause = Done
	}
	util.Logf("explore %s: %d states %d transitions", r.StoppedBecause, r.States, r.Transitions)

	return r, nil
}
