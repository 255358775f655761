package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Comcast/soup/core"
	"github.com/Comcast/soup/syntax"
	"github.com/Comcast/soup/util"
)

// Expectation is one scripted step of a Session.
type Expectation struct {
	// Doc is an opaque documentation string.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// Enabled, if not nil, lists the names of the pieces that
	// should be enabled before firing.  Anonymous pieces are
	// listed as "#INDEX".
	Enabled []string `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// Fire is the name of the piece to fire.  When empty, nothing
	// fires, and the other checks apply to the current
	// configuration.
	Fire string `json:"fire,omitempty" yaml:"fire,omitempty"`

	// Bindings are values that the configuration should have
	// after firing.  Unmentioned variables aren't checked.
	Bindings map[string]interface{} `json:"bindings,omitempty" yaml:"bindings,omitempty"`

	// Atom, if given, should hold on the step just taken (or
	// the stutter step when nothing fired).
	Atom *core.AtomSource `json:"atom,omitempty" yaml:"atom,omitempty"`
}

// Session is a sequence of Expectations for a model.
type Session struct {
	// Doc is an opaque documentation string.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	Steps []*Expectation `json:"steps" yaml:"steps"`

	// Interpreters are used (if necessary) to compile any atoms.
	Interpreters map[string]core.Interpreter `json:"-" yaml:"-"`

	Verbose bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Mismatch reports the first expectation that wasn't met.
type Mismatch struct {
	Step int
	Doc  string
	What string
	Want interface{}
	Got  interface{}
}

func (e *Mismatch) Error() string {
	msg := fmt.Sprintf("step %d: %s: want %v, got %v", e.Step, e.What, e.Want, e.Got)
	if e.Doc != "" {
		msg += " (" + e.Doc + ")"
	}
	return msg
}

// Run processes all the Steps in the Session against the model's
// pure semantics.  It returns the final configuration.  The returned
// error is a *Mismatch when an expectation failed.
func (s *Session) Run(ctx context.Context, m *core.Model) (*core.Environment, error) {
	rel, err := m.Semantics()
	if err != nil {
		return nil, err
	}
	inits, err := rel.Initial()
	if err != nil {
		return nil, err
	}
	cfg := inits[0]

	for i, x := range s.Steps {
		mismatch := func(what string, want, got interface{}) error {
			return &Mismatch{Step: i, Doc: x.Doc, What: what, Want: want, Got: got}
		}

		acts, err := rel.Actions(cfg)
		if err != nil {
			return cfg, err
		}

		if x.Enabled != nil {
			want := append([]string(nil), x.Enabled...)
			sort.Strings(want)
			got := pieceLabels(m, acts)
			if strings.Join(want, ",") != strings.Join(got, ",") {
				return cfg, mismatch("enabled", want, got)
			}
		}

		step := core.StutterStep(cfg)
		if x.Fire != "" {
			var next *core.Environment
			for _, a := range acts {
				if label(m, a) == x.Fire {
					targets, err := rel.Execute(a, cfg)
					if err != nil {
						return cfg, err
					}
					next = targets[0]
					step = &core.Step{Source: cfg, Action: a, Target: next}
					break
				}
			}
			if next == nil {
				return cfg, mismatch("fire", x.Fire, pieceLabels(m, acts))
			}
			if s.Verbose {
				util.Logf("session step %d fired %s: %s", i, x.Fire, next)
			}
			cfg = next
		}

		names := make([]string, 0, len(x.Bindings))
		for name := range x.Bindings {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			want, err := core.ValueOf(x.Bindings[name])
			if err != nil {
				return cfg, fmt.Errorf("step %d: binding %s: %w", i, name, err)
			}
			got, err := cfg.Lookup(name)
			if err != nil {
				return cfg, mismatch("binding "+name, want, "undefined")
			}
			if !got.Equal(want) {
				return cfg, mismatch("binding "+name, want, got)
			}
		}

		if x.Atom != nil {
			a, err := x.Atom.Compile(ctx, s.Interpreters)
			if err != nil {
				return cfg, fmt.Errorf("step %d: %w", i, err)
			}
			holds, err := a.Holds(ctx, step)
			if err != nil {
				return cfg, fmt.Errorf("step %d: %w", i, err)
			}
			if !holds {
				return cfg, mismatch("atom "+a.String(), true, false)
			}
		}
	}

	return cfg, nil
}

// label is the piece's name or "#INDEX" for an anonymous piece.
func label(m *core.Model, p *syntax.Piece) string {
	if p.Named() {
		return p.Name
	}
	for i, q := range m.Soup.Pieces {
		if p == q {
			return pieceLabel(i, p)
		}
	}
	return "?"
}

// pieceLabels returns the sorted labels of the pieces.
func pieceLabels(m *core.Model, ps []*syntax.Piece) []string {
	acc := make([]string, 0, len(ps))
	for _, p := range ps {
		acc = append(acc, label(m, p))
	}
	sort.Strings(acc)
	return acc
}
