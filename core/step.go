package core

import (
	"encoding/json"

	"github.com/Comcast/soup/syntax"
)

// Step is one observed transition of a model: a source
// configuration, the piece that fired (nil for a stutter), and the
// target configuration (nil while undetermined).
type Step struct {
	Source *Environment
	Action *syntax.Piece
	Target *Environment
}

// IsStutter reports whether no action fired.
func (s *Step) IsStutter() bool {
	return s.Action == nil
}

// SelfLoop reports whether the target is known and equals the source.
func (s *Step) SelfLoop() bool {
	return s.Target != nil && s.Source != nil && s.Target.Equal(s.Source)
}

// Deadlock reports whether the step is a stutter that loops on its
// source.  An undetermined target is never a deadlock.
func (s *Step) Deadlock() bool {
	return s.IsStutter() && s.SelfLoop()
}

// Fired reports whether the action is a named piece with the given
// name.
func (s *Step) Fired(name string) bool {
	return s.Action.Named() && s.Action.Name == name
}

// ActionName returns the name of the fired piece.  The second result
// is false for a stutter.
func (s *Step) ActionName() (string, bool) {
	if s.Action == nil {
		return "", false
	}
	return s.Action.Name, true
}

// View returns the source configuration with the step attached.
// Plain names read from the source; primed names read from the
// target.
func (s *Step) View() *Environment {
	src := s.Source
	if src == nil {
		src = NewEnvironment(nil, nil)
	}
	return src.WithStep(s)
}

// StutterStep returns the step that stays at cfg without firing.
func StutterStep(cfg *Environment) *Step {
	return &Step{
		Source: cfg,
		Target: cfg,
	}
}

type stepJSON struct {
	Source  Bindings `json:"source,omitempty"`
	Action  *string  `json:"action"`
	Target  Bindings `json:"target,omitempty"`
	Stutter bool     `json:"stutter"`
}

// MarshalJSON renders the step with the action's name ("" for an
// anonymous piece, null for a stutter).
func (s *Step) MarshalJSON() ([]byte, error) {
	js := stepJSON{
		Stutter: s.IsStutter(),
	}
	if s.Source != nil {
		js.Source = s.Source.Bs
	}
	if s.Target != nil {
		js.Target = s.Target.Bs
	}
	if name, fired := s.ActionName(); fired {
		js.Action = &name
	}
	return json.Marshal(&js)
}
