package explore

import (
	"encoding/json"
	"fmt"

	"github.com/Comcast/soup/core"
	"github.com/Comcast/soup/syntax"
)

// Stride represents a step that a search has taken.
type Stride struct {
	// Step is the model's step.
	Step *core.Step

	// PropertyAction is the property piece that fired alongside
	// Step in a product search.
	PropertyAction *syntax.Piece

	// Property is the property configuration after the stride in
	// a product search.
	Property *core.Environment
}

func (s *Stride) String() string {
	name := "(stutter)"
	if n, fired := s.Step.ActionName(); fired {
		name = n
		if name == "" {
			name = "(anonymous)"
		}
	}
	acc := fmt.Sprintf("%s --%s--> %s", s.Step.Source, name, s.Step.Target)
	if s.Property != nil {
		acc += " property " + s.Property.String()
	}
	return acc
}

type strideJSON struct {
	Step           *core.Step    `json:"step"`
	PropertyAction *string       `json:"propertyAction,omitempty"`
	Property       core.Bindings `json:"property,omitempty"`
}

func (s *Stride) MarshalJSON() ([]byte, error) {
	js := strideJSON{
		Step: s.Step,
	}
	if s.PropertyAction != nil {
		name := s.PropertyAction.Name
		js.PropertyAction = &name
	}
	if s.Property != nil {
		js.Property = s.Property.Bs
	}
	return json.Marshal(&js)
}

// AcceptViolation is the Report.Violation when an accepting state
// was reached.
const AcceptViolation = "accept"

// Report summarizes a search.
type Report struct {
	// Holds is false when the search found a violation.
	Holds bool `json:"holds"`

	StoppedBecause StopReason `json:"stoppedBecause"`

	// BreakpointId is the id of the breakpoint, if any, that
	// caused the search to stop.
	BreakpointId string `json:"breakpoint,omitempty" yaml:",omitempty"`

	// Violation is AcceptViolation or the name of the violated
	// step invariant.
	Violation string `json:"violation,omitempty" yaml:",omitempty"`

	States      int `json:"states"`
	Transitions int `json:"transitions"`
	Depth       int `json:"depth"`

	// Counterexample leads from an initial state to the
	// violation (or to the breakpoint).
	Counterexample []*Stride `json:"counterexample,omitempty" yaml:",omitempty"`

	// Error stores an internal error that occurred (if any).
	Error string `json:"error,omitempty" yaml:",omitempty"`

	Graph *Graph `json:"-" yaml:"-"`
}

// Complete reports whether the search explored everything it could
// reach or found a violation, so that Holds is a verdict.
func (r *Report) Complete() bool {
	return r.StoppedBecause == Done || r.StoppedBecause == Violated
}

// Verdict is a short summary like "holds", "violated (accept)", or
// "unknown (Limited)".
func (r *Report) Verdict() string {
	switch {
	case !r.Holds:
		return "violated (" + r.Violation + ")"
	case r.StoppedBecause == Done:
		return "holds"
	default:
		return "unknown (" + r.StoppedBecause.String() + ")"
	}
}
