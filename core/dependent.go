package core

import (
	"github.com/Comcast/soup/syntax"
)

// StepDependentSemantics is the guarded-action relation of a property
// automaton.
//
// The automaton has its own variables.  Its guards and effects reach
// the observed model step only through "@e".
type StepDependentSemantics struct {
	Soup *syntax.Soup
	pure bool
}

// NewStepDependentSemantics makes the (impure) relation for s.
func NewStepDependentSemantics(s *syntax.Soup) *StepDependentSemantics {
	return &StepDependentSemantics{
		Soup: s,
	}
}

// Pure returns a relation whose Execute copies the configuration
// before running the effect.
func (ss *StepDependentSemantics) Pure() *StepDependentSemantics {
	return &StepDependentSemantics{
		Soup: ss.Soup,
		pure: true,
	}
}

// IsPure reports whether Execute copies its input.
func (ss *StepDependentSemantics) IsPure() bool {
	return ss.pure
}

// Initial evaluates the automaton's declarations.  No step is
// attached, so an initial expression that uses "@" fails with NoStep.
func (ss *StepDependentSemantics) Initial() ([]*Environment, error) {
	env, err := initial(Dependent, ss.Soup)
	if err != nil {
		return nil, err
	}
	return []*Environment{env}, nil
}

// Actions returns the pieces whose guards hold in cfg given the
// observed step.
func (ss *StepDependentSemantics) Actions(step *Step, cfg *Environment) ([]*syntax.Piece, error) {
	return enabled(Dependent, ss.Soup, cfg.WithStep(step))
}

// Execute runs the action's effect with the step attached.  The step
// is detached again before Execute returns.
func (ss *StepDependentSemantics) Execute(action *syntax.Piece, step *Step, cfg *Environment) ([]*Environment, error) {
	if ss.pure {
		cfg = cfg.Copy()
	}
	prev := cfg.Step
	cfg.Step = step
	env, err := Dependent.Execute(action.Effect, cfg)
	cfg.Step = prev
	if err != nil {
		return nil, err
	}
	return []*Environment{env}, nil
}
