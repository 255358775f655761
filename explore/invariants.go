package explore

import (
	"context"
	"fmt"

	"github.com/Comcast/soup/core"
)

// InvariantSource names an atom that should hold on every step.
type InvariantSource struct {
	Name string `json:"name"`

	core.AtomSource `yaml:",inline"`
}

// StepInvariant is a compiled InvariantSource.
type StepInvariant struct {
	Name string
	Atom *core.Atom
}

// StepInvariants are checked, in order, on every explored model step.
type StepInvariants []*StepInvariant

// CompileInvariants compiles each source with the given
// interpreters (see core.AtomSource.Compile).
func CompileInvariants(ctx context.Context, srcs []*InvariantSource, interpreters map[string]core.Interpreter) (StepInvariants, error) {
	acc := make(StepInvariants, 0, len(srcs))
	for i, src := range srcs {
		name := src.Name
		if name == "" {
			name = fmt.Sprintf("invariant%d", i)
		}
		a, err := src.AtomSource.Compile(ctx, interpreters)
		if err != nil {
			return nil, fmt.Errorf("invariant %s: %w", name, err)
		}
		acc = append(acc, &StepInvariant{
			Name: name,
			Atom: a,
		})
	}
	return acc, nil
}

// Check returns the name of the first invariant that doesn't hold
// for the step or the empty string if they all hold.
func (invs StepInvariants) Check(ctx context.Context, step *core.Step) (string, error) {
	for _, inv := range invs {
		holds, err := inv.Atom.Holds(ctx, step)
		if err != nil {
			return "", fmt.Errorf("invariant %s: %w", inv.Name, err)
		}
		if !holds {
			return inv.Name, nil
		}
	}
	return "", nil
}
