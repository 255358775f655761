package explore

import (
	"context"

	"github.com/Comcast/soup/core"
	"github.com/Comcast/soup/explore/storage"
)

// ProductOf explores the synchronous product of a model relation and
// a step-dependent property relation.
//
// From a product state (m, p), every model step (m, a, m') is offered
// to the property, and every property action enabled on that step
// leads to (m', p') for each p' it produces.  A model configuration
// without enabled actions offers the stutter step (m, nil, m) instead,
// so properties can observe deadlocks.  A model step that enables no
// property action is blocked.
//
// accept typically examines the property configuration (see
// PropertyProposition).  Both relations should be pure.
func ProductOf(ctx context.Context, rel core.Relation, prop core.DependentRelation, ctl *Control, store storage.Storage, accept Accept) (*Report, error) {
	s := newSearch(ctl, store, accept)

	s.expand = func(ctx context.Context, st *state) ([]*state, error) {
		steps, err := modelSteps(rel, st.model)
		if err != nil {
			return nil, err
		}
		var acc []*state
		for _, step := range steps {
			pacts, err := prop.Actions(step, st.property)
			if err != nil {
				return nil, err
			}
			for _, pact := range pacts {
				outs, err := prop.Execute(pact, step, st.property)
				if err != nil {
					return nil, err
				}
				for _, out := range outs {
					c := newState(step.Target, out)
					c.via = &Stride{
						Step:           step,
						PropertyAction: pact,
						Property:       out,
					}
					acc = append(acc, c)
				}
			}
		}
		return acc, nil
	}

	minits, err := rel.Initial()
	if err != nil {
		return s.fail(err)
	}
	pinits, err := prop.Initial()
	if err != nil {
		return s.fail(err)
	}
	states := make([]*state, 0, len(minits)*len(pinits))
	for _, m := range minits {
		for _, p := range pinits {
			states = append(states, newState(m, p))
		}
	}

	return s.run(ctx, states)
}

// modelSteps returns the steps leaving cfg or the single stutter step
// when nothing is enabled.
func modelSteps(rel core.Relation, cfg *core.Environment) ([]*core.Step, error) {
	acts, err := rel.Actions(cfg)
	if err != nil {
		return nil, err
	}
	if len(acts) == 0 {
		return []*core.Step{core.StutterStep(cfg)}, nil
	}
	var acc []*core.Step
	for _, act := range acts {
		targets, err := rel.Execute(act, cfg)
		if err != nil {
			return nil, err
		}
		for _, target := range targets {
			acc = append(acc, &core.Step{
				Source: cfg,
				Action: act,
				Target: target,
			})
		}
	}
	return acc, nil
}

// Product explores the product of a model and a property compiled
// against it (see core.CompileModel).
func Product(ctx context.Context, model, property *core.Model, ctl *Control, store storage.Storage, accept Accept) (*Report, error) {
	rel, err := model.Semantics()
	if err != nil {
		return nil, err
	}
	prop, err := property.DependentSemantics()
	if err != nil {
		return nil, err
	}
	return ProductOf(ctx, rel, prop, ctl, store, accept)
}
