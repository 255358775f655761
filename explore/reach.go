package explore

import (
	"context"

	"github.com/Comcast/soup/core"
	"github.com/Comcast/soup/explore/storage"
)

// Reach explores the configurations of rel, which should be pure
// (see core.SoupSemantics.Pure), looking for one that accept
// accepts.
//
// Report.Holds is true when no accepting configuration was found.
// The given store should be empty.  A nil store means a fresh
// storage.MemStorage, and a nil ctl means DefaultControl.
//
// Any returned error is an internal error, and the report records
// how far the search got.
func Reach(ctx context.Context, rel core.Relation, ctl *Control, store storage.Storage, accept Accept) (*Report, error) {
	s := newSearch(ctl, store, accept)

	s.expand = func(ctx context.Context, st *state) ([]*state, error) {
		acts, err := rel.Actions(st.model)
		if err != nil {
			return nil, err
		}
		var acc []*state
		for _, act := range acts {
			targets, err := rel.Execute(act, st.model)
			if err != nil {
				return nil, err
			}
			for _, target := range targets {
				c := newState(target, nil)
				c.via = &Stride{
					Step: &core.Step{
						Source: st.model,
						Action: act,
						Target: target,
					},
				}
				acc = append(acc, c)
			}
		}
		return acc, nil
	}

	inits, err := rel.Initial()
	if err != nil {
		return s.fail(err)
	}
	states := make([]*state, 0, len(inits))
	for _, cfg := range inits {
		states = append(states, newState(cfg, nil))
	}

	return s.run(ctx, states)
}

// ReachModel is Reach over the model's pure semantics.
func ReachModel(ctx context.Context, model *core.Model, ctl *Control, store storage.Storage, accept Accept) (*Report, error) {
	rel, err := model.Semantics()
	if err != nil {
		return nil, err
	}
	return Reach(ctx, rel, ctl, store, accept)
}
