/* Copyright 2024 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package core

import (
	"github.com/Comcast/soup/syntax"
)

// Relation is a transition relation over Environments.
//
// A search driver calls Initial once and then, for each
// configuration, Actions and Execute for each action.  Drivers that
// branch must use a pure Relation.
type Relation interface {
	Initial() ([]*Environment, error)
	Actions(cfg *Environment) ([]*syntax.Piece, error)
	Execute(action *syntax.Piece, cfg *Environment) ([]*Environment, error)
}

// DependentRelation is a transition relation driven by the steps of
// another Relation.
type DependentRelation interface {
	Initial() ([]*Environment, error)
	Actions(step *Step, cfg *Environment) ([]*syntax.Piece, error)
	Execute(action *syntax.Piece, step *Step, cfg *Environment) ([]*Environment, error)
}

// SoupSemantics is the guarded-action relation of a Soup.
//
// The zero pure flag means Execute runs the effect on the given
// configuration itself.  Use Pure to get a relation that leaves its
// input alone.
type SoupSemantics struct {
	Soup *syntax.Soup
	pure bool
}

// NewSoupSemantics makes the (impure) relation for s.
func NewSoupSemantics(s *syntax.Soup) *SoupSemantics {
	return &SoupSemantics{
		Soup: s,
	}
}

// Pure returns a relation whose Execute copies the configuration
// before running the effect.
func (ss *SoupSemantics) Pure() *SoupSemantics {
	return &SoupSemantics{
		Soup: ss.Soup,
		pure: true,
	}
}

// IsPure reports whether Execute copies its input.
func (ss *SoupSemantics) IsPure() bool {
	return ss.pure
}

// Initial evaluates the declarations in order.  Each initial
// expression sees the variables declared before it.
func (ss *SoupSemantics) Initial() ([]*Environment, error) {
	env, err := initial(Base, ss.Soup)
	if err != nil {
		return nil, err
	}
	return []*Environment{env}, nil
}

func initial(ev *Evaluator, s *syntax.Soup) (*Environment, error) {
	env := NewEnvironment(s, make(Bindings, len(s.Variables)))
	for _, v := range s.Variables {
		x, err := ev.Evaluate(v.Initial, env)
		if err != nil {
			return nil, err
		}
		if err = env.Define(v.Name, x); err != nil {
			return nil, err
		}
	}
	return env, nil
}

// Actions returns the pieces whose guards hold in cfg, in
// declaration order.
func (ss *SoupSemantics) Actions(cfg *Environment) ([]*syntax.Piece, error) {
	return enabled(Base, ss.Soup, cfg)
}

func enabled(ev *Evaluator, s *syntax.Soup, cfg *Environment) ([]*syntax.Piece, error) {
	acc := make([]*syntax.Piece, 0, len(s.Pieces))
	for _, p := range s.Pieces {
		holds, err := ev.Holds(p.Guard, cfg)
		if err != nil {
			return nil, err
		}
		if holds {
			acc = append(acc, p)
		}
	}
	return acc, nil
}

// Execute runs the action's effect.
func (ss *SoupSemantics) Execute(action *syntax.Piece, cfg *Environment) ([]*Environment, error) {
	if ss.pure {
		cfg = cfg.Copy()
	}
	env, err := Base.Execute(action.Effect, cfg)
	if err != nil {
		return nil, err
	}
	return []*Environment{env}, nil
}

// StateDeadlock reports whether no guard of s holds in env.
func StateDeadlock(s *syntax.Soup, env *Environment) (bool, error) {
	acts, err := NewSoupSemantics(s).Actions(env)
	if err != nil {
		return false, err
	}
	return len(acts) == 0, nil
}
