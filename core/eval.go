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
	"fmt"

	"github.com/Comcast/soup/syntax"
)

// Mode selects the evaluation rules for the step-related parts of the
// language.
type Mode int

const (
	// BaseMode evaluates plain Soup.  "@", "x'", "p:", and
	// "enabled" are unsupported.
	BaseMode Mode = iota

	// DiagnosisMode is BaseMode plus state-level deadlock: when the
	// Environment's model is a Soup, "deadlock" holds exactly when
	// no guard holds.
	DiagnosisMode

	// StepMode evaluates against a Step (see Step.View).  Plain
	// names read the source, "x'" reads the target, "p:name" tests
	// the fired piece, "deadlock" is a stuttering self-loop, and
	// "enabled e" is e.
	StepMode

	// DependentMode evaluates a property automaton's expressions.
	// Names read the automaton's own variables, and "@e" evaluates
	// e in StepMode against the attached Step.
	DependentMode
)

func (m Mode) String() string {
	switch m {
	case BaseMode:
		return "base"
	case DiagnosisMode:
		return "diagnosis"
	case StepMode:
		return "step"
	case DependentMode:
		return "dependent"
	}
	return "unknown"
}

// DeadlockName is the name that DiagnosisMode and StepMode treat
// specially.
const DeadlockName = "deadlock"

// Evaluator evaluates expressions and executes statements.
//
// Expression evaluation never modifies the Environment.  Statement
// execution modifies the given Environment in place and returns it.
type Evaluator struct {
	Mode Mode
}

var (
	Base      = &Evaluator{Mode: BaseMode}
	Diagnosis = &Evaluator{Mode: DiagnosisMode}
	StepEval  = &Evaluator{Mode: StepMode}
	Dependent = &Evaluator{Mode: DependentMode}
)

// Evaluate computes the value of x in env.
func (ev *Evaluator) Evaluate(x syntax.Expression, env *Environment) (Value, error) {
	switch vv := x.(type) {
	case syntax.BooleanLiteral:
		return Bool(bool(vv)), nil

	case syntax.IntegerLiteral:
		return Int(int64(vv)), nil

	case syntax.DoubleLiteral:
		return Double(float64(vv)), nil

	case *syntax.Reference:
		return ev.reference(vv, env)

	case *syntax.Unary:
		v, err := ev.Evaluate(vv.Operand, env)
		if err != nil {
			return Value{}, err
		}
		return unary(vv.Op, v)

	case *syntax.Binary:
		// Both sides, always.
		l, err := ev.Evaluate(vv.Left, env)
		if err != nil {
			return Value{}, err
		}
		r, err := ev.Evaluate(vv.Right, env)
		if err != nil {
			return Value{}, err
		}
		return binary(vv.Op, l, r)

	case *syntax.Conditional:
		c, err := ev.boolean(vv.Condition, env, "?:")
		if err != nil {
			return Value{}, err
		}
		if c {
			return ev.Evaluate(vv.Then, env)
		}
		return ev.Evaluate(vv.Else, env)

	case *syntax.InputReference:
		if ev.Mode != DependentMode {
			return Value{}, &UnsupportedExpression{Expression: x, Mode: ev.Mode}
		}
		if env.Step == nil {
			return Value{}, fmt.Errorf("%s: %w", syntax.String(x), NoStep)
		}
		return StepEval.Evaluate(vv.Operand, env.Step.View())

	case *syntax.PrimedReference:
		if ev.Mode != StepMode {
			return Value{}, &UnsupportedExpression{Expression: x, Mode: ev.Mode}
		}
		s := stepOf(env)
		if s.Target == nil {
			return Value{}, fmt.Errorf("%s: %w", syntax.String(x), UndeterminedTarget)
		}
		return s.Target.Lookup(vv.Name)

	case *syntax.NamedPieceReference:
		if ev.Mode != StepMode {
			return Value{}, &UnsupportedExpression{Expression: x, Mode: ev.Mode}
		}
		return Bool(stepOf(env).Fired(vv.Name)), nil

	case *syntax.Enabled:
		if ev.Mode != StepMode {
			return Value{}, &UnsupportedExpression{Expression: x, Mode: ev.Mode}
		}
		return ev.Evaluate(vv.Operand, env)

	case nil:
		return Value{}, fmt.Errorf("nil expression")
	}
	return Value{}, fmt.Errorf("unknown expression type %T", x)
}

// stepOf returns the Step attached to env.  An Environment without
// one is treated as an undetermined stutter from env.
func stepOf(env *Environment) *Step {
	if env.Step != nil {
		return env.Step
	}
	return &Step{Source: env}
}

func (ev *Evaluator) reference(r *syntax.Reference, env *Environment) (Value, error) {
	if r.Name == DeadlockName {
		switch ev.Mode {
		case DiagnosisMode:
			if s, is := env.Model.(*syntax.Soup); is {
				dead, err := StateDeadlock(s, env)
				if err != nil {
					return Value{}, err
				}
				return Bool(dead), nil
			}
		case StepMode:
			return Bool(stepOf(env).Deadlock()), nil
		}
	}
	return env.Lookup(r.Name)
}

// boolean evaluates x and requires a boolean result.  The operator
// names the construct in a TypeMismatch.
func (ev *Evaluator) boolean(x syntax.Expression, env *Environment, operator string) (bool, error) {
	v, err := ev.Evaluate(x, env)
	if err != nil {
		return false, err
	}
	b, is := v.AsBool()
	if !is {
		return false, &TypeMismatch{Operator: operator, Expected: "boolean", Value: v}
	}
	return b, nil
}

// Holds evaluates x as a boolean.
func (ev *Evaluator) Holds(x syntax.Expression, env *Environment) (bool, error) {
	return ev.boolean(x, env, "guard")
}

// Execute runs s against env, modifying env, and returns env.
func (ev *Evaluator) Execute(s syntax.Statement, env *Environment) (*Environment, error) {
	switch vv := s.(type) {
	case syntax.Skip:
		return env, nil

	case *syntax.Assignment:
		v, err := ev.Evaluate(vv.Expression, env)
		if err != nil {
			return nil, err
		}
		if err = env.Update(vv.Target.Name, v); err != nil {
			return nil, err
		}
		return env, nil

	case *syntax.If:
		c, err := ev.boolean(vv.Condition, env, "if")
		if err != nil {
			return nil, err
		}
		if c {
			return ev.Execute(vv.Then, env)
		}
		return ev.Execute(vv.Else, env)

	case *syntax.Sequence:
		env, err := ev.Execute(vv.Left, env)
		if err != nil {
			return nil, err
		}
		return ev.Execute(vv.Right, env)

	case nil:
		return nil, fmt.Errorf("nil statement")
	}
	return nil, fmt.Errorf("unknown statement type %T", s)
}
