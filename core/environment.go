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
	"encoding/json"

	"github.com/Comcast/soup/syntax"
)

// Environment is a configuration: the node it belongs to and the
// current value of every variable.
//
// Model anchors the Environment.  Two Environments are equal when
// their models are structurally equal and their Bindings are equal.
//
// Step is set only while a property automaton evaluates an expression
// or runs an effect against an observed model step.  It does not take
// part in equality.
type Environment struct {
	Model syntax.Node `json:"-"`
	Bs    Bindings    `json:"bs"`
	Step  *Step       `json:"-"`
}

// NewEnvironment makes an Environment.  When bs is nil, the
// Environment starts empty.
func NewEnvironment(model syntax.Node, bs Bindings) *Environment {
	if bs == nil {
		bs = NewBindings()
	}
	return &Environment{
		Model: model,
		Bs:    bs,
	}
}

// Define binds a new name.
func (e *Environment) Define(name string, v Value) error {
	if _, have := e.Bs[name]; have {
		return &AlreadyDefined{Name: name}
	}
	e.Bs[name] = v
	return nil
}

// Lookup returns the value bound to name.
func (e *Environment) Lookup(name string) (Value, error) {
	v, have := e.Bs[name]
	if !have {
		return Value{}, &UndefinedVariable{Name: name}
	}
	return v, nil
}

// Update rebinds an existing name.  It never creates a binding.
func (e *Environment) Update(name string, v Value) error {
	if _, have := e.Bs[name]; !have {
		return &UndefinedVariable{Name: name}
	}
	e.Bs[name] = v
	return nil
}

// Copy returns an Environment with the same model and step and a
// copy of the Bindings.
func (e *Environment) Copy() *Environment {
	return &Environment{
		Model: e.Model,
		Bs:    e.Bs.Copy(),
		Step:  e.Step,
	}
}

// Equal reports whether e and other denote the same configuration.
func (e *Environment) Equal(other *Environment) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e == other {
		return true
	}
	if e.Model != other.Model && !syntax.Equal(e.Model, other.Model) {
		return false
	}
	return e.Bs.Equal(other.Bs)
}

// Key returns a canonical string for the Bindings.  Within one model,
// Equal Environments have the same Key.
func (e *Environment) Key() string {
	return e.Bs.Key()
}

func (e *Environment) String() string {
	if e == nil {
		return "nil"
	}
	js, err := json.Marshal(e.Bs)
	if err != nil {
		return "{*}"
	}
	return string(js)
}

// WithStep returns an Environment that shares e's Bindings and has
// the given step attached.
func (e *Environment) WithStep(s *Step) *Environment {
	return &Environment{
		Model: e.Model,
		Bs:    e.Bs,
		Step:  s,
	}
}
