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
	"errors"
	"fmt"

	"github.com/Comcast/soup/link"
	"github.com/Comcast/soup/syntax"
	"github.com/Comcast/soup/syntax/parse"
)

// Model is a Soup with its source, its source positions, and its
// name resolutions.
//
// Write a Model's Name, Doc, and Source (say from YAML), and then
// Compile() it.
type Model struct {
	Name string `json:"name,omitempty" yaml:",omitempty"`

	// Doc is optional Markdown documentation.
	Doc string `json:"doc,omitempty" yaml:",omitempty"`

	Source string `json:"source" yaml:"source"`

	Soup      *syntax.Soup     `json:"-" yaml:"-"`
	Positions syntax.Positions `json:"-" yaml:"-"`
	Links     *link.Table      `json:"-" yaml:"-"`

	compiled bool
}

// ModelNotCompiled occurs when a Model is used before it has been
// Compile()ed.
type ModelNotCompiled struct {
	Model *Model
}

func (e *ModelNotCompiled) Error() string {
	return `model "` + e.Model.Name + `" not compiled`
}

// EmptySource occurs when a Model has no source text.
var EmptySource = errors.New("empty source")

// Compile parses and links the Model's Source.
//
// When input is not nil, the Model is a property automaton and the
// operands of "@" are resolved against input's variables and named
// pieces.  Input must already be compiled.
func (m *Model) Compile(input *Model) error {
	if m.Source == "" {
		return EmptySource
	}
	if input != nil && !input.compiled {
		return &ModelNotCompiled{Model: input}
	}
	s, ps, err := parse.ReadSoup(m.Source)
	if err != nil {
		return fmt.Errorf("model %q: %w", m.Name, err)
	}
	l := &link.Linker{Positions: ps}
	if input != nil {
		l.Input = input.Soup
	}
	if err = l.Link(s); err != nil {
		return fmt.Errorf("model %q: %w", m.Name, err)
	}
	m.Soup = s
	m.Positions = ps
	m.Links = l.Table
	m.compiled = true
	return nil
}

// Compiled reports whether Compile succeeded.
func (m *Model) Compiled() bool {
	return m.compiled
}

// Semantics returns the pure guarded-action relation of the Model.
func (m *Model) Semantics() (*SoupSemantics, error) {
	if !m.compiled {
		return nil, &ModelNotCompiled{Model: m}
	}
	return NewSoupSemantics(m.Soup).Pure(), nil
}

// DependentSemantics returns the pure relation of the Model as a
// property automaton.
func (m *Model) DependentSemantics() (*StepDependentSemantics, error) {
	if !m.compiled {
		return nil, &ModelNotCompiled{Model: m}
	}
	return NewStepDependentSemantics(m.Soup).Pure(), nil
}

// Copy makes an uncompiled copy of the Model.
func (m *Model) Copy() *Model {
	return &Model{
		Name:   m.Name,
		Doc:    m.Doc,
		Source: m.Source,
	}
}

// CompileModel makes and compiles a Model.
func CompileModel(name, src string, input *Model) (*Model, error) {
	m := &Model{
		Name:   name,
		Source: src,
	}
	if err := m.Compile(input); err != nil {
		return nil, err
	}
	return m, nil
}
