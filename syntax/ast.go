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

package syntax

// Node is any element of a Soup syntax tree.
type Node interface {
	node()
}

// Expression is the closed set of expression nodes.
//
// The implementations are BooleanLiteral, IntegerLiteral,
// DoubleLiteral, *Reference, *Unary, *Binary, *Conditional, and the
// dependent-language extensions *InputReference, *PrimedReference,
// *NamedPieceReference, and *Enabled.
type Expression interface {
	Node
	expression()
}

// Statement is the closed set of statement nodes: Skip, *Assignment,
// *If, and *Sequence.
type Statement interface {
	Node
	statement()
}

// BooleanLiteral is a boolean constant.
type BooleanLiteral bool

// IntegerLiteral is an integer constant.
type IntegerLiteral int64

// DoubleLiteral is a floating-point constant.
type DoubleLiteral float64

const (
	True  = BooleanLiteral(true)
	False = BooleanLiteral(false)
)

// Reference is a plain name that should resolve to a
// VariableDeclaration.
type Reference struct {
	Name string
}

// Unary is a prefix operator applied to an operand.  Parenthesized
// expressions are represented as a Unary with operator Paren so that
// the printed form survives a round trip.
type Unary struct {
	Op      Operator
	Operand Expression
}

// Binary is an infix operator.
type Binary struct {
	Op          Operator
	Left, Right Expression
}

// Conditional is "c ? t : e".
type Conditional struct {
	Condition Expression
	Then      Expression
	Else      Expression
}

// InputReference is "@e".  In a property automaton, e is evaluated
// against the observed step of the model rather than against the
// automaton's own variables.
type InputReference struct {
	Operand Expression
}

// PrimedReference is "x'", the value of x in the target of a step.
type PrimedReference struct {
	Name string
}

// NamedPieceReference is "p:name", which holds when the named piece
// fired in the observed step.
type NamedPieceReference struct {
	Name string
}

// Enabled is "enabled e".
//
// Currently evaluates to e in the surrounding step context.
type Enabled struct {
	Operand Expression
}

// Skip does nothing.
type Skip struct{}

// SkipStatement is the Skip value.
var SkipStatement = Skip{}

// Assignment is "x = e".
type Assignment struct {
	Target     *Reference
	Expression Expression
}

// If is "if c then s1 else s2".  Else is SkipStatement when the
// source omitted it.
type If struct {
	Condition Expression
	Then      Statement
	Else      Statement
}

// Sequence is "s1; s2".
type Sequence struct {
	Left, Right Statement
}

// VariableDeclaration is one "x = e" in the "var" section of a Soup.
type VariableDeclaration struct {
	Name    string
	Initial Expression
}

// Piece is a guarded action.
//
// A Piece with an empty Name is anonymous.
type Piece struct {
	Name   string
	Guard  Expression
	Effect Statement
}

// Named reports whether the piece has a name.
func (p *Piece) Named() bool {
	return p != nil && p.Name != ""
}

// Soup is a complete specification.
type Soup struct {
	Variables []*VariableDeclaration
	Pieces    []*Piece
}

// Variable returns the declaration with the given name (if any).
func (s *Soup) Variable(name string) *VariableDeclaration {
	for _, v := range s.Variables {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Piece returns the first named piece with the given name (if any).
func (s *Soup) Piece(name string) *Piece {
	if name == "" {
		return nil
	}
	for _, p := range s.Pieces {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (BooleanLiteral) node()       {}
func (IntegerLiteral) node()       {}
func (DoubleLiteral) node()        {}
func (*Reference) node()           {}
func (*Unary) node()               {}
func (*Binary) node()              {}
func (*Conditional) node()         {}
func (*InputReference) node()      {}
func (*PrimedReference) node()     {}
func (*NamedPieceReference) node() {}
func (*Enabled) node()             {}
func (Skip) node()                 {}
func (*Assignment) node()          {}
func (*If) node()                  {}
func (*Sequence) node()            {}
func (*VariableDeclaration) node() {}
func (*Piece) node()               {}
func (*Soup) node()                {}

func (BooleanLiteral) expression()       {}
func (IntegerLiteral) expression()       {}
func (DoubleLiteral) expression()        {}
func (*Reference) expression()           {}
func (*Unary) expression()               {}
func (*Binary) expression()              {}
func (*Conditional) expression()         {}
func (*InputReference) expression()      {}
func (*PrimedReference) expression()     {}
func (*NamedPieceReference) expression() {}
func (*Enabled) expression()             {}

func (Skip) statement()        {}
func (*Assignment) statement() {}
func (*If) statement()         {}
func (*Sequence) statement()   {}
