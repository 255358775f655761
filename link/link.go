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

// Package link resolves names in Soup syntax trees.
//
// Linking never touches the tree.  Resolutions go into a Table keyed
// by reference node identity, so a reference is "linked" exactly when
// the Table has an entry for it.
package link

import (
	"fmt"

	"github.com/Comcast/soup/syntax"
)

// UnresolvedReference reports a name with no declaration in scope.
type UnresolvedReference struct {
	// Kind is "variable" or "piece".
	Kind     string
	Name     string
	Position syntax.Position
}

func (e *UnresolvedReference) Error() string {
	msg := fmt.Sprintf("%s '%s' not found", e.Kind, e.Name)
	if !e.Position.IsZero() {
		msg += " at " + e.Position.String()
	}
	return msg
}

// Table holds resolved references.
type Table struct {
	variables map[syntax.Node]*syntax.VariableDeclaration
	pieces    map[*syntax.NamedPieceReference]*syntax.Piece
}

// NewTable makes an empty Table.
func NewTable() *Table {
	return &Table{
		variables: make(map[syntax.Node]*syntax.VariableDeclaration),
		pieces:    make(map[*syntax.NamedPieceReference]*syntax.Piece),
	}
}

// Variable returns the declaration that ref (a *Reference or a
// *PrimedReference) was resolved to, or nil.
func (t *Table) Variable(ref syntax.Expression) *syntax.VariableDeclaration {
	if t == nil {
		return nil
	}
	return t.variables[ref]
}

// Piece returns the piece that ref was resolved to, or nil.
func (t *Table) Piece(ref *syntax.NamedPieceReference) *syntax.Piece {
	if t == nil {
		return nil
	}
	return t.pieces[ref]
}

// Linked reports whether the reference has been resolved.
func (t *Table) Linked(ref syntax.Node) bool {
	if p, is := ref.(*syntax.NamedPieceReference); is {
		return t.Piece(p) != nil
	}
	_, have := t.variables[ref]
	return have
}

func (t *Table) copy() *Table {
	acc := NewTable()
	for ref, d := range t.variables {
		acc.variables[ref] = d
	}
	for ref, p := range t.pieces {
		acc.pieces[ref] = p
	}
	return acc
}

// Len returns the number of resolved references.
func (t *Table) Len() int {
	return len(t.variables) + len(t.pieces)
}

// Scope is the set of names visible to a walk.
type Scope struct {
	Variables map[string]*syntax.VariableDeclaration
	Pieces    map[string]*syntax.Piece
}

// NewScope makes an empty Scope.
func NewScope() *Scope {
	return &Scope{
		Variables: make(map[string]*syntax.VariableDeclaration),
		Pieces:    make(map[string]*syntax.Piece),
	}
}

// ScopeOf returns a Scope holding every variable and named piece of s.
func ScopeOf(s *syntax.Soup) *Scope {
	sc := NewScope()
	if s == nil {
		return sc
	}
	for _, v := range s.Variables {
		sc.Variables[v.Name] = v
	}
	for _, p := range s.Pieces {
		if p.Named() {
			sc.Pieces[p.Name] = p
		}
	}
	return sc
}

func (sc *Scope) copy() *Scope {
	acc := NewScope()
	if sc == nil {
		return acc
	}
	for k, v := range sc.Variables {
		acc.Variables[k] = v
	}
	for k, v := range sc.Pieces {
		acc.Pieces[k] = v
	}
	return acc
}

// DeadlockBuiltin is the name that input references may use without
// a declaration.
const DeadlockBuiltin = "deadlock"

// Linker resolves references into a Table.
type Linker struct {
	// Table receives resolutions.  Link allocates one if nil.
	Table *Table

	// Scope pre-seeds the names visible to LinkExpression and
	// LinkStatement.  Link starts from it too, adding the Soup's
	// own declarations as it walks.
	Scope *Scope

	// Input, when not nil, is the model whose names are visible
	// inside "@e".  When nil, input operands are not resolved.
	Input *syntax.Soup

	// Positions, when not nil, locate errors.
	Positions syntax.Positions

	input *Scope
}

// Link resolves every reference in s and returns the Table.
func Link(s *syntax.Soup) (*Table, error) {
	l := &Linker{}
	if err := l.Link(s); err != nil {
		return nil, err
	}
	return l.Table, nil
}

// Link walks s in declaration order.  Each initial expression is
// resolved before its variable enters scope.  Each named piece enters
// scope before its guard and effect are walked, so a piece can refer
// to itself.
//
// On failure the Table is left as it was before the call.
func (l *Linker) Link(s *syntax.Soup) error {
	return l.atomically(func() error {
		sc := l.Scope.copy()
		for _, v := range s.Variables {
			if err := l.expr(v.Initial, sc); err != nil {
				return err
			}
			sc.Variables[v.Name] = v
		}
		for _, p := range s.Pieces {
			if err := l.piece(p, sc); err != nil {
				return err
			}
		}
		return nil
	})
}

// LinkPiece resolves the guard and effect of p against the Linker's
// Scope.
func (l *Linker) LinkPiece(p *syntax.Piece) error {
	return l.atomically(func() error {
		return l.piece(p, l.Scope.copy())
	})
}

// LinkExpression resolves x against the Linker's Scope.
func (l *Linker) LinkExpression(x syntax.Expression) error {
	return l.atomically(func() error {
		return l.expr(x, l.Scope)
	})
}

// LinkStatement resolves s against the Linker's Scope.
func (l *Linker) LinkStatement(s syntax.Statement) error {
	return l.atomically(func() error {
		return l.stmt(s, l.Scope)
	})
}

// atomically runs f against a working copy of the Table, which
// replaces the Table only if f succeeds.
func (l *Linker) atomically(f func() error) error {
	l.init()
	saved := l.Table
	l.Table = saved.copy()
	if err := f(); err != nil {
		l.Table = saved
		return err
	}
	return nil
}

func (l *Linker) init() {
	if l.Table == nil {
		l.Table = NewTable()
	}
	if l.Scope == nil {
		l.Scope = NewScope()
	}
	if l.Input != nil && l.input == nil {
		l.input = ScopeOf(l.Input)
	}
}

func (l *Linker) piece(p *syntax.Piece, sc *Scope) error {
	if p.Named() {
		sc.Pieces[p.Name] = p
	}
	if err := l.expr(p.Guard, sc); err != nil {
		return err
	}
	return l.stmt(p.Effect, sc)
}

func (l *Linker) unresolved(kind, name string, n syntax.Node) error {
	return &UnresolvedReference{
		Kind:     kind,
		Name:     name,
		Position: l.Positions.Of(n),
	}
}

func (l *Linker) variable(ref syntax.Expression, name string, sc *Scope) error {
	if l.Table.Linked(ref) {
		return nil
	}
	d, have := sc.Variables[name]
	if !have {
		return l.unresolved("variable", name, ref)
	}
	l.Table.variables[ref] = d
	return nil
}

func (l *Linker) expr(x syntax.Expression, sc *Scope) error {
	switch vv := x.(type) {
	case syntax.BooleanLiteral, syntax.IntegerLiteral, syntax.DoubleLiteral:
		return nil
	case *syntax.Reference:
		return l.variable(vv, vv.Name, sc)
	case *syntax.PrimedReference:
		return l.variable(vv, vv.Name, sc)
	case *syntax.NamedPieceReference:
		if l.Table.Linked(vv) {
			return nil
		}
		p, have := sc.Pieces[vv.Name]
		if !have {
			return l.unresolved("piece", vv.Name, vv)
		}
		l.Table.pieces[vv] = p
		return nil
	case *syntax.Unary:
		return l.expr(vv.Operand, sc)
	case *syntax.Binary:
		if err := l.expr(vv.Left, sc); err != nil {
			return err
		}
		return l.expr(vv.Right, sc)
	case *syntax.Conditional:
		if err := l.expr(vv.Condition, sc); err != nil {
			return err
		}
		if err := l.expr(vv.Then, sc); err != nil {
			return err
		}
		return l.expr(vv.Else, sc)
	case *syntax.Enabled:
		return l.expr(vv.Operand, sc)
	case *syntax.InputReference:
		if l.input == nil {
			return nil
		}
		return l.inputExpr(vv.Operand)
	case nil:
		return nil
	default:
		return fmt.Errorf("can't link %T", x)
	}
}

// inputExpr resolves the operand of "@" against the model.
func (l *Linker) inputExpr(x syntax.Expression) error {
	if r, is := x.(*syntax.Reference); is && r.Name == DeadlockBuiltin {
		if _, have := l.input.Variables[r.Name]; !have {
			return nil
		}
	}
	switch vv := x.(type) {
	case *syntax.Unary:
		return l.inputExpr(vv.Operand)
	case *syntax.Binary:
		if err := l.inputExpr(vv.Left); err != nil {
			return err
		}
		return l.inputExpr(vv.Right)
	case *syntax.Conditional:
		if err := l.inputExpr(vv.Condition); err != nil {
			return err
		}
		if err := l.inputExpr(vv.Then); err != nil {
			return err
		}
		return l.inputExpr(vv.Else)
	case *syntax.Enabled:
		return l.inputExpr(vv.Operand)
	case *syntax.InputReference:
		return l.inputExpr(vv.Operand)
	}
	return l.expr(x, l.input)
}

func (l *Linker) stmt(s syntax.Statement, sc *Scope) error {
	switch vv := s.(type) {
	case syntax.Skip:
		return nil
	case *syntax.Assignment:
		if err := l.expr(vv.Expression, sc); err != nil {
			return err
		}
		return l.variable(vv.Target, vv.Target.Name, sc)
	case *syntax.If:
		if err := l.expr(vv.Condition, sc); err != nil {
			return err
		}
		if err := l.stmt(vv.Then, sc); err != nil {
			return err
		}
		return l.stmt(vv.Else, sc)
	case *syntax.Sequence:
		if err := l.stmt(vv.Left, sc); err != nil {
			return err
		}
		return l.stmt(vv.Right, sc)
	case nil:
		return nil
	default:
		return fmt.Errorf("can't link %T", s)
	}
}
