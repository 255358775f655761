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

// Package parse reads Soup source text into syntax trees.
//
// Each Read function returns the root node and the source span of
// every pointer node it built.  Any malformed input, including
// trailing text after a complete phrase, is a *ParseFailure.
package parse

import (
	"fmt"
	"strconv"

	"github.com/Comcast/soup/syntax"
)

// ParseFailure reports malformed source text.
type ParseFailure struct {
	Position syntax.Position
	Message  string
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Position, e.Message)
}

// ReadExpression parses a complete expression.
func ReadExpression(src string) (syntax.Expression, syntax.Positions, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, nil, err
	}
	x, err := p.expr()
	if err == nil {
		err = p.end()
	}
	if err != nil {
		return nil, nil, err
	}
	return x, p.ps, nil
}

// ReadStatement parses a complete statement.
func ReadStatement(src string) (syntax.Statement, syntax.Positions, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, nil, err
	}
	x, err := p.stmt()
	if err == nil {
		err = p.end()
	}
	if err != nil {
		return nil, nil, err
	}
	return x, p.ps, nil
}

// ReadPiece parses a single named or anonymous piece.
func ReadPiece(src string) (*syntax.Piece, syntax.Positions, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, nil, err
	}
	x, err := p.piece()
	if err == nil {
		err = p.end()
	}
	if err != nil {
		return nil, nil, err
	}
	return x, p.ps, nil
}

// ReadSoup parses a complete specification.
func ReadSoup(src string) (*syntax.Soup, syntax.Positions, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, nil, err
	}
	x, err := p.soup()
	if err == nil {
		err = p.end()
	}
	if err != nil {
		return nil, nil, err
	}
	return x, p.ps, nil
}

// MustSoup is ReadSoup for sources known to be well-formed.  It
// panics on error.
func MustSoup(src string) *syntax.Soup {
	s, _, err := ReadSoup(src)
	if err != nil {
		panic(err)
	}
	return s
}

type parser struct {
	toks []token
	i    int
	ps   syntax.Positions
}

func newParser(src string) (*parser, error) {
	toks, err := newLexer(src).tokens()
	if err != nil {
		return nil, err
	}
	return &parser{
		toks: toks,
		ps:   syntax.Positions{},
	}, nil
}

func (p *parser) peek() token {
	return p.toks[p.i]
}

func (p *parser) peekAt(n int) token {
	if p.i+n < len(p.toks) {
		return p.toks[p.i+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) advance() token {
	t := p.toks[p.i]
	if t.kind != tEOF {
		p.i++
	}
	return t
}

// is reports whether the next token is the given symbol or keyword.
func (p *parser) is(text string) bool {
	t := p.peek()
	return (t.kind == tSymbol || t.kind == tKeyword) && t.text == text
}

func (p *parser) accept(text string) bool {
	if p.is(text) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(text string) error {
	if !p.accept(text) {
		return p.fail("expected %q", text)
	}
	return nil
}

func (p *parser) fail(format string, args ...interface{}) error {
	t := p.peek()
	found := t.text
	if t.kind == tEOF {
		found = "end of input"
	}
	return &ParseFailure{
		Position: syntax.Position{Start: t.start, Stop: t.stop},
		Message:  fmt.Sprintf(format, args...) + fmt.Sprintf(" but found %q", found),
	}
}

func (p *parser) end() error {
	if p.peek().kind != tEOF {
		return p.fail("expected end of input")
	}
	return nil
}

// mark returns the start of the next token.
func (p *parser) mark() syntax.Cursor {
	return p.peek().start
}

// span records n as covering from start to the end of the last
// consumed token.
func (p *parser) span(n syntax.Node, start syntax.Cursor) {
	stop := start
	if p.i > 0 {
		stop = p.toks[p.i-1].stop
	}
	p.ps.Set(n, syntax.Position{Start: start, Stop: stop})
}

func (p *parser) soup() (*syntax.Soup, error) {
	start := p.mark()
	s := &syntax.Soup{}
	if p.accept("var") {
		for {
			d, err := p.decl()
			if err != nil {
				return nil, err
			}
			s.Variables = append(s.Variables, d)
			if !p.is(";") {
				break
			}
			if p.peekAt(1).kind == tIdent && isSymbol(p.peekAt(2), "=") {
				p.advance()
				continue
			}
			break
		}
		p.accept(";")
	}
	p.accept("|")
	if p.peek().kind != tEOF {
		for {
			piece, err := p.piece()
			if err != nil {
				return nil, err
			}
			s.Pieces = append(s.Pieces, piece)
			if !p.accept("|") {
				break
			}
		}
	}
	p.span(s, start)
	return s, nil
}

func isSymbol(t token, text string) bool {
	return t.kind == tSymbol && t.text == text
}

func (p *parser) decl() (*syntax.VariableDeclaration, error) {
	start := p.mark()
	t := p.peek()
	if t.kind != tIdent {
		return nil, p.fail("expected a variable name")
	}
	p.advance()
	if err := p.expect("="); err != nil {
		return nil, err
	}
	init, err := p.expr()
	if err != nil {
		return nil, err
	}
	d := &syntax.VariableDeclaration{Name: t.text, Initial: init}
	p.span(d, start)
	return d, nil
}

func (p *parser) piece() (*syntax.Piece, error) {
	start := p.mark()
	piece := &syntax.Piece{}
	if p.peek().kind == tIdent && isSymbol(p.peekAt(1), ":") {
		piece.Name = p.advance().text
		p.advance()
	}
	if p.accept("[") {
		g, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err = p.expect("]"); err != nil {
			return nil, err
		}
		piece.Guard = g
	}
	if p.accept("/") {
		e, err := p.stmt()
		if err != nil {
			return nil, err
		}
		piece.Effect = e
	}
	if !piece.Named() && piece.Guard == nil && piece.Effect == nil {
		return nil, p.fail("expected a piece")
	}
	if piece.Guard == nil {
		piece.Guard = syntax.True
	}
	if piece.Effect == nil {
		piece.Effect = syntax.SkipStatement
	}
	p.span(piece, start)
	return piece, nil
}

func (p *parser) stmt() (syntax.Statement, error) {
	start := p.mark()
	left, err := p.simple()
	if err != nil {
		return nil, err
	}
	if !p.accept(";") {
		return left, nil
	}
	right, err := p.stmt()
	if err != nil {
		return nil, err
	}
	s := &syntax.Sequence{Left: left, Right: right}
	p.span(s, start)
	return s, nil
}

func (p *parser) simple() (syntax.Statement, error) {
	start := p.mark()
	t := p.peek()
	switch {
	case p.accept("skip"):
		return syntax.SkipStatement, nil
	case p.accept("("):
		s, err := p.stmt()
		if err != nil {
			return nil, err
		}
		return s, p.expect(")")
	case p.accept("if"):
		c, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err = p.expect("then"); err != nil {
			return nil, err
		}
		then, err := p.simple()
		if err != nil {
			return nil, err
		}
		var els syntax.Statement = syntax.SkipStatement
		if p.accept("else") {
			if els, err = p.simple(); err != nil {
				return nil, err
			}
		}
		s := &syntax.If{Condition: c, Then: then, Else: els}
		p.span(s, start)
		return s, nil
	case t.kind == tIdent:
		p.advance()
		target := &syntax.Reference{Name: t.text}
		p.span(target, start)
		if err := p.expect("="); err != nil {
			return nil, err
		}
		x, err := p.expr()
		if err != nil {
			return nil, err
		}
		s := &syntax.Assignment{Target: target, Expression: x}
		p.span(s, start)
		return s, nil
	}
	return nil, p.fail("expected a statement")
}

func (p *parser) expr() (syntax.Expression, error) {
	start := p.mark()
	if p.accept("enabled") {
		x, err := p.expr()
		if err != nil {
			return nil, err
		}
		e := &syntax.Enabled{Operand: x}
		p.span(e, start)
		return e, nil
	}
	return p.conditional()
}

func (p *parser) conditional() (syntax.Expression, error) {
	start := p.mark()
	c, err := p.equiv()
	if err != nil {
		return nil, err
	}
	if !p.accept("?") {
		return c, nil
	}
	then, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err = p.expect(":"); err != nil {
		return nil, err
	}
	els, err := p.expr()
	if err != nil {
		return nil, err
	}
	x := &syntax.Conditional{Condition: c, Then: then, Else: els}
	p.span(x, start)
	return x, nil
}

// level parses a left-associative chain of the given operators.
func (p *parser) level(next func() (syntax.Expression, error), ops map[string]syntax.Operator) (syntax.Expression, error) {
	start := p.mark()
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tSymbol && t.kind != tKeyword {
			return left, nil
		}
		op, have := ops[t.text]
		if !have {
			return left, nil
		}
		p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		b := &syntax.Binary{Op: op, Left: left, Right: right}
		p.span(b, start)
		left = b
	}
}

var (
	equivOps = map[string]syntax.Operator{"<->": syntax.Equiv}
	orOps    = map[string]syntax.Operator{"||": syntax.Or, "xor": syntax.Xor}
	andOps   = map[string]syntax.Operator{"&&": syntax.And}
	eqOps    = map[string]syntax.Operator{"==": syntax.Eq, "!=": syntax.Ne}
	relOps   = map[string]syntax.Operator{"<": syntax.Lt, "<=": syntax.Le, ">": syntax.Gt, ">=": syntax.Ge}
	addOps   = map[string]syntax.Operator{"+": syntax.Add, "-": syntax.Sub}
	mulOps   = map[string]syntax.Operator{"*": syntax.Mul, "/": syntax.Div, "%": syntax.Mod}
	unaryOps = map[string]syntax.Operator{"!": syntax.Not, "-": syntax.Minus, "+": syntax.Plus}
)

func (p *parser) equiv() (syntax.Expression, error) {
	return p.level(p.implies, equivOps)
}

// implies is right-associative.
func (p *parser) implies() (syntax.Expression, error) {
	start := p.mark()
	left, err := p.or()
	if err != nil {
		return nil, err
	}
	if !p.accept("->") {
		return left, nil
	}
	right, err := p.implies()
	if err != nil {
		return nil, err
	}
	b := &syntax.Binary{Op: syntax.Implies, Left: left, Right: right}
	p.span(b, start)
	return b, nil
}

func (p *parser) or() (syntax.Expression, error) {
	return p.level(p.and, orOps)
}

func (p *parser) and() (syntax.Expression, error) {
	return p.level(p.equality, andOps)
}

func (p *parser) equality() (syntax.Expression, error) {
	return p.level(p.relational, eqOps)
}

func (p *parser) relational() (syntax.Expression, error) {
	return p.level(p.additive, relOps)
}

func (p *parser) additive() (syntax.Expression, error) {
	return p.level(p.multiplicative, addOps)
}

func (p *parser) multiplicative() (syntax.Expression, error) {
	return p.level(p.unary, mulOps)
}

func (p *parser) unary() (syntax.Expression, error) {
	start := p.mark()
	t := p.peek()
	if t.kind == tSymbol {
		if t.text == "@" {
			p.advance()
			x, err := p.unary()
			if err != nil {
				return nil, err
			}
			e := &syntax.InputReference{Operand: x}
			p.span(e, start)
			return e, nil
		}
		if op, have := unaryOps[t.text]; have {
			p.advance()
			x, err := p.unary()
			if err != nil {
				return nil, err
			}
			e := &syntax.Unary{Op: op, Operand: x}
			p.span(e, start)
			return e, nil
		}
	}
	return p.primary()
}

func (p *parser) primary() (syntax.Expression, error) {
	start := p.mark()
	t := p.peek()
	switch t.kind {
	case tKeyword:
		switch t.text {
		case "true":
			p.advance()
			return syntax.True, nil
		case "false":
			p.advance()
			return syntax.False, nil
		case "enabled":
			return p.expr()
		}
	case tInt:
		p.advance()
		n, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return nil, &ParseFailure{
				Position: syntax.Position{Start: t.start, Stop: t.stop},
				Message:  "integer literal out of range: " + t.text,
			}
		}
		return syntax.IntegerLiteral(n), nil
	case tDecimal:
		p.advance()
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, &ParseFailure{
				Position: syntax.Position{Start: t.start, Stop: t.stop},
				Message:  "bad decimal literal: " + t.text,
			}
		}
		return syntax.DoubleLiteral(f), nil
	case tPieceRef:
		p.advance()
		e := &syntax.NamedPieceReference{Name: t.text}
		p.span(e, start)
		return e, nil
	case tIdent:
		p.advance()
		var e syntax.Expression
		if p.peek().kind == tPrime {
			p.advance()
			e = &syntax.PrimedReference{Name: t.text}
		} else {
			e = &syntax.Reference{Name: t.text}
		}
		p.span(e, start)
		return e, nil
	case tSymbol:
		if t.text == "(" {
			p.advance()
			x, err := p.expr()
			if err != nil {
				return nil, err
			}
			if err = p.expect(")"); err != nil {
				return nil, err
			}
			e := &syntax.Unary{Op: syntax.Paren, Operand: x}
			p.span(e, start)
			return e, nil
		}
	}
	return nil, p.fail("expected an expression")
}
