package syntax

import (
	"math"
	"strconv"
	"strings"
)

// Binding strengths used by the printer.  Higher binds tighter.
const (
	precLoose   = 1 // conditional, enabled
	precEquiv   = 2
	precImplies = 3
	precOr      = 4
	precAnd     = 5
	precEq      = 6
	precRel     = 7
	precAdd     = 8
	precMul     = 9
	precUnary   = 10
	precPrimary = 11
)

// Precedence returns the binding strength of a binary operator.
func (op Operator) Precedence() int {
	switch op {
	case Equiv:
		return precEquiv
	case Implies:
		return precImplies
	case Or, Xor:
		return precOr
	case And:
		return precAnd
	case Eq, Ne:
		return precEq
	case Lt, Le, Gt, Ge:
		return precRel
	case Add, Sub:
		return precAdd
	case Mul, Div, Mod:
		return precMul
	}
	return precUnary
}

func precedence(e Expression) int {
	switch x := e.(type) {
	case *Binary:
		return x.Op.Precedence()
	case *Conditional, *Enabled:
		return precLoose
	case *Unary:
		if x.Op == Paren {
			return precPrimary
		}
		return precUnary
	case *InputReference:
		return precUnary
	case IntegerLiteral:
		if x < 0 {
			return precUnary
		}
	case DoubleLiteral:
		if math.Signbit(float64(x)) {
			return precUnary
		}
	}
	return precPrimary
}

// String renders n in a form that ReadExpression, ReadStatement,
// ReadPiece, or ReadSoup accepts.
func String(n Node) string {
	var b strings.Builder
	p := &printer{&b}
	p.node(n)
	return b.String()
}

type printer struct {
	b *strings.Builder
}

func (p *printer) s(s string) {
	p.b.WriteString(s)
}

func (p *printer) node(n Node) {
	switch x := n.(type) {
	case nil:
	case Expression:
		p.expr(x, 0)
	case Statement:
		p.stmt(x)
	case *VariableDeclaration:
		p.s(x.Name)
		p.s(" = ")
		p.expr(x.Initial, 0)
	case *Piece:
		p.piece(x)
	case *Soup:
		p.soup(x)
	}
}

// expr writes e, parenthesizing it when it binds looser than min.
func (p *printer) expr(e Expression, min int) {
	if precedence(e) < min {
		p.s("(")
		defer p.s(")")
	}
	switch x := e.(type) {
	case BooleanLiteral:
		p.s(strconv.FormatBool(bool(x)))
	case IntegerLiteral:
		p.s(strconv.FormatInt(int64(x), 10))
	case DoubleLiteral:
		p.s(FormatDouble(float64(x)))
	case *Reference:
		p.s(x.Name)
	case *Unary:
		if x.Op == Paren {
			p.s("(")
			p.expr(x.Operand, 0)
			p.s(")")
			return
		}
		p.s(x.Op.String())
		if inner, is := x.Operand.(*Unary); is && inner.Op != Paren {
			// Keep "- -x" from reading as something else.
			p.s(" ")
		}
		p.expr(x.Operand, precUnary)
	case *Binary:
		prec := x.Op.Precedence()
		left, right := prec, prec+1
		if x.Op == Implies {
			left, right = prec+1, prec
		}
		p.expr(x.Left, left)
		p.s(" " + x.Op.String() + " ")
		p.expr(x.Right, right)
	case *Conditional:
		p.expr(x.Condition, precEquiv)
		p.s(" ? ")
		p.expr(x.Then, 0)
		p.s(" : ")
		p.expr(x.Else, 0)
	case *InputReference:
		p.s("@")
		p.expr(x.Operand, precUnary)
	case *PrimedReference:
		p.s(x.Name + "'")
	case *NamedPieceReference:
		p.s("p:" + x.Name)
	case *Enabled:
		p.s("enabled ")
		p.expr(x.Operand, 0)
	}
}

func (p *printer) stmt(s Statement) {
	switch x := s.(type) {
	case Skip:
		p.s("skip")
	case *Assignment:
		p.s(x.Target.Name)
		p.s(" = ")
		p.expr(x.Expression, 0)
	case *If:
		p.s("if ")
		p.expr(x.Condition, 0)
		p.s(" then ")
		_, dangling := x.Then.(*If)
		_, noElse := x.Else.(Skip)
		p.branch(x.Then, dangling && !noElse)
		if !noElse {
			p.s(" else ")
			p.branch(x.Else, false)
		}
	case *Sequence:
		_, nested := x.Left.(*Sequence)
		p.branch(x.Left, nested)
		p.s("; ")
		p.stmt(x.Right)
	}
}

// branch writes a statement that must read back as a single simple
// statement.
func (p *printer) branch(s Statement, force bool) {
	if _, seq := s.(*Sequence); seq || force {
		p.s("(")
		p.stmt(s)
		p.s(")")
		return
	}
	p.stmt(s)
}

func (p *printer) piece(x *Piece) {
	if x.Named() {
		p.s(x.Name)
		p.s(": ")
	}
	p.s("[")
	p.expr(x.Guard, 0)
	p.s("] / ")
	p.stmt(x.Effect)
}

func (p *printer) soup(x *Soup) {
	if len(x.Variables) > 0 {
		p.s("var ")
		for i, v := range x.Variables {
			if i > 0 {
				p.s("; ")
			}
			p.node(v)
		}
		p.s("\n")
	}
	for _, piece := range x.Pieces {
		p.s("| ")
		p.piece(piece)
		p.s("\n")
	}
}

// FormatDouble renders a double so that it reads back as a double.
func FormatDouble(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
