package syntax

import "math"

// Equal reports whether a and b are structurally equal.
//
// Double literals are compared by bit pattern.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case BooleanLiteral:
		y, ok := b.(BooleanLiteral)
		return ok && x == y
	case IntegerLiteral:
		y, ok := b.(IntegerLiteral)
		return ok && x == y
	case DoubleLiteral:
		y, ok := b.(DoubleLiteral)
		return ok && math.Float64bits(float64(x)) == math.Float64bits(float64(y))
	case *Reference:
		y, ok := b.(*Reference)
		return ok && (x == y || x.Name == y.Name)
	case *Unary:
		y, ok := b.(*Unary)
		return ok && (x == y || x.Op == y.Op && Equal(x.Operand, y.Operand))
	case *Binary:
		y, ok := b.(*Binary)
		return ok && (x == y || x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right))
	case *Conditional:
		y, ok := b.(*Conditional)
		return ok && (x == y || Equal(x.Condition, y.Condition) &&
			Equal(x.Then, y.Then) && Equal(x.Else, y.Else))
	case *InputReference:
		y, ok := b.(*InputReference)
		return ok && (x == y || Equal(x.Operand, y.Operand))
	case *PrimedReference:
		y, ok := b.(*PrimedReference)
		return ok && (x == y || x.Name == y.Name)
	case *NamedPieceReference:
		y, ok := b.(*NamedPieceReference)
		return ok && (x == y || x.Name == y.Name)
	case *Enabled:
		y, ok := b.(*Enabled)
		return ok && (x == y || Equal(x.Operand, y.Operand))
	case Skip:
		_, ok := b.(Skip)
		return ok
	case *Assignment:
		y, ok := b.(*Assignment)
		return ok && (x == y || Equal(x.Target, y.Target) && Equal(x.Expression, y.Expression))
	case *If:
		y, ok := b.(*If)
		return ok && (x == y || Equal(x.Condition, y.Condition) &&
			Equal(x.Then, y.Then) && Equal(x.Else, y.Else))
	case *Sequence:
		y, ok := b.(*Sequence)
		return ok && (x == y || Equal(x.Left, y.Left) && Equal(x.Right, y.Right))
	case *VariableDeclaration:
		y, ok := b.(*VariableDeclaration)
		return ok && (x == y || x.Name == y.Name && Equal(x.Initial, y.Initial))
	case *Piece:
		y, ok := b.(*Piece)
		return ok && (x == y || x.Name == y.Name &&
			Equal(x.Guard, y.Guard) && Equal(x.Effect, y.Effect))
	case *Soup:
		y, ok := b.(*Soup)
		if !ok {
			return false
		}
		if x == y {
			return true
		}
		if len(x.Variables) != len(y.Variables) || len(x.Pieces) != len(y.Pieces) {
			return false
		}
		for i, v := range x.Variables {
			if !Equal(v, y.Variables[i]) {
				return false
			}
		}
		for i, p := range x.Pieces {
			if !Equal(p, y.Pieces[i]) {
				return false
			}
		}
		return true
	}
	return false
}
