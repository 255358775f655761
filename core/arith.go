package core

import (
	"fmt"
	"math"

	"github.com/Comcast/soup/syntax"
)

// unary applies a prefix operator.
func unary(op syntax.Operator, v Value) (Value, error) {
	switch op {
	case syntax.Paren:
		return v, nil
	case syntax.Not:
		b, is := v.AsBool()
		if !is {
			return Value{}, mismatch(op, "boolean", v)
		}
		return Bool(!b), nil
	case syntax.Minus:
		if i, is := v.AsInt(); is {
			return Int(-i), nil
		}
		if f, is := v.AsDouble(); is {
			return Double(-f), nil
		}
		return Value{}, mismatch(op, "numeric", v)
	case syntax.Plus:
		if v.Tag() == IntTag || v.Tag() == DoubleTag {
			return v, nil
		}
		return Value{}, mismatch(op, "numeric", v)
	}
	return Value{}, fmt.Errorf("%s is not a unary operator", op)
}

// binary applies an infix operator to two already-evaluated operands.
func binary(op syntax.Operator, l, r Value) (Value, error) {
	switch op.Family() {
	case syntax.Arithmetic:
		return arithmetic(op, l, r)
	case syntax.Relational:
		return relational(op, l, r)
	case syntax.Equality:
		eq := l.Equal(r)
		if op == syntax.Ne {
			eq = !eq
		}
		return Bool(eq), nil
	case syntax.Propositional:
		return propositional(op, l, r)
	}
	return Value{}, fmt.Errorf("%s is not a binary operator", op)
}

func mismatch(op syntax.Operator, expected string, v Value) error {
	return &TypeMismatch{
		Operator: op.String(),
		Expected: expected,
		Value:    v,
	}
}

// numbers returns both operands as doubles, or a TypeMismatch naming
// the first one that isn't a number.
func numbers(op syntax.Operator, l, r Value) (float64, float64, error) {
	x, is := l.numeric()
	if !is {
		return 0, 0, mismatch(op, "numeric", l)
	}
	y, is := r.numeric()
	if !is {
		return 0, 0, mismatch(op, "numeric", r)
	}
	return x, y, nil
}

// arithmetic works on integers when both operands are integers and
// on doubles otherwise.
func arithmetic(op syntax.Operator, l, r Value) (Value, error) {
	if x, is := l.AsInt(); is {
		if y, is := r.AsInt(); is {
			switch op {
			case syntax.Add:
				return Int(x + y), nil
			case syntax.Sub:
				return Int(x - y), nil
			case syntax.Mul:
				return Int(x * y), nil
			case syntax.Div:
				if y == 0 {
					return Value{}, &ArithmeticFault{Operator: op.String()}
				}
				return Int(x / y), nil
			case syntax.Mod:
				if y == 0 {
					return Value{}, &ArithmeticFault{Operator: op.String()}
				}
				return Int(x % y), nil
			}
		}
	}

	x, y, err := numbers(op, l, r)
	if err != nil {
		return Value{}, err
	}
	switch op {
	case syntax.Add:
		return Double(x + y), nil
	case syntax.Sub:
		return Double(x - y), nil
	case syntax.Mul:
		return Double(x * y), nil
	case syntax.Div:
		return Double(x / y), nil
	case syntax.Mod:
		return Double(math.Mod(x, y)), nil
	}
	return Value{}, fmt.Errorf("%s is not a binary arithmetic operator", op)
}

func relational(op syntax.Operator, l, r Value) (Value, error) {
	if x, is := l.AsInt(); is {
		if y, is := r.AsInt(); is {
			switch op {
			case syntax.Lt:
				return Bool(x < y), nil
			case syntax.Le:
				return Bool(x <= y), nil
			case syntax.Gt:
				return Bool(x > y), nil
			case syntax.Ge:
				return Bool(x >= y), nil
			}
		}
	}
	x, y, err := numbers(op, l, r)
	if err != nil {
		return Value{}, err
	}
	switch op {
	case syntax.Lt:
		return Bool(x < y), nil
	case syntax.Le:
		return Bool(x <= y), nil
	case syntax.Gt:
		return Bool(x > y), nil
	case syntax.Ge:
		return Bool(x >= y), nil
	}
	return Value{}, fmt.Errorf("%s is not a relational operator", op)
}

func propositional(op syntax.Operator, l, r Value) (Value, error) {
	x, is := l.AsBool()
	if !is {
		return Value{}, mismatch(op, "boolean", l)
	}
	y, is := r.AsBool()
	if !is {
		return Value{}, mismatch(op, "boolean", r)
	}
	switch op {
	case syntax.And:
		return Bool(x && y), nil
	case syntax.Or:
		return Bool(x || y), nil
	case syntax.Xor:
		return Bool(x != y), nil
	case syntax.Implies:
		return Bool(!x || y), nil
	case syntax.Equiv:
		return Bool(x == y), nil
	}
	return Value{}, fmt.Errorf("%s is not a propositional operator", op)
}
