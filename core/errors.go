package core

// These errors abort the evaluation in progress.  Whether that ends
// one branch of a search or the whole search is up to the caller.

import (
	"errors"
	"fmt"

	"github.com/Comcast/soup/syntax"
)

// UndefinedVariable occurs when a name has no binding.
type UndefinedVariable struct {
	Name string
}

func (e *UndefinedVariable) Error() string {
	return `variable "` + e.Name + `" is not defined`
}

// AlreadyDefined occurs when Define is called for a name that is
// already bound.
type AlreadyDefined struct {
	Name string
}

func (e *AlreadyDefined) Error() string {
	return `variable "` + e.Name + `" is already defined`
}

// TypeMismatch occurs when an operator gets an operand of the wrong
// runtime type.
//
// Operator is the operator's symbol, or "guard", "if", "?:", or
// "atom" for the other places that need a boolean.
type TypeMismatch struct {
	Operator string
	Expected string
	Value    Value
}

func (e *TypeMismatch) Error() string {
	return fmt.Sprintf("%s expected %s operand but got %s (%s)", e.Operator, e.Expected, e.Value, e.Value.Tag())
}

// ArithmeticFault occurs on integer division or modulus by zero.
type ArithmeticFault struct {
	Operator string
}

func (e *ArithmeticFault) Error() string {
	return "integer " + e.Operator + " by zero"
}

// UnsupportedExpression occurs when an expression is evaluated in a
// Mode that gives it no meaning, for example "x'" outside of a step.
type UnsupportedExpression struct {
	Expression syntax.Expression
	Mode       Mode
}

func (e *UnsupportedExpression) Error() string {
	return fmt.Sprintf("%s is not supported in %s mode", syntax.String(e.Expression), e.Mode)
}

var (
	// NoStep occurs when a step-dependent expression is evaluated
	// by an environment without a Step.
	NoStep = errors.New("no step")

	// UndeterminedTarget occurs when a primed variable is read
	// from a step whose target is not known yet.
	UndeterminedTarget = errors.New("step target is undetermined")
)
