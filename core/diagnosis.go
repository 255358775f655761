package core

import (
	"github.com/Comcast/soup/syntax"
	"github.com/Comcast/soup/syntax/parse"
)

// EvaluateAtom parses text as an expression and evaluates it in
// StepMode against step.  The result must be a boolean.
//
// This is the entry point for property front ends that ask yes/no
// questions about one transition.
func EvaluateAtom(text string, step *Step) (bool, error) {
	x, _, err := parse.ReadExpression(text)
	if err != nil {
		return false, err
	}
	return HoldsOnStep(x, step)
}

// HoldsOnStep evaluates an already-parsed atom against step.
func HoldsOnStep(x syntax.Expression, step *Step) (bool, error) {
	return StepEval.boolean(x, step.View(), "atom")
}

// EvaluateProposition parses text as an expression and evaluates it
// in DiagnosisMode against env.  When env's model is a Soup,
// "deadlock" means that no guard holds.
func EvaluateProposition(text string, env *Environment) (bool, error) {
	x, _, err := parse.ReadExpression(text)
	if err != nil {
		return false, err
	}
	return HoldsIn(x, env)
}

// HoldsIn evaluates an already-parsed proposition in DiagnosisMode.
func HoldsIn(x syntax.Expression, env *Environment) (bool, error) {
	return Diagnosis.boolean(x, env, "atom")
}
