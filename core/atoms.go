package core

import (
	"context"
	"errors"
)

var (
	// InterpreterNotFound occurs when you try to Compile an
	// AtomSource, and the required interpreter isn't in the given
	// map of interpreters.
	InterpreterNotFound = errors.New("interpreter not found")

	// DefaultInterpreters will be used in AtomSource.Compile if
	// given nil interpreters.
	DefaultInterpreters = make(map[string]Interpreter)

	// DefaultInterpreterName is used when an AtomSource doesn't
	// name an interpreter.
	DefaultInterpreterName = "soup"
)

// Interpreter compiles and evaluates atomic propositions about a
// single Step.
type Interpreter interface {
	// Compile can make something that helps when Exec()ing the
	// code later.
	Compile(ctx context.Context, code string) (interface{}, error)

	// Exec evaluates the code against the step.  The result of a
	// previous Compile() might be provided.
	Exec(ctx context.Context, step *Step, code string, compiled interface{}) (bool, error)
}

// AtomSource is the text of an atomic proposition and the name of
// the language it's written in.
type AtomSource struct {
	Interpreter string `json:"interpreter,omitempty" yaml:",omitempty"`
	Source      string `json:"source"`
}

// Atom is a compiled AtomSource.
type Atom struct {
	*AtomSource
	interpreter Interpreter
	compiled    interface{}
}

// Compile attempts to compile the AtomSource using the given
// interpreters, which defaults to DefaultInterpreters.
func (a *AtomSource) Compile(ctx context.Context, interpreters map[string]Interpreter) (*Atom, error) {
	if interpreters == nil {
		interpreters = DefaultInterpreters
	}

	name := a.Interpreter
	if name == "" {
		name = DefaultInterpreterName
	}

	interpreter, have := interpreters[name]
	if !have {
		return nil, InterpreterNotFound
	}

	x, err := interpreter.Compile(ctx, a.Source)
	if err != nil {
		return nil, err
	}

	return &Atom{
		AtomSource:  a,
		interpreter: interpreter,
		compiled:    x,
	}, nil
}

// Holds evaluates the atom against step.
func (a *Atom) Holds(ctx context.Context, step *Step) (bool, error) {
	return a.interpreter.Exec(ctx, step, a.Source, a.compiled)
}

func (a *Atom) String() string {
	if a.Interpreter == "" {
		return a.Source
	}
	return a.Interpreter + ":" + a.Source
}
