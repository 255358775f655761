package core

import (
	"context"
	"errors"
	"testing"

	"github.com/Comcast/soup/link"
	"github.com/Comcast/soup/syntax/parse"
)

func TestCompileModel(t *testing.T) {
	model, err := AliceBob1()
	if err != nil {
		t.Fatal(err)
	}
	if !model.Compiled() || len(model.Soup.Pieces) != 6 {
		t.Fatal("alice-bob1")
	}
	if model.Links.Len() == 0 {
		t.Fatal("no links")
	}

	for _, mk := range []func(*Model) (*Model, error){Exclusion, NoDeadlock} {
		prop, err := mk(model)
		if err != nil {
			t.Fatal(err)
		}
		if _, err = prop.DependentSemantics(); err != nil {
			t.Fatal(err)
		}
	}

	_, err = CompileModel("bad", "var a = 0 | [@(c == 1)] / a = 1", model)
	var ur *link.UnresolvedReference
	if !errors.As(err, &ur) || ur.Name != "c" {
		t.Fatalf("got %v", err)
	}

	_, err = CompileModel("broken", "var a = ", nil)
	var pf *parse.ParseFailure
	if !errors.As(err, &pf) {
		t.Fatalf("got %v", err)
	}

	if _, err = CompileModel("empty", "", nil); err != EmptySource {
		t.Fatalf("got %v", err)
	}

	var nc *ModelNotCompiled
	if _, err = (&Model{Name: "raw"}).Semantics(); !errors.As(err, &nc) {
		t.Fatalf("got %v", err)
	}
}

func TestUpdatableModel(t *testing.T) {
	m0, err := AliceBob0()
	if err != nil {
		t.Fatal(err)
	}
	m1, err := AliceBob1()
	if err != nil {
		t.Fatal(err)
	}
	u := NewUpdatableModel(m0)
	var modeler Modeler = u
	if modeler.Model() != m0 {
		t.Fatal("initial")
	}
	if err = u.SetModel(m1); err != nil {
		t.Fatal(err)
	}
	if u.Model() != m1 {
		t.Fatal("update")
	}
	if err = u.SetModel(m1.Copy()); err == nil {
		t.Fatal("uncompiled models should be refused")
	}
}

type constInterpreter bool

func (c constInterpreter) Compile(ctx context.Context, code string) (interface{}, error) {
	return code, nil
}

func (c constInterpreter) Exec(ctx context.Context, step *Step, code string, compiled interface{}) (bool, error) {
	return bool(c) && compiled.(string) == code, nil
}

func TestAtomSource(t *testing.T) {
	ctx := context.Background()
	interpreters := map[string]Interpreter{
		"yes": constInterpreter(true),
		"no":  constInterpreter(false),
	}

	a, err := (&AtomSource{Interpreter: "yes", Source: "anything"}).Compile(ctx, interpreters)
	if err != nil {
		t.Fatal(err)
	}
	if holds, err := a.Holds(ctx, &Step{}); err != nil || !holds {
		t.Fatalf("got %v, %v", holds, err)
	}
	if a.String() != "yes:anything" {
		t.Fatal(a.String())
	}

	if _, err = (&AtomSource{Interpreter: "maybe"}).Compile(ctx, interpreters); err != InterpreterNotFound {
		t.Fatalf("got %v", err)
	}

	// The default language name is looked up like any other.
	if _, err = (&AtomSource{Source: "x"}).Compile(ctx, interpreters); err != InterpreterNotFound {
		t.Fatalf("got %v", err)
	}
}
