package core

import (
	"errors"
	"testing"

	"github.com/Comcast/soup/syntax/parse"
)

func TestInitial(t *testing.T) {
	rel := NewSoupSemantics(parse.MustSoup("var x = 23 + 42; y = x - 23; z = x < 42"))
	inits, err := rel.Initial()
	if err != nil {
		t.Fatal(err)
	}
	if len(inits) != 1 {
		t.Fatal(len(inits))
	}
	want := Bindings{"x": Int(65), "y": Int(42), "z": Bool(false)}
	if !inits[0].Bs.Equal(want) {
		t.Fatalf("got %s", inits[0])
	}
	if inits[0].Model != rel.Soup {
		t.Fatal("initial configuration should be anchored at the soup")
	}
}

func TestActionsOrder(t *testing.T) {
	s := parse.MustSoup("var x = 23 | p1: [x < 25] / x = 42 | p2: [true] / x = 42 | p3: [x > 25] / x = 0")
	rel := NewSoupSemantics(s)
	inits, err := rel.Initial()
	if err != nil {
		t.Fatal(err)
	}
	acts, err := rel.Actions(inits[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(acts) != 2 || acts[0] != s.Pieces[0] || acts[1] != s.Pieces[1] {
		t.Fatalf("got %d actions", len(acts))
	}
}

func TestActionsGuardMustBeBoolean(t *testing.T) {
	rel := NewSoupSemantics(parse.MustSoup("var x = 1 | [x] / skip"))
	inits, _ := rel.Initial()
	_, err := rel.Actions(inits[0])
	var tm *TypeMismatch
	if !errors.As(err, &tm) || tm.Operator != "guard" {
		t.Fatalf("got %v", err)
	}
}

func TestExecuteImpureAndPure(t *testing.T) {
	s := parse.MustSoup("var x = 23 | p1: [x < 25] / x = 42 | p2: [true] / x = 7")

	impure := NewSoupSemantics(s)
	inits, _ := impure.Initial()
	cfg := inits[0]
	out, err := impure.Execute(s.Pieces[0], cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0] != cfg {
		t.Fatal("impure Execute must return its input")
	}
	if x, _ := cfg.Bs["x"].AsInt(); x != 42 {
		t.Fatalf("x = %d", x)
	}

	pure := impure.Pure()
	if !pure.IsPure() || impure.IsPure() {
		t.Fatal("IsPure")
	}
	inits, _ = pure.Initial()
	cfg = inits[0]
	one, err := pure.Execute(s.Pieces[0], cfg)
	if err != nil {
		t.Fatal(err)
	}
	two, err := pure.Execute(s.Pieces[1], cfg)
	if err != nil {
		t.Fatal(err)
	}
	if one[0] == cfg || two[0] == cfg || one[0] == two[0] {
		t.Fatal("pure Execute must return fresh configurations")
	}
	if x, _ := cfg.Bs["x"].AsInt(); x != 23 {
		t.Fatalf("input changed: x = %d", x)
	}
	if x, _ := one[0].Bs["x"].AsInt(); x != 42 {
		t.Fatalf("x = %d", x)
	}
	if x, _ := two[0].Bs["x"].AsInt(); x != 7 {
		t.Fatalf("x = %d", x)
	}
}

func TestStateDeadlock(t *testing.T) {
	model, err := AliceBob1()
	if err != nil {
		t.Fatal(err)
	}
	cfg := NewEnvironment(model.Soup, Bindings{
		"a": Int(1), "fa": Bool(true), "b": Int(1), "fb": Bool(true),
	})
	dead, err := StateDeadlock(model.Soup, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !dead {
		t.Fatal("both waiting should deadlock")
	}
	if holds, err := EvaluateProposition("deadlock && a == 1", cfg); err != nil || !holds {
		t.Fatalf("got %v, %v", holds, err)
	}

	inits, _ := NewSoupSemantics(model.Soup).Initial()
	if holds, err := EvaluateProposition("deadlock", inits[0]); err != nil || holds {
		t.Fatalf("got %v, %v", holds, err)
	}
}
