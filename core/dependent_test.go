package core

import (
	"errors"
	"testing"

	"github.com/Comcast/soup/syntax"
	"github.com/Comcast/soup/syntax/parse"
)

func TestDependentInputReference(t *testing.T) {
	prop := parse.MustSoup("var x = 0;\n| piece: [x == 0 ∧ @x'==3 ] / x = @x' + 1")
	model := &syntax.Soup{}

	src := NewEnvironment(model, Bindings{"x": Int(0)})
	dst := NewEnvironment(model, Bindings{"x": Int(3)})
	step := &Step{Source: src, Action: prop.Pieces[0], Target: dst}

	rel := NewStepDependentSemantics(prop)
	inits, err := rel.Initial()
	if err != nil {
		t.Fatal(err)
	}
	cfg := inits[0]

	acts, err := rel.Actions(step, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(acts) != 1 || acts[0].Name != "piece" {
		t.Fatalf("got %d actions", len(acts))
	}

	out, err := rel.Execute(acts[0], step, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != cfg {
		t.Fatal("impure Execute must return its input")
	}
	if x, _ := cfg.Bs["x"].AsInt(); x != 4 {
		t.Fatalf("x = %d", x)
	}
	if cfg.Step != nil {
		t.Fatal("step should be detached after Execute")
	}
	if x, _ := src.Bs["x"].AsInt(); x != 0 {
		t.Fatal("model source changed")
	}
}

func TestDependentNamespaces(t *testing.T) {
	// The automaton's x and the model's x are different variables.
	prop := parse.MustSoup("var x = 100 | [x == 100 && @(x == 1)] / x = @x")
	src := NewEnvironment(nil, Bindings{"x": Int(1)})
	step := &Step{Source: src, Target: src}

	rel := NewStepDependentSemantics(prop).Pure()
	inits, _ := rel.Initial()
	acts, err := rel.Actions(step, inits[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(acts) != 1 {
		t.Fatal(len(acts))
	}
	out, err := rel.Execute(acts[0], step, inits[0])
	if err != nil {
		t.Fatal(err)
	}
	if out[0] == inits[0] {
		t.Fatal("pure Execute must copy")
	}
	if x, _ := out[0].Bs["x"].AsInt(); x != 1 {
		t.Fatalf("x = %d", x)
	}
	if x, _ := inits[0].Bs["x"].AsInt(); x != 100 {
		t.Fatalf("input changed: x = %d", x)
	}
}

func TestDependentWithoutStep(t *testing.T) {
	rel := NewStepDependentSemantics(parse.MustSoup("var x = @y"))
	_, err := rel.Initial()
	if !errors.Is(err, NoStep) {
		t.Fatalf("got %v", err)
	}
}

func TestStepDeadlock(t *testing.T) {
	src := NewEnvironment(nil, Bindings{"x": Int(0)})
	same := src.Copy()
	other := NewEnvironment(nil, Bindings{"x": Int(1)})
	p := &syntax.Piece{Name: "p", Guard: syntax.True, Effect: syntax.SkipStatement}

	tests := []struct {
		name string
		step *Step
		want bool
	}{
		{"undetermined", &Step{Source: src}, false},
		{"stutter-self-loop", &Step{Source: src, Target: same}, true},
		{"stutter-elsewhere", &Step{Source: src, Target: other}, false},
		{"fired-self-loop", &Step{Source: src, Action: p, Target: same}, false},
		{"fired", &Step{Source: src, Action: p, Target: other}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EvaluateAtom("deadlock", tc.step)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Fatalf("got %v", got)
			}
		})
	}
}

func TestStepNamedPieces(t *testing.T) {
	src := NewEnvironment(nil, Bindings{"x": Int(0)})
	named := &syntax.Piece{Name: "a1", Guard: syntax.True, Effect: syntax.SkipStatement}
	anon := &syntax.Piece{Guard: syntax.True, Effect: syntax.SkipStatement}

	for _, name := range []string{"a1", "b1", "p"} {
		if got, err := EvaluateAtom("p:"+name, StutterStep(src)); err != nil || got {
			t.Fatalf("%s: stutter got %v, %v", name, got, err)
		}
	}
	if got, _ := EvaluateAtom("p:a1", &Step{Source: src, Action: named, Target: src}); !got {
		t.Fatal("p:a1 should hold when a1 fired")
	}
	if got, _ := EvaluateAtom("p:b1", &Step{Source: src, Action: named, Target: src}); got {
		t.Fatal("p:b1 should not hold when a1 fired")
	}
	if got, _ := EvaluateAtom("p:a1", &Step{Source: src, Action: anon, Target: src}); got {
		t.Fatal("anonymous pieces have no name")
	}
}

func TestStepPrimed(t *testing.T) {
	src := NewEnvironment(nil, Bindings{"x": Int(0)})
	dst := NewEnvironment(nil, Bindings{"x": Int(5)})

	if got, err := EvaluateAtom("x == 0 && x' == 5 && enabled (x' > x)", &Step{Source: src, Target: dst}); err != nil || !got {
		t.Fatalf("got %v, %v", got, err)
	}

	_, err := EvaluateAtom("x' == 5", &Step{Source: src})
	if !errors.Is(err, UndeterminedTarget) {
		t.Fatalf("got %v", err)
	}

	var uv *UndefinedVariable
	if _, err = EvaluateAtom("y' == 5", &Step{Source: src, Target: dst}); !errors.As(err, &uv) {
		t.Fatalf("got %v", err)
	}

	var tm *TypeMismatch
	if _, err = EvaluateAtom("x + 1", &Step{Source: src, Target: dst}); !errors.As(err, &tm) || tm.Operator != "atom" {
		t.Fatalf("got %v", err)
	}
}
