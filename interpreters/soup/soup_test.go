package soup

import (
	"context"
	"errors"
	"testing"

	"github.com/Comcast/soup/core"
	"github.com/Comcast/soup/syntax"
	"github.com/Comcast/soup/syntax/parse"
)

func TestExec(t *testing.T) {
	ctx := context.Background()
	src := core.NewEnvironment(nil, core.Bindings{"x": core.Int(0)})
	dst := core.NewEnvironment(nil, core.Bindings{"x": core.Int(1)})
	p := &syntax.Piece{Name: "a1", Guard: syntax.True, Effect: syntax.SkipStatement}
	step := &core.Step{Source: src, Action: p, Target: dst}

	i := NewInterpreter()
	compiled, err := i.Compile(ctx, "p:a1 && x' == x + 1")
	if err != nil {
		t.Fatal(err)
	}
	if holds, err := i.Exec(ctx, step, "", compiled); err != nil || !holds {
		t.Fatalf("got %v, %v", holds, err)
	}

	// Without a compilation, Exec compiles.
	if holds, err := i.Exec(ctx, core.StutterStep(src), "deadlock", nil); err != nil || !holds {
		t.Fatalf("got %v, %v", holds, err)
	}

	var pf *parse.ParseFailure
	if _, err = i.Compile(ctx, "x +"); !errors.As(err, &pf) {
		t.Fatalf("got %v", err)
	}

	if _, err = i.Exec(ctx, step, "", 42); err == nil {
		t.Fatal("bad compilation should fail")
	}
}

func TestDefault(t *testing.T) {
	src := core.NewEnvironment(nil, core.Bindings{"x": core.Int(0)})
	a, err := (&core.AtomSource{Source: "x == 0"}).Compile(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if holds, err := a.Holds(context.Background(), core.StutterStep(src)); err != nil || !holds {
		t.Fatalf("got %v, %v", holds, err)
	}
}
