package core

import (
	"fmt"
)

// Example demonstrates stepping a model by hand.
func Example() {
	model, err := CompileModel("counter", `
var x = 0
| inc: [x < 2] / x = x + 1
| reset: [x == 2] / x = 0`, nil)
	if err != nil {
		panic(err)
	}

	rel, err := model.Semantics()
	if err != nil {
		panic(err)
	}

	inits, err := rel.Initial()
	if err != nil {
		panic(err)
	}
	cfg := inits[0]

	for i := 0; i < 4; i++ {
		acts, err := rel.Actions(cfg)
		if err != nil {
			panic(err)
		}
		next, err := rel.Execute(acts[0], cfg)
		if err != nil {
			panic(err)
		}
		fmt.Printf("%s %s -> %s\n", acts[0].Name, cfg, next[0])
		cfg = next[0]
	}

	// Output:
	// inc {"x":0} -> {"x":1}
	// inc {"x":1} -> {"x":2}
	// reset {"x":2} -> {"x":0}
	// inc {"x":0} -> {"x":1}
}

// ExampleEvaluateAtom asks questions about one step.
func ExampleEvaluateAtom() {
	model, err := AliceBob0()
	if err != nil {
		panic(err)
	}
	rel, _ := model.Semantics()
	inits, _ := rel.Initial()
	src := inits[0]
	a1 := model.Soup.Piece("a1")
	next, _ := rel.Execute(a1, src)

	step := &Step{Source: src, Action: a1, Target: next[0]}
	for _, atom := range []string{"a == 0", "a' == 1", "p:a1", "p:b1", "deadlock"} {
		holds, err := EvaluateAtom(atom, step)
		if err != nil {
			panic(err)
		}
		fmt.Printf("%s: %v\n", atom, holds)
	}

	// Output:
	// a == 0: true
	// a' == 1: true
	// p:a1: true
	// p:b1: false
	// deadlock: false
}
