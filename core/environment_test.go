package core

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/Comcast/soup/syntax"
)

func TestEnvironmentDefineLookupUpdate(t *testing.T) {
	env := NewEnvironment(nil, nil)
	if err := env.Define("x", Int(1)); err != nil {
		t.Fatal(err)
	}
	v, err := env.Lookup("x")
	if err != nil {
		t.Fatal(err)
	}
	if !v.Equal(Int(1)) {
		t.Fatal(v)
	}

	var ad *AlreadyDefined
	if err = env.Define("x", Int(2)); !errors.As(err, &ad) || ad.Name != "x" {
		t.Fatalf("got %v", err)
	}

	var uv *UndefinedVariable
	if _, err = env.Lookup("y"); !errors.As(err, &uv) || uv.Name != "y" {
		t.Fatalf("got %v", err)
	}
	if err = env.Update("y", Int(3)); !errors.As(err, &uv) {
		t.Fatalf("got %v", err)
	}
	if _, have := env.Bs["y"]; have {
		t.Fatal("Update created a binding")
	}

	if err = env.Update("x", Bool(true)); err != nil {
		t.Fatal(err)
	}
	if v, _ = env.Lookup("x"); !v.Equal(Bool(true)) {
		t.Fatal(v)
	}
}

func TestEnvironmentCopyEqual(t *testing.T) {
	model := &syntax.Soup{}
	env := NewEnvironment(model, Bindings{"x": Int(1)})
	c := env.Copy()
	if c == env || !c.Equal(env) || c.Key() != env.Key() {
		t.Fatal("copy should be equal but distinct")
	}
	if err := c.Update("x", Int(2)); err != nil {
		t.Fatal(err)
	}
	if v, _ := env.Lookup("x"); !v.Equal(Int(1)) {
		t.Fatal("copy shares bindings with the original")
	}
	if c.Equal(env) || c.Key() == env.Key() {
		t.Fatal("copies with different bindings should differ")
	}

	// Structurally equal models are interchangeable.
	other := NewEnvironment(&syntax.Soup{}, Bindings{"x": Int(1)})
	if !other.Equal(env) {
		t.Fatal("want equal")
	}
	if NewEnvironment(&syntax.Soup{Pieces: []*syntax.Piece{{Guard: syntax.True, Effect: syntax.SkipStatement}}},
		Bindings{"x": Int(1)}).Equal(env) {
		t.Fatal("different models should differ")
	}

	// Tags matter.
	if NewEnvironment(model, Bindings{"x": Double(1)}).Equal(env) {
		t.Fatal("Int(1) and Double(1) should differ")
	}
	nan := NewEnvironment(model, Bindings{"x": Double(math.NaN())})
	if !nan.Equal(nan.Copy()) || nan.Key() != nan.Copy().Key() {
		t.Fatal("NaN configurations should deduplicate")
	}
}

func TestValueJSON(t *testing.T) {
	bs := Bindings{"a": Int(3), "b": Double(2), "c": Bool(true), "d": Double(math.Inf(1))}
	js, err := json.Marshal(bs)
	if err != nil {
		t.Fatal(err)
	}
	if string(js) != `{"a":3,"b":2.0,"c":true,"d":"Infinity"}` {
		t.Fatal(string(js))
	}
	var back Bindings
	if err = json.Unmarshal(js, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(bs) {
		t.Fatalf("got %v", back)
	}
}

func TestStepJSON(t *testing.T) {
	src := NewEnvironment(nil, Bindings{"x": Int(0)})
	p := &syntax.Piece{Name: "inc", Guard: syntax.True, Effect: syntax.SkipStatement}
	js, err := json.Marshal(&Step{Source: src, Action: p, Target: src})
	if err != nil {
		t.Fatal(err)
	}
	if string(js) != `{"source":{"x":0},"action":"inc","target":{"x":0},"stutter":false}` {
		t.Fatal(string(js))
	}
	js, _ = json.Marshal(StutterStep(src))
	if string(js) != `{"source":{"x":0},"action":null,"target":{"x":0},"stutter":true}` {
		t.Fatal(string(js))
	}
}
