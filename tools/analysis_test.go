package tools

import (
	"testing"

	"github.com/Comcast/soup/core"
	"github.com/Comcast/soup/syntax/parse"
)

func TestAnalysis(t *testing.T) {
	model, err := core.AliceBob1()
	if err != nil {
		t.Fatal(err)
	}

	a, err := Analyze(model.Soup, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.Problems() {
		t.Fatalf("%#v", a)
	}
	if a.Variables != 4 || a.Pieces != 6 || a.NamedPieces != 6 {
		t.Fatalf("%#v", a)
	}

	s := parse.MustSoup(`var x = 0; c = 1; u = 2; x = 3
| p: [true] / x = c
| p: [x < 1] / x = @y
| [false] / skip
| q: [p:r] / skip`)
	a, err = Analyze(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	// "@y" isn't linked without an input model, but "p:r" is.
	if len(a.Errors) != 1 {
		t.Fatal(a.Errors)
	}
	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"duplicateVariables", a.DuplicateVariables, []string{"x"}},
		{"duplicatePieces", a.DuplicatePieces, []string{"p"}},
		{"unused", a.UnusedVariables, []string{"u"}},
		{"neverAssigned", a.NeverAssigned, []string{"c", "u"}},
		{"constantGuards", a.ConstantGuards, []string{"p", "#2"}},
		{"unknownPieces", a.UnknownPieces, []string{"r"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if len(tc.got) != len(tc.want) {
				t.Fatalf("got %v", tc.got)
			}
			for i := range tc.got {
				if tc.got[i] != tc.want[i] {
					t.Fatalf("got %v", tc.got)
				}
			}
		})
	}
	if a.InputReferences != 1 || !a.Problems() {
		t.Fatalf("%#v", a)
	}
}

func TestAnalysisProperty(t *testing.T) {
	model, err := core.AliceBob0()
	if err != nil {
		t.Fatal(err)
	}
	prop := parse.MustSoup(`var seen = false | [@(p:a1 || p:z9)] / seen = true | [@c] / skip`)
	a, err := Analyze(prop, model.Soup)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Errors) != 1 {
		t.Fatalf("want a link error for z9, got %v", a.Errors)
	}
	if len(a.UnknownPieces) != 1 || a.UnknownPieces[0] != "z9" {
		t.Fatal(a.UnknownPieces)
	}
}
