package tools

import (
	"strings"
	"testing"
)

func TestMermaid(t *testing.T) {
	g := exploredGraph(t)

	out := &buffer{}
	if err := Mermaid(g, out, nil); err != nil {
		t.Fatal(err)
	}
	s := out.String()
	for _, want := range []string{
		"graph TB",
		`n0(["0 {'a':0,'b':0,'fa':false,'fb':false} / {'status':true}"])`,
		`-- "a1 / live" -->`,
		"style n",
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %q in\n%s", want, s)
		}
	}

	out = &buffer{}
	if err := Mermaid(g, out, &MermaidOpts{AcceptingClass: "bad"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "class n") || strings.Contains(out.String(), "'a'") {
		t.Fatal(out.String())
	}
}
