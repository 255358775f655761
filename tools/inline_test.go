package tools

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInline(t *testing.T) {
	input := `
I like %inline("tacos"), and
I also like %inline("queso").
Both are delicious.
`
	want := `
I like TACOS, and
I also like QUESO.
Both are delicious.
`

	find := func(name string) ([]byte, error) {
		return []byte(strings.ToUpper(name)), nil
	}

	got, err := Inline([]byte(input), find)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != want {
		t.Fatalf("got %s", got)
	}
}

func TestReadModelWithInlines(t *testing.T) {
	dir, err := os.MkdirTemp("", "soup-inline")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	if err = os.WriteFile(filepath.Join(dir, "counter.soup"), []byte("var x = 0 | inc: [x < 2] / x = x + 1"), 0644); err != nil {
		t.Fatal(err)
	}
	filename := filepath.Join(dir, "counter.yaml")
	if err = os.WriteFile(filename, []byte(`name: counter
source: '%inline("counter.soup")'
`), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := ReadModel(filename, nil)
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "counter" || m.Soup.Piece("inc") == nil {
		t.Fatalf("%#v", m)
	}
}
