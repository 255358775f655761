package parse

import (
	"errors"
	"testing"

	"github.com/Comcast/soup/syntax"
)

func ref(name string) *syntax.Reference {
	return &syntax.Reference{Name: name}
}

func TestReadExpression(t *testing.T) {
	tests := []struct {
		src  string
		want syntax.Expression
	}{
		{"true", syntax.True},
		{"42", syntax.IntegerLiteral(42)},
		{"42.5", syntax.DoubleLiteral(42.5)},
		{"x", ref("x")},
		{"x'", &syntax.PrimedReference{Name: "x"}},
		{"p:alice", &syntax.NamedPieceReference{Name: "alice"}},
		{"1 + 2 * 3", &syntax.Binary{Op: syntax.Add,
			Left:  syntax.IntegerLiteral(1),
			Right: &syntax.Binary{Op: syntax.Mul, Left: syntax.IntegerLiteral(2), Right: syntax.IntegerLiteral(3)}}},
		{"1 - 2 - 3", &syntax.Binary{Op: syntax.Sub,
			Left:  &syntax.Binary{Op: syntax.Sub, Left: syntax.IntegerLiteral(1), Right: syntax.IntegerLiteral(2)},
			Right: syntax.IntegerLiteral(3)}},
		{"a -> b -> c", &syntax.Binary{Op: syntax.Implies,
			Left:  ref("a"),
			Right: &syntax.Binary{Op: syntax.Implies, Left: ref("b"), Right: ref("c")}}},
		{"a || b && c", &syntax.Binary{Op: syntax.Or,
			Left:  ref("a"),
			Right: &syntax.Binary{Op: syntax.And, Left: ref("b"), Right: ref("c")}}},
		{"a xor b", &syntax.Binary{Op: syntax.Xor, Left: ref("a"), Right: ref("b")}},
		{"a <-> b", &syntax.Binary{Op: syntax.Equiv, Left: ref("a"), Right: ref("b")}},
		{"-(x)", &syntax.Unary{Op: syntax.Minus, Operand: &syntax.Unary{Op: syntax.Paren, Operand: ref("x")}}},
		{"!a == b", &syntax.Binary{Op: syntax.Eq,
			Left: &syntax.Unary{Op: syntax.Not, Operand: ref("a")}, Right: ref("b")}},
		{"c ? 1 : 2", &syntax.Conditional{Condition: ref("c"),
			Then: syntax.IntegerLiteral(1), Else: syntax.IntegerLiteral(2)}},
		{"@x' == 3", &syntax.Binary{Op: syntax.Eq,
			Left: &syntax.InputReference{Operand: &syntax.PrimedReference{Name: "x"}}, Right: syntax.IntegerLiteral(3)}},
		{"enabled a && b", &syntax.Enabled{Operand: &syntax.Binary{Op: syntax.And, Left: ref("a"), Right: ref("b")}}},
		{"a ∧ ¬b", &syntax.Binary{Op: syntax.And, Left: ref("a"), Right: &syntax.Unary{Op: syntax.Not, Operand: ref("b")}}},
		{"a → b ↔ c", &syntax.Binary{Op: syntax.Equiv,
			Left: &syntax.Binary{Op: syntax.Implies, Left: ref("a"), Right: ref("b")}, Right: ref("c")}},
		{"x // comment\n < 3", &syntax.Binary{Op: syntax.Lt, Left: ref("x"), Right: syntax.IntegerLiteral(3)}},
		{"p < 3", &syntax.Binary{Op: syntax.Lt, Left: ref("p"), Right: syntax.IntegerLiteral(3)}},
		{"b ? p : q", &syntax.Conditional{Condition: ref("b"), Then: ref("p"), Else: ref("q")}},
		{"b ? p:q : r", &syntax.Conditional{Condition: ref("b"),
			Then: &syntax.NamedPieceReference{Name: "q"}, Else: ref("r")}},
	}
	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			got, _, err := ReadExpression(tc.src)
			if err != nil {
				t.Fatal(err)
			}
			if !syntax.Equal(got, tc.want) {
				t.Fatalf("got %s, want %s", syntax.String(got), syntax.String(tc.want))
			}
		})
	}
}

func TestReadStatement(t *testing.T) {
	x23 := &syntax.Assignment{Target: ref("x"), Expression: syntax.IntegerLiteral(23)}
	y42 := &syntax.Assignment{Target: ref("y"), Expression: syntax.IntegerLiteral(42)}

	tests := []struct {
		src  string
		want syntax.Statement
	}{
		{"skip", syntax.SkipStatement},
		{"x = 23", x23},
		{"if true then x = 23 else y = 42", &syntax.If{Condition: syntax.True, Then: x23, Else: y42}},
		{"if false then x = 23", &syntax.If{Condition: syntax.False, Then: x23, Else: syntax.SkipStatement}},
		{"x = 23; y = 42; skip", &syntax.Sequence{Left: x23,
			Right: &syntax.Sequence{Left: y42, Right: syntax.SkipStatement}}},
		{"if true then (x = 23; y = 42)", &syntax.If{Condition: syntax.True,
			Then: &syntax.Sequence{Left: x23, Right: y42}, Else: syntax.SkipStatement}},
		{"if a then if b then x = 23 else y = 42", &syntax.If{Condition: ref("a"),
			Then: &syntax.If{Condition: ref("b"), Then: x23, Else: y42}, Else: syntax.SkipStatement}},
	}
	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			got, _, err := ReadStatement(tc.src)
			if err != nil {
				t.Fatal(err)
			}
			if !syntax.Equal(got, tc.want) {
				t.Fatalf("got %s, want %s", syntax.String(got), syntax.String(tc.want))
			}
		})
	}
}

func TestReadPieceDefaults(t *testing.T) {
	p, _, err := ReadPiece("/ x = 1")
	if err != nil {
		t.Fatal(err)
	}
	if p.Named() || p.Guard != syntax.True {
		t.Fatalf("got %s", syntax.String(p))
	}

	p, _, err = ReadPiece("n: [x < 3]")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "n" || p.Effect != syntax.SkipStatement {
		t.Fatalf("got %s", syntax.String(p))
	}
}

func TestReadSoup(t *testing.T) {
	src := `
var x = 23; y = x < 25;
| p1: [x < 25] / x = 42
| p2: [true] / x = 42
| [y] / y = false`
	s, ps, err := ReadSoup(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Variables) != 2 || len(s.Pieces) != 3 {
		t.Fatalf("got %s", syntax.String(s))
	}
	if s.Pieces[0].Name != "p1" || s.Pieces[1].Name != "p2" || s.Pieces[2].Named() {
		t.Fatalf("got %s", syntax.String(s))
	}
	if at := ps.Of(s.Pieces[0]); at.Start.Line != 3 {
		t.Fatalf("p1 at %v", at)
	}

	s, _, err = ReadSoup("var x = 0;\n| piece: [x == 0 ∧ @x'==3 ] / x = @x' + 1")
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Pieces) != 1 || s.Pieces[0].Name != "piece" {
		t.Fatalf("got %s", syntax.String(s))
	}

	if s, _, err = ReadSoup(""); err != nil || len(s.Pieces) != 0 {
		t.Fatal(err)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, src := range []string{
		"(a + b) * -c % 3",
		"a -> (b -> c) <-> !d",
		"x < 2.5 ? @(a' == 2 && b' == 2) : p:a1 xor deadlock",
		"enabled (x == 1)",
		"- -1",
	} {
		t.Run(src, func(t *testing.T) {
			x, _, err := ReadExpression(src)
			if err != nil {
				t.Fatal(err)
			}
			printed := syntax.String(x)
			y, _, err := ReadExpression(printed)
			if err != nil {
				t.Fatalf("%q: %s", printed, err)
			}
			if !syntax.Equal(x, y) {
				t.Fatalf("%q reads back as %q", printed, syntax.String(y))
			}
		})
	}

	src := "var a = 0; fa = false\n| a1: [a == 0] / fa = true; a = 1\n| [a == 1 && !fb] / if x then (a = 2; skip) else a = 3\n"
	s, _, err := ReadSoup(src)
	if err != nil {
		t.Fatal(err)
	}
	again, _, err := ReadSoup(syntax.String(s))
	if err != nil {
		t.Fatal(err)
	}
	if !syntax.Equal(s, again) {
		t.Fatalf("got %s", syntax.String(again))
	}
}

func TestParseFailure(t *testing.T) {
	for _, src := range []string{
		"",
		"1 +",
		"(1",
		"1 2",
		"x = ",
		"99999999999999999999",
		"a # b",
		"[x] / ",
		"b ? p:q",
	} {
		t.Run(src, func(t *testing.T) {
			_, _, err := ReadExpression(src)
			var pf *ParseFailure
			if !errors.As(err, &pf) {
				t.Fatalf("want ParseFailure, got %v", err)
			}
		})
	}

	if _, _, err := ReadStatement("x = 1;"); err == nil {
		t.Fatal("want error for dangling ;")
	}
	if _, _, err := ReadSoup("var x = 1 | [x] / x = 2 extra"); err == nil {
		t.Fatal("want error for trailing input")
	}
}
