package parse

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Comcast/soup/syntax"
)

type kind int

const (
	tEOF kind = iota
	tIdent
	tInt
	tDecimal
	tPieceRef // "p:" immediately followed by an identifier
	tPrime
	tSymbol // operators and punctuation; see token.text
	tKeyword
)

type token struct {
	kind  kind
	text  string
	start syntax.Cursor
	stop  syntax.Cursor
}

var keywords = map[string]bool{
	"var":     true,
	"skip":    true,
	"if":      true,
	"then":    true,
	"else":    true,
	"true":    true,
	"false":   true,
	"enabled": true,
	"xor":     true,
}

// Longest first.
var symbols = []string{
	"<->", "->", "&&", "||", "==", "!=", "<=", ">=",
	"!", "-", "+", "*", "/", "%", "<", ">", "@",
	"(", ")", "[", "]", "?", ":", ";", "|", "=",
}

var aliases = map[rune]string{
	'∧': "&&",
	'∨': "||",
	'¬': "!",
	'⊕': "xor",
	'→': "->",
	'↔': "<->",
}

type lexer struct {
	src    string
	offset int
	line   int
	column int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1}
}

func (l *lexer) cursor() syntax.Cursor {
	return syntax.Cursor{Line: l.line, Column: l.column}
}

func (l *lexer) peekRune() (rune, int) {
	if l.offset >= len(l.src) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(l.src[l.offset:])
}

func (l *lexer) advance(n int) {
	for i := 0; i < n; {
		r, w := utf8.DecodeRuneInString(l.src[l.offset:])
		l.offset += w
		i += w
		if r == '\n' {
			l.line++
			l.column = 0
		} else {
			l.column++
		}
	}
}

func (l *lexer) skipSpace() {
	for l.offset < len(l.src) {
		r, w := l.peekRune()
		if unicode.IsSpace(r) {
			l.advance(w)
			continue
		}
		if strings.HasPrefix(l.src[l.offset:], "//") {
			for l.offset < len(l.src) && l.src[l.offset] != '\n' {
				l.advance(1)
			}
			continue
		}
		return
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

// tokens lexes all of src.  The final token is always tEOF.
func (l *lexer) tokens() ([]token, error) {
	var acc []token
	for {
		l.skipSpace()
		start := l.cursor()
		if l.offset >= len(l.src) {
			return append(acc, token{kind: tEOF, start: start, stop: start}), nil
		}
		t, err := l.next()
		if err != nil {
			return nil, err
		}
		t.start = start
		t.stop = l.cursor()
		acc = append(acc, t)
	}
}

func (l *lexer) next() (token, error) {
	rest := l.src[l.offset:]
	r, w := l.peekRune()

	switch {
	case r == 'p' && len(rest) > 2 && rest[1] == ':':
		// "p:" directly followed by a name is always a piece
		// reference, even after "?".  Write "b ? p : q" for a
		// conditional on a variable named p.
		if r2, _ := utf8.DecodeRuneInString(rest[2:]); isIdentStart(r2) {
			l.advance(2)
			name := l.ident()
			return token{kind: tPieceRef, text: name}, nil
		}
	case isIdentStart(r):
		name := l.ident()
		if keywords[name] {
			return token{kind: tKeyword, text: name}, nil
		}
		return token{kind: tIdent, text: name}, nil
	case isDigit(rest[0]):
		return l.number(), nil
	case r == '\'':
		l.advance(w)
		return token{kind: tPrime, text: "'"}, nil
	}

	if r == 'p' {
		name := l.ident()
		return token{kind: tIdent, text: name}, nil
	}

	if alias, have := aliases[r]; have {
		l.advance(w)
		if alias == "xor" {
			return token{kind: tKeyword, text: alias}, nil
		}
		return token{kind: tSymbol, text: alias}, nil
	}

	for _, s := range symbols {
		if strings.HasPrefix(rest, s) {
			l.advance(len(s))
			return token{kind: tSymbol, text: s}, nil
		}
	}

	at := l.cursor()
	return token{}, &ParseFailure{
		Position: syntax.Position{Start: at, Stop: at},
		Message:  "unexpected character " + strconv.QuoteRune(r),
	}
}

func (l *lexer) ident() string {
	start := l.offset
	for l.offset < len(l.src) {
		r, w := l.peekRune()
		if !isIdentPart(r) {
			break
		}
		l.advance(w)
	}
	return l.src[start:l.offset]
}

// number lexes digits with an optional fraction.  A fraction is only
// taken when a digit follows the dot.
func (l *lexer) number() token {
	start := l.offset
	for l.offset < len(l.src) && isDigit(l.src[l.offset]) {
		l.advance(1)
	}
	k := tInt
	if l.offset+1 < len(l.src) && l.src[l.offset] == '.' && isDigit(l.src[l.offset+1]) {
		k = tDecimal
		l.advance(1)
		for l.offset < len(l.src) && isDigit(l.src[l.offset]) {
			l.advance(1)
		}
	}
	return token{kind: k, text: l.src[start:l.offset]}
}
