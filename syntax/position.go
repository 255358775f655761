package syntax

import "fmt"

// Cursor is a location in source text.  Lines start at 1; columns
// start at 0.
type Cursor struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (c Cursor) String() string {
	return fmt.Sprintf("%d:%d", c.Line, c.Column)
}

// Position is a span of source text.
type Position struct {
	Start Cursor `json:"start"`
	Stop  Cursor `json:"stop"`
}

// ZeroPosition is the span of nodes that were not read from source.
var ZeroPosition = Position{}

// IsZero reports whether p is ZeroPosition.
func (p Position) IsZero() bool {
	return p == ZeroPosition
}

func (p Position) String() string {
	if p.IsZero() {
		return "?"
	}
	return p.Start.String() + "-" + p.Stop.String()
}

// Positions maps nodes to the spans they were read from.
//
// Keys are pointer nodes, so identity matters: two structurally equal
// references at different places in the source have different
// positions.  Value nodes (literals and Skip) are never recorded.
type Positions map[Node]Position

// Of returns the position of n or ZeroPosition.
func (ps Positions) Of(n Node) Position {
	if ps == nil || !hasIdentity(n) {
		return ZeroPosition
	}
	if p, have := ps[n]; have {
		return p
	}
	return ZeroPosition
}

// Set records the position of n when n has an identity.
func (ps Positions) Set(n Node, p Position) {
	if hasIdentity(n) {
		ps[n] = p
	}
}

func hasIdentity(n Node) bool {
	switch n.(type) {
	case BooleanLiteral, IntegerLiteral, DoubleLiteral, Skip, nil:
		return false
	}
	return true
}
