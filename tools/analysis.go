/* Copyright 2018 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package tools

import (
	"fmt"
	"sort"

	"github.com/Comcast/soup/link"
	"github.com/Comcast/soup/syntax"
)

// SoupAnalysis reports some facts about a Soup that might indicate
// problems.  Nothing here is fatal.
type SoupAnalysis struct {
	soup *syntax.Soup

	// Errors are link errors.
	Errors []string `json:"errors,omitempty"`

	Variables   int `json:"variables"`
	Pieces      int `json:"pieces"`
	NamedPieces int `json:"namedPieces"`

	DuplicateVariables []string `json:"duplicateVariables,omitempty"`
	DuplicatePieces    []string `json:"duplicatePieces,omitempty"`

	// UnusedVariables are never read by a guard, an effect, or
	// an initializer.
	UnusedVariables []string `json:"unusedVariables,omitempty"`

	// NeverAssigned variables keep their initial values.
	NeverAssigned []string `json:"neverAssigned,omitempty"`

	// ConstantGuards are pieces (by name or by "#index") whose
	// guards are literals.
	ConstantGuards []string `json:"constantGuards,omitempty"`

	// UnknownPieces are names in "p:name" that don't name a piece
	// of the observed model.
	UnknownPieces []string `json:"unknownPieces,omitempty"`

	// InputReferences counts "@" expressions.
	InputReferences int `json:"inputReferences"`
}

// Analyze examines s.  The optional input is the model that s
// observes if s is a property automaton.
func Analyze(s *syntax.Soup, input *syntax.Soup) (*SoupAnalysis, error) {
	a := SoupAnalysis{
		soup:      s,
		Variables: len(s.Variables),
		Pieces:    len(s.Pieces),
	}

	l := &link.Linker{Input: input}
	if err := l.Link(s); err != nil {
		a.Errors = append(a.Errors, err.Error())
	}

	declared := make(map[string]int, len(s.Variables))
	for _, v := range s.Variables {
		declared[v.Name]++
	}
	a.DuplicateVariables = counted(declared)

	named := make(map[string]int, len(s.Pieces))
	for i, p := range s.Pieces {
		if p.Named() {
			a.NamedPieces++
			named[p.Name]++
		}
		if isLiteral(p.Guard) {
			a.ConstantGuards = append(a.ConstantGuards, pieceLabel(i, p))
		}
	}
	a.DuplicatePieces = counted(named)

	var (
		read     = make(map[string]bool)
		assigned = make(map[string]bool)
		pieces   = make(map[string]bool)
	)
	var visit func(n syntax.Node) bool
	visit = func(n syntax.Node) bool {
		switch x := n.(type) {
		case *syntax.InputReference:
			a.InputReferences++
			syntax.Inspect(x.Operand, func(n syntax.Node) bool {
				if pr, is := n.(*syntax.NamedPieceReference); is {
					pieces[pr.Name] = true
				}
				return true
			})
			return false
		case *syntax.Assignment:
			assigned[x.Target.Name] = true
			syntax.Inspect(x.Expression, visit)
			return false
		case *syntax.Reference:
			read[x.Name] = true
		case *syntax.NamedPieceReference:
			pieces[x.Name] = true
		}
		return true
	}
	syntax.Inspect(s, visit)

	for name := range declared {
		if !read[name] {
			a.UnusedVariables = append(a.UnusedVariables, name)
		}
		if !assigned[name] {
			a.NeverAssigned = append(a.NeverAssigned, name)
		}
	}
	sort.Strings(a.UnusedVariables)
	sort.Strings(a.NeverAssigned)

	observed := input
	if observed == nil {
		observed = s
	}
	for name := range pieces {
		if observed.Piece(name) == nil {
			a.UnknownPieces = append(a.UnknownPieces, name)
		}
	}
	sort.Strings(a.UnknownPieces)

	return &a, nil
}

// Soup returns the analyzed Soup.
func (a *SoupAnalysis) Soup() *syntax.Soup {
	return a.soup
}

// Problems reports whether anything in the analysis deserves a look.
func (a *SoupAnalysis) Problems() bool {
	return 0 < len(a.Errors)+len(a.DuplicateVariables)+len(a.DuplicatePieces)+
		len(a.UnusedVariables)+len(a.ConstantGuards)+len(a.UnknownPieces)
}

func isLiteral(x syntax.Expression) bool {
	switch x.(type) {
	case syntax.BooleanLiteral, syntax.IntegerLiteral, syntax.DoubleLiteral:
		return true
	}
	return false
}

func pieceLabel(i int, p *syntax.Piece) string {
	if p.Named() {
		return p.Name
	}
	return fmt.Sprintf("#%d", i)
}

// counted returns the sorted keys with counts greater than one.
func counted(m map[string]int) []string {
	var acc []string
	for k, n := range m {
		if 1 < n {
			acc = append(acc, k)
		}
	}
	sort.Strings(acc)
	return acc
}
