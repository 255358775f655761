package goja

import (
	"context"
	"fmt"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/parser"
)

// required is a top-level require("NAME") statement found in an
// atom's source.  from and to are byte offsets into that source.
type required struct {
	from, to int
	name     string
}

// findRequires returns the top-level require() statements in src in
// order of appearance.
func findRequires(src string) ([]required, error) {
	p, err := parser.ParseFile(nil, "", src, 0)
	if err != nil {
		return nil, err
	}

	var acc []required
	for _, s := range p.Body {
		exps, is := s.(*ast.ExpressionStatement)
		if !is {
			continue
		}
		call, is := exps.Expression.(*ast.CallExpression)
		if !is {
			continue
		}
		id, is := call.Callee.(*ast.Identifier)
		if !is || id.Name != "require" {
			continue
		}
		if len(call.ArgumentList) != 1 {
			return nil, fmt.Errorf("bad require args: %#v", call.ArgumentList)
		}
		lit, is := call.ArgumentList[0].(*ast.StringLiteral)
		if !is {
			return nil, fmt.Errorf("bad require arg: %#v", call.ArgumentList[0])
		}
		// File indexes are 1-based.
		acc = append(acc, required{
			from: int(exps.Idx0()) - 1,
			to:   int(exps.Idx1()) - 1,
			name: lit.Value.String(),
		})
	}
	return acc, nil
}

// InlineRequires replaces each top-level require("NAME") statement
// in src with the library source that provider returns for NAME.
//
// The substitution happens before compilation, so an atom that
// requires a library can still be compiled once and executed many
// times.
func InlineRequires(ctx context.Context, src string, provider func(context.Context, string) (string, error)) (string, error) {
	reqs, err := findRequires(src)
	if err != nil {
		return "", err
	}
	if len(reqs) == 0 {
		return src, nil
	}

	var (
		inlined string
		at      int
	)
	for _, r := range reqs {
		lib, err := provider(ctx, r.name)
		if err != nil {
			return "", err
		}
		inlined += src[at:r.from] + lib + "\n"
		at = r.to
	}
	inlined += src[at:]

	return inlined, nil
}
