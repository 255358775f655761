// Package soup is a core.Interpreter for atoms written in the
// expression language of the models themselves.
package soup

import (
	"context"
	"fmt"

	"github.com/Comcast/soup/core"
	"github.com/Comcast/soup/syntax"
	"github.com/Comcast/soup/syntax/parse"
)

func init() {
	core.DefaultInterpreters[core.DefaultInterpreterName] = NewInterpreter()
}

// Interpreter evaluates step-dependent expressions such as
// "p:a1 && x' == 1" against a core.Step.
type Interpreter struct {
}

func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

// Compile parses the code as an expression.
func (i *Interpreter) Compile(ctx context.Context, code string) (interface{}, error) {
	x, _, err := parse.ReadExpression(code)
	if err != nil {
		return nil, err
	}
	return x, nil
}

// Exec evaluates the expression with core.HoldsOnStep.  The compiled
// argument, if not nil, should have come from Compile.
func (i *Interpreter) Exec(ctx context.Context, step *core.Step, code string, compiled interface{}) (bool, error) {
	if compiled == nil {
		var err error
		if compiled, err = i.Compile(ctx, code); err != nil {
			return false, err
		}
	}
	x, is := compiled.(syntax.Expression)
	if !is {
		return false, fmt.Errorf("soup bad compilation: %T %#v", compiled, compiled)
	}
	return core.HoldsOnStep(x, step)
}
