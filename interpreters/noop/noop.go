package noop

import (
	"context"
	"log"

	"github.com/Comcast/soup/core"
)

// Interpreter is a core.Interpreter whose atoms never hold.
type Interpreter struct {
	// Silent, if true, will suppress warning log messages.
	Silent bool
}

func (i *Interpreter) Compile(ctx context.Context, code string) (interface{}, error) {
	if !i.Silent {
		log.Printf("warning: Using Interpreter for compilation")
	}
	return nil, nil
}

func (i *Interpreter) Exec(ctx context.Context, step *core.Step, code string, compiled interface{}) (bool, error) {
	if !i.Silent {
		log.Printf("warning: Using Interpreter for execution")
	}
	return false, nil
}

func NewInterpreter() *Interpreter {
	return &Interpreter{}
}
