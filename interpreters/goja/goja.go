package goja

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Comcast/soup/core"

	"github.com/dop251/goja"
)

var (
	// InterruptedMessage is the string value of Interrupted.
	InterruptedMessage = "RuntimeError: timeout"

	// Interrupted is returned by Exec if the execution is
	// interrupted.
	Interrupted = errors.New(InterruptedMessage)
)

// init adds an Interpreter as one of the DefaultInterpreters.
func init() {
	core.DefaultInterpreters["goja"] = NewInterpreter()
}

// Interpreter implements core.Interpreter using Goja, which is a Go
// implementation of ECMAScript 5.1+.
//
// An atom is a script whose completion value is a boolean.  The
// script can start with top-level require("file://NAME") statements,
// which are inlined at Compile time.
//
// See https://github.com/dop251/goja.
type Interpreter struct {
	// LibraryProvider resolves the names given to require().
	// When nil, DefaultLibraryProvider is used.
	LibraryProvider func(ctx context.Context, i *Interpreter, libraryName string) (string, error)
}

// NewInterpreter makes a new Interpreter.
func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

// ProvideLibrary resolves the library name into library source.
func (i *Interpreter) ProvideLibrary(ctx context.Context, name string) (string, error) {
	if i.LibraryProvider != nil {
		return i.LibraryProvider(ctx, i, name)
	}
	return DefaultLibraryProvider(ctx, i, name)
}

var DefaultLibraryProvider = MakeFileLibraryProvider(".")

// MakeFileLibraryProvider resolves names of the form "file://NAME"
// relative to dir.
func MakeFileLibraryProvider(dir string) func(context.Context, *Interpreter, string) (string, error) {
	return func(ctx context.Context, i *Interpreter, name string) (string, error) {
		parts := strings.SplitN(name, "://", 2)
		if 2 != len(parts) {
			return "", fmt.Errorf("bad link '%s'", name)
		}
		switch parts[0] {
		case "file":
			bs, err := os.ReadFile(filepath.Join(dir, filepath.Clean("/"+parts[1])))
			if err != nil {
				return "", err
			}
			return string(bs), nil
		default:
			return "", fmt.Errorf("unknown protocol '%s'", parts[0])
		}
	}
}

// MakeMapLibraryProvider resolves names from the given map.
func MakeMapLibraryProvider(srcs map[string]string) func(context.Context, *Interpreter, string) (string, error) {
	return func(ctx context.Context, i *Interpreter, name string) (string, error) {
		src, have := srcs[name]
		if !have {
			return "", fmt.Errorf("undefined library '%s'", name)
		}
		return src, nil
	}
}

// Compile inlines required libraries and calls goja.Compile.
//
// This method can block if the interpreter's LibraryProvider blocks.
func (i *Interpreter) Compile(ctx context.Context, code string) (interface{}, error) {
	src, err := InlineRequires(ctx, code, i.ProvideLibrary)
	if err != nil {
		return nil, err
	}

	obj, err := goja.Compile("", src, true)
	if err != nil {
		return nil, errors.New(err.Error() + ": " + code)
	}

	return obj, nil
}

// Exec implements the Interpreter method of the same name.
//
// The following properties are available from the runtime at _.
//
//	source:   the bindings of the step's source.
//	target:   the bindings of the step's target or null if undetermined.
//	action:   the name of the fired piece, "" if it was anonymous,
//	          or null for a stutter.
//	stutter:  whether no piece fired.
//	deadlock: whether the step is a stutter that loops on its source.
//	log(x):   write x as JSON to the log.
func (i *Interpreter) Exec(ctx context.Context, step *core.Step, code string, compiled interface{}) (bool, error) {
	if compiled == nil {
		var err error
		if compiled, err = i.Compile(ctx, code); err != nil {
			return false, err
		}
	}
	p, is := compiled.(*goja.Program)
	if !is {
		return false, fmt.Errorf("Goja bad compilation: %T %#v", compiled, compiled)
	}

	env := map[string]interface{}{
		"stutter":  step.IsStutter(),
		"deadlock": step.Deadlock(),
		"source":   nil,
		"target":   nil,
		"action":   nil,
	}
	if step.Source != nil {
		env["source"] = step.Source.Bs.Native()
	}
	if step.Target != nil {
		env["target"] = step.Target.Bs.Native()
	}
	if name, fired := step.ActionName(); fired {
		env["action"] = name
	}

	env["log"] = func(x interface{}) interface{} {
		switch vv := x.(type) {
		case goja.Value:
			x = vv.Export()
		}
		js, err := json.Marshal(&x)
		if err != nil {
			log.Println("goja.log (can't marshal: " + err.Error() + ")")
		} else {
			log.Println(string(js))
		}
		return x
	}

	o := goja.New()
	o.Set("_", env)

	// We want to make sure that the following goroutine is
	// terminated as soon as possible.
	ictx, cancel := context.WithCancel(ctx)
	go func() {
		<-ictx.Done()
		// If Exec calls cancel() after RunProgram returns, then
		// we'll never see this InterruptedMessage, which is the
		// behavior we want.
		o.Interrupt(InterruptedMessage)
	}()

	v, err := o.RunProgram(p)
	cancel()

	if err != nil {
		if _, is := err.(*goja.InterruptedError); is {
			return false, Interrupted
		}
		return false, err
	}

	x := v.Export()
	if b, is := x.(bool); is {
		return b, nil
	}
	if val, err := core.ValueOf(x); err == nil {
		return false, &core.TypeMismatch{Operator: "atom", Expected: "boolean", Value: val}
	}
	return false, fmt.Errorf("atom result %#v (%T) isn't a boolean", x, x)
}
