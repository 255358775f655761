// Package interpreters collects the standard atom interpreters.
package interpreters

import (
	"github.com/Comcast/soup/core"
	"github.com/Comcast/soup/interpreters/goja"
	"github.com/Comcast/soup/interpreters/noop"
	"github.com/Comcast/soup/interpreters/soup"
)

// Standard returns a fresh map of the interpreters known by name.
func Standard() map[string]core.Interpreter {
	is := make(map[string]core.Interpreter)

	is[core.DefaultInterpreterName] = soup.NewInterpreter()

	js := goja.NewInterpreter()
	is["goja"] = js
	is["ecmascript"] = js
	is["ecmascript-5.1"] = js

	is["noop"] = noop.NewInterpreter()

	return is
}
