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

// Package main is a command-line Soup debugger in the spirit of gdb.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/Comcast/soup/core"
	"github.com/Comcast/soup/interpreters"
	"github.com/Comcast/soup/syntax"
	"github.com/Comcast/soup/syntax/parse"
	"github.com/Comcast/soup/tools"
)

type Opts struct {
	model    string
	property string
	echo     bool
}

func main() {

	opts := &Opts{}
	flag.StringVar(&opts.model, "m", "", "model filename to load at startup")
	flag.StringVar(&opts.property, "p", "", "property filename to load at startup")
	flag.BoolVar(&opts.echo, "e", false, "echo input")
	flag.Parse()

	if err := opts.run(context.Background(), os.Stdin, os.Stdout); err != nil {
		panic(err)
	}
}

var (
	NoModel    = errors.New("no model loaded")
	NoHistory  = errors.New("no previous configuration")
	NoLastStep = errors.New("no step taken yet")
)

func (opts *Opts) run(ctx context.Context, in io.Reader, w io.Writer) error {

	h := NewHost()

	var (
		load = regexp.MustCompile("^load +(.*)")

		loadProperty = regexp.MustCompile("^property +(.*)")

		reload = regexp.MustCompile("^reload$")

		initialize = regexp.MustCompile("^init$")

		actions = regexp.MustCompile("^(actions|a)$")

		fire = regexp.MustCompile("^(fire|f) +(.*)")

		stutter = regexp.MustCompile("^stutter$")

		back = regexp.MustCompile("^(back|b)$")

		print = regexp.MustCompile("^(print|p)$")

		eval = regexp.MustCompile("^eval +(.*)")

		atom = regexp.MustCompile("^atom( +-i +([-a-zA-Z0-9_.]+))? +(.*)")

		set = regexp.MustCompile("^set +([a-zA-Z_][a-zA-Z0-9_]*) +(.*)")

		save = regexp.MustCompile("^save +(.*)")

		help = regexp.MustCompile("^(help|h|\\?)")

		outputPrefix = "# "

		say = func(format string, args ...interface{}) {
			fmt.Fprintf(w, outputPrefix+format+"\n", args...)
		}

		protest = func(format string, args ...interface{}) {
			say("error: "+format, args...)
		}

		sayState = func() {
			say("model:    %s", h.cfg)
			if h.prop != nil {
				say("property: %s", h.prop)
			}
		}
	)

	startup := make([]string, 0, 2)
	if opts.model != "" {
		startup = append(startup, "load "+opts.model)
	}
	if opts.property != "" {
		startup = append(startup, "property "+opts.property)
	}

	r := bufio.NewReader(in)
	for {
		var line string
		if 0 < len(startup) {
			line, startup = startup[0], startup[1:]
		} else {
			var err error
			line, err = r.ReadString('\n')
			if err == io.EOF && line == "" {
				return nil
			}
			if err != nil && err != io.EOF {
				return err
			}
		}
		line = strings.TrimSpace(line)

		if opts.echo {
			fmt.Fprintln(w, line)
		}

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var ss []string

		if ss = help.FindStringSubmatch(line); 0 < len(ss) {
			for _, s := range strings.Split(doc(), "\n") {
				say("%s", s)
			}
			continue
		}

		if ss = load.FindStringSubmatch(line); 0 < len(ss) {
			if err := h.Load(ss[1]); err != nil {
				protest("couldn't load %s: %s", ss[1], err)
				continue
			}
			say("loaded %s with %d pieces", h.model.Model().Name, len(h.model.Model().Soup.Pieces))
			sayState()
			continue
		}

		if ss = loadProperty.FindStringSubmatch(line); 0 < len(ss) {
			if err := h.LoadProperty(ss[1]); err != nil {
				protest("couldn't load property %s: %s", ss[1], err)
				continue
			}
			say("loaded property %s", h.property.Name)
			sayState()
			continue
		}

		if ss = reload.FindStringSubmatch(line); 0 < len(ss) {
			if err := h.Reload(); err != nil {
				protest("%s", err)
				continue
			}
			say("reloaded %s", h.filename)
			continue
		}

		if ss = initialize.FindStringSubmatch(line); 0 < len(ss) {
			if err := h.Init(); err != nil {
				protest("%s", err)
				continue
			}
			sayState()
			continue
		}

		if ss = actions.FindStringSubmatch(line); 0 < len(ss) {
			ps, err := h.Actions()
			if err != nil {
				protest("%s", err)
				continue
			}
			if len(ps) == 0 {
				say("deadlock")
				continue
			}
			for i, p := range ps {
				say("%d. %s", i, syntax.String(p))
			}
			continue
		}

		if ss = fire.FindStringSubmatch(line); 0 < len(ss) {
			if err := h.Fire(ss[2]); err != nil {
				protest("%s", err)
				continue
			}
			say("%s", h.steps[len(h.steps)-1].describe())
			sayState()
			continue
		}

		if ss = stutter.FindStringSubmatch(line); 0 < len(ss) {
			if err := h.Stutter(); err != nil {
				protest("%s", err)
				continue
			}
			say("%s", h.steps[len(h.steps)-1].describe())
			sayState()
			continue
		}

		if ss = back.FindStringSubmatch(line); 0 < len(ss) {
			if err := h.Back(); err != nil {
				protest("%s", err)
				continue
			}
			sayState()
			continue
		}

		if ss = print.FindStringSubmatch(line); 0 < len(ss) {
			if h.cfg == nil {
				protest("%s", NoModel)
				continue
			}
			sayState()
			say("depth:    %d", len(h.steps))
			continue
		}

		if ss = eval.FindStringSubmatch(line); 0 < len(ss) {
			v, err := h.Eval(ss[1])
			if err != nil {
				protest("%s", err)
				continue
			}
			say("%s", v)
			continue
		}

		if ss = atom.FindStringSubmatch(line); 0 < len(ss) {
			holds, err := h.Atom(ctx, ss[2], ss[3])
			if err != nil {
				protest("%s", err)
				continue
			}
			say("%v", holds)
			continue
		}

		if ss = set.FindStringSubmatch(line); 0 < len(ss) {
			if err := h.Set(ss[1], ss[2]); err != nil {
				protest("%s", err)
				continue
			}
			sayState()
			continue
		}

		if ss = save.FindStringSubmatch(line); 0 < len(ss) {
			js, err := json.MarshalIndent(h.Trace(), "", "  ")
			if err != nil {
				return err // Internal error
			}
			if err = os.WriteFile(ss[1], js, 0644); err != nil {
				protest("writing file: %s", err)
				continue
			}
			say("wrote %d steps to %s", len(h.steps), ss[1])
			continue
		}

		protest("unsupported command: %s", line)
	}
}

// frame is one debugger step: the model step and the property
// configuration after it.
type frame struct {
	Step           *core.Step
	PropertyAction *syntax.Piece
	Property       *core.Environment
	prev           *core.Environment
	prevProp       *core.Environment
}

func (f *frame) MarshalJSON() ([]byte, error) {
	x := struct {
		Step           *core.Step    `json:"step"`
		PropertyAction string        `json:"propertyAction,omitempty"`
		Property       core.Bindings `json:"property,omitempty"`
	}{
		Step: f.Step,
	}
	if f.PropertyAction != nil {
		x.PropertyAction = f.PropertyAction.Name
	}
	if f.Property != nil {
		x.Property = f.Property.Bs
	}
	return json.Marshal(&x)
}

func (f *frame) describe() string {
	name := "(stutter)"
	if f.Step.Action != nil {
		name = f.Step.Action.Name
		if name == "" {
			name = "(anonymous)"
		}
	}
	s := fmt.Sprintf("%s --%s--> %s", f.Step.Source, name, f.Step.Target)
	if f.PropertyAction != nil {
		s += " / " + f.PropertyAction.Name
	}
	return s
}

// Host holds the debugger's state.
type Host struct {
	interpreters map[string]core.Interpreter

	filename string
	model    *core.UpdatableModel
	property *core.Model

	cfg  *core.Environment
	prop *core.Environment

	steps []*frame
}

func NewHost() *Host {
	return &Host{
		interpreters: interpreters.Standard(),
	}
}

func readModel(filename string, input *core.Model) (*core.Model, error) {
	if strings.HasSuffix(filename, ".soup") {
		bs, err := tools.ReadFileWithInlines(filename)
		if err != nil {
			return nil, err
		}
		return core.CompileModel(filename, string(bs), input)
	}
	return tools.ReadModel(filename, input)
}

// Load reads a model and resets to its initial configuration.  Any
// property is dropped.
func (h *Host) Load(filename string) error {
	m, err := readModel(filename, nil)
	if err != nil {
		return err
	}
	h.filename = filename
	h.model = core.NewUpdatableModel(m)
	h.property = nil
	return h.Init()
}

// LoadProperty reads a property automaton for the current model and
// resets both to their initial configurations.
func (h *Host) LoadProperty(filename string) error {
	if h.model == nil {
		return NoModel
	}
	p, err := readModel(filename, h.model.Model())
	if err != nil {
		return err
	}
	h.property = p
	return h.Init()
}

// Reload rereads the model file.  The current configuration and
// history survive when the new model still declares the same
// variables.
func (h *Host) Reload() error {
	if h.model == nil {
		return NoModel
	}
	m, err := readModel(h.filename, nil)
	if err != nil {
		return err
	}
	for name := range h.cfg.Bs {
		if m.Soup.Variable(name) == nil {
			return fmt.Errorf("reloaded model doesn't declare '%s'", name)
		}
	}
	if err = h.model.SetModel(m); err != nil {
		return err
	}
	h.cfg.Model = m.Soup
	return nil
}

// Init resets the model (and property) to the initial configuration.
func (h *Host) Init() error {
	if h.model == nil {
		return NoModel
	}
	sem, err := h.model.Model().Semantics()
	if err != nil {
		return err
	}
	inits, err := sem.Initial()
	if err != nil {
		return err
	}
	h.cfg = inits[0]
	h.prop = nil
	h.steps = nil

	if h.property != nil {
		psem, err := h.property.DependentSemantics()
		if err != nil {
			return err
		}
		pinits, err := psem.Initial()
		if err != nil {
			return err
		}
		h.prop = pinits[0]
	}
	return nil
}

// Actions returns the enabled pieces.
func (h *Host) Actions() ([]*syntax.Piece, error) {
	if h.model == nil {
		return nil, NoModel
	}
	sem, err := h.model.Model().Semantics()
	if err != nil {
		return nil, err
	}
	return sem.Actions(h.cfg)
}

// Fire executes an enabled piece given by name or by its index in
// the Actions list.
func (h *Host) Fire(which string) error {
	acts, err := h.Actions()
	if err != nil {
		return err
	}

	var p *syntax.Piece
	if i, err := strconv.Atoi(which); err == nil {
		if i < 0 || len(acts) <= i {
			return fmt.Errorf("no action %d (%d enabled)", i, len(acts))
		}
		p = acts[i]
	} else {
		for _, a := range acts {
			if a.Name == which {
				p = a
				break
			}
		}
		if p == nil {
			return fmt.Errorf("'%s' isn't enabled", which)
		}
	}

	sem, err := h.model.Model().Semantics()
	if err != nil {
		return err
	}
	next, err := sem.Pure().Execute(p, h.cfg)
	if err != nil {
		return err
	}
	return h.advance(&core.Step{Source: h.cfg, Action: p, Target: next[0]})
}

// Stutter takes a step that fires nothing.  That's only possible in
// a deadlock.
func (h *Host) Stutter() error {
	acts, err := h.Actions()
	if err != nil {
		return err
	}
	if 0 < len(acts) {
		return fmt.Errorf("not deadlocked (%d enabled)", len(acts))
	}
	return h.advance(core.StutterStep(h.cfg))
}

// advance moves to the step's target after letting the property
// observe the step.  The first enabled property action fires.  If
// none is enabled, the step is refused.
func (h *Host) advance(step *core.Step) error {
	f := &frame{
		Step:     step,
		prev:     h.cfg,
		prevProp: h.prop,
	}
	if h.property != nil {
		psem, err := h.property.DependentSemantics()
		if err != nil {
			return err
		}
		psem = psem.Pure()
		pacts, err := psem.Actions(step, h.prop)
		if err != nil {
			return err
		}
		if len(pacts) == 0 {
			return fmt.Errorf("property blocks %s", step.Target)
		}
		next, err := psem.Execute(pacts[0], step, h.prop)
		if err != nil {
			return err
		}
		f.PropertyAction = pacts[0]
		f.Property = next[0]
		h.prop = next[0]
	}
	h.cfg = step.Target
	h.steps = append(h.steps, f)
	return nil
}

// Back undoes the last step.
func (h *Host) Back() error {
	if len(h.steps) == 0 {
		return NoHistory
	}
	f := h.steps[len(h.steps)-1]
	h.steps = h.steps[:len(h.steps)-1]
	h.cfg = f.prev
	h.prop = f.prevProp
	return nil
}

// Eval evaluates an expression in the current configuration, where
// "deadlock" means that no piece is enabled.
func (h *Host) Eval(src string) (core.Value, error) {
	if h.cfg == nil {
		return core.Value{}, NoModel
	}
	x, _, err := parse.ReadExpression(src)
	if err != nil {
		return core.Value{}, err
	}
	return core.Diagnosis.Evaluate(x, h.cfg)
}

// Atom evaluates an atom against the last step using the named
// interpreter (the default interpreter if empty).
func (h *Host) Atom(ctx context.Context, interpreter, src string) (bool, error) {
	if len(h.steps) == 0 {
		return false, NoLastStep
	}
	a, err := (&core.AtomSource{Interpreter: interpreter, Source: src}).Compile(ctx, h.interpreters)
	if err != nil {
		return false, err
	}
	return a.Holds(ctx, h.steps[len(h.steps)-1].Step)
}

// Set changes a model variable's value in the current configuration.
// The previous configuration isn't affected.
func (h *Host) Set(name, js string) error {
	if h.cfg == nil {
		return NoModel
	}
	var v core.Value
	if err := json.Unmarshal([]byte(js), &v); err != nil {
		return err
	}
	cfg := h.cfg.Copy()
	if err := cfg.Update(name, v); err != nil {
		return err
	}
	h.cfg = cfg
	return nil
}

// Trace returns the steps taken so far.
func (h *Host) Trace() []*frame {
	return h.steps
}

func doc() string {
	return `
  load FILENAME              Load a model (YAML or .soup)
  property FILENAME          Load a property automaton for the model
  reload                     Reload the model, keeping the configuration
  init                       Go to the initial configuration
  actions                    List the enabled pieces
  fire NAME|N                Fire the named (or Nth enabled) piece
  stutter                    Take a stutter step in a deadlock
  back                       Undo the last step
  print                      Print the current configuration
  eval EXPR                  Evaluate an expression
  atom [-i INTERP] SRC       Evaluate an atom on the last step
  set VAR JSON               Set a variable in the current configuration
  save FILENAME              Save the steps taken as JSON
  help                       Show this documentation
`
}
