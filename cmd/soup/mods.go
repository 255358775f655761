package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Comcast/soup/core"
	"github.com/Comcast/soup/explore"
	"github.com/Comcast/soup/interpreters"
	"github.com/Comcast/soup/syntax"
	"github.com/Comcast/soup/syntax/parse"
	"github.com/Comcast/soup/tools"
	"github.com/Comcast/soup/util"

	"github.com/jsccast/yaml"
)

var Mods = map[string]Mod{
	"parse":   &Parser{},
	"analyze": &Analyzer{},
	"eval":    &Evaler{},
	"check":   &Checker{},
	"graph":   &Grapher{},
	"html":    &HTMLer{},
	"expect":  &Expecter{},
}

var NoExpression = errors.New("no expression")

// Mod is a subcommand.  F reads a model from in when the subcommand
// wasn't given a model filename.
type Mod interface {
	F(in io.Reader, out io.Writer) error
	Doc() string
	Flags() *flag.FlagSet
}

// readModel reads a YAML model file, a ".soup" file, or (when
// filename is empty) Soup source from in.
func readModel(filename string, in io.Reader, input *core.Model) (*core.Model, error) {
	switch {
	case filename == "":
		bs, err := tools.ReadAllWithInlines(in, ".")
		if err != nil {
			return nil, err
		}
		return core.CompileModel("stdin", string(bs), input)
	case strings.HasSuffix(filename, ".soup"):
		bs, err := tools.ReadFileWithInlines(filename)
		if err != nil {
			return nil, err
		}
		return core.CompileModel(filename, string(bs), input)
	default:
		return tools.ReadModel(filename, input)
	}
}

type stringsFlag []string

func (s *stringsFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *stringsFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type Parser struct {
	ModelFilename string
	JSON          bool
}

func (m *Parser) Doc() string {
	return "Parse a model and print it canonically."
}

func (m *Parser) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	fs.StringVar(&m.ModelFilename, "m", "", "model filename (default stdin)")
	fs.BoolVar(&m.JSON, "j", false, "write JSON")
	return fs
}

func (m *Parser) F(in io.Reader, out io.Writer) error {
	model, err := readModel(m.ModelFilename, in, nil)
	if err != nil {
		return err
	}
	canonical := syntax.String(model.Soup)
	if !m.JSON {
		_, err = fmt.Fprintln(out, canonical)
		return err
	}

	x := struct {
		Name      string   `json:"name"`
		Variables []string `json:"variables"`
		Pieces    []string `json:"pieces"`
		Source    string   `json:"source"`
	}{
		Name:   model.Name,
		Source: canonical,
	}
	for _, v := range model.Soup.Variables {
		x.Variables = append(x.Variables, v.Name)
	}
	for _, p := range model.Soup.Pieces {
		x.Pieces = append(x.Pieces, p.Name)
	}
	return json.NewEncoder(out).Encode(&x)
}

type Analyzer struct {
	ModelFilename    string
	PropertyFilename string
}

func (m *Analyzer) Doc() string {
	return "Report possible problems with a model or a property."
}

func (m *Analyzer) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.StringVar(&m.ModelFilename, "m", "", "model filename (default stdin)")
	fs.StringVar(&m.PropertyFilename, "p", "", "property filename to analyze against the model")
	return fs
}

func (m *Analyzer) F(in io.Reader, out io.Writer) error {
	src := m.ModelFilename
	var input *syntax.Soup
	if m.PropertyFilename != "" {
		model, err := readModel(m.ModelFilename, in, nil)
		if err != nil {
			return err
		}
		input = model.Soup
		src = m.PropertyFilename
	}

	var (
		s   *syntax.Soup
		err error
	)
	if src == "" {
		bs, err := io.ReadAll(in)
		if err != nil {
			return err
		}
		s, _, err = parse.ReadSoup(string(bs))
		if err != nil {
			return err
		}
	} else {
		bs, err := tools.ReadFileWithInlines(src)
		if err != nil {
			return err
		}
		if !strings.HasSuffix(src, ".soup") {
			var model core.Model
			if err = yaml.Unmarshal(bs, &model); err != nil {
				return err
			}
			bs = []byte(model.Source)
		}
		if s, _, err = parse.ReadSoup(string(bs)); err != nil {
			return err
		}
	}

	a, err := tools.Analyze(s, input)
	if err != nil {
		return err
	}
	bs, err := yaml.Marshal(&a)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s", bs)
	return err
}

type Evaler struct {
	Expression string
	BindingsJS string
}

func (m *Evaler) Doc() string {
	return "Evaluate an expression with the given bindings."
}

func (m *Evaler) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	fs.StringVar(&m.Expression, "e", "", "expression")
	fs.StringVar(&m.BindingsJS, "b", "{}", "bindings as JSON")
	return fs
}

func (m *Evaler) F(in io.Reader, out io.Writer) error {
	if m.Expression == "" {
		return NoExpression
	}
	var bs core.Bindings
	if err := json.Unmarshal([]byte(m.BindingsJS), &bs); err != nil {
		return err
	}
	x, _, err := parse.ReadExpression(m.Expression)
	if err != nil {
		return err
	}
	v, err := core.Base.Evaluate(x, core.NewEnvironment(nil, bs))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, v)
	return err
}

// checkFlags describe a check either with a check file or with
// individual flags.
type checkFlags struct {
	CheckFilename    string
	ModelFilename    string
	PropertyFilename string
	Accept           string
	Invariants       stringsFlag
	Depth            int
	MaxStates        int
	Strategy         string
	Bolt             string
	Timeout          time.Duration
	Verbose          bool
}

func (c *checkFlags) add(fs *flag.FlagSet) {
	fs.StringVar(&c.CheckFilename, "c", "", "check filename (YAML)")
	fs.StringVar(&c.ModelFilename, "m", "", "model filename")
	fs.StringVar(&c.PropertyFilename, "p", "", "property filename")
	fs.StringVar(&c.Accept, "a", "", "accepting proposition")
	fs.Var(&c.Invariants, "i", "step invariant (repeatable)")
	fs.IntVar(&c.Depth, "d", 0, "maximum depth (0 for unlimited)")
	fs.IntVar(&c.MaxStates, "n", 0, "maximum number of states (0 for unlimited)")
	fs.StringVar(&c.Strategy, "s", "bfs", "bfs or dfs")
	fs.StringVar(&c.Bolt, "bolt", "", "BoltDB file for visited states")
	fs.DurationVar(&c.Timeout, "t", time.Minute, "timeout")
	fs.BoolVar(&c.Verbose, "v", false, "log progress")
}

func (c *checkFlags) check() (*tools.Check, error) {
	if c.CheckFilename != "" {
		return tools.ReadCheck(c.CheckFilename)
	}
	chk := &tools.Check{
		Name:      "check",
		Model:     c.ModelFilename,
		Property:  c.PropertyFilename,
		Accept:    c.Accept,
		Limit:     c.Depth,
		MaxStates: c.MaxStates,
		Strategy:  c.Strategy,
		Bolt:      c.Bolt,
	}
	for i, src := range c.Invariants {
		chk.Invariants = append(chk.Invariants, &explore.InvariantSource{
			Name:       fmt.Sprintf("i%d", i),
			AtomSource: core.AtomSource{Source: src},
		})
	}
	return chk, nil
}

func (c *checkFlags) run() (*explore.Report, error) {
	chk, err := c.check()
	if err != nil {
		return nil, err
	}
	util.Logging = c.Verbose

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	return chk.Run(ctx, interpreters.Standard())
}

type Checker struct {
	checkFlags
	JSON bool
}

func (m *Checker) Doc() string {
	return "Search for a violation."
}

func (m *Checker) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	m.checkFlags.add(fs)
	fs.BoolVar(&m.JSON, "j", false, "write the report as JSON")
	return fs
}

func (m *Checker) F(in io.Reader, out io.Writer) error {
	r, err := m.run()
	if err != nil {
		return err
	}
	if m.JSON {
		return json.NewEncoder(out).Encode(r)
	}
	fmt.Fprintf(out, "%s: %d states, %d transitions, depth %d\n", r.Verdict(), r.States, r.Transitions, r.Depth)
	for i, s := range r.Counterexample {
		fmt.Fprintf(out, "%02d %s\n", i, s)
	}
	return nil
}

type Grapher struct {
	checkFlags
	Format         string
	OutputFilename string
}

func (m *Grapher) Doc() string {
	return "Explore and render the state graph."
}

func (m *Grapher) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("graph", flag.ContinueOnError)
	m.checkFlags.add(fs)
	fs.StringVar(&m.Format, "f", "dot", "dot or mermaid")
	fs.StringVar(&m.OutputFilename, "o", "soup.dot", "output filename")
	return fs
}

func (m *Grapher) F(in io.Reader, out io.Writer) error {
	r, err := m.run()
	if err != nil {
		return err
	}

	f, err := os.Create(m.OutputFilename)
	if err != nil {
		return err
	}

	// Both will Close f.
	switch m.Format {
	case "dot":
		return tools.Dot(r.Graph, f, -1, -1)
	case "mermaid":
		return tools.Mermaid(r.Graph, f, nil)
	default:
		f.Close()
		return fmt.Errorf("unknown format '%s'", m.Format)
	}
}

type HTMLer struct {
	checkFlags
	CSS string
}

func (m *HTMLer) Doc() string {
	return "Render a model (and optionally a check report) as HTML."
}

func (m *HTMLer) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("html", flag.ContinueOnError)
	m.checkFlags.add(fs)
	fs.StringVar(&m.CSS, "css", "", "comma-separated CSS files")
	return fs
}

func (m *HTMLer) F(in io.Reader, out io.Writer) error {
	var css []string
	if m.CSS != "" {
		css = strings.Split(m.CSS, ",")
	}

	if m.CheckFilename == "" && m.Accept == "" && len(m.Invariants) == 0 {
		model, err := readModel(m.ModelFilename, in, nil)
		if err != nil {
			return err
		}
		return tools.RenderModelPage(model, nil, out, css)
	}

	chk, err := m.check()
	if err != nil {
		return err
	}
	model, _, err := chk.Models()
	if err != nil {
		return err
	}
	r, err := m.run()
	if err != nil {
		return err
	}
	return tools.RenderModelPage(model, r, out, css)
}

type Expecter struct {
	ModelFilename   string
	SessionFilename string
	Verbose         bool
}

func (m *Expecter) Doc() string {
	return "Run a YAML session of expected firings against a model."
}

func (m *Expecter) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("expect", flag.ContinueOnError)
	fs.StringVar(&m.ModelFilename, "m", "", "model filename (default stdin)")
	fs.StringVar(&m.SessionFilename, "s", "session.yaml", "session filename")
	fs.BoolVar(&m.Verbose, "v", false, "verbose")
	return fs
}

func (m *Expecter) F(in io.Reader, out io.Writer) error {
	model, err := readModel(m.ModelFilename, in, nil)
	if err != nil {
		return err
	}
	bs, err := tools.ReadFileWithInlines(m.SessionFilename)
	if err != nil {
		return err
	}
	var s tools.Session
	if err = yaml.Unmarshal(bs, &s); err != nil {
		return err
	}
	s.Interpreters = interpreters.Standard()
	s.Verbose = s.Verbose || m.Verbose
	util.Logging = s.Verbose

	cfg, err := s.Run(context.Background(), model)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "ok %d steps, final %s\n", len(s.Steps), cfg)
	return err
}
