package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/Comcast/soup/core"
	"github.com/Comcast/soup/explore"
	"github.com/Comcast/soup/syntax"
	"github.com/Comcast/soup/tools"
)

var (
	NotFound = errors.New("not found")
	Busy     = errors.New("check already running")
)

// Publisher sends verdicts somewhere else.
type Publisher interface {
	Publish(ctx context.Context, r *Result) error
}

// Result is the outcome of one run of a check.
type Result struct {
	Check   string          `json:"check"`
	Verdict string          `json:"verdict"`
	Holds   bool            `json:"holds"`
	At      time.Time       `json:"at"`
	Elapsed string          `json:"elapsed"`
	Report  *explore.Report `json:"report,omitempty"`
	Err     string          `json:"err,omitempty"`
}

// Summary describes a check and its latest result.
type Summary struct {
	Name     string    `json:"name"`
	Doc      string    `json:"doc,omitempty"`
	Schedule string    `json:"schedule,omitempty"`
	Next     time.Time `json:"next,omitempty"`
	Last     *Result   `json:"last,omitempty"`
}

type entry struct {
	check    *tools.Check
	model    *core.UpdatableModel
	property *core.UpdatableModel
	next     time.Time
	last     *Result
	running  bool
}

// propertyModel returns the property or nil.
func (e *entry) propertyModel() *core.Model {
	if e.property == nil {
		return nil
	}
	return e.property.Model()
}

// Service runs checks read from a directory.
type Service struct {
	sync.Mutex

	Interpreters map[string]core.Interpreter

	// Dir holds the checks (files ending in tools.CheckSuffix).
	Dir string

	// Timeout bounds a single run.  Zero means no limit.
	Timeout time.Duration

	// Publisher, if not nil, gets every Result.
	Publisher Publisher

	checks   map[string]*entry
	firehose chan interface{}
}

// NewService makes a Service for the checks in dir.  Call Load to
// read them.
func NewService(dir string, interpreters map[string]core.Interpreter) *Service {
	return &Service{
		Interpreters: interpreters,
		Dir:          dir,
		Timeout:      time.Minute,
		checks:       make(map[string]*entry),
	}
}

// Load (re)reads the checks in the Service's directory and compiles
// their models.  Checks that were already loaded keep their
// UpdatableModels, which get the new versions.
func (s *Service) Load() error {
	cs, err := tools.ReadChecks(s.Dir)
	if err != nil {
		return err
	}

	acc := make(map[string]*entry, len(cs))
	for name, c := range cs {
		model, property, err := c.Models()
		if err != nil {
			return fmt.Errorf("check %s: %w", name, err)
		}
		e := &entry{
			check: c,
			model: core.NewUpdatableModel(model),
		}
		if property != nil {
			e.property = core.NewUpdatableModel(property)
		}
		acc[name] = e
	}

	s.Lock()
	defer s.Unlock()

	for name, e := range acc {
		old, have := s.checks[name]
		if !have {
			continue
		}
		if err := old.model.SetModel(e.model.Model()); err != nil {
			return err
		}
		if e.property != nil && old.property != nil {
			if err := old.property.SetModel(e.property.Model()); err != nil {
				return err
			}
			e.property = old.property
		}
		e.model = old.model
		e.last = old.last
		e.next = old.next
		e.running = old.running
	}
	s.checks = acc

	log.Printf("Service.Load %d checks from %s", len(acc), s.Dir)

	return nil
}

func (s *Service) entry(name string) (*entry, error) {
	s.Lock()
	defer s.Unlock()
	e, have := s.checks[name]
	if !have {
		return nil, fmt.Errorf("check '%s' %w", name, NotFound)
	}
	return e, nil
}

// Summaries returns a Summary for each check sorted by name.
func (s *Service) Summaries() []*Summary {
	s.Lock()
	defer s.Unlock()

	acc := make([]*Summary, 0, len(s.checks))
	for name, e := range s.checks {
		acc = append(acc, &Summary{
			Name:     name,
			Doc:      e.check.Doc,
			Schedule: e.check.Schedule,
			Next:     e.next,
			Last:     e.last,
		})
	}
	sort.Slice(acc, func(i, j int) bool {
		return acc[i].Name < acc[j].Name
	})
	return acc
}

// Summary returns the Summary for the named check.
func (s *Service) Summary(name string) (*Summary, error) {
	for _, sum := range s.Summaries() {
		if sum.Name == name {
			return sum, nil
		}
	}
	return nil, fmt.Errorf("check '%s' %w", name, NotFound)
}

// Run runs the named check with the current versions of its models.
//
// A check that fails to run still produces a Result (with Err).  The
// returned error is only for problems that prevented the attempt.
func (s *Service) Run(ctx context.Context, name string) (*Result, error) {
	s.Lock()
	e, have := s.checks[name]
	if !have {
		s.Unlock()
		return nil, fmt.Errorf("check '%s' %w", name, NotFound)
	}
	if e.running {
		s.Unlock()
		return nil, Busy
	}
	e.running = true
	s.Unlock()

	if 0 < s.Timeout {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	then := time.Now()
	report, err := e.check.RunModels(ctx, s.Interpreters, e.model.Model(), e.propertyModel())
	r := &Result{
		Check:   name,
		At:      then.UTC(),
		Elapsed: time.Since(then).String(),
		Report:  report,
	}
	if err != nil {
		r.Err = err.Error()
		r.Verdict = "error"
	} else {
		r.Holds = report.Holds
		r.Verdict = report.Verdict()
	}

	s.finish(name, e, r)

	log.Printf("Service.Run %s: %s (%s)", name, r.Verdict, r.Elapsed)

	s.emit(map[string]interface{}{"verdict": r})

	if s.Publisher != nil {
		if err := s.Publisher.Publish(ctx, r); err != nil {
			log.Printf("Service.Run warning: publish %s: %s", name, err)
		}
	}

	return r, nil
}

// finish records r for the run that started with e.  A Load during
// the run may have replaced e, in which case the current entry gets
// the result too.
func (s *Service) finish(name string, e *entry, r *Result) {
	s.Lock()
	defer s.Unlock()
	e.running = false
	e.last = r
	if cur, have := s.checks[name]; have && cur != e {
		cur.running = false
		cur.last = r
	}
}

// SetModel compiles new source for the named check's model and swaps
// it in.  The check's property, if any, is relinked against the new
// model first, so a model that drops something the property uses is
// refused.
func (s *Service) SetModel(name, src string) error {
	e, err := s.entry(name)
	if err != nil {
		return err
	}
	old := e.model.Model()
	m, err := core.CompileModel(old.Name, src, nil)
	if err != nil {
		return err
	}
	m.Doc = old.Doc

	var p *core.Model
	if prop := e.propertyModel(); prop != nil {
		if p, err = core.CompileModel(prop.Name, prop.Source, m); err != nil {
			return fmt.Errorf("property no longer links: %w", err)
		}
		p.Doc = prop.Doc
	}

	if err = e.model.SetModel(m); err != nil {
		return err
	}
	if p != nil {
		if err = e.property.SetModel(p); err != nil {
			return err
		}
	}

	s.emit(map[string]interface{}{"updated": name})

	return nil
}

// NotEnabled occurs when a walk asks for a piece that can't fire.
type NotEnabled struct {
	Piece string            `json:"piece"`
	At    *core.Environment `json:"-"`
}

func (e *NotEnabled) Error() string {
	return fmt.Sprintf("'%s' isn't enabled at %s", e.Piece, e.At)
}

// Walked is the result of firing a sequence of pieces from a model's
// initial configuration.
type Walked struct {
	Check    string        `json:"check"`
	Steps    []*core.Step  `json:"steps"`
	Bindings core.Bindings `json:"bindings"`
	Enabled  []string      `json:"enabled"`
}

// Walk fires the named pieces in order starting from the initial
// configuration of the check's model.
func (s *Service) Walk(ctx context.Context, name string, fire []string) (*Walked, error) {
	e, err := s.entry(name)
	if err != nil {
		return nil, err
	}
	sem, err := e.model.Model().Semantics()
	if err != nil {
		return nil, err
	}
	sem = sem.Pure()

	inits, err := sem.Initial()
	if err != nil {
		return nil, err
	}
	cfg := inits[0]

	w := &Walked{
		Check: name,
		Steps: make([]*core.Step, 0, len(fire)),
	}

	for _, pname := range fire {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		acts, err := sem.Actions(cfg)
		if err != nil {
			return nil, err
		}
		var p *syntax.Piece
		for _, a := range acts {
			if a.Named() && a.Name == pname {
				p = a
				break
			}
		}
		if p == nil {
			return nil, &NotEnabled{Piece: pname, At: cfg}
		}
		next, err := sem.Execute(p, cfg)
		if err != nil {
			return nil, err
		}
		w.Steps = append(w.Steps, &core.Step{Source: cfg, Action: p, Target: next[0]})
		cfg = next[0]
	}

	acts, err := sem.Actions(cfg)
	if err != nil {
		return nil, err
	}
	w.Enabled = make([]string, 0, len(acts))
	for _, a := range acts {
		w.Enabled = append(w.Enabled, a.Name)
	}
	w.Bindings = cfg.Bs

	return w, nil
}

// emit sends x to the firehose (if any) without blocking.
func (s *Service) emit(x interface{}) {
	if s.firehose == nil {
		return
	}
	select {
	case s.firehose <- x:
	default:
		log.Printf("s.firehose blocked")
	}
}
