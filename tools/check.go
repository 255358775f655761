package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Comcast/soup/core"
	"github.com/Comcast/soup/explore"
	"github.com/Comcast/soup/explore/storage"
	"github.com/Comcast/soup/explore/storage/bolt"

	"github.com/jsccast/yaml"
)

// Check is a YAML definition of a search.
//
// Model and Property are filenames (relative to the check's
// directory) of YAML model files or of plain Soup source (".soup").
// ModelSource and PropertySource give the source inline instead.
type Check struct {
	Name string `json:"name" yaml:"name"`
	Doc  string `json:"doc,omitempty" yaml:"doc,omitempty"`

	Model       string `json:"model,omitempty" yaml:"model,omitempty"`
	ModelSource string `json:"modelSource,omitempty" yaml:"modelSource,omitempty"`

	Property       string `json:"property,omitempty" yaml:"property,omitempty"`
	PropertySource string `json:"propertySource,omitempty" yaml:"propertySource,omitempty"`

	// Accept is a proposition.  Without a property, it's
	// evaluated against model configurations.  With a property,
	// it's evaluated against property configurations.
	Accept string `json:"accept,omitempty" yaml:"accept,omitempty"`

	Invariants []*explore.InvariantSource `json:"invariants,omitempty" yaml:"invariants,omitempty"`

	// Limit is the maximum depth.  Zero means unlimited.
	Limit     int    `json:"limit,omitempty" yaml:"limit,omitempty"`
	MaxStates int    `json:"maxStates,omitempty" yaml:"maxStates,omitempty"`
	Strategy  string `json:"strategy,omitempty" yaml:"strategy,omitempty"`

	// Bolt, if given, is a BoltDB file for the visited states.
	Bolt string `json:"bolt,omitempty" yaml:"bolt,omitempty"`

	// Schedule is an optional cron expression for re-running the
	// check in a service.
	Schedule string `json:"schedule,omitempty" yaml:"schedule,omitempty"`

	// Dir is the directory for relative filenames.
	Dir string `json:"-" yaml:"-"`
}

// CheckSuffix is the filename suffix of checks in a directory.
const CheckSuffix = ".check.yaml"

// ReadCheck reads a YAML Check.
func ReadCheck(filename string) (*Check, error) {
	bs, err := ReadFileWithInlines(filename)
	if err != nil {
		return nil, err
	}
	var c Check
	if err = yaml.Unmarshal(bs, &c); err != nil {
		return nil, err
	}
	if c.Name == "" {
		base := filepath.Base(filename)
		if strings.HasSuffix(base, CheckSuffix) {
			c.Name = strings.TrimSuffix(base, CheckSuffix)
		} else {
			c.Name = strings.TrimSuffix(base, filepath.Ext(base))
		}
	}
	c.Dir = filepath.Dir(filename)
	return &c, nil
}

func (c *Check) path(name string) string {
	if filepath.IsAbs(name) || c.Dir == "" {
		return name
	}
	return filepath.Join(c.Dir, name)
}

// loadModel reads or compiles a model (input nil) or a property
// (input is the model).
func (c *Check) loadModel(name, filename, src string, input *core.Model) (*core.Model, error) {
	switch {
	case src != "":
		return core.CompileModel(name, src, input)
	case filename == "":
		return nil, nil
	case strings.HasSuffix(filename, ".soup"):
		bs, err := ReadFileWithInlines(c.path(filename))
		if err != nil {
			return nil, err
		}
		return core.CompileModel(filename, string(bs), input)
	default:
		return ReadModel(c.path(filename), input)
	}
}

// Models returns the compiled model and property.  The property is
// nil if the check doesn't have one.
func (c *Check) Models() (model, property *core.Model, err error) {
	if model, err = c.loadModel(c.Name, c.Model, c.ModelSource, nil); err != nil {
		return nil, nil, err
	}
	if model == nil {
		return nil, nil, fmt.Errorf("check %s has no model", c.Name)
	}
	if property, err = c.loadModel(c.Name+"-property", c.Property, c.PropertySource, model); err != nil {
		return nil, nil, err
	}
	return model, property, nil
}

// Control makes an explore.Control for the check.
func (c *Check) Control(ctx context.Context, interpreters map[string]core.Interpreter) (*explore.Control, error) {
	strategy, err := explore.ParseStrategy(c.Strategy)
	if err != nil {
		return nil, err
	}
	invs, err := explore.CompileInvariants(ctx, c.Invariants, interpreters)
	if err != nil {
		return nil, err
	}
	limit := c.Limit
	if limit == 0 {
		limit = -1
	}
	return &explore.Control{
		Limit:      limit,
		MaxStates:  c.MaxStates,
		Strategy:   strategy,
		Invariants: invs,
	}, nil
}

// Storage opens the check's visited-state storage.
func (c *Check) Storage(ctx context.Context) (storage.Storage, error) {
	if c.Bolt == "" {
		return storage.NewMemStorage(), nil
	}
	s, err := bolt.NewStorage(c.path(c.Bolt), c.Name)
	if err != nil {
		return nil, err
	}
	if err = s.Open(ctx); err != nil {
		return nil, err
	}
	return &boltRun{s}, nil
}

// boltRun drops its bucket when closed.
type boltRun struct {
	*bolt.Storage
}

func (s *boltRun) Close() error {
	if err := s.Storage.Remove(context.Background()); err != nil {
		s.Storage.Close()
		return err
	}
	return s.Storage.Close()
}

// Run compiles everything and runs the search.
func (c *Check) Run(ctx context.Context, interpreters map[string]core.Interpreter) (*explore.Report, error) {
	model, property, err := c.Models()
	if err != nil {
		return nil, err
	}
	return c.RunModels(ctx, interpreters, model, property)
}

// RunModels runs the search with the given compiled model and
// (optional) property instead of the ones the check names.
func (c *Check) RunModels(ctx context.Context, interpreters map[string]core.Interpreter, model, property *core.Model) (*explore.Report, error) {
	ctl, err := c.Control(ctx, interpreters)
	if err != nil {
		return nil, err
	}

	var accept explore.Accept
	if c.Accept != "" {
		if property == nil {
			accept, err = explore.ModelProposition(c.Accept)
		} else {
			accept, err = explore.PropertyProposition(c.Accept)
		}
		if err != nil {
			return nil, err
		}
	}

	store, err := c.Storage(ctx)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if property == nil {
		return explore.ReachModel(ctx, model, ctl, store, accept)
	}
	return explore.Product(ctx, model, property, ctl, store, accept)
}

// ReadChecks reads every Check (with CheckSuffix) in dir.
func ReadChecks(dir string) (map[string]*Check, error) {
	fs, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	acc := make(map[string]*Check, len(fs))
	for _, f := range fs {
		if f.IsDir() || !strings.HasSuffix(f.Name(), CheckSuffix) {
			continue
		}
		c, err := ReadCheck(filepath.Join(dir, f.Name()))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name(), err)
		}
		acc[c.Name] = c
	}
	return acc, nil
}
