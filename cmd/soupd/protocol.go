package main

import (
	"context"
	"errors"
	"log"
)

var NoOp = errors.New("no operation given")

// Op is a service operation that arrives via /api or the websocket
// API.
//
// Only one of List, Run, Walk, SetModel, or Reload should have
// value.  Do fills in the corresponding output field.
type Op struct {
	// Id, if given, is echoed in the response.
	Id string `json:"id,omitempty"`

	List     bool        `json:"list,omitempty"`
	Run      string      `json:"run,omitempty"`
	Walk     *WalkOp     `json:"walk,omitempty"`
	SetModel *SetModelOp `json:"setModel,omitempty"`
	Reload   bool        `json:"reload,omitempty"`

	Checks []*Summary `json:"checks,omitempty"`
	Result *Result    `json:"result,omitempty"`
	Walked *Walked    `json:"walked,omitempty"`

	// Err will hold a string representation of an error (if any)
	// that results from processing this operation.
	Err string `json:"err,omitempty"`
}

// WalkOp fires the given pieces from the check's initial
// configuration.
type WalkOp struct {
	Check string   `json:"check"`
	Fire  []string `json:"fire,omitempty"`
}

// SetModelOp replaces the source of a check's model.
type SetModelOp struct {
	Check  string `json:"check"`
	Source string `json:"source"`
}

// Do performs the operation.  Any error is also recorded in Err.
func (o *Op) Do(ctx context.Context, s *Service) error {
	var err error
	switch {
	case o.List:
		o.Checks = s.Summaries()
	case o.Run != "":
		o.Result, err = s.Run(ctx, o.Run)
	case o.Walk != nil:
		o.Walked, err = s.Walk(ctx, o.Walk.Check, o.Walk.Fire)
	case o.SetModel != nil:
		err = s.SetModel(o.SetModel.Check, o.SetModel.Source)
	case o.Reload:
		if err = s.Load(); err == nil {
			o.Checks = s.Summaries()
		}
	default:
		err = NoOp
	}

	if err != nil {
		log.Printf("Op.Do error %v", err)
		o.Err = err.Error()
	}

	return err
}
