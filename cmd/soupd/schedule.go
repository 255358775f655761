package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gorhill/cronexpr"
)

// Schedule starts a goroutine for each check that has a cron
// Schedule.  Each goroutine runs its check at the scheduled times
// until ctx is done.
//
// Checks added by a later Load aren't scheduled.
func (s *Service) Schedule(ctx context.Context) (int, error) {
	exprs := make(map[string]*cronexpr.Expression)
	for _, sum := range s.Summaries() {
		if sum.Schedule == "" {
			continue
		}
		expr, err := cronexpr.Parse(sum.Schedule)
		if err != nil {
			return 0, fmt.Errorf("check %s schedule '%s': %w", sum.Name, sum.Schedule, err)
		}
		exprs[sum.Name] = expr
	}

	for name, expr := range exprs {
		go s.scheduled(ctx, name, expr)
	}

	return len(exprs), nil
}

// nextRun returns the next time after now for expr in UTC.  The zero
// time means never.
func nextRun(expr *cronexpr.Expression, now time.Time) time.Time {
	next := expr.Next(now)
	if next.IsZero() {
		return next
	}
	return next.UTC()
}

func (s *Service) setNext(name string, t time.Time) {
	s.Lock()
	if e, have := s.checks[name]; have {
		e.next = t
	}
	s.Unlock()
}

func (s *Service) scheduled(ctx context.Context, name string, expr *cronexpr.Expression) {
	for {
		next := nextRun(expr, time.Now())
		s.setNext(name, next)
		if next.IsZero() {
			log.Printf("Service.scheduled %s has no more runs", name)
			return
		}

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if _, err := s.Run(ctx, name); err != nil {
			log.Printf("Service.scheduled %s error: %s", name, err)
		}
	}
}
