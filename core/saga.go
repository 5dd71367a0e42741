package core

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// Saga records each successful mutation against the record store so a
// multi-record write can be undone when a later step fails. The store has no
// transaction primitive; deleting previously created rows in reverse creation
// order is the only way to keep a failed write from leaving residue.
type (
	sagaStep struct {
		collection string
		id         string
		undo       func(context.Context) error
	}

	Saga struct {
		steps []sagaStep
	}
)

// Record pushes an undo step for a row just created in collection.
func (s *Saga) Record(collection, id string, undo func(context.Context) error) {
	s.steps = append(s.steps, sagaStep{collection: collection, id: id, undo: undo})
}

// Unwind runs the recorded undo steps in reverse order, logging each outcome.
// It never stops early; every step gets its chance to compensate.
func (s *Saga) Unwind(ctx context.Context, logger Logger) []error {
	var failures []error
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		if err := step.undo(ctx); err != nil {
			err = errors.Wrapf(err, "compensating delete of %s %q", step.collection, step.id)
			logger.Error(fmt.Sprintf("rollback: %v", err), err)
			failures = append(failures, err)
			continue
		}
		logger.Info(fmt.Sprintf("rollback: %s %q deleted", step.collection, step.id))
	}
	s.steps = nil
	return failures
}

// Fail unwinds the saga and returns the error the caller should surface:
// the original cause, or a CompensationError carrying it when any undo step
// failed and rows were left behind for manual cleanup.
func (s *Saga) Fail(ctx context.Context, logger Logger, cause error) error {
	failures := s.Unwind(ctx, logger)
	if len(failures) > 0 {
		return &CompensationError{Cause: cause, Failures: failures}
	}
	return cause
}
