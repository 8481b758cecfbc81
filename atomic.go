package workon

import "context"

// AtomicOp accumulates undo steps as the sub-steps of a multi-step operation
// succeed, and runs them in reverse order if the operation is abandoned
// without being committed. Move and Add do not use it: Move undoes its
// branch rename inline when the directory rename fails.
type AtomicOp struct {
	undoSteps []func(ctx context.Context) error
	committed bool
}

// NewAtomicOp starts a new atomic operation.
func NewAtomicOp() *AtomicOp {
	return &AtomicOp{}
}

// AddUndo registers a rollback step. Steps run in reverse order on Rollback.
func (op *AtomicOp) AddUndo(fn func(ctx context.Context) error) {
	op.undoSteps = append(op.undoSteps, fn)
}

// Commit marks the operation as successful; Rollback becomes a no-op.
func (op *AtomicOp) Commit() {
	op.committed = true
}

// Rollback runs every undo step in reverse order, continuing past errors,
// and returns the first error encountered. A no-op once Commit has run.
func (op *AtomicOp) Rollback(ctx context.Context) error {
	if op.committed {
		return nil
	}
	var firstErr error
	for i := len(op.undoSteps) - 1; i >= 0; i-- {
		if err := op.undoSteps[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
