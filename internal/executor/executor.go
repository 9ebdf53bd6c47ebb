// Package executor turns a computed change set into either a dry-run report
// or a sequence of remote mutations, tracking partial application and the
// inverse of everything applied.
package executor

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/panos-tools/dpmigrate/internal/tree"
	"github.com/panos-tools/dpmigrate/models"
)

// Executor applies change sets against a store in dependency order.
type Executor struct {
	store  tree.Store
	logger *zap.Logger
}

// New creates an Executor.
func New(store tree.Store, logger *zap.Logger) *Executor {
	return &Executor{store: store, logger: logger}
}

// Execute applies the change set, or only renders it when dryRun is set.
//
// Operations run in dependency order: creates before the references that
// point at them, renames before dependent reference rewrites, deletes last.
// On a store failure the remaining queue is abandoned and the report records
// what succeeded and what failed; the scope is left recoverable by re-running
// the same phase. The report always carries the inverse of the applied
// prefix, in undo order.
func (x *Executor) Execute(ctx context.Context, cs models.ChangeSet, dryRun bool) (*Report, error) {
	ordered := Order(cs)

	report := &Report{
		ID:      uuid.New().String(),
		DryRun:  dryRun,
		Planned: ordered,
	}

	if dryRun {
		return report, nil
	}

	for _, op := range ordered.Ops {
		if err := x.store.Apply(ctx, op); err != nil {
			failed := op
			report.Failed = &failed
			report.Err = err
			report.Inverse = report.Applied.Inverse()
			x.logger.Error("operation failed, halting remaining queue",
				zap.String("op", op.Describe()),
				zap.Int("applied", len(report.Applied.Ops)),
				zap.Int("remaining", ordered.Len()-len(report.Applied.Ops)-1),
				zap.Error(err))
			return report, fmt.Errorf("applying %s: %w", op.Describe(), err)
		}
		report.Applied.Add(op)
		x.logger.Debug("applied", zap.String("op", op.Describe()))
	}

	report.Inverse = report.Applied.Inverse()
	return report, nil
}

// opRank buckets operations into dependency classes. Lower ranks apply first.
func opRank(op models.Op) int {
	switch op.Type {
	case models.OpCreateFolder:
		return 0
	case models.OpRenameFolder:
		return 1
	case models.OpAddParameter, models.OpUpdateParameter,
		models.OpAddReference, models.OpUpdateReference, models.OpUpdateCluster:
		return 2
	default: // removals and deletes
		return 3
	}
}

// Order sorts a change set into dependency order, keeping the input order
// within each class.
func Order(cs models.ChangeSet) models.ChangeSet {
	ops := append([]models.Op(nil), cs.Ops...)
	sort.SliceStable(ops, func(i, j int) bool {
		return opRank(ops[i]) < opRank(ops[j])
	})
	return models.ChangeSet{Ops: ops}
}
