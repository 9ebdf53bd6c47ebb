// Package engine drives the migration state machine: the parameters,
// clusters and cleanup phases plus revert. Each phase loads the current
// tree, computes a change set as a pure transformation, and hands it to the
// executor; the engine itself holds no mutable migration state.
package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/panos-tools/dpmigrate/internal/cluster"
	"github.com/panos-tools/dpmigrate/internal/executor"
	"github.com/panos-tools/dpmigrate/internal/journal"
	"github.com/panos-tools/dpmigrate/internal/resolver"
	"github.com/panos-tools/dpmigrate/internal/tree"
	"github.com/panos-tools/dpmigrate/models"
)

// Engine orchestrates migration phases over one scope at a time.
type Engine struct {
	store   tree.Store
	journal *journal.Journal
	exec    *executor.Executor
	logger  *zap.Logger
	dryRun  bool
}

// Config assembles an Engine.
type Config struct {
	// Store is the configuration store, live or snapshot-backed.
	Store tree.Store

	// Journal records applied inverses for revert. May be nil for pure
	// dry-run planning; revert then requires a journal and fails without one.
	Journal *journal.Journal

	// Logger receives structured progress output.
	Logger *zap.Logger

	// DryRun computes and renders plans without mutating anything.
	DryRun bool
}

// New creates an Engine.
func New(cfg Config) *Engine {
	return &Engine{
		store:   cfg.Store,
		journal: cfg.Journal,
		exec:    executor.New(cfg.Store, cfg.Logger),
		logger:  cfg.Logger,
		dryRun:  cfg.DryRun,
	}
}

// PrepareParameters runs the parameters phase for the scope: creates
// Zone/Vlan/StaticRoute folders, renames legacy folder kinds and adds the
// new references, retaining the legacy scalars. Re-running on an already
// prepared scope yields an empty change set.
func (e *Engine) PrepareParameters(ctx context.Context, scope tree.Scope) (*executor.Report, error) {
	before, err := tree.Load(ctx, e.store, scope)
	if err != nil {
		return nil, err
	}

	after, err := resolver.Resolve(before, scope.App)
	if err != nil {
		return nil, err
	}

	cs := tree.Diff(before, after)
	e.logger.Info("parameters phase planned",
		zap.String("tenant", scope.Tenant),
		zap.String("app", scope.App),
		zap.Int("ops", cs.Len()),
		zap.Bool("dry_run", e.dryRun))

	report, execErr := e.exec.Execute(ctx, cs, e.dryRun)
	e.record(ctx, scope.Tenant, scope.App, journal.PhaseParameters, report)
	return report, execErr
}

// MigrateClusters rewrites every cluster visible from the tenant that is
// still bound to the 1.2 device package. Fails with
// UnmigratedDependencyError before touching anything if any such cluster's
// application profile has not been through the parameters phase.
func (e *Engine) MigrateClusters(ctx context.Context, tenant string) (*executor.Report, error) {
	t, err := tree.Load(ctx, e.store, tree.Scope{Tenant: tenant})
	if err != nil {
		return nil, err
	}
	clusters, err := e.store.ListClusters(ctx, tenant)
	if err != nil {
		return nil, err
	}

	migrated := func(appName string) bool {
		app := t.AppProfile(appName)
		return app != nil && resolver.Prepared(app)
	}

	cs, err := cluster.PlanUpdate(clusters, models.TargetVersion, migrated)
	if err != nil {
		return nil, err
	}
	e.logger.Info("clusters phase planned",
		zap.String("tenant", tenant),
		zap.Int("ops", cs.Len()),
		zap.Bool("dry_run", e.dryRun))

	report, execErr := e.exec.Execute(ctx, cs, e.dryRun)
	e.record(ctx, tenant, "", journal.PhaseClusters, report)
	return report, execErr
}

// Cleanup removes the legacy scalar parameters for the scope. It requires
// the scope to have reached ClustersMigrated; afterwards no revert path
// exists. Zone, Vlan and StaticRoute folders survive cleanup.
func (e *Engine) Cleanup(ctx context.Context, scope tree.Scope) (*executor.Report, error) {
	before, err := tree.Load(ctx, e.store, scope)
	if err != nil {
		return nil, err
	}
	clusters, err := e.store.ListClusters(ctx, scope.Tenant)
	if err != nil {
		return nil, err
	}

	app := before.AppProfile(scope.App)
	switch state := DeriveState(app, clusters); state {
	case StateUnmigrated:
		if !resolver.Prepared(app) {
			return nil, fmt.Errorf("%w: scope %s/%s is %s, run --parameters before --cleanup",
				models.ErrPrecondition, scope.Tenant, scope.App, state)
		}
		// Nothing migratable ever existed; cleanup is a no-op.
	case StateParametersPrepared:
		return nil, fmt.Errorf("%w: clusters for %s/%s are still on the %s device package, run --clusters before --cleanup",
			models.ErrPrecondition, scope.Tenant, scope.App, models.SourceVersion)
	}

	after, err := resolver.Cleanup(before, scope.App)
	if err != nil {
		return nil, err
	}

	cs := tree.Diff(before, after)
	e.logger.Info("cleanup planned",
		zap.String("tenant", scope.Tenant),
		zap.String("app", scope.App),
		zap.Int("ops", cs.Len()),
		zap.Bool("dry_run", e.dryRun))

	report, execErr := e.exec.Execute(ctx, cs, e.dryRun)
	if execErr == nil && !e.dryRun && !report.Applied.Empty() && e.journal != nil {
		// The recorded inverses reference parameters that no longer exist.
		if err := e.journal.Purge(ctx, scope.Tenant, scope.App); err != nil {
			e.logger.Warn("failed to purge journal after cleanup", zap.Error(err))
		}
	}
	return report, execErr
}

// RevertParameters applies the inverse change set recorded when the
// parameters phase last ran on the scope. Zone and Vlan folders are left in
// place: other profiles may already reference them. Fails with
// IrreversibleStateError once cleanup has run.
func (e *Engine) RevertParameters(ctx context.Context, scope tree.Scope) (*executor.Report, error) {
	before, err := tree.Load(ctx, e.store, scope)
	if err != nil {
		return nil, err
	}
	clusters, err := e.store.ListClusters(ctx, scope.Tenant)
	if err != nil {
		return nil, err
	}

	app := before.AppProfile(scope.App)
	if DeriveState(app, clusters) == StateCleanedUp {
		return nil, &models.IrreversibleStateError{Tenant: scope.Tenant, App: scope.App}
	}

	if e.journal == nil {
		return nil, fmt.Errorf("revert requires a journal, none is configured")
	}
	cs, entryID, err := e.journal.Latest(ctx, scope.Tenant, scope.App, journal.PhaseParameters)
	if err != nil {
		if errors.Is(err, journal.ErrNoEntry) {
			e.logger.Info("nothing recorded for scope, nothing to revert",
				zap.String("tenant", scope.Tenant),
				zap.String("app", scope.App))
			return e.exec.Execute(ctx, models.ChangeSet{}, e.dryRun)
		}
		return nil, err
	}

	cs = retainSharedFolders(cs)
	report, execErr := e.exec.Execute(ctx, cs, e.dryRun)
	if execErr == nil && !e.dryRun {
		if err := e.journal.Delete(ctx, entryID); err != nil {
			e.logger.Warn("failed to delete journal entry after revert", zap.Error(err))
		}
	}
	return report, execErr
}

// RevertClusters switches clusters back to the 1.2 device package, using the
// recorded inverse when available and otherwise rescanning the store for
// clusters on the target version. Fails with IrreversibleStateError if any
// affected cluster serves a cleaned-up profile: the 1.2 package needs the
// legacy parameters that cleanup removed.
func (e *Engine) RevertClusters(ctx context.Context, tenant string) (*executor.Report, error) {
	t, err := tree.Load(ctx, e.store, tree.Scope{Tenant: tenant})
	if err != nil {
		return nil, err
	}
	clusters, err := e.store.ListClusters(ctx, tenant)
	if err != nil {
		return nil, err
	}

	for _, c := range clusters {
		if !c.AtVersion(models.TargetVersion) || c.AppProfile == "" {
			continue
		}
		app := t.AppProfile(c.AppProfile)
		if app != nil && DeriveState(app, clusters) == StateCleanedUp {
			return nil, &models.IrreversibleStateError{Tenant: tenant, App: c.AppProfile}
		}
	}

	var (
		cs      models.ChangeSet
		entryID string
	)
	if e.journal != nil {
		cs, entryID, err = e.journal.Latest(ctx, tenant, "", journal.PhaseClusters)
		if err != nil && !errors.Is(err, journal.ErrNoEntry) {
			return nil, err
		}
	}
	if cs.Empty() {
		cs = cluster.PlanRevert(clusters, models.SourceVersion)
		entryID = ""
	}

	report, execErr := e.exec.Execute(ctx, cs, e.dryRun)
	if execErr == nil && !e.dryRun && entryID != "" {
		if err := e.journal.Delete(ctx, entryID); err != nil {
			e.logger.Warn("failed to delete journal entry after revert", zap.Error(err))
		}
	}
	return report, execErr
}

// record stores the inverse of what was applied. Partial applications are
// recorded too, so an interrupted phase can still be undone.
func (e *Engine) record(ctx context.Context, tenant, app, phase string, report *executor.Report) {
	if e.dryRun || e.journal == nil || report == nil || report.Applied.Empty() {
		return
	}
	if err := e.journal.Record(ctx, tenant, app, phase, report.Inverse); err != nil {
		e.logger.Error("failed to record inverse change set; revert will not cover this run",
			zap.String("tenant", tenant),
			zap.String("app", app),
			zap.String("phase", phase),
			zap.Error(err))
	}
}

// retainSharedFolders drops the deletion of Zone and Vlan folders from a
// recorded inverse. They are created once and may be referenced by other
// profiles, so revert leaves them standing.
func retainSharedFolders(cs models.ChangeSet) models.ChangeSet {
	var out models.ChangeSet
	for _, op := range cs.Ops {
		if op.Type == models.OpDeleteFolder &&
			(op.Folder.Kind == models.KindZone || op.Folder.Kind == models.KindVlan) {
			continue
		}
		out.Add(op)
	}
	return out
}
