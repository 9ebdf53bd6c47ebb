// Package journal persists the inverse change set recorded when a phase is
// applied, keyed by scope and phase, so --revert can replay the exact undo
// instead of reconstructing it by diffing after the fact.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/panos-tools/dpmigrate/models"
)

// Phase names used as journal keys.
const (
	PhaseParameters = "parameters"
	PhaseClusters   = "clusters"
)

// ErrNoEntry indicates no recorded change set exists for the scope and phase.
var ErrNoEntry = errors.New("no journal entry for scope and phase")

const schema = `
CREATE TABLE IF NOT EXISTS journal (
    id TEXT PRIMARY KEY,
    tenant TEXT NOT NULL,
    app TEXT NOT NULL DEFAULT '',
    phase TEXT NOT NULL,
    inverse TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_journal_scope ON journal(tenant, app, phase, created_at);
`

// Journal is a sqlite-backed record of applied phases and their inverses.
type Journal struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the journal database at path. Use
// "file::memory:" for an in-memory journal in tests.
func Open(path string, logger *zap.Logger) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}
	return &Journal{db: db, logger: logger}, nil
}

// Close releases the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores the inverse change set for a just-applied phase.
func (j *Journal) Record(ctx context.Context, tenant, app, phase string, inverse models.ChangeSet) error {
	payload, err := json.Marshal(inverse)
	if err != nil {
		return fmt.Errorf("encode inverse change set: %w", err)
	}

	id := uuid.New().String()
	_, err = j.db.ExecContext(ctx,
		`INSERT INTO journal (id, tenant, app, phase, inverse, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, tenant, app, phase, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record journal entry: %w", err)
	}

	j.logger.Debug("journal entry recorded",
		zap.String("id", id),
		zap.String("tenant", tenant),
		zap.String("app", app),
		zap.String("phase", phase),
		zap.Int("ops", inverse.Len()))
	return nil
}

// Latest returns the most recent recorded inverse for the scope and phase,
// along with the entry ID so it can be deleted after a successful revert.
// Returns ErrNoEntry when nothing has been recorded.
func (j *Journal) Latest(ctx context.Context, tenant, app, phase string) (models.ChangeSet, string, error) {
	row := j.db.QueryRowContext(ctx,
		`SELECT id, inverse FROM journal
		 WHERE tenant = ? AND app = ? AND phase = ?
		 ORDER BY created_at DESC, id DESC LIMIT 1`,
		tenant, app, phase,
	)

	var id, payload string
	if err := row.Scan(&id, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ChangeSet{}, "", ErrNoEntry
		}
		return models.ChangeSet{}, "", fmt.Errorf("query journal: %w", err)
	}

	var cs models.ChangeSet
	if err := json.Unmarshal([]byte(payload), &cs); err != nil {
		return models.ChangeSet{}, "", fmt.Errorf("decode journal entry %s: %w", id, err)
	}
	return cs, id, nil
}

// Delete removes a single entry, typically after its inverse was applied.
func (j *Journal) Delete(ctx context.Context, id string) error {
	if _, err := j.db.ExecContext(ctx, `DELETE FROM journal WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete journal entry %s: %w", id, err)
	}
	return nil
}

// Purge removes every entry for the scope. Cleanup calls this: once the
// legacy parameters are gone the recorded inverses can no longer be applied.
func (j *Journal) Purge(ctx context.Context, tenant, app string) error {
	if _, err := j.db.ExecContext(ctx, `DELETE FROM journal WHERE tenant = ? AND app = ?`, tenant, app); err != nil {
		return fmt.Errorf("purge journal for %s/%s: %w", tenant, app, err)
	}
	return nil
}
