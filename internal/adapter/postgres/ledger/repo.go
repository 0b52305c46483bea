// Package ledger implements persistence for correction ledgers: one row per
// (entry, corrector) holding the corrector's overall comment.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/langcorrect-backend/internal/adapter/postgres"
	"github.com/heartmarshall/langcorrect-backend/internal/domain"
)

// Repo provides ledger persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new ledger repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const ledgerColumns = `id, entry_id, corrector_id, overall_comment, created_at, updated_at`

const (
	// DO UPDATE rather than DO NOTHING so the existing row is returned and
	// locked for the rest of the transaction.
	ensureSQL = `
INSERT INTO correction_ledgers (id, entry_id, corrector_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $4)
ON CONFLICT (entry_id, corrector_id)
DO UPDATE SET updated_at = correction_ledgers.updated_at
RETURNING ` + ledgerColumns + `, (xmax = 0) AS inserted`

	getSQL = `SELECT ` + ledgerColumns + ` FROM correction_ledgers WHERE entry_id = $1 AND corrector_id = $2`

	setCommentSQL = `
UPDATE correction_ledgers
SET overall_comment = $3, updated_at = $4
WHERE entry_id = $1 AND corrector_id = $2
RETURNING ` + ledgerColumns

	clearCommentSQL = `
UPDATE correction_ledgers
SET overall_comment = NULL, updated_at = $3
WHERE entry_id = $1 AND corrector_id = $2 AND overall_comment IS NOT NULL`

	listByEntrySQL = `SELECT ` + ledgerColumns + ` FROM correction_ledgers WHERE entry_id = $1 ORDER BY created_at, id`
)

type ledgerRow struct {
	ID             uuid.UUID `db:"id"`
	EntryID        uuid.UUID `db:"entry_id"`
	CorrectorID    uuid.UUID `db:"corrector_id"`
	OverallComment *string   `db:"overall_comment"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type ensureRow struct {
	ledgerRow
	Inserted bool `db:"inserted"`
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Ensure returns the corrector's ledger on the entry, creating it if needed.
// created reports whether the ledger did not exist before the call.
func (r *Repo) Ensure(ctx context.Context, entryID, correctorID uuid.UUID, now time.Time) (l *domain.CorrectionLedger, created bool, err error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row ensureRow
	if err := pgxscan.Get(ctx, q, &row, ensureSQL, uuid.New(), entryID, correctorID, now); err != nil {
		return nil, false, postgres.MapError(err, "ledger", entryID)
	}
	out := toDomain(row.ledgerRow)
	return &out, row.Inserted, nil
}

// SetComment replaces the overall comment.
func (r *Repo) SetComment(ctx context.Context, entryID, correctorID uuid.UUID, comment string, now time.Time) (*domain.CorrectionLedger, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row ledgerRow
	if err := pgxscan.Get(ctx, q, &row, setCommentSQL, entryID, correctorID, comment, now); err != nil {
		return nil, postgres.MapError(err, "ledger", entryID)
	}
	out := toDomain(row)
	return &out, nil
}

// ClearComment removes the overall comment and reports whether one was set.
func (r *Repo) ClearComment(ctx context.Context, entryID, correctorID uuid.UUID, now time.Time) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, clearCommentSQL, entryID, correctorID, now)
	if err != nil {
		return false, postgres.MapError(err, "ledger", entryID)
	}
	return tag.RowsAffected() > 0, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Get returns the corrector's ledger on the entry.
func (r *Repo) Get(ctx context.Context, entryID, correctorID uuid.UUID) (*domain.CorrectionLedger, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row ledgerRow
	if err := pgxscan.Get(ctx, q, &row, getSQL, entryID, correctorID); err != nil {
		return nil, postgres.MapError(err, "ledger", entryID)
	}
	out := toDomain(row)
	return &out, nil
}

// ListByEntry returns every ledger on the entry, oldest first.
func (r *Repo) ListByEntry(ctx context.Context, entryID uuid.UUID) ([]domain.CorrectionLedger, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []ledgerRow
	if err := pgxscan.Select(ctx, q, &rows, listByEntrySQL, entryID); err != nil {
		return nil, fmt.Errorf("list ledgers for entry %s: %w", entryID, err)
	}

	out := make([]domain.CorrectionLedger, len(rows))
	for i, row := range rows {
		out[i] = toDomain(row)
	}
	return out, nil
}

func toDomain(row ledgerRow) domain.CorrectionLedger {
	return domain.CorrectionLedger{
		ID:             row.ID,
		EntryID:        row.EntryID,
		CorrectorID:    row.CorrectorID,
		OverallComment: row.OverallComment,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
