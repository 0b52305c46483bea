// Package feedback implements persistence for per-row corrector judgments.
// At most one ACTIVE record exists per (corrector, row); withdrawn records are
// kept for history.
package feedback

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/langcorrect-backend/internal/adapter/postgres"
	"github.com/heartmarshall/langcorrect-backend/internal/domain"
)

// Repo provides feedback persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new feedback repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const feedbackColumns = `id, entry_id, row_id, corrector_id, kind, correction, note, status, created_at, updated_at, withdrawn_at`

const (
	// The conflict target names the partial unique index predicate so that
	// only the ACTIVE record is replaced. xmax is 0 for a freshly inserted
	// tuple and non-zero for one rewritten by DO UPDATE.
	upsertSQL = `
INSERT INTO row_feedback (id, entry_id, row_id, corrector_id, kind, correction, note, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, 'ACTIVE', $8, $8)
ON CONFLICT (corrector_id, row_id) WHERE status = 'ACTIVE'
DO UPDATE SET kind = EXCLUDED.kind,
              correction = EXCLUDED.correction,
              note = EXCLUDED.note,
              updated_at = EXCLUDED.updated_at
RETURNING ` + feedbackColumns + `, (xmax = 0) AS inserted`

	withdrawSQL = `
UPDATE row_feedback
SET status = 'WITHDRAWN', withdrawn_at = $3, updated_at = $3
WHERE corrector_id = $1 AND row_id = $2 AND status = 'ACTIVE'`

	getActiveSQL = `
SELECT ` + feedbackColumns + ` FROM row_feedback
WHERE corrector_id = $1 AND row_id = $2 AND status = 'ACTIVE'`

	listActiveByEntrySQL = `
SELECT ` + feedbackColumns + ` FROM row_feedback
WHERE entry_id = $1 AND status = 'ACTIVE'
ORDER BY corrector_id, created_at, id`
)

// feedbackRow is the scan target for row_feedback.
type feedbackRow struct {
	ID          uuid.UUID  `db:"id"`
	EntryID     uuid.UUID  `db:"entry_id"`
	RowID       uuid.UUID  `db:"row_id"`
	CorrectorID uuid.UUID  `db:"corrector_id"`
	Kind        string     `db:"kind"`
	Correction  string     `db:"correction"`
	Note        string     `db:"note"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	WithdrawnAt *time.Time `db:"withdrawn_at"`
}

type upsertRow struct {
	feedbackRow
	Inserted bool `db:"inserted"`
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Upsert stores fb as the corrector's active judgment on the row. An existing
// active record is replaced in place and keeps its ID. created reports whether
// a new record was inserted. Inside a transaction the statement runs under a
// savepoint so a constraint violation leaves the transaction usable.
func (r *Repo) Upsert(ctx context.Context, fb domain.FeedbackEntry) (saved *domain.FeedbackEntry, created bool, err error) {
	var row upsertRow
	err = postgres.WithSavepoint(ctx, r.db, func(q postgres.Querier) error {
		return pgxscan.Get(ctx, q, &row, upsertSQL,
			fb.ID, fb.EntryID, fb.RowID, fb.CorrectorID, string(fb.Kind), fb.Correction, fb.Note, fb.UpdatedAt,
		)
	})
	if err != nil {
		return nil, false, postgres.MapError(err, "feedback", fb.RowID)
	}

	out := toDomain(row.feedbackRow)
	return &out, row.Inserted, nil
}

// Withdraw soft-deletes the corrector's active judgment on the row. It reports
// whether anything was withdrawn; withdrawing nothing is not an error.
func (r *Repo) Withdraw(ctx context.Context, correctorID, rowID uuid.UUID, at time.Time) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, withdrawSQL, correctorID, rowID, at)
	if err != nil {
		return false, postgres.MapError(err, "feedback", rowID)
	}
	return tag.RowsAffected() > 0, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetActive returns the corrector's active judgment on the row.
func (r *Repo) GetActive(ctx context.Context, correctorID, rowID uuid.UUID) (*domain.FeedbackEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row feedbackRow
	if err := pgxscan.Get(ctx, q, &row, getActiveSQL, correctorID, rowID); err != nil {
		return nil, postgres.MapError(err, "feedback", rowID)
	}
	out := toDomain(row)
	return &out, nil
}

// ListActiveByEntry returns every active judgment on the entry's rows,
// including rows that have since been deactivated.
func (r *Repo) ListActiveByEntry(ctx context.Context, entryID uuid.UUID) ([]domain.FeedbackEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []feedbackRow
	if err := pgxscan.Select(ctx, q, &rows, listActiveByEntrySQL, entryID); err != nil {
		return nil, fmt.Errorf("list feedback for entry %s: %w", entryID, err)
	}

	out := make([]domain.FeedbackEntry, len(rows))
	for i, row := range rows {
		out[i] = toDomain(row)
	}
	return out, nil
}

type exportRow struct {
	RowID       uuid.UUID  `db:"row_id"`
	Position    int        `db:"position"`
	Original    string     `db:"original"`
	FeedbackID  *uuid.UUID `db:"feedback_id"`
	CorrectorID *uuid.UUID `db:"corrector_id"`
	Kind        *string    `db:"kind"`
	Correction  *string    `db:"correction"`
	Note        *string    `db:"note"`
	CreatedAt   *time.Time `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}

// ListForExport returns the entry's active body rows (the title is excluded)
// ordered by position, each with its active feedback ordered oldest first.
func (r *Repo) ListForExport(ctx context.Context, entryID uuid.UUID) ([]domain.ExportRow, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder.
		Select(
			"r.id AS row_id", "r.position", "r.text AS original",
			"f.id AS feedback_id", "f.corrector_id", "f.kind", "f.correction", "f.note",
			"f.created_at", "f.updated_at",
		).
		From("sentence_rows r").
		LeftJoin("row_feedback f ON f.row_id = r.id AND f.status = 'ACTIVE'").
		Where(sq.Eq{"r.entry_id": entryID, "r.status": string(domain.RowStatusActive)}).
		Where(sq.Gt{"r.position": domain.TitlePosition}).
		OrderBy("r.position", "f.created_at", "f.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build export query: %w", err)
	}

	var rows []exportRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("export feedback for entry %s: %w", entryID, err)
	}

	var out []domain.ExportRow
	for _, row := range rows {
		if len(out) == 0 || out[len(out)-1].RowID != row.RowID {
			out = append(out, domain.ExportRow{RowID: row.RowID, Position: row.Position, Original: row.Original})
		}
		if row.FeedbackID == nil {
			continue
		}
		last := &out[len(out)-1]
		last.Feedback = append(last.Feedback, domain.FeedbackEntry{
			ID:          *row.FeedbackID,
			EntryID:     entryID,
			RowID:       row.RowID,
			CorrectorID: *row.CorrectorID,
			Kind:        domain.FeedbackKind(*row.Kind),
			Correction:  *row.Correction,
			Note:        *row.Note,
			Status:      domain.FeedbackStatusActive,
			CreatedAt:   *row.CreatedAt,
			UpdatedAt:   *row.UpdatedAt,
		})
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func toDomain(row feedbackRow) domain.FeedbackEntry {
	return domain.FeedbackEntry{
		ID:          row.ID,
		EntryID:     row.EntryID,
		RowID:       row.RowID,
		CorrectorID: row.CorrectorID,
		Kind:        domain.FeedbackKind(row.Kind),
		Correction:  row.Correction,
		Note:        row.Note,
		Status:      domain.FeedbackStatus(row.Status),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		WithdrawnAt: row.WithdrawnAt,
	}
}
