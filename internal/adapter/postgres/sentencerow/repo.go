// Package sentencerow implements persistence for the per-sentence rows of an
// entry. Rows are never deleted; reconciliation deactivates them instead.
package sentencerow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/langcorrect-backend/internal/adapter/postgres"
	"github.com/heartmarshall/langcorrect-backend/internal/domain"
	"github.com/heartmarshall/langcorrect-backend/internal/reconcile"
)

// Repo provides sentence row persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new sentence row repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const rowColumns = `id, entry_id, seq, text, position, status, created_at, updated_at`

const (
	listByEntrySQL = `SELECT ` + rowColumns + ` FROM sentence_rows WHERE entry_id = $1 ORDER BY seq`

	listActiveSQL = `SELECT ` + rowColumns + ` FROM sentence_rows WHERE entry_id = $1 AND status = 'ACTIVE' ORDER BY position, seq`

	getRowSQL = `SELECT ` + rowColumns + ` FROM sentence_rows WHERE id = $1`

	updateRowSQL = `
UPDATE sentence_rows
SET position = $2, status = 'ACTIVE', text = COALESCE($3, text), updated_at = now()
WHERE id = $1 AND entry_id = $4`

	deactivateRowsSQL = `
UPDATE sentence_rows
SET status = 'DEACTIVATED', updated_at = now()
WHERE entry_id = $1 AND id = ANY($2) AND status = 'ACTIVE'`
)

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListByEntry returns every row of the entry, active or not, oldest first.
func (r *Repo) ListByEntry(ctx context.Context, entryID uuid.UUID) ([]domain.SentenceRow, error) {
	return r.list(ctx, listByEntrySQL, entryID)
}

// ListActive returns the entry's active rows in position order.
func (r *Repo) ListActive(ctx context.Context, entryID uuid.UUID) ([]domain.SentenceRow, error) {
	return r.list(ctx, listActiveSQL, entryID)
}

// GetByID returns a row regardless of its status.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.SentenceRow, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	row, err := scanRow(q.QueryRow(ctx, getRowSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "sentence_row", id)
	}
	return row, nil
}

func (r *Repo) list(ctx context.Context, sql string, entryID uuid.UUID) ([]domain.SentenceRow, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, sql, entryID)
	if err != nil {
		return nil, fmt.Errorf("list sentence_rows for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	var result []domain.SentenceRow
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sentence_row: %w", err)
		}
		result = append(result, *row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sentence_rows: %w", err)
	}
	return result, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// ApplyPlan writes a reconciliation plan. Creates go first in plan order so
// their seq follows the body order, then updates, then deactivations.
// Callers run it inside the transaction that holds the entry lock.
func (r *Repo) ApplyPlan(ctx context.Context, plan reconcile.Plan, newID func() uuid.UUID) error {
	if plan.IsEmpty() {
		return nil
	}
	q := postgres.QuerierFromCtx(ctx, r.db)

	if err := r.CreateBatch(ctx, plan.EntryID, plan.Creates, newID); err != nil {
		return err
	}

	if len(plan.Updates) > 0 {
		batch := &pgx.Batch{}
		for _, u := range plan.Updates {
			batch.Queue(updateRowSQL, u.RowID, u.Position, u.Text, plan.EntryID)
		}
		if err := sendBatchExec(ctx, q, batch); err != nil {
			return fmt.Errorf("update sentence_rows for entry %s: %w", plan.EntryID, err)
		}
	}

	if len(plan.Deactivations) > 0 {
		if _, err := q.Exec(ctx, deactivateRowsSQL, plan.EntryID, plan.Deactivations); err != nil {
			return fmt.Errorf("deactivate sentence_rows for entry %s: %w", plan.EntryID, err)
		}
	}

	return nil
}

// CreateBatch inserts active rows in one statement. Rows are inserted in slice
// order, so their seq follows it.
func (r *Repo) CreateBatch(ctx context.Context, entryID uuid.UUID, rows []reconcile.NewRow, newID func() uuid.UUID) error {
	if len(rows) == 0 {
		return nil
	}
	q := postgres.QuerierFromCtx(ctx, r.db)

	insert := postgres.Builder.
		Insert("sentence_rows").
		Columns("id", "entry_id", "text", "position", "status")
	for _, c := range rows {
		insert = insert.Values(newID(), entryID, c.Text, c.Position, string(domain.RowStatusActive))
	}

	sql, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert sentence_rows: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "entry", entryID)
	}
	return nil
}

// sendBatchExec sends a pgx.Batch and drains every Exec result.
func sendBatchExec(ctx context.Context, q postgres.Querier, batch *pgx.Batch) error {
	results := q.SendBatch(ctx, batch)
	defer results.Close()

	for range batch.Len() {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func scanRow(row pgx.Row) (*domain.SentenceRow, error) {
	var (
		r      domain.SentenceRow
		status string
	)
	if err := row.Scan(&r.ID, &r.EntryID, &r.Seq, &r.Text, &r.Position, &status, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.Status = domain.RowStatus(status)
	return &r, nil
}
