// Package entry implements the Entry repository using PostgreSQL.
// Entries are soft-deleted; normal reads exclude tombstones.
package entry

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/langcorrect-backend/internal/adapter/postgres"
	"github.com/heartmarshall/langcorrect-backend/internal/domain"
)

// Repo provides entry persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new entry repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const entryColumns = `id, author_id, title, body, language_code, visibility, is_draft, is_corrected, created_at, updated_at, deleted_at`

const (
	insertEntrySQL = `
INSERT INTO entries (id, author_id, title, body, language_code, visibility, is_draft, is_corrected, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, false, $8, $8)
RETURNING ` + entryColumns

	getEntrySQL = `SELECT ` + entryColumns + ` FROM entries WHERE id = $1 AND deleted_at IS NULL`

	lockEntrySQL = `SELECT ` + entryColumns + ` FROM entries WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`

	updateEntrySQL = `
UPDATE entries
SET title = $2, body = $3, language_code = $4, visibility = $5, is_draft = $6, updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING ` + entryColumns

	softDeleteEntrySQL = `UPDATE entries SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`

	recomputeIsCorrectedSQL = `
UPDATE entries e
SET is_corrected = EXISTS (
        SELECT 1 FROM row_feedback f
        WHERE f.entry_id = e.id AND f.status = 'ACTIVE'
    )
WHERE e.id = $1
RETURNING e.is_corrected`

	listLiveIDsSQL = `
SELECT id FROM entries
WHERE deleted_at IS NULL AND id > $1
ORDER BY id
LIMIT $2`
)

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new entry. IsCorrected always starts false.
func (r *Repo) Create(ctx context.Context, e *domain.Entry) (*domain.Entry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	row := q.QueryRow(ctx, insertEntrySQL,
		e.ID, e.AuthorID, e.Title, e.Body, e.LanguageCode, string(e.Visibility), e.IsDraft, e.CreatedAt,
	)
	created, err := scanEntry(row)
	if err != nil {
		return nil, postgres.MapError(err, "entry", e.ID)
	}
	return created, nil
}

// Update overwrites the author-editable fields of a live entry.
func (r *Repo) Update(ctx context.Context, e *domain.Entry) (*domain.Entry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	row := q.QueryRow(ctx, updateEntrySQL,
		e.ID, e.Title, e.Body, e.LanguageCode, string(e.Visibility), e.IsDraft,
	)
	updated, err := scanEntry(row)
	if err != nil {
		return nil, postgres.MapError(err, "entry", e.ID)
	}
	return updated, nil
}

// SoftDelete tombstones a live entry. Returns domain.ErrNotFound if the entry
// does not exist or is already deleted.
func (r *Repo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, softDeleteEntrySQL, id)
	if err != nil {
		return postgres.MapError(err, "entry", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// RecomputeIsCorrected sets is_corrected from the entry's active feedback and
// returns the new value. Feedback on deactivated rows still counts.
func (r *Repo) RecomputeIsCorrected(ctx context.Context, id uuid.UUID) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var corrected bool
	if err := q.QueryRow(ctx, recomputeIsCorrectedSQL, id).Scan(&corrected); err != nil {
		return false, postgres.MapError(err, "entry", id)
	}
	return corrected, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a live entry. Returns domain.ErrNotFound for missing or
// soft-deleted entries.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Entry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	e, err := scanEntry(q.QueryRow(ctx, getEntrySQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "entry", id)
	}
	return e, nil
}

// GetForUpdate returns a live entry and locks it until the surrounding
// transaction ends, serialising concurrent edits of the same entry.
func (r *Repo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Entry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	e, err := scanEntry(q.QueryRow(ctx, lockEntrySQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "entry", id)
	}
	return e, nil
}

// ListByAuthor returns the author's live entries, newest first, and the total count
// matching the filter.
func (r *Repo) ListByAuthor(ctx context.Context, f domain.EntryFilter) ([]domain.Entry, int, error) {
	normalizeFilter(&f)
	q := postgres.QuerierFromCtx(ctx, r.db)

	where := sq.And{
		sq.Eq{"author_id": f.AuthorID},
		sq.Expr("deleted_at IS NULL"),
	}
	if f.LanguageCode != nil {
		where = append(where, sq.Eq{"language_code": *f.LanguageCode})
	}
	if f.IsDraft != nil {
		where = append(where, sq.Eq{"is_draft": *f.IsDraft})
	}
	if f.IsCorrected != nil {
		where = append(where, sq.Eq{"is_corrected": *f.IsCorrected})
	}

	countSQL, countArgs, err := postgres.Builder.Select("count(*)").From("entries").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count entries: %w", err)
	}
	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	listSQL, listArgs, err := postgres.Builder.
		Select(entryColumns).
		From("entries").
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list entries: %w", err)
	}

	rows, err := q.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.Entry, 0, f.Limit)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, total, nil
}

// ListLiveIDs returns up to limit live entry IDs greater than after, in ID
// order. Pass uuid.Nil to start from the beginning.
func (r *Repo) ListLiveIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, listLiveIDsSQL, after, limit)
	if err != nil {
		return nil, fmt.Errorf("list live entry ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("collect live entry ids: %w", err)
	}
	return ids, nil
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		e          domain.Entry
		visibility string
	)
	err := row.Scan(
		&e.ID, &e.AuthorID, &e.Title, &e.Body, &e.LanguageCode, &visibility,
		&e.IsDraft, &e.IsCorrected, &e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Visibility = domain.Visibility(visibility)
	return &e, nil
}
