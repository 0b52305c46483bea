package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/langcorrect-backend/internal/domain"
)

// SeedEntry inserts a published English entry owned by a fresh author and
// returns it. Rows are not created.
func SeedEntry(t *testing.T, pool *pgxpool.Pool) domain.Entry {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	entry := domain.Entry{
		ID:           uuid.New(),
		AuthorID:     uuid.New(),
		Title:        "Test entry " + uuid.New().String()[:8],
		Body:         "This is a sentence. This is another sentence.",
		LanguageCode: "en",
		Visibility:   domain.VisibilityPublic,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO entries (id, author_id, title, body, language_code, visibility, is_draft, is_corrected, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, false, false, $7, $8)`,
		entry.ID, entry.AuthorID, entry.Title, entry.Body, entry.LanguageCode,
		string(entry.Visibility), entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedEntry: %v", err)
	}

	return entry
}

// SeedRows inserts active rows for entryID, one per text, at positions 0..n-1.
// Rows are inserted one by one so their seq follows the slice order.
func SeedRows(t *testing.T, pool *pgxpool.Pool, entryID uuid.UUID, texts ...string) []domain.SentenceRow {
	t.Helper()
	ctx := context.Background()

	rows := make([]domain.SentenceRow, 0, len(texts))
	for i, text := range texts {
		row := domain.SentenceRow{
			ID:       uuid.New(),
			EntryID:  entryID,
			Text:     text,
			Position: i,
			Status:   domain.RowStatusActive,
		}
		err := pool.QueryRow(ctx,
			`INSERT INTO sentence_rows (id, entry_id, text, position, status)
			 VALUES ($1, $2, $3, $4, 'ACTIVE')
			 RETURNING seq, created_at, updated_at`,
			row.ID, row.EntryID, row.Text, row.Position,
		).Scan(&row.Seq, &row.CreatedAt, &row.UpdatedAt)
		if err != nil {
			t.Fatalf("testhelper: SeedRows: %v", err)
		}
		rows = append(rows, row)
	}

	return rows
}
