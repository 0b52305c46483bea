package entry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/heartmarshall/langcorrect-backend/internal/adapter/postgres/entry"
	"github.com/heartmarshall/langcorrect-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/langcorrect-backend/internal/domain"
)

func newRepo(t *testing.T) (*entry.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return entry.New(pool), pool
}

func newEntry(author uuid.UUID, title string) *domain.Entry {
	return &domain.Entry{
		ID:           uuid.New(),
		AuthorID:     author,
		Title:        title,
		Body:         "First sentence. Second sentence.",
		LanguageCode: "en",
		Visibility:   domain.VisibilityPublic,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

// ---------------------------------------------------------------------------
// Unit tests (pgxmock)
// ---------------------------------------------------------------------------

func TestRepo_GetByID_NotFoundMapsToDomain(t *testing.T) {
	t.Parallel()
	mock := testhelper.NewMockDB(t)
	repo := entry.New(mock)
	id := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM entries WHERE id = \$1 AND deleted_at IS NULL`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), id)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestRepo_SoftDelete_NoRowsIsNotFound(t *testing.T) {
	t.Parallel()
	mock := testhelper.NewMockDB(t)
	repo := entry.New(mock)
	id := uuid.New()

	mock.ExpectExec(`UPDATE entries SET deleted_at`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SoftDelete(context.Background(), id)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestRepo_RecomputeIsCorrected_ReturnsValue(t *testing.T) {
	t.Parallel()
	mock := testhelper.NewMockDB(t)
	repo := entry.New(mock)
	id := uuid.New()

	mock.ExpectQuery(`UPDATE entries e`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"is_corrected"}).AddRow(true))

	got, err := repo.RecomputeIsCorrected(context.Background(), id)
	if err != nil {
		t.Fatalf("RecomputeIsCorrected: unexpected error: %v", err)
	}
	if !got {
		t.Error("expected is_corrected = true")
	}
}

// ---------------------------------------------------------------------------
// Integration tests (testcontainers)
// ---------------------------------------------------------------------------

func TestRepo_Create_AndGetByID(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	in := newEntry(uuid.New(), "My day")
	created, err := repo.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}
	if created.IsCorrected {
		t.Error("new entry must not be corrected")
	}
	if created.Visibility != domain.VisibilityPublic {
		t.Errorf("Visibility mismatch: got %s", created.Visibility)
	}

	got, err := repo.GetByID(ctx, in.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.Title != "My day" {
		t.Errorf("Title mismatch: got %q, want %q", got.Title, "My day")
	}
	if got.AuthorID != in.AuthorID {
		t.Errorf("AuthorID mismatch: got %s, want %s", got.AuthorID, in.AuthorID)
	}
	if got.DeletedAt != nil {
		t.Error("DeletedAt should be nil")
	}
}

func TestRepo_Create_TitleTooLongViolatesCheck(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	long := make([]byte, 61)
	for i := range long {
		long[i] = 'a'
	}
	_, err := repo.Create(context.Background(), newEntry(uuid.New(), string(long)))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got: %v", err)
	}
}

func TestRepo_Update(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	seeded := testhelper.SeedEntry(t, pool)

	seeded.Title = "Renamed"
	seeded.IsDraft = true
	seeded.Visibility = domain.VisibilityMember

	updated, err := repo.Update(ctx, &seeded)
	if err != nil {
		t.Fatalf("Update: unexpected error: %v", err)
	}
	if updated.Title != "Renamed" || !updated.IsDraft || updated.Visibility != domain.VisibilityMember {
		t.Errorf("update not applied: %+v", updated)
	}
}

func TestRepo_SoftDelete_HidesEntry(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	seeded := testhelper.SeedEntry(t, pool)

	if err := repo.SoftDelete(ctx, seeded.ID); err != nil {
		t.Fatalf("SoftDelete: unexpected error: %v", err)
	}

	if _, err := repo.GetByID(ctx, seeded.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got: %v", err)
	}
	if err := repo.SoftDelete(ctx, seeded.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got: %v", err)
	}
}

func TestRepo_RecomputeIsCorrected_NoFeedback(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	seeded := testhelper.SeedEntry(t, pool)

	got, err := repo.RecomputeIsCorrected(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("RecomputeIsCorrected: unexpected error: %v", err)
	}
	if got {
		t.Error("entry without feedback must not be corrected")
	}
}

func TestRepo_ListByAuthor_FiltersAndCounts(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()
	author := uuid.New()

	for _, title := range []string{"One", "Two", "Three"} {
		if _, err := repo.Create(ctx, newEntry(author, title)); err != nil {
			t.Fatalf("Create %q: %v", title, err)
		}
	}
	draft := newEntry(author, "Draft")
	draft.IsDraft = true
	if _, err := repo.Create(ctx, draft); err != nil {
		t.Fatalf("Create draft: %v", err)
	}
	// Another author's entry must not leak.
	if _, err := repo.Create(ctx, newEntry(uuid.New(), "Other")); err != nil {
		t.Fatalf("Create other: %v", err)
	}

	all, total, err := repo.ListByAuthor(ctx, domain.EntryFilter{AuthorID: author})
	if err != nil {
		t.Fatalf("ListByAuthor: unexpected error: %v", err)
	}
	if total != 4 || len(all) != 4 {
		t.Fatalf("expected 4 entries, got total=%d len=%d", total, len(all))
	}

	isDraft := false
	published, total, err := repo.ListByAuthor(ctx, domain.EntryFilter{AuthorID: author, IsDraft: &isDraft, Limit: 2})
	if err != nil {
		t.Fatalf("List published: unexpected error: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3 published, got %d", total)
	}
	if len(published) != 2 {
		t.Errorf("expected page of 2, got %d", len(published))
	}
}

func TestRepo_ListLiveIDs_SkipsDeleted(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	live := testhelper.SeedEntry(t, pool)
	gone := testhelper.SeedEntry(t, pool)
	if err := repo.SoftDelete(ctx, gone.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	var seen []uuid.UUID
	after := uuid.Nil
	for {
		ids, err := repo.ListLiveIDs(ctx, after, 100)
		if err != nil {
			t.Fatalf("ListLiveIDs: unexpected error: %v", err)
		}
		if len(ids) == 0 {
			break
		}
		seen = append(seen, ids...)
		after = ids[len(ids)-1]
	}

	foundLive, foundGone := false, false
	for _, id := range seen {
		switch id {
		case live.ID:
			foundLive = true
		case gone.ID:
			foundGone = true
		}
	}
	if !foundLive {
		t.Error("live entry missing from ListLiveIDs")
	}
	if foundGone {
		t.Error("deleted entry returned by ListLiveIDs")
	}
}
