package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/heartmarshall/langcorrect-backend/internal/adapter/postgres/ledger"
	"github.com/heartmarshall/langcorrect-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/langcorrect-backend/internal/domain"
)

func TestRepo_ClearComment_NoCommentSet(t *testing.T) {
	t.Parallel()
	mock := testhelper.NewMockDB(t)
	repo := ledger.New(mock)
	entryID, corrector := uuid.New(), uuid.New()

	mock.ExpectExec(`UPDATE correction_ledgers`).
		WithArgs(entryID, corrector, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	cleared, err := repo.ClearComment(context.Background(), entryID, corrector, time.Now())
	if err != nil {
		t.Fatalf("ClearComment: unexpected error: %v", err)
	}
	if cleared {
		t.Error("expected nothing cleared")
	}
}

func TestRepo_EnsureAndComment(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := ledger.New(pool)
	ctx := context.Background()
	e := testhelper.SeedEntry(t, pool)
	corrector := uuid.New()

	first, created, err := repo.Ensure(ctx, e.ID, corrector, time.Now())
	if err != nil {
		t.Fatalf("Ensure #1: %v", err)
	}
	if !created {
		t.Error("first Ensure must create")
	}
	if first.HasComment() {
		t.Error("new ledger must have no comment")
	}

	second, created, err := repo.Ensure(ctx, e.ID, corrector, time.Now())
	if err != nil {
		t.Fatalf("Ensure #2: %v", err)
	}
	if created || second.ID != first.ID {
		t.Errorf("second Ensure must return the existing ledger: created=%v id=%s", created, second.ID)
	}

	withComment, err := repo.SetComment(ctx, e.ID, corrector, "Nice work!", time.Now())
	if err != nil {
		t.Fatalf("SetComment: %v", err)
	}
	if !withComment.HasComment() || *withComment.OverallComment != "Nice work!" {
		t.Errorf("unexpected comment: %v", withComment.OverallComment)
	}

	cleared, err := repo.ClearComment(ctx, e.ID, corrector, time.Now())
	if err != nil || !cleared {
		t.Fatalf("ClearComment: cleared=%v err=%v", cleared, err)
	}

	got, err := repo.Get(ctx, e.ID, corrector)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.OverallComment != nil {
		t.Errorf("expected nil comment, got %q", *got.OverallComment)
	}

	list, err := repo.ListByEntry(ctx, e.ID)
	if err != nil {
		t.Fatalf("ListByEntry: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 ledger, got %d", len(list))
	}
}

func TestRepo_Get_NotFound(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := ledger.New(pool)

	_, err := repo.Get(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}
