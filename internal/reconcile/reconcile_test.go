package reconcile

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/langcorrect-backend/internal/domain"
)

// run reconciles and applies the plan, returning both.
func run(t *testing.T, entryID uuid.UUID, title string, segments []string, rows []domain.SentenceRow) (Plan, []domain.SentenceRow) {
	t.Helper()
	plan := Reconcile(entryID, title, segments, rows)
	return plan, Apply(rows, plan, uuid.New)
}

func texts(rows []domain.SentenceRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range ActiveInOrder(rows) {
		out = append(out, r.Text)
	}
	return out
}

func rowByText(t *testing.T, rows []domain.SentenceRow, text string) domain.SentenceRow {
	t.Helper()
	for _, r := range rows {
		if r.Text == text {
			return r
		}
	}
	t.Fatalf("no row with text %q", text)
	return domain.SentenceRow{}
}

func TestReconcile_FirstCreation(t *testing.T) {
	t.Parallel()
	entryID := uuid.New()

	plan := Reconcile(entryID, "My day", []string{
		"This is a sentence.", "This is another sentence.", "This is patrick.",
	}, nil)

	assert.Equal(t, entryID, plan.EntryID)
	assert.Empty(t, plan.Updates)
	assert.Empty(t, plan.Deactivations)
	assert.Equal(t, []NewRow{
		{Text: "My day", Position: 0},
		{Text: "This is a sentence.", Position: 1},
		{Text: "This is another sentence.", Position: 2},
		{Text: "This is patrick.", Position: 3},
	}, plan.Creates)
}

func TestReconcile_Idempotent(t *testing.T) {
	t.Parallel()
	entryID := uuid.New()
	segments := []string{"A.", "B.", "A.", "C."}

	_, rows := run(t, entryID, "Title", segments, nil)
	second := Reconcile(entryID, "Title", segments, rows)

	assert.True(t, second.IsEmpty(), "second plan: %+v", second)
}

func TestReconcile_IdentityPreservation(t *testing.T) {
	t.Parallel()
	entryID := uuid.New()

	_, rows := run(t, entryID, "Title", []string{"A.", "B.", "C."}, nil)
	rowA := rowByText(t, rows, "A.")
	rowB := rowByText(t, rows, "B.")
	rowC := rowByText(t, rows, "C.")

	plan, after := run(t, entryID, "Title", []string{"A.", "B2.", "C."}, rows)

	assert.Equal(t, []NewRow{{Text: "B2.", Position: 2}}, plan.Creates)
	assert.Equal(t, []uuid.UUID{rowB.ID}, plan.Deactivations)
	assert.Empty(t, plan.Updates, "A and C keep their positions")

	assert.Equal(t, []string{"Title", "A.", "B2.", "C."}, texts(after))
	assert.Equal(t, rowA.ID, rowByText(t, after, "A.").ID)
	assert.Equal(t, rowC.ID, rowByText(t, after, "C.").ID)
	assert.Equal(t, 3, rowByText(t, after, "C.").Position)
	assert.Equal(t, domain.RowStatusDeactivated, rowByText(t, after, "B.").Status)
}

func TestReconcile_InsertShiftsWithoutLosingIdentity(t *testing.T) {
	t.Parallel()
	entryID := uuid.New()

	_, rows := run(t, entryID, "Title", []string{"A.", "B."}, nil)
	rowA := rowByText(t, rows, "A.")
	rowB := rowByText(t, rows, "B.")

	plan, after := run(t, entryID, "Title", []string{"Z.", "A.", "B."}, rows)

	assert.Equal(t, []NewRow{{Text: "Z.", Position: 1}}, plan.Creates)
	assert.Equal(t, []RowUpdate{
		{RowID: rowA.ID, Position: 2},
		{RowID: rowB.ID, Position: 3},
	}, plan.Updates)
	assert.Empty(t, plan.Deactivations)
	assert.Equal(t, []string{"Title", "Z.", "A.", "B."}, texts(after))
}

func TestReconcile_DuplicateSentencesDeterministic(t *testing.T) {
	t.Parallel()
	entryID := uuid.New()
	segments := []string{"Hi.", "Hi.", "Hi."}

	_, rows := run(t, entryID, "Greetings", segments, nil)

	first := map[uuid.UUID]int{}
	for _, r := range rows {
		first[r.ID] = r.Position
	}

	plan, again := run(t, entryID, "Greetings", segments, rows)
	require.True(t, plan.IsEmpty())

	for _, r := range again {
		assert.Equal(t, first[r.ID], r.Position, "row %s moved", r.ID)
	}
}

func TestReconcile_DuplicateRemovalDropsNewest(t *testing.T) {
	t.Parallel()
	entryID := uuid.New()

	_, rows := run(t, entryID, "T", []string{"Hi.", "Hi.", "Hi."}, nil)
	his := slices.DeleteFunc(slices.Clone(rows), func(r domain.SentenceRow) bool { return r.Text != "Hi." })
	require.Len(t, his, 3)

	plan, _ := run(t, entryID, "T", []string{"Hi.", "Hi."}, rows)

	assert.Empty(t, plan.Creates)
	assert.Empty(t, plan.Updates)
	assert.Equal(t, []uuid.UUID{his[2].ID}, plan.Deactivations)
}

func TestReconcile_ReactivatesRemovedSentence(t *testing.T) {
	t.Parallel()
	entryID := uuid.New()

	_, rows := run(t, entryID, "T", []string{"A.", "B.", "C."}, nil)
	rowB := rowByText(t, rows, "B.")

	_, rows = run(t, entryID, "T", []string{"A.", "C."}, rows)
	plan, after := run(t, entryID, "T", []string{"A.", "B.", "C."}, rows)

	assert.Empty(t, plan.Creates, "B. must be reused, not recreated")
	assert.Contains(t, plan.Updates, RowUpdate{RowID: rowB.ID, Position: 2})
	assert.Equal(t, []string{"T", "A.", "B.", "C."}, texts(after))
	assert.Equal(t, rowB.ID, ActiveInOrder(after)[2].ID)
}

func TestReconcile_TitleChangeUpdatesRowZero(t *testing.T) {
	t.Parallel()
	entryID := uuid.New()

	_, rows := run(t, entryID, "Old title", []string{"A."}, nil)
	titleRow := rowByText(t, rows, "Old title")

	plan, after := run(t, entryID, "New title", []string{"A."}, rows)

	require.Len(t, plan.Updates, 1)
	assert.Equal(t, titleRow.ID, plan.Updates[0].RowID)
	assert.Equal(t, 0, plan.Updates[0].Position)
	require.NotNil(t, plan.Updates[0].Text)
	assert.Equal(t, "New title", *plan.Updates[0].Text)
	assert.Empty(t, plan.Creates)
	assert.Empty(t, plan.Deactivations)

	assert.Equal(t, titleRow.ID, ActiveInOrder(after)[0].ID)
	assert.Equal(t, "New title", ActiveInOrder(after)[0].Text)
}

func TestReconcile_TitleNotMatchedByText(t *testing.T) {
	t.Parallel()
	entryID := uuid.New()

	_, rows := run(t, entryID, "Hello.", nil, nil)

	plan, _ := run(t, entryID, "Hello.", []string{"Hello."}, rows)

	assert.Equal(t, []NewRow{{Text: "Hello.", Position: 1}}, plan.Creates)
	assert.Empty(t, plan.Updates)
	assert.Empty(t, plan.Deactivations)
}

func TestReconcile_EmptySegments(t *testing.T) {
	t.Parallel()
	entryID := uuid.New()

	_, rows := run(t, entryID, "T", []string{"A.", "B."}, nil)
	plan, after := run(t, entryID, "T", nil, rows)

	assert.Empty(t, plan.Creates)
	assert.Empty(t, plan.Updates)
	assert.Len(t, plan.Deactivations, 2)
	assert.Equal(t, []string{"T"}, texts(after))
}

func TestReconcile_AlreadyDeactivatedRowsLeftAlone(t *testing.T) {
	t.Parallel()
	entryID := uuid.New()

	_, rows := run(t, entryID, "T", []string{"A.", "B."}, nil)
	_, rows = run(t, entryID, "T", []string{"A."}, rows)

	plan := Reconcile(entryID, "T", []string{"A."}, rows)
	assert.True(t, plan.IsEmpty(), "deactivated B. must not be deactivated twice: %+v", plan)
}

func TestReconcile_InputOrderDoesNotMatter(t *testing.T) {
	t.Parallel()
	entryID := uuid.New()

	_, rows := run(t, entryID, "T", []string{"X.", "Y.", "X.", "Z.", "X."}, nil)
	_, rows = run(t, entryID, "T", []string{"Y."}, rows)

	want := Reconcile(entryID, "T", []string{"X.", "X.", "Y."}, rows)

	rng := rand.New(rand.NewPCG(1, 2))
	for range 10 {
		shuffled := slices.Clone(rows)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.Equal(t, want, Reconcile(entryID, "T", []string{"X.", "X.", "Y."}, shuffled))
	}
}

func TestReconcile_OldestDuplicateReusedFirst(t *testing.T) {
	t.Parallel()
	entryID := uuid.New()

	_, rows := run(t, entryID, "T", []string{"Hi.", "Hi."}, nil)
	// Drop both, then bring one back: the older row must win.
	_, rows = run(t, entryID, "T", nil, rows)
	plan := Reconcile(entryID, "T", []string{"Hi."}, rows)

	var oldest domain.SentenceRow
	for _, r := range rows {
		if r.Text == "Hi." && (oldest.ID == uuid.Nil || r.Seq < oldest.Seq) {
			oldest = r
		}
	}
	assert.Equal(t, []RowUpdate{{RowID: oldest.ID, Position: 1}}, plan.Updates)
}
