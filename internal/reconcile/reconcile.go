// Package reconcile matches a freshly segmented entry against its stored
// sentence rows and plans the row changes that keep existing corrections
// attached to the same sentences.
package reconcile

import (
	"cmp"
	"slices"

	"github.com/google/uuid"

	"github.com/heartmarshall/langcorrect-backend/internal/domain"
)

// NewRow is a row the plan creates.
type NewRow struct {
	Text     string
	Position int
}

// RowUpdate moves an existing row to Position and activates it.
// Text is set only when the title row is retitled.
type RowUpdate struct {
	RowID    uuid.UUID
	Position int
	Text     *string
}

// Plan is the set of row changes that brings the row store in line with the
// entry's current title and body. It is applied in a single transaction.
type Plan struct {
	EntryID       uuid.UUID
	Creates       []NewRow
	Updates       []RowUpdate
	Deactivations []uuid.UUID
}

// IsEmpty reports whether applying the plan would change nothing.
func (p Plan) IsEmpty() bool {
	return len(p.Creates) == 0 && len(p.Updates) == 0 && len(p.Deactivations) == 0
}

// Reconcile plans the rows for [title] ++ segments against existing.
//
// The title row is matched by position: the oldest active row at position 0
// keeps its identity and is retitled in place when the title changes. Every
// other row is matched by exact text through a FIFO queue per text, oldest
// row first, with deactivated rows eligible for reuse. Rows left unmatched
// are deactivated; their position and feedback are left alone.
//
// The result depends only on the inputs. Reconciling the same text against
// the rows produced by applying a plan yields an empty plan.
func Reconcile(entryID uuid.UUID, title string, segments []string, existing []domain.SentenceRow) Plan {
	plan := Plan{EntryID: entryID}

	rows := slices.Clone(existing)
	slices.SortStableFunc(rows, func(a, b domain.SentenceRow) int {
		return cmp.Compare(a.Seq, b.Seq)
	})

	titleIdx := -1
	for i := range rows {
		if rows[i].IsActive() && rows[i].IsTitle() {
			titleIdx = i
			break
		}
	}

	queues := make(map[string][]int, len(rows))
	for i := range rows {
		if i == titleIdx {
			continue
		}
		queues[rows[i].Text] = append(queues[rows[i].Text], i)
	}

	used := make([]bool, len(rows))

	if titleIdx >= 0 {
		used[titleIdx] = true
		if rows[titleIdx].Text != title {
			plan.Updates = append(plan.Updates, RowUpdate{
				RowID:    rows[titleIdx].ID,
				Position: domain.TitlePosition,
				Text:     &title,
			})
		}
	} else {
		plan.Creates = append(plan.Creates, NewRow{Text: title, Position: domain.TitlePosition})
	}

	for i, text := range segments {
		position := i + 1

		q := queues[text]
		if len(q) == 0 {
			plan.Creates = append(plan.Creates, NewRow{Text: text, Position: position})
			continue
		}

		idx := q[0]
		queues[text] = q[1:]
		used[idx] = true

		row := rows[idx]
		if !row.IsActive() || row.Position != position {
			plan.Updates = append(plan.Updates, RowUpdate{RowID: row.ID, Position: position})
		}
	}

	for i := range rows {
		if !used[i] && rows[i].IsActive() {
			plan.Deactivations = append(plan.Deactivations, rows[i].ID)
		}
	}

	return plan
}
