package reconcile

import (
	"cmp"
	"slices"

	"github.com/google/uuid"

	"github.com/heartmarshall/langcorrect-backend/internal/domain"
)

// Apply returns the rows that result from applying plan to existing, in
// memory. New rows get IDs from newID and sequence numbers after the highest
// existing one, in plan order. The row store does the same thing in SQL;
// Apply serves dry runs and tests.
func Apply(existing []domain.SentenceRow, plan Plan, newID func() uuid.UUID) []domain.SentenceRow {
	rows := slices.Clone(existing)

	byID := make(map[uuid.UUID]int, len(rows))
	var maxSeq int64
	for i := range rows {
		byID[rows[i].ID] = i
		maxSeq = max(maxSeq, rows[i].Seq)
	}

	for _, u := range plan.Updates {
		i, ok := byID[u.RowID]
		if !ok {
			continue
		}
		rows[i].Status = domain.RowStatusActive
		rows[i].Position = u.Position
		if u.Text != nil {
			rows[i].Text = *u.Text
		}
	}

	for _, id := range plan.Deactivations {
		if i, ok := byID[id]; ok {
			rows[i].Status = domain.RowStatusDeactivated
		}
	}

	for _, c := range plan.Creates {
		maxSeq++
		rows = append(rows, domain.SentenceRow{
			ID:       newID(),
			EntryID:  plan.EntryID,
			Text:     c.Text,
			Position: c.Position,
			Status:   domain.RowStatusActive,
			Seq:      maxSeq,
		})
	}

	return rows
}

// ActiveInOrder returns the active rows sorted by position.
func ActiveInOrder(rows []domain.SentenceRow) []domain.SentenceRow {
	out := make([]domain.SentenceRow, 0, len(rows))
	for _, r := range rows {
		if r.IsActive() {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.SentenceRow) int {
		return cmp.Compare(a.Position, b.Position)
	})
	return out
}
