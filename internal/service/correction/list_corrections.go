package correction

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/langcorrect-backend/internal/diff"
	"github.com/heartmarshall/langcorrect-backend/internal/domain"
	"github.com/heartmarshall/langcorrect-backend/pkg/ctxutil"
)

// RowFeedback is one judgment as shown to readers, with the row it targets.
type RowFeedback struct {
	Feedback  domain.FeedbackEntry
	Row       domain.SentenceRow
	Fragments []diff.Fragment
}

// CorrectorView is everything one corrector left on an entry.
type CorrectorView struct {
	CorrectorID    uuid.UUID
	OverallComment *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Feedback       []RowFeedback
}

// ListCorrections returns per-corrector feedback on an entry. Feedback on
// active rows comes first in position order, then feedback on deactivated rows.
// Correctors with neither a comment nor active feedback are omitted.
func (s *Service) ListCorrections(ctx context.Context, entryID uuid.UUID) ([]CorrectorView, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if _, err := s.visibleEntry(ctx, entryID, userID); err != nil {
		return nil, err
	}

	var (
		ledgers  []domain.CorrectionLedger
		feedback []domain.FeedbackEntry
		rows     []domain.SentenceRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ledgers, err = s.ledgers.ListByEntry(gctx, entryID)
		if err != nil {
			return fmt.Errorf("list ledgers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		feedback, err = s.feedback.ListActiveByEntry(gctx, entryID)
		if err != nil {
			return fmt.Errorf("list feedback: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rows, err = s.rows.ListByEntry(gctx, entryID)
		if err != nil {
			return fmt.Errorf("list rows: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return buildViews(ledgers, feedback, rows), nil
}

func buildViews(ledgers []domain.CorrectionLedger, feedback []domain.FeedbackEntry, rows []domain.SentenceRow) []CorrectorView {
	rowByID := make(map[uuid.UUID]domain.SentenceRow, len(rows))
	for _, r := range rows {
		rowByID[r.ID] = r
	}

	byCorrector := make(map[uuid.UUID][]RowFeedback)
	for _, fb := range feedback {
		row, ok := rowByID[fb.RowID]
		if !ok {
			continue
		}
		rf := RowFeedback{Feedback: fb, Row: row}
		if fb.Kind == domain.FeedbackKindCorrected {
			rf.Fragments = diff.Render(row.Text, fb.Correction)
		}
		byCorrector[fb.CorrectorID] = append(byCorrector[fb.CorrectorID], rf)
	}

	views := make([]CorrectorView, 0, len(ledgers))
	for _, l := range ledgers {
		items := byCorrector[l.CorrectorID]
		if len(items) == 0 && !l.HasComment() {
			continue
		}
		sortRowFeedback(items)
		views = append(views, CorrectorView{
			CorrectorID:    l.CorrectorID,
			OverallComment: l.OverallComment,
			CreatedAt:      l.CreatedAt,
			UpdatedAt:      l.UpdatedAt,
			Feedback:       items,
		})
	}
	return views
}

// sortRowFeedback orders active rows by position, then deactivated rows by
// their last position, with row seq as the tie-breaker.
func sortRowFeedback(items []RowFeedback) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Row, items[j].Row
		if a.IsActive() != b.IsActive() {
			return a.IsActive()
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.Seq < b.Seq
	})
}
