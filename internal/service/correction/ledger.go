package correction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/langcorrect-backend/internal/domain"
	"github.com/heartmarshall/langcorrect-backend/pkg/ctxutil"
)

// SubmitFeedback records the caller's judgment on a sentence row, replacing
// any judgment they already have on it. created reports whether no active
// judgment existed before.
func (s *Service) SubmitFeedback(ctx context.Context, input SubmitFeedbackInput) (created bool, err error) {
	correctorID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return false, domain.ErrUnauthorized
	}
	if err := input.Validate(s.limits); err != nil {
		return false, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		row, getErr := s.rows.GetByID(txCtx, input.RowID)
		if getErr != nil {
			return fmt.Errorf("get row: %w", getErr)
		}
		if _, entryErr := s.correctableEntry(txCtx, row.EntryID, correctorID); entryErr != nil {
			return entryErr
		}
		if !row.IsActive() {
			return &domain.StaleRowError{RowID: row.ID}
		}

		if _, _, ensureErr := s.ledgers.Ensure(txCtx, row.EntryID, correctorID, s.now()); ensureErr != nil {
			return fmt.Errorf("ensure ledger: %w", ensureErr)
		}

		var submitErr error
		created, submitErr = s.submit(txCtx, correctorID, row, input.Kind, input.Correction, input.Note)
		if submitErr != nil {
			return submitErr
		}

		if _, recErr := s.entries.RecomputeIsCorrected(txCtx, row.EntryID); recErr != nil {
			return fmt.Errorf("recompute is_corrected: %w", recErr)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	s.log.InfoContext(ctx, "feedback submitted",
		slog.String("corrector_id", correctorID.String()),
		slog.String("row_id", input.RowID.String()),
		slog.String("kind", input.Kind.String()),
		slog.Bool("created", created),
	)
	return created, nil
}

// WithdrawFeedback removes the caller's judgment on a row. Withdrawing when
// nothing is active is not an error. Withdrawal is allowed on deactivated rows.
func (s *Service) WithdrawFeedback(ctx context.Context, rowID uuid.UUID) (withdrawn bool, err error) {
	correctorID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return false, domain.ErrUnauthorized
	}
	if rowID == uuid.Nil {
		return false, domain.NewValidationError("sentence_row_id", "required")
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		row, getErr := s.rows.GetByID(txCtx, rowID)
		if getErr != nil {
			return fmt.Errorf("get row: %w", getErr)
		}

		var wErr error
		withdrawn, wErr = s.feedback.Withdraw(txCtx, correctorID, rowID, s.now())
		if wErr != nil {
			return fmt.Errorf("withdraw feedback: %w", wErr)
		}
		if !withdrawn {
			return nil
		}

		if _, recErr := s.entries.RecomputeIsCorrected(txCtx, row.EntryID); recErr != nil {
			return fmt.Errorf("recompute is_corrected: %w", recErr)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	s.log.InfoContext(ctx, "feedback withdrawn",
		slog.String("corrector_id", correctorID.String()),
		slog.String("row_id", rowID.String()),
		slog.Bool("withdrawn", withdrawn),
	)
	return withdrawn, nil
}

// SetOverallComment sets the caller's overall comment on an entry. created
// reports whether no comment was set before.
func (s *Service) SetOverallComment(ctx context.Context, entryID uuid.UUID, comment string) (created bool, err error) {
	correctorID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return false, domain.ErrUnauthorized
	}
	comment = domain.NormalizeText(comment)
	if comment == "" {
		return false, domain.NewValidationError("overall_comment", "required")
	}
	if err := (ApplyCorrectionsInput{EntryID: entryID, OverallComment: &comment}).Validate(s.limits); err != nil {
		return false, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, entryErr := s.correctableEntry(txCtx, entryID, correctorID); entryErr != nil {
			return entryErr
		}
		var cErr error
		created, cErr = s.setComment(txCtx, entryID, correctorID, comment)
		return cErr
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// ClearOverallComment removes the caller's overall comment. It reports
// whether a comment was removed.
func (s *Service) ClearOverallComment(ctx context.Context, entryID uuid.UUID) (cleared bool, err error) {
	correctorID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return false, domain.ErrUnauthorized
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, entryErr := s.correctableEntry(txCtx, entryID, correctorID); entryErr != nil {
			return entryErr
		}
		var cErr error
		cleared, cErr = s.ledgers.ClearComment(txCtx, entryID, correctorID, s.now())
		if cErr != nil {
			return fmt.Errorf("clear comment: %w", cErr)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return cleared, nil
}

// RecomputeIsCorrected re-derives the entry's is_corrected flag from its
// active feedback and returns the stored value.
func (s *Service) RecomputeIsCorrected(ctx context.Context, entryID uuid.UUID) (bool, error) {
	corrected, err := s.entries.RecomputeIsCorrected(ctx, entryID)
	if err != nil {
		return false, fmt.Errorf("recompute is_corrected: %w", err)
	}
	return corrected, nil
}

// submit writes one judgment on an active row. The caller holds the
// transaction and has checked the entry and row.
func (s *Service) submit(ctx context.Context, correctorID uuid.UUID, row *domain.SentenceRow, kind domain.FeedbackKind, correction, note string) (bool, error) {
	fb := domain.FeedbackEntry{
		ID:          uuid.New(),
		EntryID:     row.EntryID,
		RowID:       row.ID,
		CorrectorID: correctorID,
		Kind:        kind,
		Status:      domain.FeedbackStatusActive,
		UpdatedAt:   s.now(),
	}
	if kind == domain.FeedbackKindCorrected {
		fb.Correction = domain.NormalizeText(correction)
		fb.Note = domain.NormalizeText(note)
	}
	return s.upsertWithRetry(ctx, fb)
}

// setComment ensures the ledger and stores the comment.
func (s *Service) setComment(ctx context.Context, entryID, correctorID uuid.UUID, comment string) (bool, error) {
	l, _, err := s.ledgers.Ensure(ctx, entryID, correctorID, s.now())
	if err != nil {
		return false, fmt.Errorf("ensure ledger: %w", err)
	}
	if _, err := s.ledgers.SetComment(ctx, entryID, correctorID, comment, s.now()); err != nil {
		return false, fmt.Errorf("set comment: %w", err)
	}
	return !l.HasComment(), nil
}
