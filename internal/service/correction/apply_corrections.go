package correction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/langcorrect-backend/internal/domain"
	"github.com/heartmarshall/langcorrect-backend/pkg/ctxutil"
)

// ApplyResult summarises what a correction batch changed.
type ApplyResult struct {
	Created        int
	Updated        int
	Withdrawn      int
	CommentCreated bool
	CommentUpdated bool
	CommentCleared bool
	IsCorrected    bool

	// Notification is the event published after commit, nil when none was due.
	Notification *domain.Notification
}

// Changed reports whether the batch modified anything.
func (r ApplyResult) Changed() bool {
	return r.Created > 0 || r.Updated > 0 || r.Withdrawn > 0 ||
		r.CommentCreated || r.CommentUpdated || r.CommentCleared
}

// ApplyCorrections applies a corrector's batch of row operations and overall
// comment change in a single transaction, then notifies the entry's author.
func (s *Service) ApplyCorrections(ctx context.Context, input ApplyCorrectionsInput) (*ApplyResult, error) {
	correctorID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(s.limits); err != nil {
		return nil, err
	}

	var (
		res         ApplyResult
		authorID    uuid.UUID
		wasPrevious bool
	)

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		e, err := s.correctableEntry(txCtx, input.EntryID, correctorID)
		if err != nil {
			return err
		}
		authorID = e.AuthorID

		ledger, created, err := s.ledgers.Ensure(txCtx, e.ID, correctorID, s.now())
		if err != nil {
			return fmt.Errorf("ensure ledger: %w", err)
		}
		wasPrevious = !created

		rows, err := s.rows.ListByEntry(txCtx, e.ID)
		if err != nil {
			return fmt.Errorf("list rows: %w", err)
		}
		byID := make(map[uuid.UUID]*domain.SentenceRow, len(rows))
		for i := range rows {
			byID[rows[i].ID] = &rows[i]
		}

		for _, item := range input.Items {
			row, found := byID[item.RowID]
			if !found {
				return fmt.Errorf("sentence row %s: %w", item.RowID, domain.ErrNotFound)
			}

			if item.Action == domain.CorrectionActionDelete {
				withdrawn, wErr := s.feedback.Withdraw(txCtx, correctorID, row.ID, s.now())
				if wErr != nil {
					return fmt.Errorf("withdraw feedback: %w", wErr)
				}
				if withdrawn {
					res.Withdrawn++
				}
				continue
			}

			if !row.IsActive() {
				return &domain.StaleRowError{RowID: row.ID}
			}
			kind := domain.FeedbackKindPerfect
			if item.Action == domain.CorrectionActionCorrected {
				kind = domain.FeedbackKindCorrected
			}
			createdFb, sErr := s.submit(txCtx, correctorID, row, kind, item.CorrectedText, item.Note)
			if sErr != nil {
				return sErr
			}
			if createdFb {
				res.Created++
			} else {
				res.Updated++
			}
		}

		switch {
		case input.DeleteOverallComment:
			cleared, cErr := s.ledgers.ClearComment(txCtx, e.ID, correctorID, s.now())
			if cErr != nil {
				return fmt.Errorf("clear comment: %w", cErr)
			}
			res.CommentCleared = cleared
		case input.OverallComment != nil:
			comment := domain.NormalizeText(*input.OverallComment)
			if comment == "" {
				break
			}
			if _, cErr := s.ledgers.SetComment(txCtx, e.ID, correctorID, comment, s.now()); cErr != nil {
				return fmt.Errorf("set comment: %w", cErr)
			}
			if ledger.HasComment() {
				res.CommentUpdated = *ledger.OverallComment != comment
			} else {
				res.CommentCreated = true
			}
		}

		res.IsCorrected, err = s.entries.RecomputeIsCorrected(txCtx, e.ID)
		if err != nil {
			return fmt.Errorf("recompute is_corrected: %w", err)
		}

		if !res.Changed() {
			return nil
		}
		if auditErr := s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     correctorID,
			EntityType: domain.EntityTypeLedger,
			EntityID:   &ledger.ID,
			Action:     ledgerAuditAction(created),
			Changes: map[string]any{
				"entry_id":        e.ID.String(),
				"created":         res.Created,
				"updated":         res.Updated,
				"withdrawn":       res.Withdrawn,
				"comment_created": res.CommentCreated,
				"comment_updated": res.CommentUpdated,
				"comment_cleared": res.CommentCleared,
			},
		}); auditErr != nil {
			return fmt.Errorf("audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "corrections applied",
		slog.String("corrector_id", correctorID.String()),
		slog.String("entry_id", input.EntryID.String()),
		slog.Int("created", res.Created),
		slog.Int("updated", res.Updated),
		slog.Int("withdrawn", res.Withdrawn),
		slog.Bool("is_corrected", res.IsCorrected),
	)

	if typ, due := notificationFor(wasPrevious, res); due {
		n := domain.Notification{
			Type:       typ,
			SenderID:   correctorID,
			Recipients: []uuid.UUID{authorID},
			EntryID:    input.EntryID,
			OccurredAt: s.now(),
		}
		res.Notification = &n
		if nErr := s.notifier.Notify(ctx, n); nErr != nil {
			s.log.ErrorContext(ctx, "notify failed",
				slog.String("type", typ.String()),
				slog.String("entry_id", input.EntryID.String()),
				slog.String("error", nErr.Error()),
			)
		}
	}

	return &res, nil
}

// notificationFor picks the event for a committed batch. A first-time
// corrector announces new feedback, or failing that a new comment; a returning
// corrector announces any change as an update.
func notificationFor(wasPrevious bool, res ApplyResult) (domain.NotificationType, bool) {
	switch {
	case !wasPrevious && res.Created > 0:
		return domain.NotificationNewCorrection, true
	case !wasPrevious && res.CommentCreated:
		return domain.NotificationNewComment, true
	case wasPrevious && res.Changed():
		return domain.NotificationUpdateCorrection, true
	}
	return "", false
}

func ledgerAuditAction(created bool) domain.AuditAction {
	if created {
		return domain.AuditActionCreate
	}
	return domain.AuditActionUpdate
}
