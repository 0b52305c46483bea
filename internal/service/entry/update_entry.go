package entry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/langcorrect-backend/internal/domain"
	"github.com/heartmarshall/langcorrect-backend/pkg/ctxutil"
)

// UpdateEntry changes an entry's text or metadata. When the title, body or
// language changes the rows are re-segmented and reconciled so existing
// feedback stays attached to unchanged sentences. Concurrent edits of one
// entry serialize on the entry row lock; the last writer wins.
func (s *Service) UpdateEntry(ctx context.Context, input UpdateEntryInput) (*domain.Entry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.Body != nil {
		if err := s.checkBodyLength(domain.NormalizeText(*input.Body)); err != nil {
			return nil, err
		}
	}

	var updated *domain.Entry
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		old, getErr := s.entries.GetForUpdate(txCtx, input.EntryID)
		if getErr != nil {
			return fmt.Errorf("get entry: %w", getErr)
		}
		if !old.IsOwnedBy(userID) {
			return domain.ErrForbidden
		}

		next := *old
		applyUpdate(&next, input)
		textChanged := next.Title != old.Title || next.Body != old.Body || next.LanguageCode != old.LanguageCode

		var updateErr error
		updated, updateErr = s.entries.Update(txCtx, &next)
		if updateErr != nil {
			return fmt.Errorf("update entry: %w", updateErr)
		}

		changes := buildEntryChanges(old, updated)
		if textChanged {
			plan, syncErr := s.syncRows(txCtx, updated)
			if syncErr != nil {
				return fmt.Errorf("sync rows: %w", syncErr)
			}
			for k, v := range planChanges(plan) {
				changes[k] = v
			}
		}

		rows, listErr := s.rows.ListActive(txCtx, updated.ID)
		if listErr != nil {
			return fmt.Errorf("list rows: %w", listErr)
		}
		updated.Rows = rows

		if len(changes) > 0 {
			if auditErr := s.audit.Log(txCtx, domain.AuditRecord{
				UserID:     userID,
				EntityType: domain.EntityTypeEntry,
				EntityID:   &updated.ID,
				Action:     domain.AuditActionUpdate,
				Changes:    changes,
			}); auditErr != nil {
				return fmt.Errorf("audit log: %w", auditErr)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "entry updated",
		slog.String("user_id", userID.String()),
		slog.String("entry_id", updated.ID.String()),
		slog.Int("rows", len(updated.Rows)),
	)

	return updated, nil
}

func applyUpdate(e *domain.Entry, input UpdateEntryInput) {
	if input.Title != nil {
		e.Title = domain.NormalizeTitle(*input.Title)
	}
	if input.Body != nil {
		e.Body = domain.NormalizeText(*input.Body)
	}
	if input.LanguageCode != nil {
		e.LanguageCode, _ = domain.NormalizeLanguage(*input.LanguageCode)
	}
	if input.Visibility != nil {
		e.Visibility = *input.Visibility
	}
	if input.IsDraft != nil {
		e.IsDraft = *input.IsDraft
	}
}

// buildEntryChanges returns only changed fields for audit. The body is
// recorded as a flag; its text is already in the entry.
func buildEntryChanges(old, updated *domain.Entry) map[string]any {
	changes := make(map[string]any)
	if old.Title != updated.Title {
		changes["title"] = map[string]any{"old": old.Title, "new": updated.Title}
	}
	if old.Body != updated.Body {
		changes["body_changed"] = true
	}
	if old.LanguageCode != updated.LanguageCode {
		changes["language_code"] = map[string]any{"old": old.LanguageCode, "new": updated.LanguageCode}
	}
	if old.Visibility != updated.Visibility {
		changes["visibility"] = map[string]any{"old": old.Visibility.String(), "new": updated.Visibility.String()}
	}
	if old.IsDraft != updated.IsDraft {
		changes["is_draft"] = map[string]any{"old": old.IsDraft, "new": updated.IsDraft}
	}
	return changes
}
