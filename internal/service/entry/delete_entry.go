package entry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/langcorrect-backend/internal/domain"
	"github.com/heartmarshall/langcorrect-backend/pkg/ctxutil"
)

// DeleteEntry soft-deletes an entry. Only the author may delete it. Rows,
// feedback and ledgers are kept.
func (s *Service) DeleteEntry(ctx context.Context, entryID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if entryID == uuid.Nil {
		return domain.NewValidationError("entry_id", "required")
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		e, getErr := s.entries.GetForUpdate(txCtx, entryID)
		if getErr != nil {
			return fmt.Errorf("get entry: %w", getErr)
		}
		if !e.IsOwnedBy(userID) {
			return domain.ErrForbidden
		}

		if delErr := s.entries.SoftDelete(txCtx, entryID); delErr != nil {
			return fmt.Errorf("delete entry: %w", delErr)
		}

		if auditErr := s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     userID,
			EntityType: domain.EntityTypeEntry,
			EntityID:   &entryID,
			Action:     domain.AuditActionDelete,
			Changes:    map[string]any{"title": e.Title},
		}); auditErr != nil {
			return fmt.Errorf("audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "entry deleted",
		slog.String("user_id", userID.String()),
		slog.String("entry_id", entryID.String()),
	)
	return nil
}
