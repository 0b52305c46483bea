package entry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/langcorrect-backend/internal/domain"
	"github.com/heartmarshall/langcorrect-backend/pkg/ctxutil"
)

// CreateEntry stores a new entry for the authenticated author and creates
// its title and sentence rows.
func (s *Service) CreateEntry(ctx context.Context, input CreateEntryInput) (*domain.Entry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}
	body := domain.NormalizeText(input.Body)
	if err := s.checkBodyLength(body); err != nil {
		return nil, err
	}

	lang, _ := domain.NormalizeLanguage(input.LanguageCode)
	visibility := input.Visibility
	if visibility == "" {
		visibility = domain.VisibilityPublic
	}

	var created *domain.Entry
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		created, createErr = s.entries.Create(txCtx, &domain.Entry{
			ID:           uuid.New(),
			AuthorID:     userID,
			Title:        domain.NormalizeTitle(input.Title),
			Body:         body,
			LanguageCode: lang,
			Visibility:   visibility,
			IsDraft:      input.IsDraft,
			CreatedAt:    time.Now().UTC(),
		})
		if createErr != nil {
			return fmt.Errorf("create entry: %w", createErr)
		}

		plan, syncErr := s.syncRows(txCtx, created)
		if syncErr != nil {
			return fmt.Errorf("sync rows: %w", syncErr)
		}

		rows, listErr := s.rows.ListActive(txCtx, created.ID)
		if listErr != nil {
			return fmt.Errorf("list rows: %w", listErr)
		}
		created.Rows = rows

		changes := planChanges(plan)
		changes["title"] = created.Title
		changes["language_code"] = created.LanguageCode
		if auditErr := s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     userID,
			EntityType: domain.EntityTypeEntry,
			EntityID:   &created.ID,
			Action:     domain.AuditActionCreate,
			Changes:    changes,
		}); auditErr != nil {
			return fmt.Errorf("audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "entry created",
		slog.String("user_id", userID.String()),
		slog.String("entry_id", created.ID.String()),
		slog.String("language", created.LanguageCode),
		slog.Int("rows", len(created.Rows)),
	)

	return created, nil
}
