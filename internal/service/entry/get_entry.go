package entry

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/langcorrect-backend/internal/domain"
	"github.com/heartmarshall/langcorrect-backend/pkg/ctxutil"
)

// GetEntry returns a live entry with its active rows ordered by position.
// Drafts are visible to their author only; to anyone else they do not exist.
func (s *Service) GetEntry(ctx context.Context, entryID uuid.UUID) (*domain.Entry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	e, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	if e.IsDraft && !e.IsOwnedBy(userID) {
		return nil, fmt.Errorf("entry %s: %w", entryID, domain.ErrNotFound)
	}

	rows, err := s.rows.ListActive(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}
	e.Rows = rows
	return e, nil
}
