package correction

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/langcorrect-backend/internal/domain"
	"github.com/heartmarshall/langcorrect-backend/pkg/ctxutil"
)

// ExportView is an entry with its live sentences and their active feedback.
type ExportView struct {
	Entry *domain.Entry
	Rows  []domain.ExportRow
}

// Export returns the entry's live sentences, title excluded, in position
// order, each with every active feedback left on it.
func (s *Service) Export(ctx context.Context, entryID uuid.UUID) (*ExportView, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	e, err := s.visibleEntry(ctx, entryID, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.feedback.ListForExport(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("list export rows: %w", err)
	}
	return &ExportView{Entry: e, Rows: rows}, nil
}
