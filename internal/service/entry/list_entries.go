package entry

import (
	"context"
	"fmt"

	"github.com/heartmarshall/langcorrect-backend/internal/domain"
	"github.com/heartmarshall/langcorrect-backend/pkg/ctxutil"
)

// ListEntries returns the caller's live entries, newest first, with the
// total count matching the filters. Rows are not loaded.
func (s *Service) ListEntries(ctx context.Context, input ListEntriesInput) ([]domain.Entry, int, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, 0, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, 0, err
	}

	filter := domain.EntryFilter{
		AuthorID:    userID,
		IsDraft:     input.IsDraft,
		IsCorrected: input.IsCorrected,
		Limit:       input.Limit,
		Offset:      input.Offset,
	}
	if input.LanguageCode != nil {
		lang, _ := domain.NormalizeLanguage(*input.LanguageCode)
		filter.LanguageCode = &lang
	}

	entries, total, err := s.entries.ListByAuthor(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list entries: %w", err)
	}
	return entries, total, nil
}
