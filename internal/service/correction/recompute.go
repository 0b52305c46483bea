package correction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// RecomputeAll walks every live entry in ID order and re-derives its
// is_corrected flag. It returns how many entries were checked and how many
// changed value.
func (s *Service) RecomputeAll(ctx context.Context, batchSize int) (checked, flipped int, err error) {
	if batchSize <= 0 {
		batchSize = 500
	}

	after := uuid.Nil
	for {
		if err := ctx.Err(); err != nil {
			return checked, flipped, err
		}

		ids, err := s.entries.ListLiveIDs(ctx, after, batchSize)
		if err != nil {
			return checked, flipped, fmt.Errorf("list entries: %w", err)
		}
		if len(ids) == 0 {
			break
		}

		for _, id := range ids {
			before, getErr := s.entries.GetByID(ctx, id)
			if getErr != nil {
				return checked, flipped, fmt.Errorf("get entry %s: %w", id, getErr)
			}
			now, recErr := s.entries.RecomputeIsCorrected(ctx, id)
			if recErr != nil {
				return checked, flipped, fmt.Errorf("recompute %s: %w", id, recErr)
			}
			checked++
			if now != before.IsCorrected {
				flipped++
				s.log.InfoContext(ctx, "is_corrected repaired",
					slog.String("entry_id", id.String()),
					slog.Bool("is_corrected", now),
				)
			}
		}

		after = ids[len(ids)-1]
		if len(ids) < batchSize {
			break
		}
	}

	return checked, flipped, nil
}
