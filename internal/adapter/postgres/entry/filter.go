package entry

import "github.com/heartmarshall/langcorrect-backend/internal/domain"

const (
	defaultLimit = 20
	maxLimit     = 100
)

// normalizeFilter applies defaults and clamps values.
func normalizeFilter(f *domain.EntryFilter) {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}
