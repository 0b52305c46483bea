package correction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/langcorrect-backend/internal/domain"
)

type entryRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Entry, error)
	RecomputeIsCorrected(ctx context.Context, id uuid.UUID) (bool, error)
	ListLiveIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error)
}

type rowRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SentenceRow, error)
	ListByEntry(ctx context.Context, entryID uuid.UUID) ([]domain.SentenceRow, error)
}

type feedbackRepo interface {
	Upsert(ctx context.Context, fb domain.FeedbackEntry) (*domain.FeedbackEntry, bool, error)
	Withdraw(ctx context.Context, correctorID, rowID uuid.UUID, at time.Time) (bool, error)
	ListActiveByEntry(ctx context.Context, entryID uuid.UUID) ([]domain.FeedbackEntry, error)
	ListForExport(ctx context.Context, entryID uuid.UUID) ([]domain.ExportRow, error)
}

type ledgerRepo interface {
	Ensure(ctx context.Context, entryID, correctorID uuid.UUID, now time.Time) (*domain.CorrectionLedger, bool, error)
	SetComment(ctx context.Context, entryID, correctorID uuid.UUID, comment string, now time.Time) (*domain.CorrectionLedger, error)
	ClearComment(ctx context.Context, entryID, correctorID uuid.UUID, now time.Time) (bool, error)
	ListByEntry(ctx context.Context, entryID uuid.UUID) ([]domain.CorrectionLedger, error)
}

type notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

type auditLogger interface {
	Log(ctx context.Context, record domain.AuditRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Limits bounds correction batches and text sizes.
type Limits struct {
	MaxBatchItems       int
	MaxCorrectionLength int
	MaxNoteLength       int
	MaxCommentLength    int
	UpsertRetries       int
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxBatchItems:       200,
		MaxCorrectionLength: 2000,
		MaxNoteLength:       2000,
		MaxCommentLength:    5000,
		UpsertRetries:       3,
	}
}

// Service maintains correctors' ledgers on entries: per-row feedback, the
// overall comment and the entry's derived is_corrected flag.
type Service struct {
	entries  entryRepo
	rows     rowRepo
	feedback feedbackRepo
	ledgers  ledgerRepo
	notifier notifier
	audit    auditLogger
	tx       txManager
	limits   Limits
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a new Correction service.
func NewService(
	log *slog.Logger,
	entries entryRepo,
	rows rowRepo,
	feedback feedbackRepo,
	ledgers ledgerRepo,
	notifier notifier,
	audit auditLogger,
	tx txManager,
	limits Limits,
) *Service {
	return &Service{
		entries:  entries,
		rows:     rows,
		feedback: feedback,
		ledgers:  ledgers,
		notifier: notifier,
		audit:    audit,
		tx:       tx,
		limits:   limits,
		log:      log.With("service", "correction"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// correctableEntry loads the entry and checks that correctorID may correct it.
// Drafts of other authors are reported as missing.
func (s *Service) correctableEntry(ctx context.Context, entryID, correctorID uuid.UUID) (*domain.Entry, error) {
	e, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	if e.IsOwnedBy(correctorID) {
		return nil, domain.ErrSelfCorrection
	}
	if e.IsDraft {
		return nil, fmt.Errorf("entry %s: %w", entryID, domain.ErrNotFound)
	}
	return e, nil
}

// visibleEntry loads the entry for reading by userID.
func (s *Service) visibleEntry(ctx context.Context, entryID, userID uuid.UUID) (*domain.Entry, error) {
	e, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	if e.IsDraft && !e.IsOwnedBy(userID) {
		return nil, fmt.Errorf("entry %s: %w", entryID, domain.ErrNotFound)
	}
	return e, nil
}

// upsertWithRetry stores the judgment. A concurrent writer can win the race
// for the active slot between our conflict check and insert; the unique index
// then rejects us and the upsert is retried against the winner's record.
func (s *Service) upsertWithRetry(ctx context.Context, fb domain.FeedbackEntry) (bool, error) {
	attempts := max(s.limits.UpsertRetries, 1)
	var lastErr error
	for range attempts {
		_, created, err := s.feedback.Upsert(ctx, fb)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return false, fmt.Errorf("upsert feedback: %w", err)
		}
		lastErr = err
		s.log.DebugContext(ctx, "feedback upsert raced, retrying",
			slog.String("row_id", fb.RowID.String()),
		)
	}
	return false, fmt.Errorf("upsert feedback after %d attempts: %w", attempts, lastErr)
}
