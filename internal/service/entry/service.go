package entry

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/langcorrect-backend/internal/domain"
	"github.com/heartmarshall/langcorrect-backend/internal/reconcile"
)

type entryRepo interface {
	Create(ctx context.Context, e *domain.Entry) (*domain.Entry, error)
	Update(ctx context.Context, e *domain.Entry) (*domain.Entry, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Entry, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Entry, error)
	ListByAuthor(ctx context.Context, f domain.EntryFilter) ([]domain.Entry, int, error)
}

type rowRepo interface {
	ListByEntry(ctx context.Context, entryID uuid.UUID) ([]domain.SentenceRow, error)
	ListActive(ctx context.Context, entryID uuid.UUID) ([]domain.SentenceRow, error)
	ApplyPlan(ctx context.Context, plan reconcile.Plan, newID func() uuid.UUID) error
}

type segmenter interface {
	Segment(text, languageCode string) []string
}

type auditLogger interface {
	Log(ctx context.Context, record domain.AuditRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service manages entries and keeps their sentence rows in step with the text.
type Service struct {
	entries       entryRepo
	rows          rowRepo
	segmenter     segmenter
	audit         auditLogger
	tx            txManager
	log           *slog.Logger
	maxBodyLength int
}

// NewService creates a new Entry service. maxBodyLength caps the body in
// characters.
func NewService(
	log *slog.Logger,
	entries entryRepo,
	rows rowRepo,
	seg segmenter,
	audit auditLogger,
	tx txManager,
	maxBodyLength int,
) *Service {
	return &Service{
		entries:       entries,
		rows:          rows,
		segmenter:     seg,
		audit:         audit,
		tx:            tx,
		log:           log.With("service", "entry"),
		maxBodyLength: maxBodyLength,
	}
}

// syncRows segments the entry's text and reconciles it against the stored
// rows. Must run inside the transaction that holds the entry.
func (s *Service) syncRows(ctx context.Context, e *domain.Entry) (reconcile.Plan, error) {
	existing, err := s.rows.ListByEntry(ctx, e.ID)
	if err != nil {
		return reconcile.Plan{}, err
	}

	segments := s.segmenter.Segment(e.Body, e.LanguageCode)
	plan := reconcile.Reconcile(e.ID, e.Title, segments, existing)

	if err := s.rows.ApplyPlan(ctx, plan, uuid.New); err != nil {
		return reconcile.Plan{}, err
	}
	return plan, nil
}

func planChanges(plan reconcile.Plan) map[string]any {
	return map[string]any{
		"rows_created":     len(plan.Creates),
		"rows_updated":     len(plan.Updates),
		"rows_deactivated": len(plan.Deactivations),
	}
}
