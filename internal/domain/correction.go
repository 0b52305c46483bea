package domain

import (
	"time"

	"github.com/google/uuid"
)

// FeedbackEntry is one corrector's judgment on one sentence row.
type FeedbackEntry struct {
	ID          uuid.UUID
	EntryID     uuid.UUID
	RowID       uuid.UUID
	CorrectorID uuid.UUID
	Kind        FeedbackKind
	Correction  string
	Note        string
	Status      FeedbackStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	WithdrawnAt *time.Time
}

// IsActive reports whether the feedback has not been withdrawn.
func (f *FeedbackEntry) IsActive() bool {
	return f.Status == FeedbackStatusActive
}

// CorrectionLedger is one corrector's aggregate on one entry: the overall
// comment plus the per-row feedback attached to it.
type CorrectionLedger struct {
	ID             uuid.UUID
	EntryID        uuid.UUID
	CorrectorID    uuid.UUID
	OverallComment *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Feedback []FeedbackEntry
}

// HasComment reports whether an overall comment is set.
func (l *CorrectionLedger) HasComment() bool {
	return l.OverallComment != nil && *l.OverallComment != ""
}

// ExportRow is one live sentence with every active feedback left on it.
type ExportRow struct {
	RowID    uuid.UUID
	Position int
	Original string
	Feedback []FeedbackEntry
}

// Notification is an event handed to the notification collaborator.
type Notification struct {
	Type       NotificationType
	SenderID   uuid.UUID
	Recipients []uuid.UUID
	EntryID    uuid.UUID
	OccurredAt time.Time
}

// AuditRecord logs a mutation event on a domain entity.
type AuditRecord struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	EntityType EntityType
	EntityID   *uuid.UUID
	Action     AuditAction
	Changes    map[string]any
	CreatedAt  time.Time
}
