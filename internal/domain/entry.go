package domain

import (
	"time"

	"github.com/google/uuid"
)

// TitlePosition is the row position reserved for the entry title.
const TitlePosition = 0

// Entry is an author's submitted text in the language they are learning.
type Entry struct {
	ID           uuid.UUID
	AuthorID     uuid.UUID
	Title        string
	Body         string
	LanguageCode string
	Visibility   Visibility
	IsDraft      bool
	IsCorrected  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time

	// Rows holds the active sentence rows ordered by position when loaded.
	Rows []SentenceRow
}

// IsDeleted returns true if the entry has been soft-deleted.
func (e *Entry) IsDeleted() bool {
	return e.DeletedAt != nil
}

// IsOwnedBy reports whether userID is the entry's author.
func (e *Entry) IsOwnedBy(userID uuid.UUID) bool {
	return e.AuthorID == userID
}

// SentenceRow is one positioned, addressable sentence (or the title) of an entry.
// Text never changes after creation, except on the title row.
type SentenceRow struct {
	ID        uuid.UUID
	EntryID   uuid.UUID
	Text      string
	Position  int
	Status    RowStatus
	Seq       int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the row is part of the live entry.
func (r *SentenceRow) IsActive() bool {
	return r.Status == RowStatusActive
}

// IsTitle reports whether the row renders as the entry title.
func (r *SentenceRow) IsTitle() bool {
	return r.Position == TitlePosition
}
