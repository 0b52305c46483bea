package domain

import "github.com/google/uuid"

// EntryFilter contains filtering/pagination parameters for listing an
// author's entries. Nil pointers disable the corresponding filter.
type EntryFilter struct {
	AuthorID     uuid.UUID
	LanguageCode *string
	IsDraft      *bool
	IsCorrected  *bool
	Limit        int
	Offset       int
}
