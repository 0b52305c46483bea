package entry

import (
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/langcorrect-backend/internal/domain"
)

// MaxTitleLength is the title limit in characters, after normalization.
const MaxTitleLength = 60

// CreateEntryInput holds the parameters for creating an entry.
type CreateEntryInput struct {
	Title        string
	Body         string
	LanguageCode string
	Visibility   domain.Visibility // empty means PUBLIC
	IsDraft      bool
}

// Validate checks all fields and collects all errors.
func (i CreateEntryInput) Validate() error {
	var errs []domain.FieldError

	errs = append(errs, validateTitle(i.Title)...)
	if domain.NormalizeText(i.Body) == "" {
		errs = append(errs, domain.FieldError{Field: "body", Message: "required"})
	}
	if _, ok := domain.NormalizeLanguage(i.LanguageCode); !ok {
		errs = append(errs, domain.FieldError{Field: "language_code", Message: "invalid language code"})
	}
	if i.Visibility != "" && !i.Visibility.IsValid() {
		errs = append(errs, domain.FieldError{Field: "visibility", Message: "must be PUBLIC or MEMBER"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateEntryInput holds the parameters for updating an entry. Nil fields are
// left unchanged.
type UpdateEntryInput struct {
	EntryID      uuid.UUID
	Title        *string
	Body         *string
	LanguageCode *string
	Visibility   *domain.Visibility
	IsDraft      *bool
}

// Validate checks all fields and collects all errors.
func (i UpdateEntryInput) Validate() error {
	var errs []domain.FieldError

	if i.EntryID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "entry_id", Message: "required"})
	}
	if i.Title != nil {
		errs = append(errs, validateTitle(*i.Title)...)
	}
	if i.Body != nil && domain.NormalizeText(*i.Body) == "" {
		errs = append(errs, domain.FieldError{Field: "body", Message: "required"})
	}
	if i.LanguageCode != nil {
		if _, ok := domain.NormalizeLanguage(*i.LanguageCode); !ok {
			errs = append(errs, domain.FieldError{Field: "language_code", Message: "invalid language code"})
		}
	}
	if i.Visibility != nil && !i.Visibility.IsValid() {
		errs = append(errs, domain.FieldError{Field: "visibility", Message: "must be PUBLIC or MEMBER"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ListEntriesInput holds the parameters for listing the caller's entries.
type ListEntriesInput struct {
	LanguageCode *string
	IsDraft      *bool
	IsCorrected  *bool
	Limit        int
	Offset       int
}

// Validate checks all fields and collects all errors.
func (i ListEntriesInput) Validate() error {
	var errs []domain.FieldError
	if i.LanguageCode != nil {
		if _, ok := domain.NormalizeLanguage(*i.LanguageCode); !ok {
			errs = append(errs, domain.FieldError{Field: "language_code", Message: "invalid language code"})
		}
	}
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be non-negative"})
	}
	if i.Limit > 100 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "max 100"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be non-negative"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func validateTitle(raw string) []domain.FieldError {
	title := domain.NormalizeTitle(raw)
	if title == "" {
		return []domain.FieldError{{Field: "title", Message: "required"}}
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return []domain.FieldError{{Field: "title", Message: "max 60 characters"}}
	}
	return nil
}

func (s *Service) checkBodyLength(body string) error {
	if s.maxBodyLength > 0 && utf8.RuneCountInString(body) > s.maxBodyLength {
		return domain.NewValidationError("body", "too long")
	}
	return nil
}
