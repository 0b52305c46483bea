package correction

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/langcorrect-backend/internal/domain"
)

// SubmitFeedbackInput holds one judgment on one sentence row.
type SubmitFeedbackInput struct {
	RowID      uuid.UUID
	Kind       domain.FeedbackKind
	Correction string
	Note       string
}

// Validate checks all fields and collects all errors.
func (i SubmitFeedbackInput) Validate(l Limits) error {
	var errs []domain.FieldError
	if i.RowID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "sentence_row_id", Message: "required"})
	}
	errs = append(errs, validatePayload("", i.Kind, i.Correction, i.Note, l)...)
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// CorrectionItem is one operation of a correction batch.
type CorrectionItem struct {
	RowID         uuid.UUID
	Action        domain.CorrectionAction
	CorrectedText string
	Note          string
}

// ApplyCorrectionsInput is a corrector's batch of row operations plus an
// optional overall comment change.
type ApplyCorrectionsInput struct {
	EntryID              uuid.UUID
	Items                []CorrectionItem
	OverallComment       *string
	DeleteOverallComment bool
}

// Validate checks all fields and collects all errors.
func (i ApplyCorrectionsInput) Validate(l Limits) error {
	var errs []domain.FieldError

	if i.EntryID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "entry_id", Message: "required"})
	}

	hasComment := i.OverallComment != nil && strings.TrimSpace(*i.OverallComment) != ""
	if len(i.Items) == 0 && !hasComment && !i.DeleteOverallComment {
		errs = append(errs, domain.FieldError{Field: "items", Message: "nothing to apply"})
	}
	if l.MaxBatchItems > 0 && len(i.Items) > l.MaxBatchItems {
		errs = append(errs, domain.FieldError{Field: "items", Message: fmt.Sprintf("max %d items", l.MaxBatchItems)})
	}

	seen := make(map[uuid.UUID]struct{}, len(i.Items))
	for n, item := range i.Items {
		prefix := fmt.Sprintf("items[%d].", n)
		if item.RowID == uuid.Nil {
			errs = append(errs, domain.FieldError{Field: prefix + "sentence_row_id", Message: "required"})
		} else if _, dup := seen[item.RowID]; dup {
			errs = append(errs, domain.FieldError{Field: prefix + "sentence_row_id", Message: "duplicate row in batch"})
		}
		seen[item.RowID] = struct{}{}

		switch item.Action {
		case domain.CorrectionActionPerfect:
			errs = append(errs, validatePayload(prefix, domain.FeedbackKindPerfect, item.CorrectedText, item.Note, l)...)
		case domain.CorrectionActionCorrected:
			errs = append(errs, validatePayload(prefix, domain.FeedbackKindCorrected, item.CorrectedText, item.Note, l)...)
		case domain.CorrectionActionDelete:
		default:
			errs = append(errs, domain.FieldError{Field: prefix + "action", Message: "must be perfect, corrected or delete"})
		}
	}

	if hasComment && i.DeleteOverallComment {
		errs = append(errs, domain.FieldError{Field: "overall_comment", Message: "cannot set and delete in one batch"})
	}
	if i.OverallComment != nil && l.MaxCommentLength > 0 && utf8.RuneCountInString(strings.TrimSpace(*i.OverallComment)) > l.MaxCommentLength {
		errs = append(errs, domain.FieldError{Field: "overall_comment", Message: fmt.Sprintf("max %d characters", l.MaxCommentLength)})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// validatePayload enforces the kind/payload rules: PERFECT carries no text,
// CORRECTED carries a non-empty correction.
func validatePayload(prefix string, kind domain.FeedbackKind, correction, note string, l Limits) []domain.FieldError {
	var errs []domain.FieldError
	correction = domain.NormalizeText(correction)
	note = domain.NormalizeText(note)

	switch kind {
	case domain.FeedbackKindPerfect:
		if correction != "" {
			errs = append(errs, domain.FieldError{Field: prefix + "corrected_text", Message: "must be empty for perfect"})
		}
		if note != "" {
			errs = append(errs, domain.FieldError{Field: prefix + "note", Message: "must be empty for perfect"})
		}
	case domain.FeedbackKindCorrected:
		if correction == "" {
			errs = append(errs, domain.FieldError{Field: prefix + "corrected_text", Message: "required"})
		}
		if l.MaxCorrectionLength > 0 && utf8.RuneCountInString(correction) > l.MaxCorrectionLength {
			errs = append(errs, domain.FieldError{Field: prefix + "corrected_text", Message: fmt.Sprintf("max %d characters", l.MaxCorrectionLength)})
		}
		if l.MaxNoteLength > 0 && utf8.RuneCountInString(note) > l.MaxNoteLength {
			errs = append(errs, domain.FieldError{Field: prefix + "note", Message: fmt.Sprintf("max %d characters", l.MaxNoteLength)})
		}
	default:
		errs = append(errs, domain.FieldError{Field: prefix + "kind", Message: "must be PERFECT or CORRECTED"})
	}
	return errs
}
