package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/langcorrect-backend/internal/diff"
	"github.com/heartmarshall/langcorrect-backend/internal/domain"
	"github.com/heartmarshall/langcorrect-backend/internal/service/correction"
)

type correctionService interface {
	ApplyCorrections(ctx context.Context, input correction.ApplyCorrectionsInput) (*correction.ApplyResult, error)
	ListCorrections(ctx context.Context, entryID uuid.UUID) ([]correction.CorrectorView, error)
	Export(ctx context.Context, entryID uuid.UUID) (*correction.ExportView, error)
}

// CorrectionHandler serves correction and export REST endpoints.
type CorrectionHandler struct {
	svc correctionService
	log *slog.Logger
}

// NewCorrectionHandler creates a CorrectionHandler.
func NewCorrectionHandler(svc correctionService, logger *slog.Logger) *CorrectionHandler {
	return &CorrectionHandler{svc: svc, log: logger.With("handler", "correction")}
}

type correctionItemRequest struct {
	SentenceRowID string `json:"sentence_row_id"`
	CorrectedText string `json:"corrected_text"`
	Note          string `json:"note"`
	Action        string `json:"action"`
}

type applyCorrectionsRequest struct {
	Items                []correctionItemRequest `json:"items"`
	OverallComment       *string                 `json:"overall_comment"`
	DeleteOverallComment bool                    `json:"delete_overall_comment"`
}

type applyCorrectionsResponse struct {
	Created        int     `json:"created"`
	Updated        int     `json:"updated"`
	Withdrawn      int     `json:"withdrawn"`
	CommentCreated bool    `json:"comment_created"`
	CommentUpdated bool    `json:"comment_updated"`
	CommentCleared bool    `json:"comment_cleared"`
	IsCorrected    bool    `json:"is_corrected"`
	Notification   *string `json:"notification,omitempty"`
}

type correctorResponse struct {
	CorrectorID    string             `json:"corrector_id"`
	OverallComment *string            `json:"overall_comment,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	Feedback       []feedbackResponse `json:"feedback"`
}

type feedbackResponse struct {
	ID            string          `json:"id"`
	SentenceRowID string          `json:"sentence_row_id"`
	Original      string          `json:"original"`
	Position      int             `json:"position"`
	RowActive     bool            `json:"row_active"`
	Type          string          `json:"type"`
	Correction    string          `json:"correction,omitempty"`
	Note          string          `json:"note,omitempty"`
	Fragments     []diff.Fragment `json:"fragments,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Apply handles POST /entries/{id}/corrections.
func (h *CorrectionHandler) Apply(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	var req applyCorrectionsRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	input := correction.ApplyCorrectionsInput{
		EntryID:              id,
		OverallComment:       req.OverallComment,
		DeleteOverallComment: req.DeleteOverallComment,
		Items:                make([]correction.CorrectionItem, 0, len(req.Items)),
	}
	var errs []domain.FieldError
	for i, item := range req.Items {
		rowID, parseErr := uuid.Parse(item.SentenceRowID)
		if parseErr != nil {
			errs = append(errs, domain.FieldError{Field: itemField(i, "sentence_row_id"), Message: "invalid uuid"})
			continue
		}
		input.Items = append(input.Items, correction.CorrectionItem{
			RowID:         rowID,
			Action:        domain.CorrectionAction(item.Action),
			CorrectedText: item.CorrectedText,
			Note:          item.Note,
		})
	}
	if len(errs) > 0 {
		handleError(h.log, w, r, domain.NewValidationErrors(errs))
		return
	}

	res, err := h.svc.ApplyCorrections(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := applyCorrectionsResponse{
		Created:        res.Created,
		Updated:        res.Updated,
		Withdrawn:      res.Withdrawn,
		CommentCreated: res.CommentCreated,
		CommentUpdated: res.CommentUpdated,
		CommentCleared: res.CommentCleared,
		IsCorrected:    res.IsCorrected,
	}
	if res.Notification != nil {
		typ := res.Notification.Type.String()
		resp.Notification = &typ
	}
	writeJSON(w, http.StatusOK, resp)
}

// List handles GET /entries/{id}/corrections.
func (h *CorrectionHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	views, err := h.svc.ListCorrections(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]correctorResponse, 0, len(views))
	for _, v := range views {
		cr := correctorResponse{
			CorrectorID:    v.CorrectorID.String(),
			OverallComment: v.OverallComment,
			CreatedAt:      v.CreatedAt,
			UpdatedAt:      v.UpdatedAt,
			Feedback:       make([]feedbackResponse, 0, len(v.Feedback)),
		}
		for _, rf := range v.Feedback {
			cr.Feedback = append(cr.Feedback, feedbackResponse{
				ID:            rf.Feedback.ID.String(),
				SentenceRowID: rf.Row.ID.String(),
				Original:      rf.Row.Text,
				Position:      rf.Row.Position,
				RowActive:     rf.Row.IsActive(),
				Type:          rf.Feedback.Kind.String(),
				Correction:    rf.Feedback.Correction,
				Note:          rf.Feedback.Note,
				Fragments:     rf.Fragments,
				UpdatedAt:     rf.Feedback.UpdatedAt,
			})
		}
		resp = append(resp, cr)
	}
	writeJSON(w, http.StatusOK, resp)
}

func itemField(i int, name string) string {
	return fmt.Sprintf("items[%d].%s", i, name)
}
