package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/langcorrect-backend/internal/domain"
	"github.com/heartmarshall/langcorrect-backend/internal/service/entry"
)

type entryService interface {
	CreateEntry(ctx context.Context, input entry.CreateEntryInput) (*domain.Entry, error)
	UpdateEntry(ctx context.Context, input entry.UpdateEntryInput) (*domain.Entry, error)
	DeleteEntry(ctx context.Context, entryID uuid.UUID) error
	GetEntry(ctx context.Context, entryID uuid.UUID) (*domain.Entry, error)
	ListEntries(ctx context.Context, input entry.ListEntriesInput) ([]domain.Entry, int, error)
}

// EntryHandler serves entry REST endpoints.
type EntryHandler struct {
	svc entryService
	log *slog.Logger
}

// NewEntryHandler creates an EntryHandler.
func NewEntryHandler(svc entryService, logger *slog.Logger) *EntryHandler {
	return &EntryHandler{svc: svc, log: logger.With("handler", "entry")}
}

type createEntryRequest struct {
	Title        string `json:"title"`
	Body         string `json:"body"`
	LanguageCode string `json:"language_code"`
	Visibility   string `json:"visibility"`
	IsDraft      bool   `json:"is_draft"`
}

type updateEntryRequest struct {
	Title        *string `json:"title"`
	Body         *string `json:"body"`
	LanguageCode *string `json:"language_code"`
	Visibility   *string `json:"visibility"`
	IsDraft      *bool   `json:"is_draft"`
}

type entryResponse struct {
	ID           string        `json:"id"`
	AuthorID     string        `json:"author_id"`
	Title        string        `json:"title"`
	Body         string        `json:"body"`
	LanguageCode string        `json:"language_code"`
	Visibility   string        `json:"visibility"`
	IsDraft      bool          `json:"is_draft"`
	IsCorrected  bool          `json:"is_corrected"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Rows         []rowResponse `json:"rows,omitempty"`
}

type rowResponse struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Position int    `json:"position"`
	Status   string `json:"status"`
}

type entryListResponse struct {
	Items []entryResponse `json:"items"`
	Total int             `json:"total"`
}

// Create handles POST /entries.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	e, err := h.svc.CreateEntry(r.Context(), entry.CreateEntryInput{
		Title:        req.Title,
		Body:         req.Body,
		LanguageCode: req.LanguageCode,
		Visibility:   domain.Visibility(req.Visibility),
		IsDraft:      req.IsDraft,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEntryResponse(e))
}

// Get handles GET /entries/{id}.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	e, err := h.svc.GetEntry(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toEntryResponse(e))
}

// Update handles POST /entries/{id}.
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	var req updateEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	input := entry.UpdateEntryInput{
		EntryID:      id,
		Title:        req.Title,
		Body:         req.Body,
		LanguageCode: req.LanguageCode,
		IsDraft:      req.IsDraft,
	}
	if req.Visibility != nil {
		v := domain.Visibility(*req.Visibility)
		input.Visibility = &v
	}

	e, err := h.svc.UpdateEntry(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toEntryResponse(e))
}

// Delete handles DELETE /entries/{id}.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if err := h.svc.DeleteEntry(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /entries with optional language, draft, corrected, limit
// and offset query parameters.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var input entry.ListEntriesInput
	var errs []domain.FieldError

	if v := q.Get("language"); v != "" {
		input.LanguageCode = &v
	}
	for name, dst := range map[string]**bool{"draft": &input.IsDraft, "corrected": &input.IsCorrected} {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, domain.FieldError{Field: name, Message: "must be a boolean"})
				continue
			}
			*dst = &b
		}
	}
	for name, dst := range map[string]*int{"limit": &input.Limit, "offset": &input.Offset} {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, domain.FieldError{Field: name, Message: "must be an integer"})
				continue
			}
			*dst = n
		}
	}
	if len(errs) > 0 {
		handleError(h.log, w, r, domain.NewValidationErrors(errs))
		return
	}

	entries, total, err := h.svc.ListEntries(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := entryListResponse{Items: make([]entryResponse, 0, len(entries)), Total: total}
	for i := range entries {
		resp.Items = append(resp.Items, toEntryResponse(&entries[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func toEntryResponse(e *domain.Entry) entryResponse {
	resp := entryResponse{
		ID:           e.ID.String(),
		AuthorID:     e.AuthorID.String(),
		Title:        e.Title,
		Body:         e.Body,
		LanguageCode: e.LanguageCode,
		Visibility:   e.Visibility.String(),
		IsDraft:      e.IsDraft,
		IsCorrected:  e.IsCorrected,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	for _, row := range e.Rows {
		resp.Rows = append(resp.Rows, rowResponse{
			ID:       row.ID.String(),
			Text:     row.Text,
			Position: row.Position,
			Status:   row.Status.String(),
		})
	}
	return resp
}
