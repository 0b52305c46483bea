package rest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/langcorrect-backend/internal/domain"
	"github.com/heartmarshall/langcorrect-backend/internal/service/correction"
)

// Export formats.
const (
	ExportFormatJSON = "json"
	ExportFormatCSV  = "csv"
)

var csvHeader = []string{"Original", "Correction", "Note", "Type", "Corrector"}

type exportSentence struct {
	OriginalSentence string             `json:"original_sentence"`
	Corrections      []exportCorrection `json:"corrections"`
}

type exportCorrection struct {
	CorrectedSentence  string `json:"corrected_sentence"`
	CorrectionFeedback string `json:"correction_feedback"`
	Type               string `json:"type"`
	Corrector          string `json:"corrector"`
}

// Export handles GET /entries/{id}/export?format=json|csv. The response is an
// attachment named after the entry's creation date.
func (h *CorrectionHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = ExportFormatJSON
	}
	if format != ExportFormatJSON && format != ExportFormatCSV {
		handleError(h.log, w, r, domain.NewValidationError("format", "must be json or csv"))
		return
	}

	view, err := h.svc.Export(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	filename := fmt.Sprintf("%s.%s", view.Entry.CreatedAt.Format("2006-01-02"), format)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)

	switch format {
	case ExportFormatCSV:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := writeExportCSV(w, view); err != nil {
			h.log.ErrorContext(r.Context(), "write csv export", slog.String("error", err.Error()))
		}
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		if err := enc.Encode(exportSentences(view)); err != nil {
			h.log.ErrorContext(r.Context(), "write json export", slog.String("error", err.Error()))
		}
	}
}

func exportSentences(view *correction.ExportView) []exportSentence {
	out := make([]exportSentence, 0, len(view.Rows))
	for _, row := range view.Rows {
		s := exportSentence{
			OriginalSentence: row.Original,
			Corrections:      make([]exportCorrection, 0, len(row.Feedback)),
		}
		for _, fb := range row.Feedback {
			s.Corrections = append(s.Corrections, exportCorrection{
				CorrectedSentence:  fb.Correction,
				CorrectionFeedback: fb.Note,
				Type:               fb.Kind.String(),
				Corrector:          fb.CorrectorID.String(),
			})
		}
		out = append(out, s)
	}
	return out
}

// writeExportCSV writes one line per feedback. Sentences without feedback
// produce no lines.
func writeExportCSV(w http.ResponseWriter, view *correction.ExportView) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range view.Rows {
		for _, fb := range row.Feedback {
			if err := cw.Write([]string{row.Original, fb.Correction, fb.Note, fb.Kind.String(), fb.CorrectorID.String()}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
