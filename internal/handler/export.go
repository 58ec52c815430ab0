package handler

import (
	"bytes"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	appI18n "github.com/pavelanni/exampaper/internal/i18n"
	"github.com/pavelanni/exampaper/internal/model"
	"github.com/pavelanni/exampaper/internal/pdfexport"
)

// exportRequest is the body of an ad-hoc export. Questions are either sent
// inline or picked from the bank by ID.
type exportRequest struct {
	Questions           []model.QuestionRecord `json:"questions"`
	QuestionIDs         []string               `json:"question_ids" validate:"omitempty,dive,required"`
	Title               string                 `json:"title" validate:"max=200"`
	Subject             string                 `json:"subject"`
	ClassName           string                 `json:"class_name"`
	Chapter             string                 `json:"chapter"`
	IncludeAnswers      bool                   `json:"include_answers"`
	IncludeExplanations bool                   `json:"include_explanations"`
	Instructions        []string               `json:"instructions"`
	TimeLimitMinutes    int                    `json:"time_limit_minutes" validate:"gte=0"`
	TotalMarks          int                    `json:"total_marks" validate:"gte=0"`
	FileName            string                 `json:"file_name" validate:"omitempty,max=200"`
}

func parseKind(w http.ResponseWriter, r *http.Request) (pdfexport.Mode, bool) {
	mode, err := pdfexport.ParseMode(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return mode, false
	}
	return mode, true
}

func (h *Handler) handleExportPaper(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseKind(w, r)
	if !ok {
		return
	}
	p, questions, ok := h.loadPaper(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	answers, _ := strconv.ParseBool(q.Get("answers"))
	explanations, _ := strconv.ParseBool(q.Get("explanations"))

	h.renderPDF(w, r, mode, questions, pdfexport.Options{
		Title:               p.Title,
		IncludeAnswers:      answers,
		IncludeExplanations: explanations,
		SubjectLabel:        p.Subject,
		ClassLabel:          p.ClassName,
		ChapterLabel:        p.Chapter,
		Instructions:        p.Instructions,
		TimeLimitMinutes:    p.TimeLimitMinutes,
		TotalMarks:          p.TotalMarks,
	})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseKind(w, r)
	if !ok {
		return
	}
	var req exportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	questions := req.Questions
	if len(req.QuestionIDs) > 0 {
		var ok bool
		questions, ok = h.bankQuestions(w, model.UserFromContext(r.Context()), req.QuestionIDs)
		if !ok {
			return
		}
	}

	h.renderPDF(w, r, mode, questions, pdfexport.Options{
		Title:               req.Title,
		IncludeAnswers:      req.IncludeAnswers,
		IncludeExplanations: req.IncludeExplanations,
		SubjectLabel:        req.Subject,
		ClassLabel:          req.ClassName,
		ChapterLabel:        req.Chapter,
		Instructions:        req.Instructions,
		TimeLimitMinutes:    req.TimeLimitMinutes,
		TotalMarks:          req.TotalMarks,
		OutputFileName:      safeFileName(req.FileName),
	})
}

// renderPDF renders the whole document before sending any of it, so a failed
// export turns into a JSON error instead of a truncated attachment.
func (h *Handler) renderPDF(w http.ResponseWriter, r *http.Request, mode pdfexport.Mode, questions []model.QuestionRecord, opts pdfexport.Options) {
	labels := appI18n.PDFLabels(r.Context())
	opts.Labels = &labels

	var buf bytes.Buffer
	res, err := h.exporter.Render(r.Context(), &buf, mode, questions, opts)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Page-Count", strconv.Itoa(res.Pages))
	if len(res.Skipped) > 0 {
		w.Header().Set("X-Skipped-Questions", strings.Join(res.Skipped, ","))
	}
	_, _ = w.Write(buf.Bytes())
}

// safeFileName strips directories from a client-supplied name and makes sure
// it ends in .pdf. An empty name stays empty so the default is used.
func safeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		name += ".pdf"
	}
	return name
}
