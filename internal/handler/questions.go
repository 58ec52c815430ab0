package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/exampaper/internal/model"
	"github.com/pavelanni/exampaper/internal/questionbank"
)

func (h *Handler) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.QuestionFilter{
		Subject:    q.Get("subject"),
		ClassName:  q.Get("class_name"),
		Unit:       q.Get("unit"),
		Difficulty: q.Get("difficulty"),
	}
	if u := model.UserFromContext(r.Context()); u.Role != model.UserRoleAdmin {
		filter.UserID = u.ID
	}
	questions, err := h.store.ListQuestions(filter)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if questions == nil {
		questions = []model.QuestionRecord{}
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *Handler) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var qi model.QuestionImport
	if !decodeAndValidate(w, r, &qi) {
		return
	}
	if !h.requireAccess(w, model.UserFromContext(r.Context()), qi.Subject, qi.ClassName) {
		return
	}
	rec := qi.Record()
	id, err := h.store.InsertQuestion(rec)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	saved, err := h.store.GetQuestion(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *Handler) handleImportQuestions(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "file too large")
		return
	}

	file, header, err := r.FormFile("questions_file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	report, err := questionbank.Import(h.store, header.Filename, data)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	status := http.StatusOK
	if report.Status == questionbank.StatusImported {
		status = http.StatusCreated
	}
	writeJSON(w, status, report)
}

func (h *Handler) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "questionID")
	if err := h.store.DeleteQuestion(id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type generateResponse struct {
	Questions []model.QuestionRecord `json:"questions"`
	Saved     bool                   `json:"saved"`
}

func (h *Handler) handleGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	if h.gen == nil {
		writeError(w, http.StatusServiceUnavailable, "question generation is not configured")
		return
	}
	var req model.GenerateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if !h.requireAccess(w, model.UserFromContext(r.Context()), req.Subject, req.ClassName) {
		return
	}

	questions, err := h.gen.GenerateQuestions(r.Context(), req)
	if err != nil {
		slog.Error("question generation failed", "subject", req.Subject, "error", err)
		writeError(w, http.StatusBadGateway, "question generation failed: "+err.Error())
		return
	}

	save, _ := strconv.ParseBool(r.URL.Query().Get("save"))
	if save {
		for i := range questions {
			id, err := h.store.InsertQuestion(questions[i])
			if err != nil {
				writeStoreError(w, err)
				return
			}
			questions[i].ID = id
		}
		slog.Info("saved generated questions", "subject", req.Subject, "class", req.ClassName, "count", len(questions))
	}
	writeJSON(w, http.StatusOK, generateResponse{Questions: questions, Saved: save})
}
