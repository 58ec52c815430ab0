package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/exampaper/internal/model"
)

// visiblePapers returns every paper for admins and the granted ones for teachers.
func (h *Handler) visiblePapers(u *model.User) ([]model.Paper, error) {
	if u.Role == model.UserRoleAdmin {
		return h.store.ListPapers()
	}
	return h.store.ListPapersForUser(u.ID)
}

// canAccess reports whether u may see papers of a subject and class.
func (h *Handler) canAccess(u *model.User, subject, className string) (bool, error) {
	if u.Role == model.UserRoleAdmin {
		return true, nil
	}
	return h.store.HasAccess(u.ID, subject, className)
}

// requireAccess writes 403 and returns false when u holds no grant for the
// subject and class.
func (h *Handler) requireAccess(w http.ResponseWriter, u *model.User, subject, className string) bool {
	ok, err := h.canAccess(u, subject, className)
	if err != nil {
		writeStoreError(w, err)
		return false
	}
	if !ok {
		writeError(w, http.StatusForbidden, "no access to "+subject+" / "+className)
		return false
	}
	return true
}

// bankQuestions loads questions by ID, checking each against u's grants.
func (h *Handler) bankQuestions(w http.ResponseWriter, u *model.User, ids []string) ([]model.QuestionRecord, bool) {
	questions := make([]model.QuestionRecord, 0, len(ids))
	for _, id := range ids {
		q, err := h.store.GetQuestion(id)
		if err != nil {
			writeStoreError(w, err)
			return nil, false
		}
		if !h.requireAccess(w, u, q.Subject, q.ClassName) {
			return nil, false
		}
		questions = append(questions, q)
	}
	return questions, true
}

func paperID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "paperID"), 10, 64)
	return id, err == nil
}

func (h *Handler) handleListPapers(w http.ResponseWriter, r *http.Request) {
	papers, err := h.visiblePapers(model.UserFromContext(r.Context()))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if papers == nil {
		papers = []model.Paper{}
	}
	writeJSON(w, http.StatusOK, papers)
}

func (h *Handler) handleCreatePaper(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePaperRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	user := model.UserFromContext(r.Context())
	if !h.requireAccess(w, user, req.Subject, req.ClassName) {
		return
	}
	if _, ok := h.bankQuestions(w, user, req.QuestionIDs); !ok {
		return
	}

	id, err := h.store.CreatePaper(model.Paper{
		Title:            req.Title,
		Subject:          req.Subject,
		ClassName:        req.ClassName,
		Chapter:          req.Chapter,
		Instructions:     req.Instructions,
		TimeLimitMinutes: req.TimeLimitMinutes,
		TotalMarks:       req.TotalMarks,
		QuestionIDs:      req.QuestionIDs,
		CreatedBy:        user.ID,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	p, err := h.store.GetPaper(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// loadPaper fetches the paper named in the URL and checks the user may see
// it. It writes the error response itself.
func (h *Handler) loadPaper(w http.ResponseWriter, r *http.Request) (model.Paper, []model.QuestionRecord, bool) {
	id, ok := paperID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid paper ID")
		return model.Paper{}, nil, false
	}
	p, questions, err := h.store.PaperForExport(id)
	if err != nil {
		writeStoreError(w, err)
		return p, nil, false
	}
	allowed, err := h.canAccess(model.UserFromContext(r.Context()), p.Subject, p.ClassName)
	if err != nil {
		writeStoreError(w, err)
		return p, nil, false
	}
	if !allowed {
		writeError(w, http.StatusForbidden, "forbidden")
		return p, nil, false
	}
	return p, questions, true
}

type paperResponse struct {
	model.Paper
	Questions []model.QuestionRecord `json:"questions"`
}

func (h *Handler) handleGetPaper(w http.ResponseWriter, r *http.Request) {
	p, questions, ok := h.loadPaper(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, paperResponse{Paper: p, Questions: questions})
}

func (h *Handler) handleDeletePaper(w http.ResponseWriter, r *http.Request) {
	id, ok := paperID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid paper ID")
		return
	}
	if err := h.store.DeletePaper(id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
