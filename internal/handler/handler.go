package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/exampaper/internal/handler/views"
	"github.com/pavelanni/exampaper/internal/model"
	"github.com/pavelanni/exampaper/internal/pdfexport"
	"github.com/pavelanni/exampaper/internal/store"
)

// Config holds the HTTP settings that vary per deployment.
type Config struct {
	BasePath      string // URL prefix for sub-path deployments (e.g. "/de")
	SecureCookies bool
}

// QuestionGenerator produces new questions for the bank.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, req model.GenerateRequest) ([]model.QuestionRecord, error)
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store    *store.Store
	gen      QuestionGenerator
	exporter *pdfexport.Exporter
	config   Config
}

// New creates a new Handler. gen may be nil, which disables generation.
func New(s *store.Store, gen QuestionGenerator, exp *pdfexport.Exporter, cfg Config) *Handler {
	cfg.BasePath = strings.TrimRight(cfg.BasePath, "/")
	return &Handler{store: s, gen: gen, exporter: exp, config: cfg}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.csrfMiddleware)
		r.Get("/login", h.handleLoginPage)
		r.Post("/login", h.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Post("/logout", h.handleLogout)
			r.Get("/", h.handleIndex)

			r.Route("/api", func(r chi.Router) {
				r.Get("/questions", h.handleListQuestions)
				r.Post("/questions", h.handleCreateQuestion)
				r.Post("/questions/generate", h.handleGenerateQuestions)

				r.Get("/papers", h.handleListPapers)
				r.Post("/papers", h.handleCreatePaper)
				r.Get("/papers/{paperID}", h.handleGetPaper)
				r.Get("/papers/{paperID}/export/{kind}", h.handleExportPaper)

				r.Post("/export/{kind}", h.handleExport)

				r.Group(func(r chi.Router) {
					r.Use(requireRole(model.UserRoleAdmin))
					r.Post("/questions/import", h.handleImportQuestions)
					r.Delete("/questions/{questionID}", h.handleDeleteQuestion)
					r.Delete("/papers/{paperID}", h.handleDeletePaper)
					r.Get("/access", h.handleListAccess)
					r.Post("/access", h.handleGrantAccess)
					r.Delete("/access/{grantID}", h.handleRevokeAccess)
				})
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(requireRole(model.UserRoleAdmin))
				r.Get("/users", h.handleAdminUsersPage)
				r.Post("/users", h.handleCreateUser)
				r.Post("/users/{userID}/toggle", h.handleToggleUserActive)
				r.Post("/access", h.handleGrantAccess)
				r.Post("/access/{grantID}/revoke", h.handleRevokeAccess)
			})
		})
	})
}

// BasePathMiddleware stores the configured base path in the request context.
func (h *Handler) BasePathMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := model.ContextWithBasePath(r.Context(), h.config.BasePath)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) path(p string) string {
	return h.config.BasePath + p
}

func (h *Handler) cookiePath() string {
	if h.config.BasePath != "" {
		return h.config.BasePath + "/"
	}
	return "/"
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	papers, err := h.visiblePapers(model.UserFromContext(r.Context()))
	if err != nil {
		slog.Error("failed to list papers", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	count, err := h.store.QuestionCount()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.IndexPage(papers, count).Render(r.Context(), w); err != nil {
		slog.Error("render error", "error", err)
	}
}
