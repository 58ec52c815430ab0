package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/exampaper/internal/handler/views"
	"github.com/pavelanni/exampaper/internal/model"
	"github.com/pavelanni/exampaper/internal/validate"
)

type createUserRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=32,alphanum"`
	DisplayName string `json:"display_name" validate:"max=100"`
	Password    string `json:"password" validate:"required,min=8"`
	Role        string `json:"role" validate:"omitempty,oneof=teacher admin"`
}

func (h *Handler) renderAdminUsers(w http.ResponseWriter, r *http.Request, status int, msg string) {
	users, err := h.store.ListUsers()
	if err != nil {
		slog.Error("failed to list users", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	grants, err := h.store.ListAccess(0)
	if err != nil {
		slog.Error("failed to list access grants", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := views.AdminUsersPage(users, grants, msg).Render(r.Context(), w); err != nil {
		slog.Error("render error", "error", err)
	}
}

func (h *Handler) handleAdminUsersPage(w http.ResponseWriter, r *http.Request) {
	h.renderAdminUsers(w, r, http.StatusOK, "")
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	req := createUserRequest{
		Username:    strings.TrimSpace(r.FormValue("username")),
		DisplayName: strings.TrimSpace(r.FormValue("display_name")),
		Password:    r.FormValue("password"),
		Role:        r.FormValue("role"),
	}
	if err := validate.Struct(req); err != nil {
		h.renderAdminUsers(w, r, http.StatusUnprocessableEntity, strings.Join(validate.Messages(err), " "))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if req.DisplayName == "" {
		req.DisplayName = req.Username
	}

	_, err = h.store.CreateUser(model.User{
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hash),
		Role:         model.UserRole(req.Role),
		Active:       true,
	})
	if err != nil {
		h.renderAdminUsers(w, r, http.StatusConflict, "failed to create user: "+err.Error())
		return
	}

	http.Redirect(w, r, h.path("/admin/users"), http.StatusSeeOther)
}

func (h *Handler) handleToggleUserActive(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "userID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		http.Error(w, "invalid user ID", http.StatusBadRequest)
		return
	}

	if self := model.UserFromContext(r.Context()); self != nil && self.ID == id {
		h.renderAdminUsers(w, r, http.StatusBadRequest, "you cannot deactivate yourself")
		return
	}

	if err := h.store.ToggleUserActive(id); err != nil {
		slog.Error("failed to toggle user active", "id", id, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, h.path("/admin/users"), http.StatusSeeOther)
}

func (h *Handler) handleListAccess(w http.ResponseWriter, r *http.Request) {
	var userID int64
	if s := r.URL.Query().Get("user_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid user_id")
			return
		}
		userID = id
	}
	grants, err := h.store.ListAccess(userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if grants == nil {
		grants = []model.AccessGrant{}
	}
	writeJSON(w, http.StatusOK, grants)
}

// handleGrantAccess serves both the JSON API and the admin page form.
func (h *Handler) handleGrantAccess(w http.ResponseWriter, r *http.Request) {
	var g model.AccessGrant
	if isJSON(r) {
		if !decodeAndValidate(w, r, &g) {
			return
		}
	} else {
		id, _ := strconv.ParseInt(r.FormValue("user_id"), 10, 64)
		g = model.AccessGrant{
			UserID:    id,
			Subject:   strings.TrimSpace(r.FormValue("subject")),
			ClassName: strings.TrimSpace(r.FormValue("class_name")),
		}
		if err := validate.Struct(g); err != nil {
			h.renderAdminUsers(w, r, http.StatusUnprocessableEntity, "subject and class are required")
			return
		}
	}

	u, err := h.store.GetUserByID(g.UserID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if u == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	stored, err := h.store.GrantAccess(g)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	slog.Info("granted access", "user", u.Username, "subject", stored.Subject, "class", stored.ClassName, "grant_id", stored.ID)

	if isJSON(r) {
		writeJSON(w, http.StatusCreated, stored)
		return
	}
	http.Redirect(w, r, h.path("/admin/users"), http.StatusSeeOther)
}

// handleRevokeAccess serves DELETE /api/access/{id} and the admin page form.
func (h *Handler) handleRevokeAccess(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "grantID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid grant ID")
		return
	}
	if err := h.store.RevokeAccess(id); err != nil {
		writeStoreError(w, err)
		return
	}
	if r.Method == http.MethodDelete {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, h.path("/admin/users"), http.StatusSeeOther)
}
