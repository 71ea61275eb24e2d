package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/auth"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/model"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/store"
)

// UsersPage handles GET /admin/users (admin only).
func (s *Server) UsersPage(w http.ResponseWriter, r *http.Request) {
	s.renderUsers(w, r, http.StatusOK, "", "")
}

// UserCreateSubmit handles POST /admin/users (admin only).
func (s *Server) UserCreateSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")
	role := r.FormValue("role")

	if username == "" || password == "" || !model.ValidRole(role) {
		s.renderUsers(w, r, http.StatusBadRequest, "Enter a username, password and role.", "")
		return
	}
	if err := model.ValidatePassword(password); err != nil {
		s.renderUsers(w, r, http.StatusBadRequest, err.Error(), "")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.renderUsers(w, r, http.StatusInternalServerError, "Could not create the account.", "")
		return
	}

	if _, err := store.CreateUser(r.Context(), s.DB, username, hash, role); err != nil {
		s.renderUsers(w, r, http.StatusConflict, "That username is already taken.", "")
		return
	}

	slog.Info("user created", "user", GetWebClaims(r.Context()).Username, "new_user", username, "role", role)
	s.renderUsers(w, r, http.StatusOK, "", "Account created.")
}

// UserDeleteSubmit handles POST /admin/users/{id}/delete (admin only).
func (s *Server) UserDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.renderUsers(w, r, http.StatusBadRequest, "Invalid account.", "")
		return
	}
	if id == claims.UserID {
		s.renderUsers(w, r, http.StatusBadRequest, "You cannot delete your own account.", "")
		return
	}

	if err := store.DeleteUser(r.Context(), s.DB, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.renderUsers(w, r, http.StatusNotFound, "Account not found.", "")
			return
		}
		slog.Error("failed to delete user", "error", err)
		s.renderUsers(w, r, http.StatusInternalServerError, "Could not delete the account.", "")
		return
	}

	slog.Info("user deleted", "user", claims.Username, "deleted_id", id)
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

func (s *Server) renderUsers(w http.ResponseWriter, r *http.Request, status int, errMsg, success string) {
	users, err := store.ListUsers(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list users", "error", err)
	}

	data := struct {
		PageData
		Users []model.User
		Roles []string
	}{
		PageData: s.page(r, "Accounts"),
		Users:    users,
		Roles:    []string{model.RoleEditor, model.RoleAdmin},
	}
	data.Error = errMsg
	data.Success = success
	s.Templates.RenderStatus(w, status, "users.html", &data)
}
