package api

import (
	"errors"
	"net/http"

	"github.com/listingdesk/backend/internal/user"
)

func (a *API) handleGetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.List(r.Context())
	if err != nil {
		a.log.ErrorContext(r.Context(), "listing users failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list users", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(users),
		"users":   users,
	})
}

func (a *API) handleGetUserStatus(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "Email is required", "")
		return
	}

	u, err := a.users.FindByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found", "")
			return
		}
		a.log.ErrorContext(r.Context(), "user status lookup failed", "email", email, "error", err)
		writeError(w, http.StatusInternalServerError, "User lookup failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"email":   u.Email,
		"status":  u.Status,
	})
}

type updateStatusRequest struct {
	Email  string `json:"email"`
	Status string `json:"status"`
}

func (a *API) handleUpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "Email is required", "")
		return
	}
	if req.Status != user.StatusEnabled && req.Status != user.StatusDisabled {
		writeError(w, http.StatusBadRequest, "Invalid status", "status must be enabled or disabled")
		return
	}

	u, err := a.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found", "")
			return
		}
		a.log.ErrorContext(r.Context(), "user status update failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "User lookup failed", err.Error())
		return
	}

	if err := a.users.UpdateStatus(r.Context(), u.ID, req.Status); err != nil {
		a.log.ErrorContext(r.Context(), "user status update failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "Status update failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"email":   u.Email,
		"status":  req.Status,
	})
}
