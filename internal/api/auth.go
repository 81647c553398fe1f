package api

import (
	"errors"
	"net/http"

	"github.com/listingdesk/backend/internal/auth"
)

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Success bool `json:"success"`
	*auth.Session
}

func (a *API) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	session, err := a.auth.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields), errors.Is(err, auth.ErrWeakPassword):
			writeError(w, http.StatusBadRequest, err.Error(), "")
		case errors.Is(err, auth.ErrEmailTaken):
			writeError(w, http.StatusConflict, err.Error(), "")
		default:
			a.log.ErrorContext(r.Context(), "sign up failed", "email", req.Email, "error", err)
			writeError(w, http.StatusInternalServerError, "Sign up failed", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{Success: true, Session: session})
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	session, err := a.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error(), "")
			return
		}
		a.log.ErrorContext(r.Context(), "sign in failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "Sign in failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Success: true, Session: session})
}
