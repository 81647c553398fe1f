package api

import (
	"errors"
	"net/http"

	"github.com/listingdesk/backend/internal/subscription"
)

type emailRequest struct {
	Email string `json:"email"`
}

type checkSubscriptionResponse struct {
	Success bool `json:"success"`
	subscription.Entitlement
}

func (a *API) handleCheckSubscription(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	ent, err := a.subscriptions.Check(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, subscription.ErrEmailRequired) {
			writeError(w, http.StatusBadRequest, "Email is required", "")
			return
		}
		a.log.ErrorContext(r.Context(), "subscription check failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "Subscription check failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, checkSubscriptionResponse{
		Success:     true,
		Entitlement: ent,
	})
}

type renewRequest struct {
	Email   string `json:"email"`
	OrderID string `json:"order_id"`
}

func (a *API) handleRenewSubscription(w http.ResponseWriter, r *http.Request) {
	var req renewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	result, err := a.subscriptions.Renew(r.Context(), req.Email, req.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, subscription.ErrEmailRequired):
			writeError(w, http.StatusBadRequest, "Email is required", "")
		case errors.Is(err, subscription.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "User not found", "")
		default:
			a.log.ErrorContext(r.Context(), "subscription renewal failed", "email", req.Email, "error", err)
			writeError(w, http.StatusInternalServerError, "Subscription renewal failed", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type sweepResponse struct {
	Success bool `json:"success"`
	subscription.SweepResult
}

// handleExpireSubscriptions runs one manual sweep. The background sweeper
// covers the steady state; this route exists for operators.
func (a *API) handleExpireSubscriptions(w http.ResponseWriter, r *http.Request) {
	result, err := a.subscriptions.ExpireDue(r.Context())
	if err != nil {
		a.log.ErrorContext(r.Context(), "manual expiry sweep failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Expiry sweep failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, sweepResponse{
		Success:     true,
		SweepResult: result,
	})
}
