package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/listingdesk/backend/internal/auth"
	"github.com/listingdesk/backend/internal/listing"
)

type addListingRequest struct {
	ASIN      string `json:"asin"`
	SKU       string `json:"sku"`
	DraftID   string `json:"draft_id"`
	ListingID string `json:"listing_id"`
}

func (a *API) handleAddListing(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var req addListingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.ASIN == "" {
		writeError(w, http.StatusBadRequest, "ASIN is required", "")
		return
	}

	err := a.listings.Upsert(r.Context(), listing.UpsertParams{
		UserID:    claims.UserID,
		ASIN:      req.ASIN,
		SKU:       req.SKU,
		DraftID:   req.DraftID,
		ListingID: req.ListingID,
	})
	if err != nil {
		a.log.ErrorContext(r.Context(), "listing upsert failed", "asin", req.ASIN, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save listing", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"asin":    req.ASIN,
	})
}

func (a *API) handleGetAllListings(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	asins, err := a.listings.ASINs(r.Context(), claims.UserID)
	if err != nil {
		a.log.ErrorContext(r.Context(), "listing enumeration failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list listings", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(asins),
		"asins":   asins,
	})
}

func (a *API) handleGetListing(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	asin := chi.URLParam(r, "id")
	l, err := a.listings.Get(r.Context(), claims.UserID, asin)
	if err != nil {
		if errors.Is(err, listing.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Listing not found", "")
			return
		}
		a.log.ErrorContext(r.Context(), "listing lookup failed", "asin", asin, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load listing", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"listing": l,
	})
}

func (a *API) handleDeleteListing(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	asin := chi.URLParam(r, "id")
	if err := a.listings.Delete(r.Context(), claims.UserID, asin); err != nil {
		if errors.Is(err, listing.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Listing not found", "")
			return
		}
		a.log.ErrorContext(r.Context(), "listing delete failed", "asin", asin, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete listing", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"asin":    asin,
	})
}
