package httpapi

import (
	"net/http"
	"time"
)

type sessionStatusRequest struct {
	AccountID string `json:"accountId"`
}

type sessionStatusResponse struct {
	AccountID       string  `json:"accountId"`
	HasSnapshot     bool    `json:"hasSnapshot"`
	Restorable      bool    `json:"restorable"`
	AgeHours        float64 `json:"ageHours,omitempty"`
	IsLoggedIn      bool    `json:"isLoggedIn"`
	CredentialCount int     `json:"credentialCount"`
	ExpiresAt       *string `json:"expiresAt,omitempty"`
	LastUsed        *string `json:"lastUsed,omitempty"`
}

func (s *Server) sessionStatus(w http.ResponseWriter, r *http.Request) {
	var req sessionStatusRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if !validAccountID(req.AccountID) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "accountId must be a 10-digit phone number")
		return
	}

	snap, err := s.snapRepo.FindByAccount(r.Context(), req.AccountID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}

	resp := sessionStatusResponse{AccountID: req.AccountID}
	if snap == nil {
		respondJSON(w, http.StatusOK, resp)
		return
	}

	now := time.Now().UTC()
	expires := snap.ExpiresAt.Format(time.RFC3339)
	lastUsed := snap.LastUsed.Format(time.RFC3339)
	resp.HasSnapshot = true
	resp.Restorable = snap.Restorable(now, s.freshnessWindow)
	resp.AgeHours = snap.AgeHours(now)
	resp.IsLoggedIn = snap.IsLoggedIn
	resp.CredentialCount = len(snap.DerivedTokens)
	resp.ExpiresAt = &expires
	resp.LastUsed = &lastUsed
	respondJSON(w, http.StatusOK, resp)
}
