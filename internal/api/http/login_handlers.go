package httpapi

import (
	"net/http"
)

type startLoginRequest struct {
	AccountID string `json:"accountId"`
}

func (s *Server) startLogin(w http.ResponseWriter, r *http.Request) {
	var req startLoginRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if !validAccountID(req.AccountID) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "accountId must be a 10-digit phone number")
		return
	}

	res, err := s.loginSvc.Start(r.Context(), req.AccountID)
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}
