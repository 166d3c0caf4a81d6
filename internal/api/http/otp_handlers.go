package httpapi

import (
	"net/http"
	"time"

	"github.com/loginrelay/loginrelay/internal/automation"
)

type submitOtpRequest struct {
	AccountID string `json:"accountId"`
	Otp       string `json:"otp"`
}

type submitOtpResponse struct {
	AccountID string `json:"accountId"`
	RecordID  string `json:"recordId"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

func (s *Server) submitOtp(w http.ResponseWriter, r *http.Request) {
	var req submitOtpRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if !validAccountID(req.AccountID) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "accountId must be a 10-digit phone number")
		return
	}

	rec, err := s.otpSvc.Submit(r.Context(), req.AccountID, req.Otp)
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, submitOtpResponse{
		AccountID: rec.AccountID,
		RecordID:  rec.RecordID.String(),
		Status:    string(rec.Status),
		CreatedAt: rec.CreatedAt.Format(time.RFC3339),
	})
}

type otpStatusRequest struct {
	AccountID string `json:"accountId"`
}

type otpStatusResponse struct {
	AccountID     string  `json:"accountId"`
	AttemptActive bool    `json:"attemptActive"`
	CurrentURL    string  `json:"currentUrl,omitempty"`
	OnOtpScreen   bool    `json:"onOtpScreen"`
	Pending       bool    `json:"pending"`
	RecordID      *string `json:"recordId,omitempty"`
	CreatedAt     *string `json:"createdAt,omitempty"`
}

func (s *Server) otpStatus(w http.ResponseWriter, r *http.Request) {
	var req otpStatusRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if !validAccountID(req.AccountID) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "accountId must be a 10-digit phone number")
		return
	}

	drv, active := s.reg.Lookup(req.AccountID)

	rec, err := s.otpSvc.Pending(r.Context(), req.AccountID)
	if err != nil {
		respondFailure(w, err)
		return
	}

	resp := otpStatusResponse{
		AccountID:     req.AccountID,
		AttemptActive: active,
		Pending:       rec != nil,
	}
	if active {
		if url, err := drv.CurrentURL(r.Context()); err == nil {
			resp.CurrentURL = url
		}
		if el, err := drv.FindFirst(r.Context(), automation.OtpInputSelectors); err == nil && el != nil {
			resp.OnOtpScreen = true
		}
	}
	if rec != nil {
		id := rec.RecordID.String()
		created := rec.CreatedAt.Format(time.RFC3339)
		resp.RecordID = &id
		resp.CreatedAt = &created
	}
	respondJSON(w, http.StatusOK, resp)
}
