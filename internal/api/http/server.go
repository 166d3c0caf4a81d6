package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	appLogin "github.com/loginrelay/loginrelay/internal/application/login"
	appOtp "github.com/loginrelay/loginrelay/internal/application/otp"
	"github.com/loginrelay/loginrelay/internal/application/registry"
	"github.com/loginrelay/loginrelay/internal/automation"
	domainSnapshot "github.com/loginrelay/loginrelay/internal/domain/snapshot"
	"github.com/loginrelay/loginrelay/internal/infrastructure/sse"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	loginSvc        *appLogin.Orchestrator
	otpSvc          *appOtp.Service
	snapRepo        domainSnapshot.Repository
	reg             *registry.Registry
	hub             *sse.Hub
	freshnessWindow time.Duration
}

func NewServer(
	loginSvc *appLogin.Orchestrator,
	otpSvc *appOtp.Service,
	snapRepo domainSnapshot.Repository,
	reg *registry.Registry,
	hub *sse.Hub,
	freshnessWindow time.Duration,
) *Server {
	return &Server{
		loginSvc:        loginSvc,
		otpSvc:          otpSvc,
		snapRepo:        snapRepo,
		reg:             reg,
		hub:             hub,
		freshnessWindow: freshnessWindow,
	}
}

// Router builds the HTTP router. Login attempts run for minutes, so the
// login route skips the request timeout the short-lived routes carry.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/login", func(r chi.Router) {
			r.Post("/start", s.startLogin)
		})
		r.Get("/events", s.events)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(30 * time.Second))

			r.Route("/otp", func(r chi.Router) {
				r.Post("/", s.submitOtp)
				r.Post("/status", s.otpStatus)
			})
			r.Route("/session", func(r chi.Router) {
				r.Post("/status", s.sessionStatus)
			})
		})
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"activeSessions": s.reg.Len(),
	})
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}

// respondFailure maps the typed failure taxonomy onto HTTP statuses and
// surfaces retryability to the caller.
func respondFailure(w http.ResponseWriter, err error) {
	if errors.Is(err, registry.ErrAlreadyActive) {
		respondError(w, http.StatusConflict, "ALREADY_ACTIVE", err.Error())
		return
	}

	var f *automation.Failure
	if !errors.As(err, &f) {
		respondError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	status := http.StatusInternalServerError
	switch f.Kind {
	case automation.KindValidation:
		status = http.StatusBadRequest
	case automation.KindElementNotFound, automation.KindSubmissionFailed:
		status = http.StatusBadGateway
	case automation.KindTimeout:
		status = http.StatusGatewayTimeout
	case automation.KindStore:
		status = http.StatusInternalServerError
	}

	respondJSON(w, status, map[string]interface{}{
		"error":     string(f.Kind),
		"message":   f.Message,
		"retryable": f.Retryable(),
	})
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func validAccountID(accountID string) bool {
	if len(accountID) != 10 {
		return false
	}
	for _, r := range accountID {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
