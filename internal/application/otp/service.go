// Package otp implements the intake side of the OTP rendezvous: codes arrive
// over HTTP, are validated, and are stored for a concurrently-polling login
// attempt to consume.
package otp

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/loginrelay/loginrelay/internal/automation"
	domainOtp "github.com/loginrelay/loginrelay/internal/domain/otp"
)

// Config holds intake settings.
type Config struct {
	// CodeLength is the exact number of digits a code must have.
	CodeLength int
	// Retention bounds how long records of any status are kept.
	Retention time.Duration
}

func (c Config) withDefaults() Config {
	if c.CodeLength <= 0 {
		c.CodeLength = 5
	}
	if c.Retention <= 0 {
		c.Retention = 10 * time.Minute
	}
	return c
}

// Service validates and stores incoming one-time codes.
type Service struct {
	repo   domainOtp.Repository
	cfg    Config
	logger zerolog.Logger
}

// NewService creates the intake service.
func NewService(repo domainOtp.Repository, cfg Config, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		cfg:    cfg.withDefaults(),
		logger: logger.With().Str("service", "otp").Logger(),
	}
}

// Submit validates the code and stores it as the account's single pending
// record, superseding any earlier pending code. Validation failures never
// touch the store.
func (s *Service) Submit(ctx context.Context, accountID, code string) (*domainOtp.Record, error) {
	if accountID == "" {
		return nil, automation.NewFailure(automation.KindValidation, "account identifier is required")
	}
	if !allDigits(code) || len(code) != s.cfg.CodeLength {
		return nil, automation.NewFailure(automation.KindValidation, "code must be exactly "+strconv.Itoa(s.cfg.CodeLength)+" digits")
	}

	rec := domainOtp.NewRecord(accountID, code)
	if err := s.repo.CreatePending(ctx, rec); err != nil {
		return nil, automation.WrapFailure(automation.KindStore, "storing code failed", err)
	}
	s.logger.Info().Str("account_id", accountID).Str("record_id", rec.RecordID.String()).Msg("otp stored")
	return rec, nil
}

// Pending returns the account's current pending record, nil when none.
func (s *Service) Pending(ctx context.Context, accountID string) (*domainOtp.Record, error) {
	rec, err := s.repo.FindLatestPending(ctx, accountID)
	if err != nil {
		return nil, automation.WrapFailure(automation.KindStore, "otp lookup failed", err)
	}
	return rec, nil
}

// SweepExpired prunes records older than the retention window.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-s.cfg.Retention)
	n, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Debug().Int("removed", n).Msg("expired otp records pruned")
	}
	return n, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
