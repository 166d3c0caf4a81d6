// Package rendezvous bridges an externally-delivered OTP with the browser
// flow blocked waiting for it. There is no call path between the two: the
// poller watches the store and unblocks the UI exactly once per code.
package rendezvous

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	appSnapshot "github.com/loginrelay/loginrelay/internal/application/snapshot"
	"github.com/loginrelay/loginrelay/internal/automation"
	"github.com/loginrelay/loginrelay/internal/domain/otp"
)

// Config bounds the poll loop and the UI steps it drives.
type Config struct {
	// PollInterval is the store polling cadence.
	PollInterval time.Duration
	// MaxAttempts is the hard ceiling on poll ticks.
	MaxAttempts int
	// TypeDelay is the per-character pacing when entering the code.
	TypeDelay time.Duration
	// NavTimeout bounds the navigation wait after confirmation.
	NavTimeout time.Duration
	// SettleDelay is the pause for background validation after typing.
	SettleDelay time.Duration
	// LandingURL is where the flow navigates after a verified login.
	LandingURL string
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = 5 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 20
	}
	if c.TypeDelay <= 0 {
		c.TypeDelay = time.Second
	}
	if c.NavTimeout <= 0 {
		c.NavTimeout = 15 * time.Second
	}
	return c
}

// Result reports a successful rendezvous.
type Result struct {
	CurrentURL string
	Summary    *appSnapshot.PersistSummary
}

// Poller awaits a pending OTP for an account and drives the remaining UI
// steps once it lands.
type Poller struct {
	otpRepo  otp.Repository
	codec    *appSnapshot.Service
	verifier automation.Verifier
	cfg      Config
	logger   zerolog.Logger
}

// NewPoller creates a poller.
func NewPoller(otpRepo otp.Repository, codec *appSnapshot.Service, verifier automation.Verifier, cfg Config, logger zerolog.Logger) *Poller {
	return &Poller{
		otpRepo:  otpRepo,
		codec:    codec,
		verifier: verifier,
		cfg:      cfg.withDefaults(),
		logger:   logger.With().Str("service", "rendezvous").Logger(),
	}
}

// Await polls the store until a pending code appears for accountID, submits
// it through drv, and persists a fresh snapshot on success. The loop
// terminates on success, on the attempt ceiling (Timeout), or on the first
// error of any tick — a malformed tick is fatal to the rendezvous, not
// transient.
func (p *Poller) Await(ctx context.Context, accountID string, drv automation.Driver) (*Result, error) {
	cfg := p.cfg
	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return nil, automation.WrapFailure(automation.KindTimeout, "rendezvous cancelled", ctx.Err())
		case <-ticker.C:
		}

		record, err := p.otpRepo.FindLatestPending(ctx, accountID)
		if err != nil {
			return nil, automation.WrapFailure(automation.KindStore, "otp lookup failed", err)
		}
		if record == nil {
			if attempt >= cfg.MaxAttempts {
				p.logger.Warn().Str("account_id", accountID).Int("attempts", attempt).Msg("no otp arrived before ceiling")
				return nil, automation.NewFailure(automation.KindTimeout, "no OTP received within the rendezvous window")
			}
			continue
		}

		p.logger.Info().
			Str("account_id", accountID).
			Str("record_id", record.RecordID.String()).
			Int("attempt", attempt).
			Msg("pending otp found")
		return p.submit(ctx, accountID, record, drv)
	}
}

// submit types the code, consumes the record, and confirms. The record is
// marked used after the code is entered: a crash between the two leaves the
// code spent in the UI but pending in the store, which is accepted as
// at-least-once submission rather than risking a lost consume.
func (p *Poller) submit(ctx context.Context, accountID string, record *otp.Record, drv automation.Driver) (*Result, error) {
	field, err := drv.FindFirst(ctx, automation.OtpInputSelectors)
	if err != nil {
		return nil, automation.WrapFailure(automation.KindElementNotFound, "otp input field not found", err)
	}
	if err := drv.Type(ctx, field, record.Code, p.cfg.TypeDelay); err != nil {
		return nil, automation.WrapFailure(automation.KindSubmissionFailed, "typing otp failed", err)
	}

	now := time.Now().UTC()
	if err := p.otpRepo.MarkUsed(ctx, record.RecordID, now); err != nil {
		return nil, automation.WrapFailure(automation.KindStore, "marking otp used failed", err)
	}

	p.settle(ctx)

	confirm, err := p.findConfirm(ctx, drv)
	if err != nil {
		return nil, err
	}

	wait := drv.WaitNavigation(ctx, p.cfg.NavTimeout)
	if err := drv.Click(ctx, confirm); err != nil {
		return nil, automation.WrapFailure(automation.KindSubmissionFailed, "confirm click failed", err)
	}
	if err := wait(); err != nil {
		p.logger.Warn().Err(err).Msg("navigation wait ended early")
	}
	p.settle(ctx)

	url, err := drv.CurrentURL(ctx)
	if err != nil {
		return nil, automation.WrapFailure(automation.KindSubmissionFailed, "reading url after confirm failed", err)
	}
	if !p.verifier(url) {
		return nil, automation.NewFailure(automation.KindSubmissionFailed, "still on login route after OTP submit")
	}

	if p.cfg.LandingURL != "" {
		if err := drv.Navigate(ctx, p.cfg.LandingURL); err != nil {
			return nil, automation.WrapFailure(automation.KindSubmissionFailed, "navigating to landing route failed", err)
		}
		if u, err := drv.CurrentURL(ctx); err == nil {
			url = u
		}
	}

	snap, err := p.codec.Capture(ctx, drv)
	if err != nil {
		return nil, err
	}
	summary, err := p.codec.Persist(ctx, accountID, snap)
	if err != nil {
		return nil, err
	}

	p.logger.Info().Str("account_id", accountID).Msg("rendezvous authenticated")
	return &Result{CurrentURL: url, Summary: summary}, nil
}

// findConfirm locates the confirmation control: structural selector first,
// then a case-insensitive text scan across interactive elements.
func (p *Poller) findConfirm(ctx context.Context, drv automation.Driver) (automation.Element, error) {
	if el, err := drv.FindFirst(ctx, automation.ConfirmButtonSelectors); err == nil {
		return el, nil
	}

	buttons, err := drv.FindAllByTag(ctx, automation.InteractiveControlsTag)
	if err != nil {
		return nil, automation.WrapFailure(automation.KindSubmissionFailed, "scanning confirm controls failed", err)
	}
	wanted := strings.Split(automation.ConfirmButtonTexts, ",")
	for _, btn := range buttons {
		text, err := btn.Text()
		if err != nil {
			continue
		}
		lower := strings.ToLower(strings.TrimSpace(text))
		for _, w := range wanted {
			if strings.Contains(lower, strings.ToLower(w)) {
				return btn, nil
			}
		}
	}
	return nil, automation.NewFailure(automation.KindSubmissionFailed, "confirmation control not found")
}

func (p *Poller) settle(ctx context.Context) {
	if p.cfg.SettleDelay <= 0 {
		return
	}
	timer := time.NewTimer(p.cfg.SettleDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
