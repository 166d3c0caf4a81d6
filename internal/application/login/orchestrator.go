// Package login implements the top-level state machine driving one
// authentication attempt: restore-from-snapshot, fresh-login UI steps, OTP
// rendezvous, verification, and snapshot persistence.
package login

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/loginrelay/loginrelay/internal/application/registry"
	"github.com/loginrelay/loginrelay/internal/application/rendezvous"
	appSnapshot "github.com/loginrelay/loginrelay/internal/application/snapshot"
	"github.com/loginrelay/loginrelay/internal/automation"
	domainSnapshot "github.com/loginrelay/loginrelay/internal/domain/snapshot"
	"github.com/loginrelay/loginrelay/internal/infrastructure/sse"
)

// State is a phase of a login attempt.
type State string

const (
	StateStart             State = "START"
	StateRestoring         State = "RESTORING"
	StateRestored          State = "RESTORED"
	StateFreshLogin        State = "FRESH_LOGIN"
	StateAwaitingPhone     State = "AWAITING_PHONE_SUBMIT"
	StateAwaitingOtpUI     State = "AWAITING_OTP_UI"
	StateRendezvous        State = "RENDEZVOUS"
	StateVerified          State = "VERIFIED"
	StatePersisted         State = "PERSISTED"
	StateFailed            State = "FAILED"
)

// Outcome distinguishes how an attempt reached the authenticated state.
const (
	OutcomeSessionRestored = "session_restored"
	OutcomeLoggedIn        = "logged_in"
)

// DriverFactory opens a fresh driver handle for one attempt.
type DriverFactory interface {
	New(ctx context.Context) (automation.Driver, error)
}

// Config holds the orchestrator's flow settings.
type Config struct {
	// LoginURL is the login route of the target site.
	LoginURL string
	// FreshnessWindow bounds snapshot age (since LastUsed) for restore
	// eligibility. Default 168h.
	FreshnessWindow time.Duration
	// TypeDelay is the per-character pacing for the phone number.
	TypeDelay time.Duration
	// ChallengeProbeTimeout is the short bounded wait for an optional
	// captcha challenge.
	ChallengeProbeTimeout time.Duration
	// OtpSurfaceTimeout is the long bounded wait for the OTP entry surface.
	OtpSurfaceTimeout time.Duration
	// SettleDelay is the pause after page-changing actions.
	SettleDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.FreshnessWindow <= 0 {
		c.FreshnessWindow = 168 * time.Hour
	}
	if c.TypeDelay <= 0 {
		c.TypeDelay = 100 * time.Millisecond
	}
	if c.ChallengeProbeTimeout <= 0 {
		c.ChallengeProbeTimeout = 5 * time.Second
	}
	if c.OtpSurfaceTimeout <= 0 {
		c.OtpSurfaceTimeout = 5 * time.Minute
	}
	return c
}

// Result is the outcome of a successful attempt.
type Result struct {
	AccountID  string                      `json:"accountId"`
	Outcome    string                      `json:"outcome"`
	State      State                       `json:"state"`
	CurrentURL string                      `json:"currentUrl,omitempty"`
	Persisted  bool                        `json:"persisted"`
	Summary    *appSnapshot.PersistSummary `json:"summary,omitempty"`
}

// Orchestrator sequences one login attempt per call to Start. Attempts for
// different accounts run concurrently, each owning its own driver handle.
type Orchestrator struct {
	snapRepo domainSnapshot.Repository
	codec    *appSnapshot.Service
	poller   *rendezvous.Poller
	reg      *registry.Registry
	drivers  DriverFactory
	events   *sse.Hub
	cfg      Config
	logger   zerolog.Logger
}

// NewOrchestrator creates the orchestrator.
func NewOrchestrator(
	snapRepo domainSnapshot.Repository,
	codec *appSnapshot.Service,
	poller *rendezvous.Poller,
	reg *registry.Registry,
	drivers DriverFactory,
	events *sse.Hub,
	cfg Config,
	logger zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		snapRepo: snapRepo,
		codec:    codec,
		poller:   poller,
		reg:      reg,
		drivers:  drivers,
		events:   events,
		cfg:      cfg.withDefaults(),
		logger:   logger.With().Str("service", "login").Logger(),
	}
}

func (o *Orchestrator) publish(accountID string, state State, message string) {
	if o.events == nil {
		return
	}
	o.events.Publish(accountID, string(state), message)
}

// Start runs a full attempt for the account: restore when an eligible
// snapshot exists, otherwise fresh login plus OTP rendezvous. Failures are
// typed (*automation.Failure, or registry.ErrAlreadyActive) and never
// retried within the same invocation. The driver handle and any registry
// entry are released on every exit path.
func (o *Orchestrator) Start(ctx context.Context, accountID string) (*Result, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, automation.NewFailure(automation.KindValidation, "account identifier is required")
	}
	if _, active := o.reg.Lookup(accountID); active {
		return nil, registry.ErrAlreadyActive
	}

	log := o.logger.With().Str("account_id", accountID).Logger()
	state := StateStart

	drv, err := o.drivers.New(ctx)
	if err != nil {
		return nil, automation.WrapFailure(automation.KindStore, "opening browser driver failed", err)
	}
	// regToken stays empty until this attempt registers; Release ignores a
	// token mismatch, so a losing attempt never evicts the winner's entry.
	var regToken string
	defer func() {
		o.reg.Release(accountID, regToken)
		_ = drv.Close()
	}()

	// RESTORING: a snapshot is offered to the driver only when it is fresh
	// enough and carries at least one credential-bearing cookie.
	state = StateRestoring
	o.publish(accountID, state, "")
	snap, err := o.snapRepo.FindByAccount(ctx, accountID)
	if err != nil {
		log.Warn().Err(err).Msg("snapshot lookup failed, proceeding to fresh login")
	}
	if snap != nil && snap.Restorable(time.Now().UTC(), o.cfg.FreshnessWindow) {
		applied, err := o.codec.Restore(ctx, drv, snap)
		if err != nil {
			log.Warn().Err(err).Msg("restore attempt failed, proceeding to fresh login")
		}
		if applied {
			state = StateRestored
			o.publish(accountID, state, "")
			result := &Result{
				AccountID: accountID,
				Outcome:   OutcomeSessionRestored,
				State:     StatePersisted,
			}
			if url, err := drv.CurrentURL(ctx); err == nil {
				result.CurrentURL = url
			}
			// Refresh the snapshot with post-restore cookies. A store
			// failure here does not undo an authenticated session.
			if fresh, err := o.codec.Capture(ctx, drv); err != nil {
				log.Warn().Err(err).Msg("post-restore capture failed")
			} else if summary, err := o.codec.Persist(ctx, accountID, fresh); err != nil {
				log.Warn().Err(err).Msg("post-restore persist failed")
			} else {
				result.Persisted = true
				result.Summary = summary
			}
			log.Info().Float64("age_hours", snap.AgeHours(time.Now().UTC())).Msg("session restored from snapshot")
			o.publish(accountID, StatePersisted, OutcomeSessionRestored)
			return result, nil
		}
	}

	state = StateFreshLogin
	o.publish(accountID, state, "")
	if err := o.freshLogin(ctx, accountID, drv, log); err != nil {
		log.Warn().Err(err).Str("state", string(state)).Msg("attempt failed")
		o.publish(accountID, StateFailed, err.Error())
		return nil, err
	}

	token, err := o.reg.Register(accountID, drv)
	if err != nil {
		return nil, err
	}
	regToken = token
	o.publish(accountID, StateAwaitingOtpUI, "")

	state = StateRendezvous
	o.publish(accountID, state, "")
	res, err := o.poller.Await(ctx, accountID, drv)
	if err != nil {
		state = StateFailed
		log.Warn().Err(err).Str("state", string(StateRendezvous)).Msg("rendezvous failed")
		o.publish(accountID, state, err.Error())
		return nil, err
	}

	// The poller has already verified and persisted; report upstream.
	log.Info().Str("url", res.CurrentURL).Msg("fresh login completed")
	o.publish(accountID, StateVerified, res.CurrentURL)
	o.publish(accountID, StatePersisted, OutcomeLoggedIn)
	return &Result{
		AccountID:  accountID,
		Outcome:    OutcomeLoggedIn,
		State:      StatePersisted,
		CurrentURL: res.CurrentURL,
		Persisted:  true,
		Summary:    res.Summary,
	}, nil
}

// freshLogin drives the login UI up to the point where the OTP entry surface
// is visible: phone entry, send-code, optional challenge probe.
func (o *Orchestrator) freshLogin(ctx context.Context, accountID string, drv automation.Driver, log zerolog.Logger) error {
	if err := drv.Navigate(ctx, o.cfg.LoginURL); err != nil {
		return automation.WrapFailure(automation.KindTimeout, "login page navigation failed", err)
	}
	o.settle(ctx)

	o.publish(accountID, StateAwaitingPhone, "")
	field, err := drv.FindFirst(ctx, automation.PhoneInputSelectors)
	if err != nil {
		return automation.WrapFailure(automation.KindElementNotFound, "phone input field not found", err)
	}
	if err := field.Clear(); err != nil {
		return automation.WrapFailure(automation.KindSubmissionFailed, "clearing phone field failed", err)
	}
	if err := drv.Type(ctx, field, accountID, o.cfg.TypeDelay); err != nil {
		return automation.WrapFailure(automation.KindSubmissionFailed, "typing phone number failed", err)
	}

	sendBtn, err := o.findByText(ctx, drv, automation.SendCodeButtonTexts)
	if err != nil {
		return err
	}
	if err := drv.Click(ctx, sendBtn); err != nil {
		return automation.WrapFailure(automation.KindSubmissionFailed, "send-code click failed", err)
	}
	o.settle(ctx)

	// An interactive challenge is surfaced but not fatal: a human operator
	// may resolve it out-of-band while the OTP wait below keeps running.
	if err := drv.WaitForSelector(ctx, automation.CaptchaFrameSelector, o.cfg.ChallengeProbeTimeout); err == nil {
		log.Warn().Msg("captcha challenge detected, waiting for out-of-band resolution")
	}

	if err := drv.WaitForSelector(ctx, automation.OtpDrawerSelector, o.cfg.OtpSurfaceTimeout); err != nil {
		log.Warn().Err(err).Msg("otp drawer did not open, checking for input directly")
	}
	if err := drv.WaitForSelector(ctx, automation.OtpInputSelector, o.cfg.OtpSurfaceTimeout); err != nil {
		return automation.WrapFailure(automation.KindTimeout, "OTP entry surface did not appear", err)
	}
	return nil
}

// findByText scans interactive elements for a case-insensitive text match
// against a comma-separated list of wanted labels.
func (o *Orchestrator) findByText(ctx context.Context, drv automation.Driver, texts string) (automation.Element, error) {
	buttons, err := drv.FindAllByTag(ctx, automation.InteractiveControlsTag)
	if err != nil {
		return nil, automation.WrapFailure(automation.KindElementNotFound, "scanning controls failed", err)
	}
	wanted := strings.Split(texts, ",")
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
	return nil, automation.NewFailure(automation.KindElementNotFound, "no control matched text "+texts)
}

func (o *Orchestrator) settle(ctx context.Context) {
	if o.cfg.SettleDelay <= 0 {
		return
	}
	timer := time.NewTimer(o.cfg.SettleDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
