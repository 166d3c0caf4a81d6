// Package snapshot implements the session snapshot codec: capturing
// authenticated browser state, persisting it, and replaying it onto a fresh
// driver handle.
package snapshot

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/loginrelay/loginrelay/internal/automation"
	domainSnapshot "github.com/loginrelay/loginrelay/internal/domain/snapshot"
)

const captureStorageJS = `() => ({
	localStorage: { ...localStorage },
	sessionStorage: { ...sessionStorage },
	loginCheck: localStorage.getItem("LOGIN_CHECK") || null,
})`

const restoreStorageJS = `(storage) => {
	localStorage.clear();
	sessionStorage.clear();
	Object.entries(storage.localStorage || {}).forEach(([k, v]) => localStorage.setItem(k, v));
	Object.entries(storage.sessionStorage || {}).forEach(([k, v]) => sessionStorage.setItem(k, v));
}`

const userAgentJS = `() => navigator.userAgent`

// Config holds the codec's target-site settings.
type Config struct {
	// OriginURL is the authenticated origin cookies are replayed against.
	OriginURL string
	// LandingURL is a known authenticated route used to judge a restore.
	LandingURL string
	// AdvisoryTTL sets Snapshot.ExpiresAt. Informational only; restore
	// eligibility is judged by LastUsed age.
	AdvisoryTTL time.Duration
	// SettleDelay is the pause after navigations that load app state.
	SettleDelay time.Duration
}

// Service is the session snapshot codec.
type Service struct {
	repo     domainSnapshot.Repository
	verifier automation.Verifier
	cfg      Config
	logger   zerolog.Logger
}

// NewService creates the codec.
func NewService(repo domainSnapshot.Repository, verifier automation.Verifier, cfg Config, logger zerolog.Logger) *Service {
	if cfg.AdvisoryTTL == 0 {
		cfg.AdvisoryTTL = 7 * 24 * time.Hour
	}
	return &Service{
		repo:     repo,
		verifier: verifier,
		cfg:      cfg,
		logger:   logger.With().Str("service", "snapshot").Logger(),
	}
}

// PersistSummary reports what a persist stored.
type PersistSummary struct {
	CredentialCount int     `json:"credentialCount"`
	LoginCheck      *string `json:"loginCheck,omitempty"`
}

type storagePayload struct {
	Local      map[string]string `json:"localStorage"`
	Session    map[string]string `json:"sessionStorage"`
	LoginCheck *string           `json:"loginCheck"`
}

type loginCheckPayload struct {
	AuthType string `json:"authType"`
}

// Capture reads cookies and page storage from the driver and builds a
// snapshot. Storage capture fails softly: a cookie-only snapshot is still
// useful for a restore.
func (s *Service) Capture(ctx context.Context, drv automation.Driver) (*domainSnapshot.Snapshot, error) {
	rawCookies, err := drv.Cookies(ctx)
	if err != nil {
		return nil, automation.WrapFailure(automation.KindStore, "cookie capture failed", err)
	}

	cookies := make([]domainSnapshot.Cookie, 0, len(rawCookies))
	for _, c := range rawCookies {
		cookies = append(cookies, domainSnapshot.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: c.SameSite,
		})
	}

	snap := &domainSnapshot.Snapshot{
		Cookies:       cookies,
		CookieHeader:  domainSnapshot.FormatCookieHeader(cookies),
		DerivedTokens: domainSnapshot.DeriveTokens(cookies),
		IsLoggedIn:    true,
	}

	if raw, err := drv.Evaluate(ctx, captureStorageJS); err != nil {
		s.logger.Warn().Err(err).Msg("storage capture failed, keeping cookie-only snapshot")
	} else {
		var payload storagePayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			s.logger.Warn().Err(err).Msg("storage payload decode failed")
		} else {
			snap.Storage = &domainSnapshot.StorageBlob{
				Local:      payload.Local,
				Session:    payload.Session,
				LoginCheck: payload.LoginCheck,
			}
			snap.LoginCheck = payload.LoginCheck
			if payload.LoginCheck != nil {
				var check loginCheckPayload
				if err := json.Unmarshal([]byte(*payload.LoginCheck), &check); err == nil && check.AuthType != "" {
					authType := check.AuthType
					snap.AuthType = &authType
				}
			}
		}
	}

	if url, err := drv.CurrentURL(ctx); err == nil {
		snap.URL = url
	}
	if title, err := drv.Title(ctx); err == nil {
		snap.PageTitle = title
	}

	headers := map[string]string{"Cookie": snap.CookieHeader}
	if raw, err := drv.Evaluate(ctx, userAgentJS); err == nil {
		var ua string
		if json.Unmarshal(raw, &ua) == nil && ua != "" {
			headers["User-Agent"] = ua
		}
	}
	if len(snap.DerivedTokens) > 0 {
		headers["Authorization"] = "Bearer " + snap.DerivedTokens[0].Value
	}
	snap.Headers = headers

	return snap, nil
}

// Persist upserts the snapshot for the account, stamping LastUsed and the
// advisory expiry.
func (s *Service) Persist(ctx context.Context, accountID string, snap *domainSnapshot.Snapshot) (*PersistSummary, error) {
	now := time.Now().UTC()
	snap.AccountID = accountID
	snap.LastUsed = now
	snap.ExpiresAt = now.Add(s.cfg.AdvisoryTTL)

	if err := s.repo.Upsert(ctx, snap); err != nil {
		return nil, automation.WrapFailure(automation.KindStore, "snapshot upsert failed", err)
	}

	s.logger.Info().
		Str("account_id", accountID).
		Int("credentials", len(snap.DerivedTokens)).
		Msg("snapshot persisted")
	return &PersistSummary{
		CredentialCount: len(snap.DerivedTokens),
		LoginCheck:      snap.LoginCheck,
	}, nil
}

// Restore replays the snapshot onto the driver and reports whether the page
// ended up authenticated. The verdict is a URL heuristic (absence of a
// redirect back to the login route), not a cryptographic guarantee.
func (s *Service) Restore(ctx context.Context, drv automation.Driver, snap *domainSnapshot.Snapshot) (bool, error) {
	if len(snap.Cookies) == 0 {
		return false, nil
	}

	raw := make([]automation.Cookie, 0, len(snap.Cookies))
	for _, c := range snap.Cookies {
		path := c.Path
		if path == "" {
			path = "/"
		}
		raw = append(raw, automation.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     path,
			Expires:  c.Expires,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: c.SameSite,
		})
	}
	if err := drv.SetCookies(ctx, raw); err != nil {
		return false, err
	}

	if err := drv.Navigate(ctx, s.cfg.OriginURL); err != nil {
		return false, err
	}
	s.settle(ctx)

	if snap.Storage != nil {
		payload, err := json.Marshal(storagePayload{
			Local:      snap.Storage.Local,
			Session:    snap.Storage.Session,
			LoginCheck: snap.Storage.LoginCheck,
		})
		if err == nil {
			if _, err := drv.Evaluate(ctx, restoreStorageJS, json.RawMessage(payload)); err != nil {
				s.logger.Warn().Err(err).Msg("storage replay failed, relying on cookies")
			}
		}
	}

	if err := drv.Reload(ctx); err != nil {
		return false, err
	}
	if err := drv.Navigate(ctx, s.cfg.LandingURL); err != nil {
		return false, err
	}
	s.settle(ctx)

	url, err := drv.CurrentURL(ctx)
	if err != nil {
		return false, err
	}
	applied := s.verifier(url)
	s.logger.Info().Str("url", url).Bool("applied", applied).Msg("restore verdict")
	return applied, nil
}

func (s *Service) settle(ctx context.Context) {
	if s.cfg.SettleDelay <= 0 {
		return
	}
	timer := time.NewTimer(s.cfg.SettleDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
