// Package registry tracks live automation attempts keyed by account
// identifier and enforces the single-flight invariant: at most one live
// driver handle per account.
package registry

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/loginrelay/loginrelay/internal/automation"
)

// ErrAlreadyActive is returned when an account already holds a live entry.
var ErrAlreadyActive = errors.New("an automation attempt is already active for this account")

// Entry is the in-memory record for one live attempt.
type Entry struct {
	AccountID    string
	Token        string
	RegisteredAt time.Time

	driver automation.Driver
}

// Registry is the sole shared mutable structure across attempts. All
// mutation is atomic with respect to concurrent lookups for the same account.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*Entry
	logger  zerolog.Logger
}

// New creates an empty registry.
func New(logger zerolog.Logger) *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
		logger:  logger.With().Str("service", "registry").Logger(),
	}
}

// Register claims the account for a new attempt. When a live entry already
// exists the registration is rejected rather than silently replaced; a dead
// entry is evicted and the claim succeeds.
func (r *Registry) Register(accountID string, drv automation.Driver) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[accountID]; ok {
		if existing.driver.Alive() {
			return "", ErrAlreadyActive
		}
		delete(r.entries, accountID)
		r.logger.Info().Str("account_id", accountID).Msg("evicted dead session entry")
	}

	entry := &Entry{
		AccountID:    accountID,
		Token:        uuid.NewString(),
		RegisteredAt: time.Now().UTC(),
		driver:       drv,
	}
	r.entries[accountID] = entry
	r.logger.Info().Str("account_id", accountID).Str("token", entry.Token).Msg("session registered")
	return entry.Token, nil
}

// Lookup returns the live driver handle for the account. A dead handle is
// treated as absent and removed.
func (r *Registry) Lookup(accountID string) (automation.Driver, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[accountID]
	if !ok {
		return nil, false
	}
	if !entry.driver.Alive() {
		delete(r.entries, accountID)
		r.logger.Info().Str("account_id", accountID).Msg("lookup found dead handle, removed")
		return nil, false
	}
	return entry.driver, true
}

// Release removes the entry for the account when token matches the one
// Register handed out. A mismatched token is ignored: an attempt that lost
// the registration race must not evict the entry the winner still owns.
func (r *Registry) Release(accountID, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[accountID]
	if !ok {
		return
	}
	if entry.Token != token {
		r.logger.Warn().Str("account_id", accountID).Msg("release with stale token ignored")
		return
	}
	delete(r.entries, accountID)
	r.logger.Info().Str("account_id", accountID).Msg("session released")
}

// Sweep evicts every entry whose handle is no longer usable and returns the
// number evicted. Wired to a background ticker in cmd/server.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for accountID, entry := range r.entries {
		if !entry.driver.Alive() {
			delete(r.entries, accountID)
			evicted++
		}
	}
	if evicted > 0 {
		r.logger.Info().Int("count", evicted).Msg("swept dead session entries")
	}
	return evicted
}

// Len returns the number of tracked entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
