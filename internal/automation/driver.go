// Package automation defines the browser-driver capability consumed by the
// login orchestration services, the selector strategies used to locate UI
// controls, and the failure taxonomy surfaced to callers. Concrete drivers
// live under internal/infrastructure/browser.
package automation

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/gen_mock_driver.go -package=mocks . Driver,Element

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNoMatch is returned by FindFirst when no selector strategy resolved.
var ErrNoMatch = errors.New("no selector matched")

// Element is an opaque handle to a located page element.
type Element interface {
	Click() error
	Input(text string) error
	// Clear removes any pre-filled value from an input element.
	Clear() error
	Text() (string, error)
}

// Driver is the capability set a live browser page exposes to an
// orchestration attempt. A driver handle is owned by the Active Session
// Registry and borrowed by at most one attempt at a time.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	Reload(ctx context.Context) error

	// FindFirst tries the selectors in order and returns the first match.
	// No further strategies are tried after a hit.
	FindFirst(ctx context.Context, selectors SelectorList) (Element, error)
	FindAllByTag(ctx context.Context, tag string) ([]Element, error)
	WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error

	// Type enters text into el one character at a time, pausing perCharDelay
	// between characters to mimic human input.
	Type(ctx context.Context, el Element, text string, perCharDelay time.Duration) error
	Click(ctx context.Context, el Element) error

	Evaluate(ctx context.Context, js string, args ...interface{}) (json.RawMessage, error)

	Cookies(ctx context.Context) ([]Cookie, error)
	SetCookies(ctx context.Context, cookies []Cookie) error

	CurrentURL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)

	// WaitNavigation arms a navigation listener and returns a wait func.
	// The listener must be armed before the action that triggers navigation.
	WaitNavigation(ctx context.Context, timeout time.Duration) func() error

	// Alive reports whether the underlying page is still usable.
	Alive() bool
	Close() error
}

// Cookie is a browser cookie as seen by the driver. The snapshot domain
// package converts these to its own representation.
type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Expires  float64
	HTTPOnly bool
	Secure   bool
	SameSite string
}
