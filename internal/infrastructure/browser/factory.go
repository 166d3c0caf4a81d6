// Package browser implements the automation.Driver capability on top of a
// Chromium instance controlled through go-rod.
package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"

	"github.com/loginrelay/loginrelay/internal/automation"
)

// Config holds browser process settings.
type Config struct {
	// Bin is the Chromium binary path. Empty lets the launcher resolve one.
	Bin string
	// Headless controls whether the browser runs without a display.
	Headless bool
	// DebuggerURL connects to an already-running browser instead of
	// launching one.
	DebuggerURL string
}

// Factory owns one shared browser process and opens an isolated page per
// login attempt.
type Factory struct {
	cfg    Config
	logger zerolog.Logger

	mu         sync.Mutex
	browser    *rod.Browser
	controlURL string
}

// NewFactory creates the factory. The browser process is launched lazily on
// the first New call.
func NewFactory(cfg Config, logger zerolog.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger.With().Str("service", "browser").Logger(),
	}
}

// New opens a fresh page on the shared browser.
func (f *Factory) New(ctx context.Context) (automation.Driver, error) {
	if err := f.ensureStarted(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	b := f.browser
	f.mu.Unlock()

	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	f.logger.Debug().Msg("page opened")
	return &PageDriver{page: page}, nil
}

func (f *Factory) ensureStarted(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.browser != nil {
		return nil
	}

	controlURL := f.cfg.DebuggerURL
	if controlURL == "" {
		launch := launcher.New().Headless(f.cfg.Headless)
		if f.cfg.Bin != "" {
			launch = launch.Bin(f.cfg.Bin)
		}
		url, err := launch.Launch()
		if err != nil {
			return fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect to chrome: %w", err)
	}

	f.browser = browser
	f.controlURL = controlURL
	f.logger.Info().Bool("headless", f.cfg.Headless).Msg("browser connected")
	return nil
}

// ControlURL returns the WebSocket debugger URL, empty before first use.
func (f *Factory) ControlURL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.controlURL
}

// Close tears down the shared browser process.
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.browser == nil {
		return nil
	}
	err := f.browser.Close()
	f.browser = nil
	f.controlURL = ""
	return err
}
