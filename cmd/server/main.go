package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	httpapi "github.com/loginrelay/loginrelay/internal/api/http"
	appLogin "github.com/loginrelay/loginrelay/internal/application/login"
	appOtp "github.com/loginrelay/loginrelay/internal/application/otp"
	"github.com/loginrelay/loginrelay/internal/application/registry"
	"github.com/loginrelay/loginrelay/internal/application/rendezvous"
	appSnapshot "github.com/loginrelay/loginrelay/internal/application/snapshot"
	"github.com/loginrelay/loginrelay/internal/automation"
	"github.com/loginrelay/loginrelay/internal/config"
	"github.com/loginrelay/loginrelay/internal/infrastructure/browser"
	"github.com/loginrelay/loginrelay/internal/infrastructure/postgres"
	"github.com/loginrelay/loginrelay/internal/infrastructure/sse"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool, "internal/migrations"); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	// repositories
	otpRepo := postgres.NewOtpRepository(pool)
	snapRepo := postgres.NewSnapshotRepository(pool)

	// infrastructure
	browserFactory := browser.NewFactory(browser.Config{
		Bin:      cfg.BrowserBin,
		Headless: cfg.BrowserHeadless,
	}, logger)
	defer browserFactory.Close()

	sseHub := sse.NewHub()
	defer sseHub.Stop()

	verifier, err := automation.NewVerifier(cfg.VerifyExpression, cfg.LoginPath, cfg.LandingPath)
	if err != nil {
		log.Fatalf("verify expression error: %v", err)
	}

	// services
	reg := registry.New(logger)
	otpSvc := appOtp.NewService(otpRepo, appOtp.Config{
		CodeLength: cfg.OtpLength,
		Retention:  cfg.OtpRetention,
	}, logger)
	codec := appSnapshot.NewService(snapRepo, verifier, appSnapshot.Config{
		OriginURL:   cfg.OriginURL,
		LandingURL:  cfg.LandingURL,
		AdvisoryTTL: cfg.AdvisoryTTL,
		SettleDelay: cfg.SettleDelay,
	}, logger)
	poller := rendezvous.NewPoller(otpRepo, codec, verifier, rendezvous.Config{
		PollInterval: cfg.PollInterval,
		MaxAttempts:  cfg.MaxAttempts,
		TypeDelay:    cfg.TypeDelay,
		NavTimeout:   cfg.NavTimeout,
		SettleDelay:  cfg.SettleDelay,
		LandingURL:   cfg.LandingURL,
	}, logger)
	loginSvc := appLogin.NewOrchestrator(snapRepo, codec, poller, reg, browserFactory, sseHub, appLogin.Config{
		LoginURL:              cfg.LoginURL,
		FreshnessWindow:       cfg.FreshnessWindow,
		TypeDelay:             cfg.TypeDelay,
		ChallengeProbeTimeout: cfg.ChallengeProbeTimeout,
		OtpSurfaceTimeout:     cfg.OtpSurfaceTimeout,
		SettleDelay:           cfg.SettleDelay,
	}, logger)

	// API server
	apiServer := httpapi.NewServer(loginSvc, otpSvc, snapRepo, reg, sseHub, cfg.FreshnessWindow)

	httpServer := &http.Server{
		Addr:        cfg.ServerAddr,
		Handler:     apiServer.Router(),
		ReadTimeout: 15 * time.Second,
		// Login attempts hold the response open for the whole rendezvous
		// window, so the write timeout must outlast it.
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// background loops
	go func() {
		ticker := time.NewTicker(cfg.RetentionSweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			_, _ = otpSvc.SweepExpired(context.Background())
		}
	}()

	go func() {
		ticker := time.NewTicker(cfg.RegistrySweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			if n := reg.Sweep(); n > 0 {
				logger.Debug().Int("evicted", n).Msg("dead attempts evicted")
			}
		}
	}()

	// start server
	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
}
