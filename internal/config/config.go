package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds service configuration.
type Config struct {
	DatabaseURL string
	ServerAddr  string

	// Target site routes.
	LoginURL   string
	LandingURL string
	OriginURL  string

	// Login verification predicate, evaluated against the current URL.
	VerifyExpression string
	LoginPath        string
	LandingPath      string

	// OTP intake and rendezvous.
	OtpLength    int
	OtpRetention time.Duration
	PollInterval time.Duration
	MaxAttempts  int

	// Snapshot lifecycle.
	FreshnessWindow time.Duration
	AdvisoryTTL     time.Duration

	// Driver pacing and bounded waits.
	TypeDelay             time.Duration
	SettleDelay           time.Duration
	NavTimeout            time.Duration
	OtpSurfaceTimeout     time.Duration
	ChallengeProbeTimeout time.Duration

	// Browser process.
	BrowserBin      string
	BrowserHeadless bool

	// Background sweeps.
	RetentionSweepInterval time.Duration
	RegistrySweepInterval  time.Duration
}

// Load reads configuration from environment.
func Load() (*Config, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		user := getenv("POSTGRES_USER", "loginrelay")
		pass := getenv("POSTGRES_PASSWORD", "loginrelay_pass")
		db := getenv("POSTGRES_DB", "loginrelay")
		host := getenv("POSTGRES_HOST", "localhost")
		port := getenv("POSTGRES_PORT", "5432")
		sslmode := getenv("DATABASE_SSLMODE", "disable")
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, sslmode)
	}
	addr := getenv("SERVER_ADDR", "0.0.0.0:8080")

	return &Config{
		DatabaseURL: dsn,
		ServerAddr:  addr,

		LoginURL:   getenv("TARGET_LOGIN_URL", "https://business.phonepe.com/login"),
		LandingURL: getenv("TARGET_LANDING_URL", "https://business.phonepe.com/dashboard"),
		OriginURL:  getenv("TARGET_ORIGIN_URL", "https://business.phonepe.com"),

		VerifyExpression: getenv("VERIFY_EXPRESSION", "!on_login_route"),
		LoginPath:        getenv("TARGET_LOGIN_PATH", "/login"),
		LandingPath:      getenv("TARGET_LANDING_PATH", "/dashboard"),

		OtpLength:    parseInt(getenv("OTP_LENGTH", "5"), 5),
		OtpRetention: parseDuration(getenv("OTP_RETENTION", "10m"), 10*time.Minute),
		PollInterval: parseDuration(getenv("OTP_POLL_INTERVAL", "5s"), 5*time.Second),
		MaxAttempts:  parseInt(getenv("OTP_POLL_MAX_ATTEMPTS", "20"), 20),

		FreshnessWindow: parseDuration(getenv("SNAPSHOT_FRESHNESS_WINDOW", "168h"), 168*time.Hour),
		AdvisoryTTL:     parseDuration(getenv("SNAPSHOT_ADVISORY_TTL", "168h"), 168*time.Hour),

		TypeDelay:             parseDuration(getenv("TYPE_DELAY", "100ms"), 100*time.Millisecond),
		SettleDelay:           parseDuration(getenv("SETTLE_DELAY", "2s"), 2*time.Second),
		NavTimeout:            parseDuration(getenv("NAV_TIMEOUT", "15s"), 15*time.Second),
		OtpSurfaceTimeout:     parseDuration(getenv("OTP_SURFACE_TIMEOUT", "5m"), 5*time.Minute),
		ChallengeProbeTimeout: parseDuration(getenv("CHALLENGE_PROBE_TIMEOUT", "5s"), 5*time.Second),

		BrowserBin:      getenv("BROWSER_BIN", ""),
		BrowserHeadless: parseBool(getenv("BROWSER_HEADLESS", "true"), true),

		RetentionSweepInterval: parseDuration(getenv("RETENTION_SWEEP_INTERVAL", "1m"), time.Minute),
		RegistrySweepInterval:  parseDuration(getenv("REGISTRY_SWEEP_INTERVAL", "30s"), 30*time.Second),
	}, nil
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func parseDuration(val string, def time.Duration) time.Duration {
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return def
	}
	return d
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return n
}

func parseBool(val string, def bool) bool {
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return b
}
