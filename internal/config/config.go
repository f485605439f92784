package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	devicedomain "github.com/smallbiznis/lunebill/internal/device/domain"
	invoicedomain "github.com/smallbiznis/lunebill/internal/invoice/domain"
	"github.com/smallbiznis/lunebill/internal/period"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	OTLPEndpoint string

	// DevicesPath and UsagePath point at the JSON input files. When either
	// is empty the runner falls back to generated demo data.
	DevicesPath string
	UsagePath   string

	MatchMode devicedomain.MatchMode
	Numbering invoicedomain.NumberingMode

	// BillingMonth and BillingYear pin the billing period. Zero means
	// derive the period from the usage feed.
	BillingMonth int
	BillingYear  int

	Watch       bool
	RunInterval time.Duration

	SeedDevices          int
	SeedRecordsPerDevice int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:              getenv("APP_SERVICE", "lunebill"),
		AppVersion:           getenv("APP_VERSION", "0.1.0"),
		Environment:          getenv("ENVIRONMENT", "development"),
		OTLPEndpoint:         getenv("OTLP_ENDPOINT", "localhost:4317"),
		DevicesPath:          strings.TrimSpace(getenv("DEVICES_PATH", "")),
		UsagePath:            strings.TrimSpace(getenv("USAGE_PATH", "")),
		MatchMode:            devicedomain.ParseMatchMode(getenv("MATCH_MODE", "")),
		Numbering:            invoicedomain.ParseNumberingMode(getenv("INVOICE_NUMBERING", "")),
		BillingMonth:         int(getenvInt64("BILLING_MONTH", 0)),
		BillingYear:          int(getenvInt64("BILLING_YEAR", 0)),
		Watch:                getenvBool("WATCH", false),
		RunInterval:          getenvDuration("RUN_INTERVAL", time.Minute),
		SeedDevices:          int(getenvInt64("SEED_DEVICES", 3)),
		SeedRecordsPerDevice: int(getenvInt64("SEED_RECORDS_PER_DEVICE", 12)),
	}

	return cfg
}

// TargetPeriod returns the configured billing period, or nil when the
// period should be derived from the feed.
func (c Config) TargetPeriod() *period.Period {
	if c.BillingMonth < 1 || c.BillingMonth > 12 || c.BillingYear <= 0 {
		return nil
	}
	return &period.Period{Month: time.Month(c.BillingMonth), Year: c.BillingYear}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
