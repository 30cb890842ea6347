package delivery

import (
	"remindme/internal/platform/config"
	"remindme/internal/platform/metrics"
	"remindme/internal/services/reminders/domain"
)

// FromConfig reads client options using the REMINDME_PLATFORM_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("REMINDME_PLATFORM_")
	return Options{
		BaseURL:    c.MayString("BASE_URL", ""),
		Token:      c.MayString("TOKEN", ""),
		UserAgent:  c.MayString("USER_AGENT", ""),
		Timeout:    c.MayDuration("TIMEOUT", defaultTimeout),
		MaxRetries: c.MayInt("MAX_RETRIES", defaultMaxRetry),
		RetryBase:  c.MayDuration("RETRY_BASE", defaultRetryBase),
		RatePerSec: c.MayFloat64("RPS", defaultRPS),
		Burst:      c.MayInt("BURST", defaultBurst),
	}
}

// Select returns the dry run client when dryRun is set, the live one otherwise
func Select(dryRun bool, o Options, m *metrics.Metrics) domain.DeliveryClient {
	if dryRun {
		return NewDryRun()
	}
	return New(o, m)
}
