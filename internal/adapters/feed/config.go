package feed

import "remindme/internal/platform/config"

// FromConfig reads feed options using the REMINDME_FEED_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("REMINDME_FEED_")
	return Options{
		BaseURL:   c.MayString("BASE_URL", ""),
		SiteURL:   c.MayString("SITE_URL", ""),
		UserAgent: c.MayString("USER_AGENT", ""),
		Timeout:   c.MayDuration("TIMEOUT", defaultTimeout),
		Limit:     c.MayInt("LIMIT", defaultLimit),
	}
}
