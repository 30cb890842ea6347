package module

import (
	"time"

	"remindme/internal/adapters/feed"
	"remindme/internal/platform/config"
)

// Options controls the intake. Values may also be read from env
type Options struct {
	Bot       string
	Keyword   string
	Interval  time.Duration
	CacheSize int
	Feed      feed.Options
}

// FromConfig reads options using the REMINDME_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("REMINDME_")
	return Options{
		Bot:       c.MayString("BOT_USER", "RemindMeBot"),
		Keyword:   c.MayString("KEYWORD", "remindme"),
		Interval:  c.MayDuration("INTAKE_INTERVAL", 30*time.Second),
		CacheSize: c.MayInt("CACHE_SIZE", 100),
		Feed:      feed.FromConfig(cfg),
	}
}
