package module

import (
	"time"

	"remindme/internal/platform/config"
)

// Options controls the courier
type Options struct {
	Bot               string
	Interval          time.Duration
	DropUndeliverable bool
}

// FromConfig reads options using the REMINDME_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("REMINDME_")
	return Options{
		Bot:               c.MayString("BOT_USER", "RemindMeBot"),
		Interval:          c.MayDuration("COURIER_INTERVAL", 5*time.Minute),
		DropUndeliverable: c.MayBool("DROP_UNDELIVERABLE", false),
	}
}
