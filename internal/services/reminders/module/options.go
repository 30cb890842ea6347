package module

import "remindme/internal/platform/config"

// Options controls the reminders module
type Options struct {
	AutoMigrate bool
}

// FromConfig reads options using the REMINDERS_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("REMINDERS_")
	return Options{
		AutoMigrate: c.MayBool("AUTO_MIGRATE", true),
	}
}
