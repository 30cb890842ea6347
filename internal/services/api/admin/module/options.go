package module

import "remindme/internal/platform/config"

const (
	// RoleAdmin may read and change everything under the admin prefix
	RoleAdmin = "admin"
	// RoleReader may only read
	RoleReader = "reader"
)

// Options controls the admin endpoints. With no tokens set the endpoints are open
type Options struct {
	AdminToken  string
	ReaderToken string
}

// FromConfig reads options using the CORE_API_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_API_")
	return Options{
		AdminToken:  c.MayString("ADMIN_TOKEN", ""),
		ReaderToken: c.MayString("READER_TOKEN", ""),
	}
}

func (o Options) secured() bool { return o.AdminToken != "" || o.ReaderToken != "" }
