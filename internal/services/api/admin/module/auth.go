package module

import (
	"remindme/internal/modkit/httpkit"
)

// tokenPort maps the configured static bearer tokens to roles. When both
// tokens are equal the admin role wins
func tokenPort(o Options) *httpkit.Port {
	tokens := map[string]httpkit.Identity{o.ReaderToken: {User: "viewer", Role: RoleReader}}
	tokens[o.AdminToken] = httpkit.Identity{User: "operator", Role: RoleAdmin}
	return httpkit.StaticTokens(tokens)
}
