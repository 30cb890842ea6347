package httpkit

import (
	"crypto/subtle"
	"net/http"
	"strings"

	perrs "remindme/internal/platform/errors"
)

// TokenFunc resolves a bearer token to the caller id and role
type TokenFunc func(token string) (userID string, role string, err error)

// Identity is who a static token speaks for
type Identity struct {
	User string
	Role string
}

// Port implements middleware.AuthPort over the Authorization header
type Port struct {
	parse TokenFunc
}

// NewPortFunc builds a Port that hands the raw token to fn
func NewPortFunc(fn TokenFunc) *Port {
	return &Port{parse: fn}
}

// StaticTokens builds a Port over a fixed token table. Blank tokens never
// match and every comparison runs in constant time
func StaticTokens(tokens map[string]Identity) *Port {
	return NewPortFunc(func(got string) (string, string, error) {
		for want, id := range tokens {
			if want != "" && subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1 {
				return id.User, id.Role, nil
			}
		}
		return "", "", perrs.Unauthorizedf("unknown token")
	})
}

// Parse reads "Bearer <token>", scheme case-insensitive, and resolves it.
// Every failure is unauthorized and the resolver's reason is not leaked
func (p *Port) Parse(r *http.Request) (string, string, error) {
	f := strings.Fields(r.Header.Get("Authorization"))
	if len(f) != 2 || !strings.EqualFold(f[0], "bearer") {
		return "", "", perrs.Unauthorizedf("missing bearer token")
	}
	if p.parse == nil {
		return "", "", perrs.Unauthorizedf("invalid bearer token")
	}
	uid, role, err := p.parse(f[1])
	if err != nil {
		return "", "", perrs.Unauthorizedf("invalid bearer token")
	}
	return uid, role, nil
}
