package httpkit

import (
	"net/http"

	perrs "remindme/internal/platform/errors"
	pnet "remindme/internal/platform/net"
)

// User returns the authenticated operator id from the request context
func User(r *http.Request) (string, error) {
	uid := pnet.UserID(r.Context())
	if uid == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	return uid, nil
}

// Role returns the caller role from the request context
func Role(r *http.Request) (string, error) {
	role := pnet.Role(r.Context())
	if role == "" {
		return "", perrs.Unauthorizedf("missing role")
	}
	return role, nil
}
