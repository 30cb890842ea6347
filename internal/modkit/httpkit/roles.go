package httpkit

import (
	"net/http"

	perrs "remindme/internal/platform/errors"
	pnet "remindme/internal/platform/net"
	phttp "remindme/internal/platform/net/http"
)

// RequireRole rejects requests whose caller role, as set by Auth, is not one of roles
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ := Role(r)
			for _, want := range roles {
				if got == want {
					next.ServeHTTP(w, r)
					return
				}
			}
			status, body := pnet.Error(perrs.Forbiddenf("role %q may not %s %s", got, r.Method, r.URL.Path), pnet.RequestID(r.Context()))
			phttp.JSON(w, status, body)
		})
	}
}
