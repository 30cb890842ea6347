package middleware

import (
	"net/http"

	"remindme/internal/platform/logger"
	pnet "remindme/internal/platform/net"
)

// AuthPort resolves the caller of a request
type AuthPort interface {
	// Parse returns the caller id and its role or an error
	Parse(r *http.Request) (userID string, role string, err error)
}

// Auth passes everything through when p is nil
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			uid, role, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithUser(r.Context(), uid)
			ctx = pnet.WithRequest(ctx, pnet.RequestID(ctx), role)
			ctx = logger.WithRequest(ctx, pnet.RequestID(ctx), role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
