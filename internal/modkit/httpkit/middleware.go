package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"remindme/internal/platform/config"
	phttp "remindme/internal/platform/net/http"
	"remindme/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	// CORSOrigins are the operator consoles allowed to call the API, empty allows any
	CORSOrigins []string
	// Timeout cancels handlers running longer than this
	Timeout time.Duration
	// MaxInFlight caps concurrent requests, 0 disables the cap
	MaxInFlight int
	// SlowRequest logs requests at or above this duration at warn
	SlowRequest time.Duration
	// Observe receives every finished request, see middleware.AccessLogOptions
	Observe func(method, route string, status int, elapsed time.Duration)
}

// StackFromConfig reads CORE_API_CORS_ORIGINS (comma separated), CORE_API_TIMEOUT,
// CORE_API_MAX_INFLIGHT and CORE_API_SLOW_REQUEST
func StackFromConfig(cfg config.Conf) StackOptions {
	c := cfg.Prefix("CORE_API_")
	return StackOptions{
		CORSOrigins: c.MayCSV("CORS_ORIGINS", nil),
		Timeout:     c.MayDuration("TIMEOUT", 30*time.Second),
		MaxInFlight: c.MayInt("MAX_INFLIGHT", 64),
		SlowRequest: c.MayDuration("SLOW_REQUEST", 500*time.Millisecond),
	}
}

// CommonStack returns the middleware every API scope runs behind
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	stack := []func(http.Handler) http.Handler{
		// correlation
		middleware.RequestID(),
		middleware.RealIP(),

		// safety
		middleware.RecoverJSON,
		middleware.NoCache(),

		// observability
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.SlowRequest, Observe: o.Observe}),

		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.Compress(flate.BestSpeed),
		middleware.RedirectSlashes(),
		middleware.StripSlashes(),
	}
	if o.MaxInFlight > 0 {
		stack = append(stack, middleware.Throttle(o.MaxInFlight))
	}
	if o.Timeout > 0 {
		stack = append(stack, middleware.Timeout(o.Timeout))
	}
	return stack
}

// Auth wires the auth middleware to the platform JSON writer
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}
