package http

import (
	"net/http"

	"remindme/internal/platform/net/http/bind"
)

// JSONHandler adapts a pure JSON handler to a platform Handler. Returning a
// Response from fn picks the status, anything else is sent as 200
func JSONHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		out, err := fn(r, in)
		if err != nil {
			return Error(err)
		}
		if resp, ok := out.(Response); ok {
			return resp
		}
		return OK(out)
	})
}
