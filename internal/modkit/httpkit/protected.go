package httpkit

import (
	"remindme/internal/platform/net/middleware"
)

// Protected groups the routes fn registers behind bearer auth through p
func Protected(r Router, p middleware.AuthPort, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(Auth(p))
		fn(gr)
	})
}
