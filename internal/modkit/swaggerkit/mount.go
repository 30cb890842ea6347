// Package swaggerkit serves the admin API's OpenAPI document and the Swagger UI
package swaggerkit

import (
	"net/http"

	phttp "remindme/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

const docsRoot = "/api/docs"

// Mount adds the UI under /api/docs/ and the converted document at
// /api/docs/doc.json. Nothing is mounted when enabled is false
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get(docsRoot, http.RedirectHandler(docsRoot+"/", http.StatusPermanentRedirect).ServeHTTP)
	r.Get(docsRoot+"/doc.json", serveDocJSON())
	r.Handle(docsRoot+"/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL(docsRoot+"/doc.json"),
	))
}
