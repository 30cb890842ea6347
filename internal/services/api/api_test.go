package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"remindme/internal/modkit"
	"remindme/internal/platform/config"
	"remindme/internal/platform/metrics"
	phttp "remindme/internal/platform/net/http"
	"remindme/internal/platform/store"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMount_ServesMetaAdminAndMetrics(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(ctx, store.Config{AppName: "remindme-api-test"}, store.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(ctx) })

	mux := chi.NewRouter()
	err = Mount(ctx, phttp.AdaptChi(mux), Options{
		Deps:          modkit.FromStore(zerolog.Nop(), config.New(), st),
		Metrics:       metrics.New(),
		EnableSwagger: true,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	for path, want := range map[string]int{
		"/api/v1/meta/ready":                   http.StatusOK,
		"/api/v1/meta/version":                 http.StatusOK,
		"/api/v1/admin/watermark":              http.StatusOK,
		"/api/v1/admin/reminders?owner=nobody": http.StatusOK,
		"/api/v1/admin/reminders/0":            http.StatusUnprocessableEntity,
		"/api/docs/doc.json":                   http.StatusOK,
		"/metrics":                             http.StatusOK,
	} {
		resp, err := srv.Client().Get(srv.URL + path)
		require.NoError(t, err, path)
		_ = resp.Body.Close()
		assert.Equal(t, want, resp.StatusCode, path)
	}
}
