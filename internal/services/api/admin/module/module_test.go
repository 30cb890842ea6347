package module_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"remindme/internal/modkit"
	"remindme/internal/platform/config"
	phttp "remindme/internal/platform/net/http"
	"remindme/internal/platform/store"
	adminmod "remindme/internal/services/api/admin/module"
	"remindme/internal/services/reminders/domain"
	remmod "remindme/internal/services/reminders/module"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDelivery struct {
	mu      sync.Mutex
	deleted []string
}

func (f *fakeDelivery) PostReply(context.Context, string, string) (string, domain.Outcome, error) {
	return "", domain.Success, nil
}

func (f *fakeDelivery) EditReply(context.Context, string, string) (domain.Outcome, error) {
	return domain.Success, nil
}

func (f *fakeDelivery) DeleteReply(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDelivery) SendDirectMessage(context.Context, string, string, string) (domain.Outcome, error) {
	return domain.Success, nil
}

type env struct {
	srv   *httptest.Server
	ports remmod.Ports
	dlv   *fakeDelivery
}

func setup(t *testing.T, opts *adminmod.Options) env {
	t.Helper()
	ctx := context.Background()

	st, err := store.Open(ctx, store.Config{AppName: "remindme-admin-test"}, store.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(ctx) })

	deps := modkit.FromStore(zerolog.Nop(), config.New(), st)
	rem := remmod.New(deps, remmod.Options{AutoMigrate: true})
	require.NoError(t, rem.Init(ctx))
	ports := rem.Ports().(remmod.Ports)

	dlv := &fakeDelivery{}
	mux := chi.NewRouter()
	adminmod.New(deps, adminmod.Wiring{Reminders: ports, Delivery: dlv, Options: opts}).MountRoutes(phttp.AdaptChi(mux))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return env{srv: srv, ports: ports, dlv: dlv}
}

func (e env) do(t *testing.T, method, path, token, body string) (int, json.RawMessage) {
	t.Helper()
	req, err := http.NewRequest(method, e.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp.StatusCode, env.Data
}

func seed(t *testing.T, e env, owner string, target time.Time) domain.Reminder {
	t.Helper()
	r := &domain.Reminder{
		Source:      "https://example.test/r/sub/comments/abc/x/def",
		RequestedAt: target.Add(-time.Hour),
		TargetAt:    target,
		Owner:       owner,
	}
	ok, err := e.ports.Reminders.SaveReminder(context.Background(), r)
	require.NoError(t, err)
	require.True(t, ok)
	return *r
}

func TestAdmin_OpenWhenNoTokens(t *testing.T) {
	t.Parallel()
	e := setup(t, &adminmod.Options{})
	seed(t, e, "alice", time.Now().Add(time.Hour))

	status, data := e.do(t, http.MethodGet, "/admin/reminders?owner=alice", "", "")
	require.Equal(t, http.StatusOK, status)

	var got struct {
		Count     int               `json:"count"`
		Reminders []domain.Reminder `json:"reminders"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, "alice", got.Reminders[0].Owner)
}

func TestAdmin_RolesGateMutations(t *testing.T) {
	t.Parallel()
	e := setup(t, &adminmod.Options{AdminToken: "adm", ReaderToken: "rdr"})
	r := seed(t, e, "bob", time.Now().Add(time.Hour))
	path := "/admin/reminders/" + strconv.FormatInt(r.ID, 10)

	status, _ := e.do(t, http.MethodGet, path, "", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = e.do(t, http.MethodGet, path, "nope", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = e.do(t, http.MethodGet, path, "rdr", "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = e.do(t, http.MethodDelete, path, "rdr", "")
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = e.do(t, http.MethodDelete, path, "adm", "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = e.do(t, http.MethodGet, path, "adm", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAdmin_BadInput(t *testing.T) {
	t.Parallel()
	e := setup(t, &adminmod.Options{})

	status, _ := e.do(t, http.MethodGet, "/admin/reminders", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, status, "owner is required")

	status, _ = e.do(t, http.MethodGet, "/admin/reminders/abc", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = e.do(t, http.MethodDelete, "/admin/reminders/999", "", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAdmin_DeleteByOwner(t *testing.T) {
	t.Parallel()
	e := setup(t, &adminmod.Options{})
	seed(t, e, "carol", time.Now().Add(time.Hour))
	seed(t, e, "carol", time.Now().Add(2*time.Hour))
	seed(t, e, "dave", time.Now().Add(time.Hour))

	status, data := e.do(t, http.MethodDelete, "/admin/reminders?owner=carol", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"deleted":2}`, string(data))

	left, err := e.ports.Reminders.RemindersByOwner(context.Background(), "dave")
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestAdmin_DueListing(t *testing.T) {
	t.Parallel()
	e := setup(t, &adminmod.Options{})
	seed(t, e, "erin", time.Now().Add(-time.Minute))
	seed(t, e, "erin", time.Now().Add(time.Hour))

	status, data := e.do(t, http.MethodGet, "/admin/reminders/due", "", "")
	require.Equal(t, http.StatusOK, status)

	var got struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 1, got.Count)
}

func TestAdmin_AckDeleteRemovesReply(t *testing.T) {
	t.Parallel()
	e := setup(t, &adminmod.Options{})
	ctx := context.Background()

	ok, err := e.ports.Acks.SaveThreadAck(ctx, &domain.ThreadAck{
		ThreadID:  "t3_abc",
		AckItemID: "ack1",
		Owner:     "frank",
		TargetAt:  time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	require.True(t, ok)

	status, _ := e.do(t, http.MethodGet, "/admin/acks/t3_abc", "", "")
	require.Equal(t, http.StatusOK, status)

	status, data := e.do(t, http.MethodDelete, "/admin/acks/t3_abc?delete_reply=true", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"deleted":1,"reply_deleted":true}`, string(data))
	assert.Equal(t, []string{"ack1"}, e.dlv.deleted)

	status, _ = e.do(t, http.MethodGet, "/admin/acks/t3_abc", "", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAdmin_Watermark(t *testing.T) {
	t.Parallel()
	e := setup(t, &adminmod.Options{})

	at := time.Now().UTC().Add(-10 * time.Minute).Truncate(time.Second)
	status, _ := e.do(t, http.MethodPut, "/admin/watermark", "", `{"watermark":"`+at.Format(time.RFC3339)+`"}`)
	require.Equal(t, http.StatusOK, status)

	got, err := e.ports.Watermark.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Equal(at), "got %s want %s", got, at)

	future := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	status, _ = e.do(t, http.MethodPut, "/admin/watermark", "", `{"watermark":"`+future+`"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, data := e.do(t, http.MethodGet, "/admin/watermark", "", "")
	require.Equal(t, http.StatusOK, status)
	var wm struct {
		LagSecs int64 `json:"lag_seconds"`
	}
	require.NoError(t, json.Unmarshal(data, &wm))
	assert.GreaterOrEqual(t, wm.LagSecs, int64(600))
}
