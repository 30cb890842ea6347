package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "remindme/internal/platform/errors"
	pnet "remindme/internal/platform/net"
	phttp "remindme/internal/platform/net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reqWithReqID(method, path, rid string, body []byte) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	return req.WithContext(pnet.WithRequest(req.Context(), rid, ""))
}

func serve(h http.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, phttp.Envelope) {
	rec := httptest.NewRecorder()
	h(rec, req)
	var env phttp.Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestJSON_SetsStatusAndType(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.JSON(rec, http.StatusTeapot, map[string]any{"k": "v"})
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestHandle_SuccessEnvelope(t *testing.T) {
	h := phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.Created(map[string]int{"id": 9})
	})
	rec, env := serve(h, reqWithReqID(http.MethodPost, "/r", "rid-1", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, http.StatusCreated, env.StatusCode)
	assert.Equal(t, "Created", env.Status)
	assert.Equal(t, "rid-1", env.RequestID)
	assert.Equal(t, map[string]any{"id": float64(9)}, env.Data)
}

func TestHandle_NoContentHasNoBody(t *testing.T) {
	h := phttp.Handle(func(*http.Request) phttp.Response { return phttp.NoContent() })
	rec, _ := serve(h, reqWithReqID(http.MethodDelete, "/r/1", "rid-2", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestHandle_ErrorsPickTheirStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   perr.ErrorCode
	}{
		{perr.NotFoundf("reminder 4 not found"), http.StatusNotFound, perr.ErrorCodeNotFound},
		{perr.Forbiddenf("nope"), http.StatusForbidden, perr.ErrorCodeForbidden},
		{errors.New("boom"), http.StatusInternalServerError, perr.ErrorCodeUnknown},
	}
	for _, c := range cases {
		h := phttp.Handle(func(*http.Request) phttp.Response { return phttp.Error(c.err) })
		rec, env := serve(h, reqWithReqID(http.MethodGet, "/x", "rid-3", nil))
		assert.Equal(t, c.status, rec.Code)
		assert.Equal(t, c.code, env.Code)
		assert.NotEmpty(t, env.Error)
		assert.Nil(t, env.Data)
		assert.Equal(t, "rid-3", env.RequestID)
	}
}

func TestHandle_ExtraHeaders(t *testing.T) {
	h := phttp.Handle(func(*http.Request) phttp.Response {
		resp := phttp.OK("hello")
		resp.Header = http.Header{"X-Remindme": {"yes"}}
		return resp
	})
	rec, env := serve(h, reqWithReqID(http.MethodGet, "/x", "", nil))
	assert.Equal(t, "yes", rec.Header().Get("X-Remindme"))
	assert.Equal(t, "hello", env.Data)
}

type inDTO struct {
	N int `json:"n" validate:"min=1"`
}

func TestJSONHandler(t *testing.T) {
	double := phttp.JSONHandler(func(_ *http.Request, in inDTO) (any, error) {
		if in.N == 13 {
			return nil, perr.InvalidArgf("unlucky")
		}
		if in.N == 7 {
			return phttp.Created(in.N), nil
		}
		return map[string]int{"doubled": in.N * 2}, nil
	})

	rec, env := serve(double, reqWithReqID(http.MethodPost, "/x", "", []byte(`{"n":4}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"doubled": float64(8)}, env.Data)

	rec, _ = serve(double, reqWithReqID(http.MethodPost, "/x", "", []byte(`{"n":7}`)))
	assert.Equal(t, http.StatusCreated, rec.Code, "a returned Response picks the status")

	rec, env = serve(double, reqWithReqID(http.MethodPost, "/x", "", []byte(`{"n":13}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "unlucky", env.Error)

	rec, env = serve(double, reqWithReqID(http.MethodPost, "/x", "", []byte(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, perr.ErrorCodeJSON, env.Code)

	rec, env = serve(double, reqWithReqID(http.MethodPost, "/x", "", []byte(`{"n":0}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, perr.ErrorCodeValidation, env.Code)
}
