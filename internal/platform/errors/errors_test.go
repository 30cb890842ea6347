package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NotFoundf("reminder 3 not found"), http.StatusNotFound},
		{InvalidArgf("bad id"), http.StatusUnprocessableEntity},
		{New(ErrorCodeDuplicateKey, "dup"), http.StatusConflict},
		{New(ErrorCodeConflict, "edit race"), http.StatusConflict},
		{New(ErrorCodeValidation, "owner"), http.StatusBadRequest},
		{JSONErrf("trailing data"), http.StatusBadRequest},
		{Unauthorizedf("no token"), http.StatusUnauthorized},
		{Forbiddenf("reader"), http.StatusForbidden},
		{New(ErrorCodeTooManyRequests, "slow down"), http.StatusTooManyRequests},
		{Unavailablef("delivery down"), http.StatusServiceUnavailable},
		{Upstreamf("status 400"), http.StatusBadGateway},
		{New(ErrorCodeDB, "db"), http.StatusInternalServerError},
		{PanicErrf("panic"), http.StatusInternalServerError},
		{New(ErrorCode(9999), "future code"), http.StatusInternalServerError},
		{stderrs.New("foreign"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, HTTPStatus(c.err), c.err.Error())
	}
}

func TestError_RenderAndUnwrap(t *testing.T) {
	var nilErr *Error
	assert.Equal(t, "<nil>", nilErr.Error())

	assert.Equal(t, "bad json 12", Newf(ErrorCodeJSON, "bad json %d", 12).Error())

	src := stderrs.New("database is locked")
	wrapped := Wrapf(src, ErrorCodeDB, "save %s", "reminder")
	assert.Equal(t, "save reminder: database is locked", wrapped.Error())
	assert.ErrorIs(t, wrapped, src)
	assert.True(t, IsCode(wrapped, ErrorCodeDB))

	got, ok := As(fmt.Errorf("cycle: %w", wrapped))
	require.True(t, ok)
	assert.Equal(t, ErrorCodeDB, got.Code())

	_, ok = As(src)
	assert.False(t, ok)
	assert.True(t, IsCode(src, ErrorCodeUnknown))
}

func TestWithField_CopiesOnWrite(t *testing.T) {
	orig := InvalidArgf("owner is required")
	named := WithField(orig, "owner")

	e, _ := As(named)
	assert.Equal(t, "owner", e.Field())
	e0, _ := As(orig)
	assert.Empty(t, e0.Field())

	foreign := stderrs.New("x")
	assert.Same(t, foreign, WithField(foreign, "owner"))
}

func TestWireFrom(t *testing.T) {
	assert.Equal(t, Wire{}, WireFrom(nil))
	assert.Equal(t, Wire{Code: ErrorCodeUnknown, Message: "root"}, WireFrom(stderrs.New("root")))

	err := WithField(Wrap(stderrs.New("secret detail"), ErrorCodeValidation, "owner too long"), "owner")
	assert.Equal(t, Wire{Code: ErrorCodeValidation, Message: "owner too long", Field: "owner"}, WireFrom(err),
		"the wrapped cause stays off the wire")
}

func TestRoot(t *testing.T) {
	src := stderrs.New("root")
	assert.Same(t, src, Root(fmt.Errorf("level2: %w", fmt.Errorf("level1: %w", src))))
	assert.Nil(t, Root(nil))
	assert.True(t, IsCode(ErrNotFound, ErrorCodeNotFound))
}
