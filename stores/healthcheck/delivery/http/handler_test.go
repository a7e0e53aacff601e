package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/middleware"
)

type stubCheck struct {
	err error
}

func (s *stubCheck) Check(ctx.Ctx) error {
	return s.err
}

func TestCheck(t *testing.T) {
	req := require.New(t)
	hc := &stubCheck{}
	e := echo.New()
	e.Use(middleware.InitMiddleware().AddContext())
	New(e, hc)

	get := func() (int, map[string]interface{}) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		body := map[string]interface{}{}
		req.NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		return rec.Code, body
	}

	code, body := get()
	req.Equal(http.StatusOK, code)
	req.Equal("success", body["status"])
	req.Equal("ok", body["data"])

	hc.err = errors.New("mongo: no reachable servers")
	code, body = get()
	req.Equal(http.StatusServiceUnavailable, code)
	req.Equal("fail", body["status"])
	req.Equal("mongo: no reachable servers", body["data"])
}
