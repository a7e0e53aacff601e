package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/delivery"
	hcdomain "github.com/x-xyz/nftauction/domain/healthcheck"
)

type handler struct {
	hc hcdomain.HealthCheckUsecase
}

// New mounts GET /health, answering 503 while the chain or the store is unreachable
func New(e *echo.Echo, hc hcdomain.HealthCheckUsecase) {
	h := &handler{hc: hc}
	e.GET("/health", h.check)
}

func (h *handler) check(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	if err := h.hc.Check(ctx); err != nil {
		ctx.WithField("err", err).Warn("health check failed")
		return delivery.MakeJsonResp(c, http.StatusServiceUnavailable, err.Error())
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}
