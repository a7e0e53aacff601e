package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/delivery"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/chain"
)

type handler struct {
	cu chain.UseCase
}

func New(e *echo.Echo, cu chain.UseCase) {
	h := &handler{
		cu: cu,
	}

	g := e.Group("/chain")
	g.GET("/head", h.getHead)
	g.GET("/blocks/:number", h.getBlock)
	g.POST("/increaseTime", h.increaseTime)
}

func (h *handler) getHead(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	b, err := h.cu.Head(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, b)
}

func (h *handler) getBlock(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	number, err := strconv.ParseUint(c.Param("number"), 10, 64)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	b, err := h.cu.BlockByNumber(ctx, domain.BlockNumber(number))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, b)
}

func (h *handler) increaseTime(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		Seconds int64 `json:"seconds" validate:"min=0"`
	}
	p := &payload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	now, err := h.cu.IncreaseTime(ctx, time.Duration(p.Seconds)*time.Second)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, map[string]int64{"now": now.Unix()})
}
