package http

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/delivery"
	"github.com/x-xyz/nftauction/base/validator"
	"github.com/x-xyz/nftauction/domain/erc20"
	"github.com/x-xyz/nftauction/middleware"
)

type handler struct {
	tu erc20.UseCase
}

func New(e *echo.Echo, tu erc20.UseCase) {
	h := &handler{
		tu: tu,
	}
	g := e.Group("/tokens")
	g.GET("", h.getInfo)
	g.GET("/balances/:address", h.getBalance, middleware.IsValidAddress("address"))
	g.GET("/allowances/:owner/:spender", h.getAllowance, middleware.IsValidAddress("owner"), middleware.IsValidAddress("spender"))
	g.POST("/approve", h.approve)
	g.POST("/transfer", h.transfer)
	g.POST("/transferFrom", h.transferFrom)
}

func (h *handler) getInfo(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	info, err := h.tu.Info(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, info)
}

func (h *handler) getBalance(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	balance, err := h.tu.BalanceOf(ctx, common.HexToAddress(c.Param("address")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, balance.String())
}

func (h *handler) getAllowance(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	allowance, err := h.tu.Allowance(ctx, common.HexToAddress(c.Param("owner")), common.HexToAddress(c.Param("spender")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, allowance.String())
}

type amountPayload struct {
	From   string `json:"from" validate:"required,address"`
	To     string `json:"to" validate:"required,address"`
	Amount string `json:"amount" validate:"required,uint256"`
}

func (h *handler) approve(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &amountPayload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	amount, _ := validator.ParseUint256(p.Amount)

	r, err := h.tu.Approve(ctx, common.HexToAddress(p.From), common.HexToAddress(p.To), amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, r)
}

func (h *handler) transfer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &amountPayload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	amount, _ := validator.ParseUint256(p.Amount)

	r, err := h.tu.Transfer(ctx, common.HexToAddress(p.From), common.HexToAddress(p.To), amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, r)
}

func (h *handler) transferFrom(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		Spender string `json:"spender" validate:"required,address"`
		amountPayload
	}
	p := &payload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	amount, _ := validator.ParseUint256(p.Amount)

	r, err := h.tu.TransferFrom(ctx, common.HexToAddress(p.Spender), common.HexToAddress(p.From), common.HexToAddress(p.To), amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, r)
}
