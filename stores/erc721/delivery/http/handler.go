package http

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/delivery"
	"github.com/x-xyz/nftauction/base/validator"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/erc721"
	"github.com/x-xyz/nftauction/middleware"
)

type handler struct {
	nu erc721.UseCase
}

func New(e *echo.Echo, nu erc721.UseCase) {
	h := &handler{
		nu: nu,
	}
	g := e.Group("/nfts")
	g.GET("", h.getInfo)
	g.GET("/:tokenId", h.getToken)
	g.GET("/balances/:address", h.getBalance, middleware.IsValidAddress("address"))
	g.POST("/mint", h.mint)
	g.POST("/approve", h.approve)
	g.POST("/approvalForAll", h.setApprovalForAll)
	g.POST("/transfer", h.transfer)
	g.POST("/proxies", h.registerProxy)
}

func (h *handler) getInfo(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	info, err := h.nu.Info(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, info)
}

func (h *handler) getToken(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	tokenId, err := validator.ParseUint256(c.Param("tokenId"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	token, err := h.nu.Get(ctx, tokenId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, token)
}

func (h *handler) getBalance(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	balance, err := h.nu.BalanceOf(ctx, common.HexToAddress(c.Param("address")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, balance.String())
}

func (h *handler) mint(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		From string `json:"from" validate:"required,address"`
		To   string `json:"to" validate:"required,address"`
	}
	p := &payload{}
	if err := bindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	tokenId, r, err := h.nu.MintTo(ctx, common.HexToAddress(p.From), common.HexToAddress(p.To))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, map[string]interface{}{
		"tokenId": tokenId.String(),
		"receipt": r,
	})
}

func (h *handler) approve(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		From    string `json:"from" validate:"required,address"`
		To      string `json:"to" validate:"required,address"`
		TokenId string `json:"tokenId" validate:"required,uint256"`
	}
	p := &payload{}
	if err := bindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	tokenId, _ := validator.ParseUint256(p.TokenId)

	r, err := h.nu.Approve(ctx, common.HexToAddress(p.From), common.HexToAddress(p.To), tokenId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, r)
}

func (h *handler) setApprovalForAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		From     string `json:"from" validate:"required,address"`
		Operator string `json:"operator" validate:"required,address"`
		Approved bool   `json:"approved"`
	}
	p := &payload{}
	if err := bindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	r, err := h.nu.SetApprovalForAll(ctx, common.HexToAddress(p.From), common.HexToAddress(p.Operator), p.Approved)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, r)
}

func (h *handler) transfer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		Sender  string `json:"sender" validate:"required,address"`
		From    string `json:"from" validate:"required,address"`
		To      string `json:"to" validate:"required,address"`
		TokenId string `json:"tokenId" validate:"required,uint256"`
	}
	p := &payload{}
	if err := bindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	tokenId, _ := validator.ParseUint256(p.TokenId)

	r, err := h.nu.TransferFrom(ctx, common.HexToAddress(p.Sender), common.HexToAddress(p.From), common.HexToAddress(p.To), tokenId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, r)
}

func (h *handler) registerProxy(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		From  string `json:"from" validate:"required,address"`
		Proxy string `json:"proxy" validate:"required,address"`
	}
	p := &payload{}
	if err := bindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	r, err := h.nu.RegisterProxy(ctx, common.HexToAddress(p.From), common.HexToAddress(p.Proxy))
	if err == domain.ErrNotFound {
		return delivery.MakeJsonResp(c, http.StatusNotFound, "proxy registry is not on this chain")
	} else if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, r)
}

func bindAndValidate(c echo.Context, p interface{}) error {
	if err := c.Bind(p); err != nil {
		return err
	}
	return c.Validate(p)
}

