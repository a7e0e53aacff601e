package http

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/delivery"
	"github.com/x-xyz/nftauction/base/validator"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/auction"
	"github.com/x-xyz/nftauction/middleware"
)

const defaultLimit = 20

type handler struct {
	au auction.UseCase
}

func New(e *echo.Echo, au auction.UseCase) {
	h := &handler{
		au: au,
	}

	auctions := e.Group("/auctions")
	auctions.GET("", h.findAll)
	auctions.POST("", h.create)
	auctions.GET("/:id", h.get)
	auctions.GET("/:id/minimumBid", h.getMinimumBid)
	auctions.GET("/:id/activities", h.getActivities)
	auctions.POST("/:id/bid", h.bid)
	auctions.POST("/:id/end", h.end)
	auctions.POST("/:id/cancel", h.cancel)

	cfg := e.Group("/auction")
	cfg.GET("/config", h.getConfig)
	cfg.PUT("/bidPricePercent", h.setBidPricePercent)
	cfg.PUT("/owner", h.transferOwnership)

	e.GET("/accounts/:address/auctions", h.getAccount, middleware.IsValidAddress("address"))
}

// findAll
//
//	@Summary		List auctions
//	@Tags			auctions
//	@Produce		json
//	@Param			offset		query		int		false	"paging offset"	example(0)
//	@Param			limit		query		int		false	"paging size"	example(20)
//	@Param			seller		query		string	false	"seller address"
//	@Param			bidder		query		string	false	"current highest bidder"
//	@Param			nftContract	query		string	false	"nft contract address"
//	@Param			status		query		string	false	"auction status"	enums(normal, ended, canceled)
//	@Success		200			{array}		auction.Auction
//	@Failure		400
//	@Router			/auctions [get]
func (h *handler) findAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		Offset      int    `query:"offset" validate:"min=0"`
		Limit       int    `query:"limit" validate:"min=0,max=100"`
		Seller      string `query:"seller" validate:"omitempty,address"`
		Bidder      string `query:"bidder" validate:"omitempty,address"`
		NftContract string `query:"nftContract" validate:"omitempty,address"`
		Status      string `query:"status"`
	}
	p := &payload{}
	if err := bindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if p.Limit == 0 {
		p.Limit = defaultLimit
	}

	opts := []auction.FindAllOptions{auction.WithPagination(p.Offset, p.Limit)}
	if p.Seller != "" {
		opts = append(opts, auction.WithSeller(common.HexToAddress(p.Seller)))
	}
	if p.Bidder != "" {
		opts = append(opts, auction.WithBidder(common.HexToAddress(p.Bidder)))
	}
	if p.NftContract != "" {
		opts = append(opts, auction.WithNftContract(common.HexToAddress(p.NftContract)))
	}
	if p.Status != "" {
		status, err := auction.ParseStatus(p.Status)
		if err != nil {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
		}
		opts = append(opts, auction.WithStatus(status))
	}

	res, err := h.au.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// get
//
//	@Summary	Get auction
//	@Tags		auctions
//	@Produce	json
//	@Param		id	path		int	true	"auction id"	example(0)
//	@Success	200	{object}	auction.Auction
//	@Failure	400
//	@Failure	404
//	@Router		/auctions/{id} [get]
func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	id, err := parseId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	a, err := h.au.Get(ctx, id)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, a)
}

func (h *handler) getMinimumBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	id, err := parseId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	min, err := h.au.MinimumBid(ctx, id)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, min.String())
}

func (h *handler) getActivities(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	id, err := parseId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	bids, err := h.au.Activities(ctx, id)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, bids)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		From        string `json:"from" validate:"required,address"`
		NftContract string `json:"nftContract" validate:"required,address"`
		ItemId      string `json:"itemId" validate:"required,uint256"`
		Price       string `json:"price" validate:"required,uint256"`
		Start       uint64 `json:"start"`
		End         uint64 `json:"end"`
	}
	p := &payload{}
	if err := bindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	itemId, _ := validator.ParseUint256(p.ItemId)
	price, _ := validator.ParseUint256(p.Price)

	id, r, err := h.au.CreateAuction(ctx, common.HexToAddress(p.From), &auction.CreateParams{
		NftContract: common.HexToAddress(p.NftContract),
		ItemId:      itemId,
		Price:       price,
		Start:       p.Start,
		End:         p.End,
	})
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, map[string]interface{}{
		"auctionId": id,
		"receipt":   r,
	})
}

// bid
//
//	@Summary		Place a bid
//	@Description	the native currency auction attaches amount as the transaction value
//	@Tags			auctions
//	@Accept			json
//	@Produce		json
//	@Param			id	path		int	true	"auction id"	example(0)
//	@Success		200	{object}	ledger.Receipt
//	@Failure		400
//	@Router			/auctions/{id}/bid [post]
func (h *handler) bid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	id, err := parseId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	type payload struct {
		From   string `json:"from" validate:"required,address"`
		Amount string `json:"amount" validate:"required,uint256"`
	}
	p := &payload{}
	if err := bindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	amount, _ := validator.ParseUint256(p.Amount)

	r, err := h.au.Bid(ctx, common.HexToAddress(p.From), id, amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, r)
}

type fromPayload struct {
	From string `json:"from" validate:"required,address"`
}

func (h *handler) end(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	id, err := parseId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	p := &fromPayload{}
	if err := bindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	r, err := h.au.EndAuction(ctx, common.HexToAddress(p.From), id)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, r)
}

func (h *handler) cancel(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	id, err := parseId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	p := &fromPayload{}
	if err := bindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	r, err := h.au.CancelAuction(ctx, common.HexToAddress(p.From), id)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, r)
}

func (h *handler) getConfig(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	cfg, err := h.au.Config(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, cfg)
}

func (h *handler) setBidPricePercent(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		From            string `json:"from" validate:"required,address"`
		BidPricePercent uint64 `json:"bidPricePercent" validate:"required"`
	}
	p := &payload{}
	if err := bindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	r, err := h.au.SetBidPricePercent(ctx, common.HexToAddress(p.From), p.BidPricePercent)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, r)
}

func (h *handler) transferOwnership(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		From     string `json:"from" validate:"required,address"`
		NewOwner string `json:"newOwner" validate:"required,address"`
	}
	p := &payload{}
	if err := bindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	r, err := h.au.TransferOwnership(ctx, common.HexToAddress(p.From), common.HexToAddress(p.NewOwner))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, r)
}

func (h *handler) getAccount(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	res, err := h.au.Account(ctx, common.HexToAddress(c.Param("address")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func parseId(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, domain.ErrBadParamInput
	}
	return id, nil
}

func bindAndValidate(c echo.Context, p interface{}) error {
	if err := c.Bind(p); err != nil {
		return err
	}
	return c.Validate(p)
}
