package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/delivery"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/activity"
	"github.com/x-xyz/nftauction/middleware"
)

const defaultLimit = 20

type handler struct {
	chainId  domain.ChainId
	contract domain.Address
	uc       activity.UseCase
}

// New serves the projected activities of one auction contract
func New(e *echo.Echo, uc activity.UseCase, chainId domain.ChainId, contract domain.Address) {
	h := &handler{
		chainId:  chainId,
		contract: contract.ToLower(),
		uc:       uc,
	}

	g := e.Group("/activities")
	g.GET("", h.findAll)
	g.GET("/summaries/:address", h.getSummary, middleware.IsValidAddress("address"))
}

// findAll
//
//	@Summary	List auction activities
//	@Tags		activities
//	@Produce	json
//	@Param		offset		query		int			false	"paging offset"	example(0)
//	@Param		limit		query		int			false	"paging size"	example(20)
//	@Param		auctionId	query		int			false	"auction id"
//	@Param		account		query		string		false	"account address"
//	@Param		types		query		[]string	false	"activity types"	enums(createAuction, placeBid, bidRefunded, resultAuction, wonAuction, cancelAuction)	collectionFormat(csv)
//	@Success	200			{object}	activity.SearchResult
//	@Failure	400
//	@Failure	500
//	@Router		/activities [get]
func (h *handler) findAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		Offset    int     `query:"offset" validate:"min=0"`
		Limit     int     `query:"limit" validate:"min=0,max=100"`
		AuctionId string  `query:"auctionId" validate:"omitempty,numeric"`
		Account   string  `query:"account" validate:"omitempty,address"`
		Types     string  `query:"types"`
	}
	p := &payload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if p.Limit == 0 {
		p.Limit = defaultLimit
	}

	opts := []activity.FindAllOptions{
		activity.WithPagination(p.Offset, p.Limit),
		activity.WithChainId(h.chainId),
		activity.WithContract(h.contract),
	}
	if p.AuctionId != "" {
		id, err := strconv.ParseUint(p.AuctionId, 10, 64)
		if err != nil {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
		}
		opts = append(opts, activity.WithAuctionId(id))
	}
	if p.Account != "" {
		opts = append(opts, activity.WithAccount(domain.Address(p.Account)))
	}
	if p.Types != "" {
		types, err := parseTypes(p.Types)
		if err != nil {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
		}
		opts = append(opts, activity.WithTypes(types...))
	}

	items, cnt, err := h.uc.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, &activity.SearchResult{Items: items, Count: cnt})
}

func (h *handler) getSummary(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	s, err := h.uc.GetSummary(ctx, &activity.SummaryId{
		ChainId:         h.chainId,
		ContractAddress: h.contract,
		Account:         domain.Address(c.Param("address")),
	})
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, s)
}

// parseTypes reads a comma separated list of activity types
func parseTypes(s string) ([]activity.Type, error) {
	res := []activity.Type{}
	for _, t := range strings.Split(s, ",") {
		typ := activity.Type(strings.TrimSpace(t))
		if !typ.IsValid() {
			return nil, domain.ErrBadParamInput
		}
		res = append(res, typ)
	}
	return res, nil
}
