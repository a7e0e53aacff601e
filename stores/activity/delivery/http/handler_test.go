package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/nftauction/base/validator"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/activity"
	"github.com/x-xyz/nftauction/domain/activity/mocks"
	"github.com/x-xyz/nftauction/middleware"
)

const (
	contract = domain.Address("0x1000000000000000000000000000000000000001")
	bob      = "0x0000000000000000000000000000000000000b0b"
)

type handlerSuite struct {
	suite.Suite

	e  *echo.Echo
	uc *mocks.UseCase
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(handlerSuite))
}

func (s *handlerSuite) SetupTest() {
	s.e = echo.New()
	s.e.Validator = validator.NewCustomValidator(validator.New())
	s.e.Use(middleware.InitMiddleware().AddContext())
	s.uc = &mocks.UseCase{}
	New(s.e, s.uc, 1337, contract)
}

func (s *handlerSuite) get(target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	body := map[string]interface{}{}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func (s *handlerSuite) TestFindAll() {
	var got []activity.FindAllOptions
	s.uc.On("FindAll", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			got = args.Get(1).([]activity.FindAllOptions)
		}).
		Return([]*activity.Activity{{Type: activity.TypePlaceBid, Price: "10"}}, 1, nil)

	rec, body := s.get("/activities?auctionId=3&account=" + bob + "&types=placeBid,bidRefunded&limit=5")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("success", body["status"])
	data := body["data"].(map[string]interface{})
	s.Equal(float64(1), data["count"])
	s.Len(data["items"], 1)

	opts, err := activity.GetFindAllOptions(got...)
	s.Require().NoError(err)
	s.Equal(5, *opts.Limit)
	s.Equal(0, *opts.Offset)
	s.Equal(uint64(3), *opts.AuctionId)
	s.Equal(domain.Address(bob), *opts.Account)
	s.Equal(contract, *opts.Contract)
	s.Equal(domain.ChainId(1337), *opts.ChainId)
	s.Equal([]activity.Type{activity.TypePlaceBid, activity.TypeBidRefunded}, opts.Types)
}

func (s *handlerSuite) TestFindAllBadInput() {
	rec, _ := s.get("/activities?types=swap")
	s.Equal(http.StatusBadRequest, rec.Code)
	rec, _ = s.get("/activities?account=0x12")
	s.Equal(http.StatusBadRequest, rec.Code)
	rec, _ = s.get("/activities?limit=1000")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.uc.AssertNotCalled(s.T(), "FindAll", mock.Anything, mock.Anything)
}

func (s *handlerSuite) TestGetSummary() {
	s.uc.On("GetSummary", mock.Anything, &activity.SummaryId{
		ChainId:         1337,
		ContractAddress: contract,
		Account:         domain.Address(bob),
	}).Return(&activity.AccountSummary{Account: domain.Address(bob), Bids: 2}, nil)

	rec, body := s.get("/activities/summaries/" + bob)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(float64(2), body["data"].(map[string]interface{})["bids"])

	s.uc.On("GetSummary", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	rec, _ = s.get("/activities/summaries/0x00000000000000000000000000000000000ca201")
	s.Equal(http.StatusNotFound, rec.Code)

	rec, _ = s.get("/activities/summaries/carol")
	s.Equal(http.StatusBadRequest, rec.Code)
}
