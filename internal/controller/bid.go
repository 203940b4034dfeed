package controller

import (
	"net/http"

	"auction-management-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo"
)

type bidRoutesHandler struct {
	bidService service.Bid
	validate   *validator.Validate
}

func newBidRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *bidRoutesHandler {
	h := &bidRoutesHandler{bidService: services.Bid, validate: v}

	outer.POST("/bids/new", h.PostBid)
	outer.POST("/bids/simulate", h.SimulateBid)
	outer.GET("/bids/:bidId", h.GetBid)
	outer.GET("/auctions/:auctionId/bids", h.GetAuctionBids)
	outer.GET("/auctions/:auctionId/bids/history", h.GetBidHistory)
	outer.GET("/auctions/:auctionId/bids/ranking", h.GetRanking)
	outer.GET("/auctions/:auctionId/bids/range", h.GetBidRange)
	outer.GET("/auctions/:auctionId/bids/next-minimum", h.GetNextMinimum)
	outer.GET("/participants/:participantId/bids", h.GetParticipantBids)
	outer.GET("/participants/:participantId/can-bid/:auctionId", h.GetCanPlaceBid)

	return h
}

type postBidInput struct {
	AuctionId     string  `json:"auctionId" validate:"required,uuid"`
	ParticipantId string  `json:"participantId" validate:"required,uuid"`
	Amount        float64 `json:"amount" validate:"required"`
}

// /bids/new
func (h *bidRoutesHandler) PostBid(c echo.Context) error {
	var input postBidInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	bid, err := h.bidService.PlaceBid(c.Request().Context(), uuid.MustParse(input.ParticipantId), uuid.MustParse(input.AuctionId), input.Amount)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, bid)
}

// /bids/simulate
func (h *bidRoutesHandler) SimulateBid(c echo.Context) error {
	var input postBidInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	simulation, err := h.bidService.SimulateBid(c.Request().Context(), uuid.MustParse(input.ParticipantId), uuid.MustParse(input.AuctionId), input.Amount)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, simulation)
}

// /bids/:bidId
func (h *bidRoutesHandler) GetBid(c echo.Context) error {
	id, err := uuid.Parse(c.Param("bidId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"bidId is not a valid id"})
	}

	bid, err := h.bidService.GetBidById(c.Request().Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, bid)
}

type getAuctionBidsInput struct {
	Order string `query:"order" validate:"omitempty,oneof=asc desc"`
}

// /auctions/:auctionId/bids
func (h *bidRoutesHandler) GetAuctionBids(c echo.Context) error {
	id, err := uuid.Parse(c.Param("auctionId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"auctionId is not a valid id"})
	}

	var input getAuctionBidsInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	bids, err := h.bidService.ListBidsByAuction(c.Request().Context(), id, input.Order != "desc")
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, bids)
}

// /auctions/:auctionId/bids/history
func (h *bidRoutesHandler) GetBidHistory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("auctionId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"auctionId is not a valid id"})
	}

	history, err := h.bidService.GetBidHistory(c.Request().Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, history)
}

// /auctions/:auctionId/bids/ranking
func (h *bidRoutesHandler) GetRanking(c echo.Context) error {
	id, err := uuid.Parse(c.Param("auctionId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"auctionId is not a valid id"})
	}

	ranking, err := h.bidService.GetRanking(c.Request().Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, ranking)
}

// /auctions/:auctionId/bids/range
func (h *bidRoutesHandler) GetBidRange(c echo.Context) error {
	id, err := uuid.Parse(c.Param("auctionId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"auctionId is not a valid id"})
	}

	bidRange, err := h.bidService.GetBidRange(c.Request().Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, bidRange)
}

type nextMinimumResponse struct {
	NextMinimum float64 `json:"nextMinimum"`
}

// /auctions/:auctionId/bids/next-minimum
func (h *bidRoutesHandler) GetNextMinimum(c echo.Context) error {
	id, err := uuid.Parse(c.Param("auctionId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"auctionId is not a valid id"})
	}

	amount, err := h.bidService.NextMinimumAmount(c.Request().Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, nextMinimumResponse{NextMinimum: amount})
}

type getParticipantBidsInput struct {
	AuctionId string `query:"auctionId" validate:"omitempty,uuid"`
}

// /participants/:participantId/bids
func (h *bidRoutesHandler) GetParticipantBids(c echo.Context) error {
	id, err := uuid.Parse(c.Param("participantId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"participantId is not a valid id"})
	}

	var input getParticipantBidsInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	var auctionId *uuid.UUID
	if input.AuctionId != "" {
		parsed := uuid.MustParse(input.AuctionId)
		auctionId = &parsed
	}

	bids, err := h.bidService.ListBidsByParticipant(c.Request().Context(), id, auctionId)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, bids)
}

// /participants/:participantId/can-bid/:auctionId
func (h *bidRoutesHandler) GetCanPlaceBid(c echo.Context) error {
	participantId, err := uuid.Parse(c.Param("participantId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"participantId is not a valid id"})
	}

	auctionId, err := uuid.Parse(c.Param("auctionId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"auctionId is not a valid id"})
	}

	allowed, reason, err := h.bidService.CanPlaceBid(c.Request().Context(), participantId, auctionId)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, canModifyResponse{Allowed: allowed, Reason: reason})
}
