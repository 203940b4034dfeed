package controller

import (
	"net/http"
	"time"

	"auction-management-api/internal/common"
	"auction-management-api/internal/entity"
	"auction-management-api/internal/notifier"
	"auction-management-api/internal/service"
	"auction-management-api/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo"
)

type auctionRoutesHandler struct {
	auctionService service.Auction
	notifier       notifier.Notifier
	validate       *validator.Validate
}

func newAuctionRoutesHandler(outer *echo.Group, services *service.Services, n notifier.Notifier, v *validator.Validate) *auctionRoutesHandler {
	h := &auctionRoutesHandler{auctionService: services.Auction, notifier: n, validate: v}

	outer.GET("/auctions", h.GetAuctions)
	outer.POST("/auctions/new", h.PostAuction)
	outer.POST("/auctions/sweep", h.Sweep)
	outer.POST("/auctions/notify-pending", h.NotifyPending)
	outer.GET("/auctions/:auctionId", h.GetAuction)
	outer.PATCH("/auctions/:auctionId/edit", h.EditAuction)
	outer.DELETE("/auctions/:auctionId", h.DeleteAuction)
	outer.GET("/auctions/:auctionId/statistics", h.GetAuctionStatistics)
	outer.GET("/auctions/:auctionId/can-receive-bids", h.GetCanReceiveBids)

	return h
}

type postAuctionInput struct {
	Name       string  `json:"name" validate:"required,max=200"`
	MinimumBid float64 `json:"minimumBid" validate:"required"`
	StartTime  string  `json:"startTime" validate:"required"`
	EndTime    string  `json:"endTime" validate:"required"`
}

// /auctions/new
func (h *auctionRoutesHandler) PostAuction(c echo.Context) error {
	var input postAuctionInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	startTime, err := validation.ParseAuctionDate("startTime", input.StartTime)
	if err != nil {
		return handleServiceError(c, err)
	}

	endTime, err := validation.ParseAuctionDate("endTime", input.EndTime)
	if err != nil {
		return handleServiceError(c, err)
	}

	// AllowPast stays false on this path: backdated auctions are for
	// in-process callers only
	model := &entity.CreateAuctionInput{
		Name:       input.Name,
		MinimumBid: input.MinimumBid,
		StartTime:  startTime,
		EndTime:    endTime,
	}

	auction, err := h.auctionService.CreateAuction(c.Request().Context(), model)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, auction)
}

type getAuctionsInput struct {
	Status    string `query:"status" validate:"omitempty,oneof=INACTIVE OPEN FINALIZED EXPIRED"`
	StartFrom string `query:"startFrom"`
	StartTo   string `query:"startTo"`
	EndFrom   string `query:"endFrom"`
	EndTo     string `query:"endTo"`
}

// /auctions
func (h *auctionRoutesHandler) GetAuctions(c echo.Context) error {
	var input getAuctionsInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	filter := &entity.AuctionFilter{}
	if input.Status != "" {
		status, err := common.ParseAuctionStatus(input.Status)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{err.Error()})
		}
		filter.Status = &status
	}

	var parseErr error
	filter.StartFrom, parseErr = parseOptionalDate("startFrom", input.StartFrom)
	if parseErr != nil {
		return handleServiceError(c, parseErr)
	}
	filter.StartTo, parseErr = parseOptionalDate("startTo", input.StartTo)
	if parseErr != nil {
		return handleServiceError(c, parseErr)
	}
	filter.EndFrom, parseErr = parseOptionalDate("endFrom", input.EndFrom)
	if parseErr != nil {
		return handleServiceError(c, parseErr)
	}
	filter.EndTo, parseErr = parseOptionalDate("endTo", input.EndTo)
	if parseErr != nil {
		return handleServiceError(c, parseErr)
	}

	auctions, err := h.auctionService.ListAuctions(c.Request().Context(), filter)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, auctions)
}

func parseOptionalDate(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := validation.ParseAuctionDate(field, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// /auctions/:auctionId
func (h *auctionRoutesHandler) GetAuction(c echo.Context) error {
	id, err := uuid.Parse(c.Param("auctionId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"auctionId is not a valid id"})
	}

	auction, err := h.auctionService.GetAuctionById(c.Request().Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, auction)
}

type editAuctionInput struct {
	Name       *string  `json:"name"`
	MinimumBid *float64 `json:"minimumBid"`
	StartTime  *string  `json:"startTime"`
	EndTime    *string  `json:"endTime"`
}

// /auctions/:auctionId/edit
func (h *auctionRoutesHandler) EditAuction(c echo.Context) error {
	id, err := uuid.Parse(c.Param("auctionId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"auctionId is not a valid id"})
	}

	var input editAuctionInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	model := &entity.UpdateAuctionInput{
		Name:       input.Name,
		MinimumBid: input.MinimumBid,
	}
	if input.StartTime != nil {
		startTime, err := validation.ParseAuctionDate("startTime", *input.StartTime)
		if err != nil {
			return handleServiceError(c, err)
		}
		model.StartTime = &startTime
	}
	if input.EndTime != nil {
		endTime, err := validation.ParseAuctionDate("endTime", *input.EndTime)
		if err != nil {
			return handleServiceError(c, err)
		}
		model.EndTime = &endTime
	}

	auction, err := h.auctionService.UpdateAuction(c.Request().Context(), id, model)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, auction)
}

// /auctions/:auctionId
func (h *auctionRoutesHandler) DeleteAuction(c echo.Context) error {
	id, err := uuid.Parse(c.Param("auctionId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"auctionId is not a valid id"})
	}

	if err := h.auctionService.DeleteAuction(c.Request().Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// /auctions/sweep
func (h *auctionRoutesHandler) Sweep(c echo.Context) error {
	result, err := h.auctionService.RefreshStatuses(c.Request().Context(), c.QueryParam("notify") == "true")
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// /auctions/notify-pending
func (h *auctionRoutesHandler) NotifyPending(c echo.Context) error {
	report, err := notifier.NotifyPendingWinners(c.Request().Context(), h.notifier, h.auctionService)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, report)
}

// /auctions/:auctionId/statistics
func (h *auctionRoutesHandler) GetAuctionStatistics(c echo.Context) error {
	id, err := uuid.Parse(c.Param("auctionId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"auctionId is not a valid id"})
	}

	stats, err := h.auctionService.GetAuctionStatistics(c.Request().Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, stats)
}

// /auctions/:auctionId/can-receive-bids
func (h *auctionRoutesHandler) GetCanReceiveBids(c echo.Context) error {
	id, err := uuid.Parse(c.Param("auctionId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"auctionId is not a valid id"})
	}

	allowed, reason, err := h.auctionService.CanReceiveBids(c.Request().Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, canModifyResponse{Allowed: allowed, Reason: reason})
}
