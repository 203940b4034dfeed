package controller

import (
	"net/http"

	"auction-management-api/internal/entity"
	"auction-management-api/internal/service"
	"auction-management-api/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo"
)

type participantRoutesHandler struct {
	participantService service.Participant
	validate           *validator.Validate
}

func newParticipantRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *participantRoutesHandler {
	h := &participantRoutesHandler{participantService: services.Participant, validate: v}

	outer.GET("/participants", h.GetParticipants)
	outer.POST("/participants/new", h.PostParticipant)
	outer.GET("/participants/by-identity/:identityNumber", h.GetParticipantByIdentityNumber)
	outer.GET("/participants/by-email", h.GetParticipantByEmail)
	outer.GET("/participants/:participantId", h.GetParticipant)
	outer.PATCH("/participants/:participantId/edit", h.EditParticipant)
	outer.DELETE("/participants/:participantId", h.DeleteParticipant)
	outer.GET("/participants/:participantId/statistics", h.GetParticipantStatistics)
	outer.GET("/participants/:participantId/can-modify", h.GetCanModify)

	return h
}

type postParticipantInput struct {
	IdentityNumber string `json:"identityNumber" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required"`
	BirthDate      string `json:"birthDate" validate:"required"`
}

// /participants/new
func (h *participantRoutesHandler) PostParticipant(c echo.Context) error {
	var input postParticipantInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	birthDate, err := validation.ParseBirthDate(input.BirthDate)
	if err != nil {
		return handleServiceError(c, err)
	}

	model := &entity.CreateParticipantInput{
		IdentityNumber: input.IdentityNumber,
		Name:           input.Name,
		Email:          input.Email,
		BirthDate:      birthDate,
	}

	participant, err := h.participantService.CreateParticipant(c.Request().Context(), model)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, participant)
}

type getParticipantsInput struct {
	Name    string `query:"name"`
	HasBids string `query:"hasBids" validate:"omitempty,oneof=true false"`
}

// /participants
func (h *participantRoutesHandler) GetParticipants(c echo.Context) error {
	var input getParticipantsInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	filter := &entity.ParticipantFilter{NameContains: input.Name}
	if input.HasBids != "" {
		hasBids := input.HasBids == "true"
		filter.HasBids = &hasBids
	}

	participants, err := h.participantService.ListParticipants(c.Request().Context(), filter)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, participants)
}

// /participants/:participantId
func (h *participantRoutesHandler) GetParticipant(c echo.Context) error {
	id, err := uuid.Parse(c.Param("participantId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"participantId is not a valid id"})
	}

	participant, err := h.participantService.GetParticipantById(c.Request().Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, participant)
}

// /participants/by-identity/:identityNumber
func (h *participantRoutesHandler) GetParticipantByIdentityNumber(c echo.Context) error {
	participant, err := h.participantService.GetParticipantByIdentityNumber(c.Request().Context(), c.Param("identityNumber"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, participant)
}

type getParticipantByEmailInput struct {
	Email string `query:"email" validate:"required"`
}

// /participants/by-email
func (h *participantRoutesHandler) GetParticipantByEmail(c echo.Context) error {
	var input getParticipantByEmailInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	participant, err := h.participantService.GetParticipantByEmail(c.Request().Context(), input.Email)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, participant)
}

type editParticipantInput struct {
	IdentityNumber *string `json:"identityNumber"`
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	BirthDate      *string `json:"birthDate"`
}

// /participants/:participantId/edit
func (h *participantRoutesHandler) EditParticipant(c echo.Context) error {
	id, err := uuid.Parse(c.Param("participantId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"participantId is not a valid id"})
	}

	var input editParticipantInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	model := &entity.UpdateParticipantInput{
		IdentityNumber: input.IdentityNumber,
		Name:           input.Name,
		Email:          input.Email,
	}
	if input.BirthDate != nil {
		birthDate, err := validation.ParseBirthDate(*input.BirthDate)
		if err != nil {
			return handleServiceError(c, err)
		}
		model.BirthDate = &birthDate
	}

	participant, err := h.participantService.UpdateParticipant(c.Request().Context(), id, model)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, participant)
}

// /participants/:participantId
func (h *participantRoutesHandler) DeleteParticipant(c echo.Context) error {
	id, err := uuid.Parse(c.Param("participantId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"participantId is not a valid id"})
	}

	if err := h.participantService.DeleteParticipant(c.Request().Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// /participants/:participantId/statistics
func (h *participantRoutesHandler) GetParticipantStatistics(c echo.Context) error {
	id, err := uuid.Parse(c.Param("participantId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"participantId is not a valid id"})
	}

	stats, err := h.participantService.GetParticipantStatistics(c.Request().Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, stats)
}

type canModifyResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

// /participants/:participantId/can-modify
func (h *participantRoutesHandler) GetCanModify(c echo.Context) error {
	id, err := uuid.Parse(c.Param("participantId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"participantId is not a valid id"})
	}

	allowed, reason, err := h.participantService.CanModifyParticipant(c.Request().Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, canModifyResponse{Allowed: allowed, Reason: reason})
}
