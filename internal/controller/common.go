package controller

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"auction-management-api/internal/service"
	"auction-management-api/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type errorResponse struct {
	Reason string `json:"reason"`
}

// handleServiceError maps the service error taxonomy onto HTTP statuses and
// forwards the human-readable reason.
func handleServiceError(c echo.Context, err error) error {
	var vErr *validation.ValidationError
	if errors.As(err, &vErr) {
		return c.JSON(http.StatusBadRequest, errorResponse{vErr.Error()})
	}

	switch {
	case errors.Is(err, service.ErrParticipantNotFound),
		errors.Is(err, service.ErrAuctionNotFound),
		errors.Is(err, service.ErrBidNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{err.Error()})

	case errors.Is(err, service.ErrInvalidAuctionState),
		errors.Is(err, service.ErrImmutableParticipant),
		errors.Is(err, service.ErrIdentityNumberTaken),
		errors.Is(err, service.ErrEmailTaken):
		return c.JSON(http.StatusConflict, errorResponse{err.Error()})

	case errors.Is(err, service.ErrBidBelowFloor),
		errors.Is(err, service.ErrBidTooLow),
		errors.Is(err, service.ErrConsecutiveBidder):
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{err.Error()})
	}

	return c.JSON(http.StatusInternalServerError, errorResponse{"internal error"})
}

func getAllErrorMessages(err error) string {
	var builder strings.Builder
	for _, fe := range err.(validator.ValidationErrors) {
		message := fmt.Sprintf("'%s': %s\n", fe.Field(), getMessage(fe))
		builder.WriteString(message)
	}

	return builder.String()
}

func getMessage(fe validator.FieldError) string {
	s, f := "", float64(0)
	if fe.Type() == reflect.TypeOf(s) {
		return getMessageForString(fe)
	}

	if fe.Type() == reflect.TypeOf(f) {
		return getMessageForNumber(fe)
	}

	return "incorrect value passed"
}

func getMessageForNumber(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "should be less or equal than " + fe.Param()
	case "gte", "min":
		return "should be greater or equal than " + fe.Param()
	case "gt":
		return "should be greater than " + fe.Param()
	}

	return "incorrect value passed"
}

func getMessageForString(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "length should be less or equal than " + fe.Param()
	case "gte", "min":
		return "length should be greater or equal than " + fe.Param()
	case "oneof":
		return "should have value in: " + fe.Param()
	case "email":
		return "should be a valid email address"
	case "uuid":
		return "should be a valid id"
	}

	return "incorrect value passed"
}
