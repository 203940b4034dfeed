package controller

import (
	"auction-management-api/internal/notifier"
	"auction-management-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

func SetupRoutesHandlers(handler *echo.Echo, services *service.Services, n notifier.Notifier) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	api := handler.Group("/api")
	newDiagnosticRoutesHandler(api, services)
	newParticipantRoutesHandler(api, services, validate)
	newAuctionRoutesHandler(api, services, n, validate)
	newBidRoutesHandler(api, services, validate)
}
