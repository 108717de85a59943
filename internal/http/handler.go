package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"ticket-tracker.com/ticket-tracker/internal/constants"
	dto "ticket-tracker.com/ticket-tracker/internal/data_models"
	apperrors "ticket-tracker.com/ticket-tracker/internal/errors"
	middleware "ticket-tracker.com/ticket-tracker/internal/http/middlewares"
	"ticket-tracker.com/ticket-tracker/internal/rules"
	"ticket-tracker.com/ticket-tracker/internal/services"
)

type Handler struct {
	ticketService *services.TicketService
}

func NewHandler(ticketService *services.TicketService) *Handler {
	return &Handler{
		ticketService: ticketService,
	}
}

func (h *Handler) CreateTicket(c echo.Context) error {
	var req dto.CreateTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrInvalidJSON.Message)
	}

	ticket, err := h.ticketService.CreateTicket(
		c.Request().Context(),
		middleware.UserID(c),
		req.Title,
		req.Description,
	)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, ticket)
}

func (h *Handler) ListTickets(c echo.Context) error {
	tickets, err := h.ticketService.ListTickets(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, tickets)
}

func (h *Handler) GetTicket(c echo.Context) error {
	ticket, err := h.ticketService.GetTicket(c.Request().Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ticket)
}

func (h *Handler) UpdateTicket(c echo.Context) error {
	var req dto.UpdateTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrInvalidJSON.Message)
	}

	patch := services.TicketPatch{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := constants.TicketStatus(*req.Status)
		patch.Status = &status
	}

	ticket, err := h.ticketService.UpdateTicket(
		c.Request().Context(),
		middleware.UserID(c),
		c.Param("id"),
		patch,
	)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ticket)
}

func (h *Handler) DeleteTicket(c echo.Context) error {
	err := h.ticketService.DeleteTicket(c.Request().Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// writeError maps service errors onto the response contract: field-scoped
// validation failures render the field→messages map, Exception values carry
// their own status, anything else is a logged 500.
func writeError(c echo.Context, err error) error {
	var ve *rules.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, ve.Fields)
	}

	var ex *apperrors.Exception
	if errors.As(err, &ex) {
		return echo.NewHTTPError(ex.StatusCode, ex.Message)
	}

	log.Printf("unexpected error handling %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
