package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	dto "ticket-tracker.com/ticket-tracker/internal/data_models"
	apperrors "ticket-tracker.com/ticket-tracker/internal/errors"
	middleware "ticket-tracker.com/ticket-tracker/internal/http/middlewares"
	"ticket-tracker.com/ticket-tracker/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrInvalidJSON.Message)
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password, req.Auto)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"error": apperrors.ErrInvalidCredentials.Message,
			})
		}
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, dto.LoginResponse{
		Token: token,
		User:  dto.NewUserResponse(user),
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), middleware.UserID(c)); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) CreateSuperuser(c echo.Context) error {
	var req dto.CreateSuperuserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrInvalidJSON.Message)
	}

	user, token, created, err := h.authService.CreateSuperuser(
		c.Request().Context(),
		req.Username,
		req.Email,
		req.Password,
	)
	if err != nil {
		return writeError(c, err)
	}

	message := fmt.Sprintf("superuser %s already exists", user.Username)
	status := http.StatusOK
	if created {
		message = fmt.Sprintf("superuser %s created successfully", user.Username)
		status = http.StatusCreated
	}

	return c.JSON(status, dto.CreateSuperuserResponse{
		Message: message,
		Token:   token,
		User:    dto.NewUserResponse(user),
	})
}
