package http

import (
	"time"

	"github.com/labstack/echo/v4"

	middleware "ticket-tracker.com/ticket-tracker/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, ah *AuthHandler, authenticator middleware.Authenticator, rateLimitPerMinute int) {
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	e.POST("/auth/login", ah.Login)
	e.POST("/auth/create-superuser", ah.CreateSuperuser)

	authed := e.Group("", middleware.TokenAuth(authenticator))

	authed.POST("/auth/logout", ah.Logout)
	authed.GET("/tickets", h.ListTickets)
	authed.POST("/tickets", h.CreateTicket)
	authed.GET("/tickets/:id", h.GetTicket)
	authed.PATCH("/tickets/:id", h.UpdateTicket)
	authed.DELETE("/tickets/:id", h.DeleteTicket)
}
