package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	auth := app.Group("/api/auth")
	auth.Post("/login", h.Login)
	auth.Post("/logout", h.Logout)
	auth.Post("/signup", h.Signup)
	auth.Post("/refresh", h.Refresh)
	auth.Post("/password-reset", h.ResetPassword)
	auth.Get("/history", h.LoginHistory)
	auth.Get("/health", h.Health)
}
