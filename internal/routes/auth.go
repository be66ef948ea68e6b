package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rohitgurjar522-source/brooconnect/internal/auth"
)

// RegisterAuthRoutes wires the credential lifecycle endpoints. All of
// them are POST; other methods get 405 from the router.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	group.Post("/register", h.Register)
	if rateLimiter != nil {
		group.Post("/login", rateLimiter, h.Login)
		group.Post("/admin-login", rateLimiter, h.AdminLogin)
	} else {
		group.Post("/login", h.Login)
		group.Post("/admin-login", h.AdminLogin)
	}
	group.Post("/change-pin", h.ChangePIN)
	group.Post("/reset-pin", h.ResetPIN)

	otpGroup := r.Group("/otp")
	otpGroup.Post("/send", h.SendOTP)
	otpGroup.Post("/verify", h.VerifyOTP)

	r.Post("/session/validate", h.ValidateSession)
}
