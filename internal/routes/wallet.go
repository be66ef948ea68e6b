package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rohitgurjar522-source/brooconnect/internal/wallet"
)

// RegisterWalletRoutes wires the wallet read endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Post("/wallet/summary", h.Summary)
}
