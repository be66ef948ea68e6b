package wallet

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/rohitgurjar522-source/brooconnect/internal/identity"
)

// Handler exposes the wallet summary endpoint.
type Handler struct {
	svc *Service
}

// NewHandler constructs a wallet HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type summaryRequest struct {
	UserID string `json:"userId"`
}

// Summary returns balance and recent transactions for the given user.
func (h *Handler) Summary(c *fiber.Ctx) error {
	var req summaryRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "User id required"})
	}
	summary, err := h.svc.Summary(c.UserContext(), req.UserID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Account not found"})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Something went wrong, please try again"})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success":        true,
		"wallet_balance": summary.Balance,
		"total_earnings": summary.TotalEarnings,
		"is_paid_member": summary.IsPaidMember,
		"transactions":   summary.Transactions,
	})
}
