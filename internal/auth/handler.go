package auth

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the auth flow over HTTP. Every endpoint is POST with
// a JSON body and answers {success, ...} envelopes; failures map to the
// error taxonomy status.
type Handler struct {
	svc *Service
}

// NewHandler constructs the auth HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type registerRequest struct {
	Name    string `json:"name"`
	Mobile  string `json:"mobile"`
	Age     string `json:"age"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
	Email   string `json:"email"`
	PIN     string `json:"pin"`
	OTP     string `json:"otp"`
}

// Register verifies the OTP and creates the account in one request.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, validationErr("Invalid request body"))
	}
	age, _ := strconv.Atoi(req.Age) // optional, forms submit it as text

	user, err := h.svc.Register(c.UserContext(), RegisterInput{
		Name:    req.Name,
		Mobile:  req.Mobile,
		Age:     age,
		City:    req.City,
		Pincode: req.Pincode,
		Email:   req.Email,
		PIN:     req.PIN,
		OTP:     req.OTP,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true, "user": user.Safe()})
}

type loginRequest struct {
	Mobile string `json:"mobile"`
	PIN    string `json:"pin"`
}

// Login authenticates by mobile and PIN.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, validationErr("Invalid request body"))
	}
	user, err := h.svc.Login(c.UserContext(), req.Mobile, req.PIN)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true, "user": user.Safe()})
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLogin authenticates the privileged role by email and password.
func (h *Handler) AdminLogin(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, validationErr("Invalid request body"))
	}
	user, err := h.svc.AdminLogin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true, "user": user.Safe()})
}

type changePINRequest struct {
	UserID string `json:"userId"`
	OldPIN string `json:"oldPin"`
	NewPIN string `json:"newPin"`
}

// ChangePIN rotates the PIN for an authenticated user.
func (h *Handler) ChangePIN(c *fiber.Ctx) error {
	var req changePINRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, validationErr("Invalid request body"))
	}
	if err := h.svc.ChangePIN(c.UserContext(), req.UserID, req.OldPIN, req.NewPIN); err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true, "message": "PIN updated successfully"})
}

type resetPINRequest struct {
	Mobile string `json:"mobile"`
	OTP    string `json:"otp"`
	NewPIN string `json:"newPin"`
}

// ResetPIN sets a new PIN after OTP proof of phone ownership.
func (h *Handler) ResetPIN(c *fiber.Ctx) error {
	var req resetPINRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, validationErr("Invalid request body"))
	}
	user, err := h.svc.ResetPIN(c.UserContext(), req.Mobile, req.OTP, req.NewPIN)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true, "user": user.Safe()})
}

type sendOTPRequest struct {
	Mobile string `json:"mobile"`
}

// SendOTP dispatches a fresh code to the mobile number.
func (h *Handler) SendOTP(c *fiber.Ctx) error {
	var req sendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, validationErr("Invalid request body"))
	}
	if err := h.svc.SendOTP(c.UserContext(), req.Mobile); err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true, "message": "OTP sent"})
}

type verifyOTPRequest struct {
	Mobile string `json:"mobile"`
	OTP    string `json:"otp"`
}

// VerifyOTP checks a submitted code against the gateway.
func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"verified": false, "message": "Invalid request body"})
	}
	if err := h.svc.VerifyOTP(c.UserContext(), req.Mobile, req.OTP); err != nil {
		status := http.StatusInternalServerError
		message := internalMessage
		if fe, ok := AsFlow(err); ok {
			status = fe.Status()
			message = fe.Message
		}
		return c.Status(status).JSON(fiber.Map{"verified": false, "message": message})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"verified": true})
}

type validateSessionRequest struct {
	UserID string `json:"userId"`
}

// ValidateSession returns a fresh copy of the user backing a cached
// client session. The client keeps its cached copy only if this call
// itself fails.
func (h *Handler) ValidateSession(c *fiber.Ctx) error {
	var req validateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, validationErr("Invalid request body"))
	}
	user, err := h.svc.ValidateSession(c.UserContext(), req.UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true, "user": user.Safe()})
}

// fail renders the taxonomy envelope. Unknown errors collapse to the
// generic internal message so implementation detail never leaks.
func fail(c *fiber.Ctx, err error) error {
	if fe, ok := AsFlow(err); ok {
		return c.Status(fe.Status()).JSON(fiber.Map{"success": false, "message": fe.Message})
	}
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": internalMessage})
}
