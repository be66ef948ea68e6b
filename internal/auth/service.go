package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rohitgurjar522-source/brooconnect/internal/config"
	"github.com/rohitgurjar522-source/brooconnect/internal/credential"
	"github.com/rohitgurjar522-source/brooconnect/internal/identity"
	"github.com/rohitgurjar522-source/brooconnect/internal/otp"
	"github.com/rohitgurjar522-source/brooconnect/internal/phone"
)

// Identical for unknown mobile and wrong PIN so the response does not
// reveal which accounts exist.
const (
	msgBadLogin      = "Invalid mobile number or PIN"
	msgBadAdminLogin = "Invalid email or password"
	msgInvalidOTP    = "Invalid or expired OTP"
	msgDuplicate     = "Mobile number is already registered"
)

// Service orchestrates the four credential use cases: registration,
// login (user and admin), PIN change and PIN reset. It is stateless;
// the acting user's identity always arrives as an explicit parameter.
type Service struct {
	cfg     config.Config
	repo    identity.Repository
	hasher  credential.Hasher
	gateway otp.Gateway
	ledger  *otp.Ledger
	logger  *slog.Logger
}

// NewService wires the flow controller.
func NewService(cfg config.Config, repo identity.Repository, gateway otp.Gateway, ledger *otp.Ledger, logger *slog.Logger) *Service {
	return &Service{
		cfg:     cfg,
		repo:    repo,
		hasher:  credential.NewHasher(),
		gateway: gateway,
		ledger:  ledger,
		logger:  logger,
	}
}

// RegisterInput carries everything the registration form collects.
type RegisterInput struct {
	Name    string
	Mobile  string
	Age     int
	City    string
	Pincode string
	Email   string
	PIN     string
	OTP     string
}

// Register verifies the OTP, hashes the PIN and creates the user row.
// Steps run strictly validate -> OTP -> directory; a failed step stops
// the flow and no partial record is ever written.
func (s *Service) Register(ctx context.Context, input RegisterInput) (identity.User, error) {
	if input.Name == "" || input.Mobile == "" || input.PIN == "" || input.OTP == "" {
		return identity.User{}, validationErr("All required fields must be filled")
	}
	mobile, err := phone.Normalize(input.Mobile, s.cfg.CountryCode)
	if err != nil {
		return identity.User{}, validationErr("Enter a valid 10-digit mobile number")
	}
	if !validPIN(input.PIN) {
		return identity.User{}, validationErr("PIN must be 4 to 6 digits")
	}

	if err := s.verifyAndConsume(ctx, mobile, input.OTP); err != nil {
		return identity.User{}, err
	}

	hash, err := s.hasher.Hash(input.PIN)
	if err != nil {
		s.logger.Error("pin hashing failed", "error", err)
		return identity.User{}, internalErr(err)
	}

	user := identity.User{
		ID:           uuid.NewString(),
		Mobile:       mobile,
		FullName:     input.Name,
		Email:        input.Email,
		Age:          input.Age,
		City:         input.City,
		Pincode:      input.Pincode,
		PINHash:      hash,
		Role:         identity.RoleUser,
		IsVerified:   true,
		ReferralCode: identity.NewReferralCode(),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, identity.ErrDuplicateMobile) {
			return identity.User{}, conflictErr(msgDuplicate)
		}
		s.logger.Error("user insert failed", "error", err)
		return identity.User{}, internalErr(err)
	}

	s.logger.Info("account created", "user_id", user.ID, "referral_code", user.ReferralCode)
	return user, nil
}

// Login authenticates a user by mobile and PIN.
func (s *Service) Login(ctx context.Context, rawMobile, pin string) (identity.User, error) {
	if rawMobile == "" || pin == "" {
		return identity.User{}, validationErr("Mobile and PIN are required")
	}
	mobile, err := phone.Normalize(rawMobile, s.cfg.CountryCode)
	if err != nil {
		return identity.User{}, validationErr("Enter a valid 10-digit mobile number")
	}

	user, err := s.repo.FindByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return identity.User{}, authErr(msgBadLogin)
		}
		s.logger.Error("user lookup failed", "error", err)
		return identity.User{}, internalErr(err)
	}

	if !s.hasher.Verify(pin, user.PINHash) {
		return identity.User{}, authErr(msgBadLogin)
	}
	return user, nil
}

// AdminLogin authenticates the privileged role by email and password
// against the same credential hash column.
func (s *Service) AdminLogin(ctx context.Context, email, password string) (identity.User, error) {
	if email == "" || password == "" {
		return identity.User{}, validationErr("Email and password are required")
	}

	user, err := s.repo.FindByEmailAndRole(ctx, email, identity.RoleAdmin)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return identity.User{}, authErr(msgBadAdminLogin)
		}
		s.logger.Error("admin lookup failed", "error", err)
		return identity.User{}, internalErr(err)
	}

	if !s.hasher.Verify(password, user.PINHash) {
		return identity.User{}, authErr(msgBadAdminLogin)
	}
	return user, nil
}

// ChangePIN replaces the stored hash after verifying the current PIN.
// The read-then-write pair is not wrapped in a transaction: concurrent
// changes for one user resolve last-write-wins.
func (s *Service) ChangePIN(ctx context.Context, userID, oldPIN, newPIN string) error {
	if userID == "" || oldPIN == "" || newPIN == "" {
		return validationErr("Missing required fields")
	}
	if !validPIN(newPIN) {
		return validationErr("PIN must be 4 to 6 digits")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return notFoundErr("User not found")
		}
		s.logger.Error("user lookup failed", "error", err)
		return internalErr(err)
	}

	if !s.hasher.Verify(oldPIN, user.PINHash) {
		return authErr("Incorrect current PIN")
	}

	hash, err := s.hasher.Hash(newPIN)
	if err != nil {
		s.logger.Error("pin hashing failed", "error", err)
		return internalErr(err)
	}
	if err := s.repo.UpdatePINHash(ctx, user.ID, hash); err != nil {
		s.logger.Error("pin update failed", "error", err)
		return internalErr(err)
	}
	return nil
}

// ResetPIN sets a new PIN for the row matched by mobile. Verified phone
// ownership via OTP is the sole authorization factor; the old PIN is
// not required.
func (s *Service) ResetPIN(ctx context.Context, rawMobile, code, newPIN string) (identity.User, error) {
	if rawMobile == "" || code == "" || newPIN == "" {
		return identity.User{}, validationErr("Missing required fields")
	}
	mobile, err := phone.Normalize(rawMobile, s.cfg.CountryCode)
	if err != nil {
		return identity.User{}, validationErr("Enter a valid 10-digit mobile number")
	}
	if !validPIN(newPIN) {
		return identity.User{}, validationErr("PIN must be 4 to 6 digits")
	}

	if err := s.verifyAndConsume(ctx, mobile, code); err != nil {
		return identity.User{}, err
	}

	hash, err := s.hasher.Hash(newPIN)
	if err != nil {
		s.logger.Error("pin hashing failed", "error", err)
		return identity.User{}, internalErr(err)
	}

	user, err := s.repo.UpdatePINHashByMobile(ctx, mobile, hash)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return identity.User{}, notFoundErr("Account not found")
		}
		s.logger.Error("pin reset failed", "error", err)
		return identity.User{}, internalErr(err)
	}
	return user, nil
}

// SendOTP requests a fresh code after claiming the resend slot.
func (s *Service) SendOTP(ctx context.Context, rawMobile string) error {
	if rawMobile == "" {
		return validationErr("Mobile number required")
	}
	mobile, err := phone.Normalize(rawMobile, s.cfg.CountryCode)
	if err != nil {
		return validationErr("Enter a valid 10-digit mobile number")
	}

	if err := s.ledger.ReserveSend(ctx, mobile); err != nil {
		return validationErr("OTP already sent, wait before requesting another")
	}

	if err := s.gateway.RequestCode(ctx, mobile); err != nil {
		switch {
		case errors.Is(err, otp.ErrSendRejected):
			return gatewayErr(err.Error(), err)
		default:
			s.logger.Error("otp send failed", "error", err)
			return internalErr(err)
		}
	}
	return nil
}

// VerifyOTP checks a code without consuming it; the two-step client
// flow verifies first and consumes inside register/reset.
func (s *Service) VerifyOTP(ctx context.Context, rawMobile, code string) error {
	if rawMobile == "" || code == "" {
		return validationErr("Mobile and OTP are required")
	}
	mobile, err := phone.Normalize(rawMobile, s.cfg.CountryCode)
	if err != nil {
		return validationErr("Enter a valid 10-digit mobile number")
	}

	if err := s.gateway.VerifyCode(ctx, mobile, code); err != nil {
		if errors.Is(err, otp.ErrCodeInvalid) {
			return authErr(msgInvalidOTP)
		}
		s.logger.Error("otp verify failed", "error", err)
		return internalErr(err)
	}
	return nil
}

// ValidateSession re-fetches the user backing a client-side session so
// the app can refresh its cached copy on load.
func (s *Service) ValidateSession(ctx context.Context, userID string) (identity.User, error) {
	if userID == "" {
		return identity.User{}, validationErr("User id required")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return identity.User{}, notFoundErr("Account not found")
		}
		s.logger.Error("session validation failed", "error", err)
		return identity.User{}, internalErr(err)
	}
	return user, nil
}

// verifyAndConsume runs the gateway round-trip and then marks the code
// used in the local ledger so a replay is refused even while the
// provider still considers the code live.
func (s *Service) verifyAndConsume(ctx context.Context, mobile, code string) error {
	if err := s.gateway.VerifyCode(ctx, mobile, code); err != nil {
		if errors.Is(err, otp.ErrCodeInvalid) {
			return authErr(msgInvalidOTP)
		}
		s.logger.Error("otp verify failed", "error", err)
		return internalErr(err)
	}
	if err := s.ledger.Consume(ctx, mobile, code); err != nil {
		return authErr(msgInvalidOTP)
	}
	return nil
}

func validPIN(pin string) bool {
	if len(pin) < 4 || len(pin) > 6 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
