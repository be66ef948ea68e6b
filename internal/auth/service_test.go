package auth

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/rohitgurjar522-source/brooconnect/internal/config"
	"github.com/rohitgurjar522-source/brooconnect/internal/credential"
	"github.com/rohitgurjar522-source/brooconnect/internal/identity"
	"github.com/rohitgurjar522-source/brooconnect/internal/logging"
	"github.com/rohitgurjar522-source/brooconnect/internal/otp"
)

type downGateway struct{}

func (downGateway) RequestCode(context.Context, string) error { return otp.ErrUnavailable }

func (downGateway) VerifyCode(context.Context, string, string) error { return otp.ErrUnavailable }

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := config.Config{CountryCode: "91"}
	return NewService(cfg, identity.NewMemoryRepository(), otp.NewLoggerGateway(logging.Discard()), nil, logging.Discard())
}

func validRegistration() RegisterInput {
	return RegisterInput{Name: "Asha", Mobile: "9876543210", PIN: "4321", OTP: otp.DevCode}
}

func TestRegisterCreatesUserOnce(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != identity.RoleUser {
		t.Fatalf("expected role USER, got %s", user.Role)
	}
	if user.WalletBalance != 0 {
		t.Fatalf("expected zero balance, got %d", user.WalletBalance)
	}
	if user.IsPaidMember {
		t.Fatal("expected free membership at creation")
	}
	if user.Mobile != "919876543210" {
		t.Fatalf("expected normalized mobile, got %s", user.Mobile)
	}
	if !strings.HasPrefix(user.ReferralCode, "BR") {
		t.Fatalf("expected referral code, got %q", user.ReferralCode)
	}

	// Second registration for the same phone fails with CONFLICT even
	// with a valid OTP.
	_, err = svc.Register(ctx, validRegistration())
	fe, ok := AsFlow(err)
	if !ok || fe.Kind != KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if fe.Message != msgDuplicate {
		t.Fatalf("unexpected message %q", fe.Message)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input RegisterInput
	}{
		{"missing name", RegisterInput{Mobile: "9876543210", PIN: "4321", OTP: otp.DevCode}},
		{"missing otp", RegisterInput{Name: "Asha", Mobile: "9876543210", PIN: "4321"}},
		{"short mobile", RegisterInput{Name: "Asha", Mobile: "98765", PIN: "4321", OTP: otp.DevCode}},
		{"short pin", RegisterInput{Name: "Asha", Mobile: "9876543210", PIN: "12", OTP: otp.DevCode}},
		{"long pin", RegisterInput{Name: "Asha", Mobile: "9876543210", PIN: "1234567", OTP: otp.DevCode}},
		{"alpha pin", RegisterInput{Name: "Asha", Mobile: "9876543210", PIN: "12ab", OTP: otp.DevCode}},
	}
	for _, tc := range cases {
		_, err := svc.Register(ctx, tc.input)
		fe, ok := AsFlow(err)
		if !ok || fe.Kind != KindValidation {
			t.Fatalf("%s: expected validation failure, got %v", tc.name, err)
		}
	}
}

func TestRegisterRejectsBadOTPWithoutInsert(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	input := validRegistration()
	input.OTP = "999999"
	_, err := svc.Register(ctx, input)
	fe, ok := AsFlow(err)
	if !ok || fe.Kind != KindAuth {
		t.Fatalf("expected auth failure, got %v", err)
	}

	// Nothing was written: login finds no account.
	_, err = svc.Login(ctx, "9876543210", "4321")
	if fe, ok := AsFlow(err); !ok || fe.Kind != KindAuth {
		t.Fatalf("expected no account, got %v", err)
	}
}

func TestRegisterGatewayDown(t *testing.T) {
	cfg := config.Config{CountryCode: "91"}
	svc := NewService(cfg, identity.NewMemoryRepository(), downGateway{}, nil, logging.Discard())

	_, err := svc.Register(context.Background(), validRegistration())
	fe, ok := AsFlow(err)
	if !ok || fe.Kind != KindInternal {
		t.Fatalf("expected internal failure, got %v", err)
	}
	if fe.Message != internalMessage {
		t.Fatalf("internal detail leaked: %q", fe.Message)
	}
}

func TestLoginEnumerationResistance(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPIN := svc.Login(ctx, "9876543210", "0000")
	_, unknown := svc.Login(ctx, "9000000000", "4321")

	feWrong, ok1 := AsFlow(wrongPIN)
	feUnknown, ok2 := AsFlow(unknown)
	if !ok1 || !ok2 {
		t.Fatalf("expected flow errors, got %v / %v", wrongPIN, unknown)
	}
	if feWrong.Kind != KindAuth || feUnknown.Kind != KindAuth {
		t.Fatalf("expected auth failures, got %v / %v", feWrong.Kind, feUnknown.Kind)
	}
	if feWrong.Message != feUnknown.Message {
		t.Fatalf("messages must be indistinguishable: %q vs %q", feWrong.Message, feUnknown.Message)
	}
}

func TestLoginSuccessAndPrefixTolerance(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Login works with or without the country prefix.
	for _, mobile := range []string{"9876543210", "919876543210"} {
		user, err := svc.Login(ctx, mobile, "4321")
		if err != nil {
			t.Fatalf("login %s: %v", mobile, err)
		}
		if user.Mobile != "919876543210" {
			t.Fatalf("expected normalized mobile, got %s", user.Mobile)
		}
	}
}

func TestAdminLogin(t *testing.T) {
	cfg := config.Config{CountryCode: "91"}
	repo := identity.NewMemoryRepository()
	svc := NewService(cfg, repo, otp.NewLoggerGateway(logging.Discard()), nil, logging.Discard())
	ctx := context.Background()

	hash, err := credential.NewHasher().Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	admin := identity.User{
		ID:        "7b8a2e19-4a20-4a65-9c53-0a9f6a2f4f01",
		Mobile:    "919000000009",
		FullName:  "Ops",
		Email:     "ops@broo.example",
		PINHash:   hash,
		Role:      identity.RoleAdmin,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(ctx, admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	if _, err := svc.AdminLogin(ctx, "ops@broo.example", "s3cret-pass"); err != nil {
		t.Fatalf("admin login: %v", err)
	}

	_, badPass := svc.AdminLogin(ctx, "ops@broo.example", "nope")
	_, noAccount := svc.AdminLogin(ctx, "ghost@broo.example", "s3cret-pass")
	feBad, _ := AsFlow(badPass)
	feNone, _ := AsFlow(noAccount)
	if feBad == nil || feNone == nil || feBad.Message != feNone.Message {
		t.Fatalf("admin login must not reveal account existence: %v / %v", badPass, noAccount)
	}

	if _, err := svc.AdminLogin(ctx, "", "x"); err == nil {
		t.Fatal("expected validation error for empty email")
	}
}

func TestChangePIN(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// Wrong current PIN mutates nothing.
	err = svc.ChangePIN(ctx, user.ID, "0000", "5678")
	if fe, ok := AsFlow(err); !ok || fe.Kind != KindAuth {
		t.Fatalf("expected auth failure, got %v", err)
	}
	if _, err := svc.Login(ctx, "9876543210", "4321"); err != nil {
		t.Fatalf("old PIN must still work after failed change: %v", err)
	}

	if err := svc.ChangePIN(ctx, user.ID, "4321", "5678"); err != nil {
		t.Fatalf("change pin: %v", err)
	}
	if _, err := svc.Login(ctx, "9876543210", "5678"); err != nil {
		t.Fatalf("login with new PIN: %v", err)
	}
	if _, err := svc.Login(ctx, "9876543210", "4321"); err == nil {
		t.Fatal("old PIN must fail after change")
	}

	// Unknown user id.
	err = svc.ChangePIN(ctx, "0c7f6f9d-70ff-4f0e-8f4e-2f94f8f0a111", "4321", "5678")
	if fe, ok := AsFlow(err); !ok || fe.Kind != KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestResetPIN(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Bad OTP: no mutation.
	_, err := svc.ResetPIN(ctx, "9876543210", "999999", "8765")
	if fe, ok := AsFlow(err); !ok || fe.Kind != KindAuth {
		t.Fatalf("expected auth failure, got %v", err)
	}
	if _, err := svc.Login(ctx, "9876543210", "4321"); err != nil {
		t.Fatalf("old PIN must survive failed reset: %v", err)
	}

	user, err := svc.ResetPIN(ctx, "9876543210", otp.DevCode, "8765")
	if err != nil {
		t.Fatalf("reset pin: %v", err)
	}
	if user.Mobile != "919876543210" {
		t.Fatalf("expected updated user back, got %+v", user)
	}
	if _, err := svc.Login(ctx, "9876543210", "8765"); err != nil {
		t.Fatalf("login with reset PIN: %v", err)
	}
	if _, err := svc.Login(ctx, "9876543210", "4321"); err == nil {
		t.Fatal("prior PIN must fail after reset")
	}

	// Unknown phone.
	_, err = svc.ResetPIN(ctx, "9000000000", otp.DevCode, "8765")
	if fe, ok := AsFlow(err); !ok || fe.Kind != KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOTPConsumptionBlocksReplay(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	cfg := config.Config{CountryCode: "91"}
	ledger := otp.NewLedger(cache, 30*time.Second, 5*time.Minute, logging.Discard())
	svc := NewService(cfg, identity.NewMemoryRepository(), otp.NewLoggerGateway(logging.Discard()), ledger, logging.Discard())
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("register: %v", err)
	}

	// The registration consumed the dev code; a reset replaying it is
	// refused even though the stub gateway would accept it again.
	_, err = svc.ResetPIN(ctx, "9876543210", otp.DevCode, "8765")
	if fe, ok := AsFlow(err); !ok || fe.Kind != KindAuth {
		t.Fatalf("expected replay rejection, got %v", err)
	}
	if _, err := svc.Login(ctx, "9876543210", "4321"); err != nil {
		t.Fatalf("PIN must be unchanged after rejected replay: %v", err)
	}
}

func TestSendOTPCooldown(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	cfg := config.Config{CountryCode: "91"}
	ledger := otp.NewLedger(cache, 30*time.Second, 5*time.Minute, logging.Discard())
	svc := NewService(cfg, identity.NewMemoryRepository(), otp.NewLoggerGateway(logging.Discard()), ledger, logging.Discard())
	ctx := context.Background()

	if err := svc.SendOTP(ctx, "9876543210"); err != nil {
		t.Fatalf("first send: %v", err)
	}
	err = svc.SendOTP(ctx, "9876543210")
	if fe, ok := AsFlow(err); !ok || fe.Kind != KindValidation {
		t.Fatalf("expected cooldown rejection, got %v", err)
	}

	mr.FastForward(31 * time.Second)
	if err := svc.SendOTP(ctx, "9876543210"); err != nil {
		t.Fatalf("send after cooldown: %v", err)
	}
}

func TestSafeUserNeverCarriesHash(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	payload, err := json.Marshal(user.Safe())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(payload)
	if strings.Contains(body, "pin_hash") || strings.Contains(body, "$2a$") {
		t.Fatalf("credential hash leaked: %s", body)
	}
}

func TestValidateSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	fresh, err := svc.ValidateSession(ctx, user.ID)
	if err != nil {
		t.Fatalf("validate session: %v", err)
	}
	if fresh.ID != user.ID {
		t.Fatalf("expected same user back, got %s", fresh.ID)
	}

	_, err = svc.ValidateSession(ctx, "4df7c1b3-93a1-4d2e-a6a6-8a3f0a111111")
	if fe, ok := AsFlow(err); !ok || fe.Kind != KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
