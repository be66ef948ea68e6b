// Package otp integrates the third-party SMS one-time-code provider.
// The provider owns all challenge state (code, expiry); this service
// only requests issuance and verification, plus a defensive local
// ledger that blocks replay of already-consumed codes.
package otp

import (
	"context"
	"errors"
)

var (
	// ErrSendRejected indicates the provider refused to dispatch a code.
	ErrSendRejected = errors.New("failed to send OTP")
	// ErrUnavailable indicates the provider could not be reached.
	ErrUnavailable = errors.New("OTP gateway unavailable")
	// ErrCodeInvalid indicates verification failed: wrong, expired or
	// already-consumed code. One message for all three.
	ErrCodeInvalid = errors.New("invalid or expired OTP")
	// ErrCooldown indicates a code was requested inside the resend window.
	ErrCooldown = errors.New("OTP recently sent, wait before retrying")
)

// Gateway sends and verifies one-time codes for a normalized mobile
// number. Implementations must return structured errors, never panic
// past the boundary, and must not retry on their own.
type Gateway interface {
	RequestCode(ctx context.Context, mobile string) error
	VerifyCode(ctx context.Context, mobile, code string) error
}
