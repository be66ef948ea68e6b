package otp

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cooldownPrefix = "otp:cooldown:v1:"
	consumedPrefix = "otp:consumed:v1:"
	opTimeout      = 2 * time.Second
)

// Ledger tracks resend cooldowns and consumed codes in Redis. The
// provider remains the authority on code validity; the ledger only adds
// a server-side resend throttle and blocks replay of a code this
// service has already accepted. Redis failures are fail-open: the
// request proceeds and the gateway decides.
type Ledger struct {
	cache    *redis.Client
	cooldown time.Duration
	codeTTL  time.Duration
	logger   *slog.Logger
}

// NewLedger builds a Redis-backed OTP ledger. A nil cache yields a
// no-op ledger for development.
func NewLedger(cache *redis.Client, cooldown, codeTTL time.Duration, logger *slog.Logger) *Ledger {
	return &Ledger{cache: cache, cooldown: cooldown, codeTTL: codeTTL, logger: logger}
}

// ReserveSend claims the resend slot for a mobile number. It returns
// ErrCooldown when a code was already requested inside the window.
func (l *Ledger) ReserveSend(ctx context.Context, mobile string) error {
	if l == nil || l.cache == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	ok, err := l.cache.SetNX(ctx, cooldownPrefix+mobile, 1, l.cooldown).Result()
	if err != nil {
		l.logger.Warn("otp cooldown check failed, allowing send", "error", err)
		return nil
	}
	if !ok {
		return ErrCooldown
	}
	return nil
}

// Consume marks a (mobile, code) pair as used. A second Consume for the
// same pair inside the code TTL returns ErrCodeInvalid even if the
// provider would still accept the code.
func (l *Ledger) Consume(ctx context.Context, mobile, code string) error {
	if l == nil || l.cache == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	ok, err := l.cache.SetNX(ctx, consumedPrefix+mobile+":"+code, 1, l.codeTTL).Result()
	if err != nil {
		l.logger.Warn("otp consume check failed, deferring to gateway", "error", err)
		return nil
	}
	if !ok {
		return ErrCodeInvalid
	}
	return nil
}
