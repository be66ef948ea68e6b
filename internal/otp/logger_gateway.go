package otp

import (
	"context"
	"log/slog"
)

// DevCode is the code the LoggerGateway accepts.
const DevCode = "000000"

// LoggerGateway is a stub gateway for development and tests. It writes
// send requests to the logger instead of dispatching SMS and accepts a
// single fixed code.
type LoggerGateway struct {
	logger *slog.Logger
	code   string
}

// NewLoggerGateway constructs a logging gateway stub accepting DevCode.
func NewLoggerGateway(logger *slog.Logger) *LoggerGateway {
	return &LoggerGateway{logger: logger, code: DevCode}
}

// RequestCode logs the request instead of sending an SMS.
func (g *LoggerGateway) RequestCode(_ context.Context, mobile string) error {
	if g == nil || g.logger == nil {
		return nil
	}
	g.logger.Info("otp send (stub)", "mobile_suffix", suffix(mobile), "code", g.code)
	return nil
}

// VerifyCode accepts only the fixed development code.
func (g *LoggerGateway) VerifyCode(_ context.Context, _ string, code string) error {
	if code == g.code {
		return nil
	}
	return ErrCodeInvalid
}
