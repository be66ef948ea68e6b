package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName       = "BrooConnect"
	defaultAppEnv        = "development"
	defaultPort          = "8080"
	defaultLogLevel      = "info"
	defaultCountryCode   = "91"
	defaultOTPBaseURL    = "https://api.msg91.com/api/v5"
	defaultOTPSenderID   = "BROOCT"
	defaultShutdownDelay = 10 * time.Second
	defaultOTPCooldown   = 30 * time.Second
	defaultOTPCodeTTL    = 5 * time.Minute

	cooldownSecondsEnvVar  = "OTP_RESEND_COOLDOWN_SECONDS"
	codeTTLSecondsEnvVar   = "OTP_CODE_TTL_SECONDS"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName     string
	AppEnv      string
	Port        string
	LogLevel    string
	DatabaseURL string
	RedisURL    string

	// CountryCode is prefixed onto every mobile number before it reaches
	// the user directory or the OTP gateway.
	CountryCode string

	OTPBaseURL        string
	OTPAuthKey        string
	OTPTemplateID     string
	OTPSenderID       string
	OTPResendCooldown time.Duration
	OTPCodeTTL        time.Duration

	ShutdownPeriod time.Duration
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:           getEnv("APP_NAME", defaultAppName),
		AppEnv:            getEnv("APP_ENV", defaultAppEnv),
		Port:              getEnv("PORT", defaultPort),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		CountryCode:       getEnv("COUNTRY_CODE", defaultCountryCode),
		OTPBaseURL:        getEnv("OTP_BASE_URL", defaultOTPBaseURL),
		OTPAuthKey:        os.Getenv("OTP_AUTH_KEY"),
		OTPTemplateID:     os.Getenv("OTP_TEMPLATE_ID"),
		OTPSenderID:       getEnv("OTP_SENDER_ID", defaultOTPSenderID),
		OTPResendCooldown: defaultOTPCooldown,
		OTPCodeTTL:        defaultOTPCodeTTL,
		ShutdownPeriod:    defaultShutdownDelay,
	}

	if v := os.Getenv(cooldownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", cooldownSecondsEnvVar, err)
		}
		cfg.OTPResendCooldown = time.Duration(seconds) * time.Second
	}

	if v := os.Getenv(codeTTLSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", codeTTLSecondsEnvVar, err)
		}
		cfg.OTPCodeTTL = time.Duration(seconds) * time.Second
	}

	if v := os.Getenv(shutdownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownSecondsEnvVar, err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(shutdownDurationEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownDurationEnvVar, err)
		}
		cfg.ShutdownPeriod = d
	}

	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.OTPAuthKey == "" {
			return Config{}, fmt.Errorf("OTP_AUTH_KEY must be set when APP_ENV=%s", cfg.AppEnv)
		}
	}

	return cfg, nil
}

// IsDev reports whether the application runs in a development environment,
// where in-memory fallbacks replace Postgres, Redis and the SMS provider.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
