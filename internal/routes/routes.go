package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/rohitgurjar522-source/brooconnect/internal/auth"
	"github.com/rohitgurjar522-source/brooconnect/internal/config"
	"github.com/rohitgurjar522-source/brooconnect/internal/identity"
	"github.com/rohitgurjar522-source/brooconnect/internal/middleware"
	"github.com/rohitgurjar522-source/brooconnect/internal/otp"
	"github.com/rohitgurjar522-source/brooconnect/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Services and handlers
	var userRepo identity.Repository
	if d.DB != nil {
		userRepo = identity.NewPostgresRepository(d.DB)
	} else {
		userRepo = identity.NewMemoryRepository()
	}

	var gateway otp.Gateway
	if d.Cfg.OTPAuthKey != "" {
		gateway = otp.NewClient(d.Cfg.OTPBaseURL, d.Cfg.OTPAuthKey, d.Cfg.OTPTemplateID, d.Cfg.OTPSenderID, d.Logger)
	} else {
		gateway = otp.NewLoggerGateway(d.Logger)
	}
	ledger := otp.NewLedger(d.Cache, d.Cfg.OTPResendCooldown, d.Cfg.OTPCodeTTL, d.Logger)

	authSvc := auth.NewService(d.Cfg, userRepo, gateway, ledger, d.Logger)
	authHandler := auth.NewHandler(authSvc)

	var txRepo wallet.Repository
	if d.DB != nil {
		txRepo = wallet.NewPostgresRepository(d.DB)
	} else {
		txRepo = wallet.NewMemoryRepository()
	}
	walletHandler := wallet.NewHandler(wallet.NewService(userRepo, txRepo))

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authHandler, rateLimiter)
	RegisterWalletRoutes(api, walletHandler)

	return nil
}
