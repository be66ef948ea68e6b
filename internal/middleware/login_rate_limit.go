package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// LoginRateLimit limits credential-guessing attempts per mobile (or IP
// when the body carries none) using Redis. A throttle, not part of the
// auth contract: it fails open when Redis is unavailable.
func LoginRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 5
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next() // no-op without Redis
		}
		var req struct {
			Mobile string `json:"mobile"`
			Email  string `json:"email"`
		}
		_ = c.BodyParser(&req)
		key := strings.TrimSpace(req.Mobile)
		if key == "" {
			key = strings.TrimSpace(req.Email)
		}
		if key == "" {
			key = c.IP()
		}
		rlKey := "rl:login:" + key
		cnt, err := cache.Incr(c.UserContext(), rlKey).Result()
		if err == nil && cnt == 1 {
			cache.Expire(c.UserContext(), rlKey, time.Minute)
		}
		if err != nil {
			return c.Next() // fail-open on cache errors
		}
		if cnt > int64(maxPerMin) {
			return c.Status(http.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "Too many login attempts, try again later",
			})
		}
		return c.Next()
	}
}
