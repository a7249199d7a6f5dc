package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/headstoneworld/orders-api/internal/config"
	"github.com/headstoneworld/orders-api/internal/utils"
)

var startedAt = time.Now()

// HealthResponse reports service identity and liveness.
type HealthResponse struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	Service       string    `json:"service"`
	Environment   string    `json:"environment"`
	UptimeSeconds int64     `json:"uptimeSeconds"`
}

// HealthCheck returns the liveness handler.
func HealthCheck(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "service healthy", HealthResponse{
			Status:        "ok",
			Timestamp:     time.Now().UTC(),
			Service:       cfg.AppName,
			Environment:   cfg.AppEnv,
			UptimeSeconds: int64(time.Since(startedAt).Seconds()),
		})
	}
}
