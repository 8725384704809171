package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/socat/omegeo/internal/pkg/logging"
)

// RequestIDLogMiddleware stores a logger carrying the Fiber request ID in
// the user context, so services can log with logging.FromContext.
func RequestIDLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid, _ := c.Locals("requestid").(string)
		if rid == "" {
			return c.Next()
		}

		reqLogger := slog.Default().With("request_id", rid)
		c.SetUserContext(logging.WithLogger(c.UserContext(), reqLogger))
		return c.Next()
	}
}
