package api

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// RequestID tags every request with an id for log correlation, keeping
// a caller-supplied one when present.
func RequestID() fiber.Handler {
	return func(c fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals("request_id", id)
		c.Set("X-Request-ID", id)
		return c.Next()
	}
}
