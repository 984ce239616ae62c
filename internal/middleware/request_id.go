package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CtxRequestID is the fiber locals key the request id is stored under.
const CtxRequestID = "request_id"

// RequestIDMiddleware tags each request with an id, honoring one the
// client already sent, and echoes it back in the response header.
func RequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Locals(CtxRequestID, id)
		c.Set("X-Request-ID", id)
		return c.Next()
	}
}
