package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const CtxSessionID = "session_id"

// SessionVerifier checks a bearer token and returns the chat session id it
// names. *services.ChatService satisfies it.
type SessionVerifier interface {
	Verify(token string) (string, error)
}

// SessionMiddleware guards the chat message routes: the token issued at
// session creation must accompany every message.
func SessionMiddleware(verifier SessionVerifier, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
		}

		sessionID, err := verifier.Verify(tokenStr)
		if err != nil {
			log.Debug("session token parse error", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		c.Locals(CtxSessionID, sessionID)
		return c.Next()
	}
}

func GetSessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(CtxSessionID).(string)
	return id
}
