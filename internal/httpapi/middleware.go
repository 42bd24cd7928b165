package httpapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/linguameet/linguameet/internal/apperr"
	"github.com/linguameet/linguameet/internal/model"
	"github.com/linguameet/linguameet/internal/service"
)

const (
	localUserID = "userID"
	localRole   = "role"
)

// bearerToken pulls the JWT from the Authorization header, falling back to
// the token query parameter for websocket upgrades, where browsers cannot
// set headers.
func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

// requireAuth rejects unauthenticated requests and stores the caller's
// identity in locals.
func requireAuth(auth *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return apperr.Unauthorized("missing token")
		}

		claims, err := auth.ParseToken(token)
		if err != nil {
			return err
		}

		c.Locals(localUserID, claims.UserID)
		c.Locals(localRole, claims.Role)
		return c.Next()
	}
}

// optionalAuth stores the identity when a valid token is present and lets
// anonymous requests through.
func optionalAuth(auth *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := bearerToken(c); token != "" {
			if claims, err := auth.ParseToken(token); err == nil {
				c.Locals(localUserID, claims.UserID)
				c.Locals(localRole, claims.Role)
			}
		}
		return c.Next()
	}
}

// requireRole runs after requireAuth and restricts the route to one role.
func requireRole(role model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if callerRole(c) != role {
			return apperr.Forbidden("%s account required", role)
		}
		return c.Next()
	}
}

func callerID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(localUserID).(int64)
	return id
}

func callerRole(c *fiber.Ctx) model.Role {
	role, _ := c.Locals(localRole).(model.Role)
	return role
}

// requestLogger writes one structured line per request.
func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		logger.Info("Request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.String("ip", c.IP()),
		)

		return err
	}
}
