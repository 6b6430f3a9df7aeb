package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/fadilmartias/evaltrack/internal/auth"
)

const actorLocalKey = "actor"

// ActorContext resolves the caller's identity and capabilities from the
// X-Actor-Context JSON header set by the upstream SSO proxy. Authentication
// itself happens there; requests without a parseable actor are rejected.
func ActorContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get("X-Actor-Context")
		if raw == "" || !gjson.Valid(raw) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "missing actor context",
			})
		}

		userID, err := uuid.Parse(gjson.Get(raw, "user_id").String())
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "invalid actor context",
			})
		}

		c.Locals(actorLocalKey, &auth.Actor{
			UserID:             userID,
			Username:           gjson.Get(raw, "username").String(),
			RoleLabel:          gjson.Get(raw, "role").String(),
			CanEvaluate:        gjson.Get(raw, "capabilities.evaluate").Bool(),
			CanFinalize:        gjson.Get(raw, "capabilities.finalize").Bool(),
			CanOverrideLock:    gjson.Get(raw, "capabilities.override_lock").Bool(),
			CanViewReporting:   gjson.Get(raw, "capabilities.view_reporting").Bool(),
			CanManageEmployees: gjson.Get(raw, "capabilities.manage_employees").Bool(),
		})
		return c.Next()
	}
}

// ActorFrom returns the resolved actor for the request, nil if absent.
func ActorFrom(c *fiber.Ctx) *auth.Actor {
	actor, _ := c.Locals(actorLocalKey).(*auth.Actor)
	return actor
}
