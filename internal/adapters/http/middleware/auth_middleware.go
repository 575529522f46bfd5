package middleware

import (
	"bankloan-web/internal/core/domain"
	"bankloan-web/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// Locals keys
const (
	LocalSession = "session"
)

// SessionReader exposes the current session
type SessionReader interface {
	Current() domain.Session
}

// RequireSession runs the route guard for every request. Admitted requests carry the
// session in c.Locals; the rest are redirected.
func RequireSession(store SessionReader, guard *services.RouteGuard) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := store.Current()
		decision := guard.Check(sess, c.Path())
		if !decision.Admit {
			return c.Redirect(decision.Redirect, fiber.StatusFound)
		}
		c.Locals(LocalSession, sess)
		return c.Next()
	}
}

// SessionFrom returns the session stored by RequireSession
func SessionFrom(c *fiber.Ctx) domain.Session {
	sess, _ := c.Locals(LocalSession).(domain.Session)
	return sess
}
