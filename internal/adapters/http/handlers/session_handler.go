package handlers

import (
	"bankloan-web/internal/adapters/http/middleware"
	"bankloan-web/internal/core/services"
	"bankloan-web/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SessionHandler exposes the session state as JSON
type SessionHandler struct{}

// NewSessionHandler creates a new session handler
func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// SessionState is the public view of the session. The token is never
// included.
type SessionState struct {
	State     string `json:"state" example:"AUTHENTICATED"`
	Role      string `json:"role,omitempty" example:"customer"`
	Username  string `json:"username,omitempty" example:"alice"`
	Dashboard string `json:"dashboard,omitempty" example:"/CustomerDashboard"`
}

// Current returns the session state
// @Summary Current session
// @Description Returns the route-guard state of the client session and the dashboard for its role
// @Tags Session
// @Produce json
// @Success 200 {object} response.Response{data=SessionState}
// @Router /api/session [get]
func (h *SessionHandler) Current(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	out := SessionState{State: services.StateOf(sess).String()}
	if sess.IsAuthenticated() {
		out.Role = string(sess.Role)
		out.Username = sess.Username
		out.Dashboard = services.DashboardFor(string(sess.Role))
	}
	return response.Success(c, "", out)
}
