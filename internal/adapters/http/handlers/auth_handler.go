package handlers

import (
	"strings"

	"bankloan-web/internal/adapters/http/middleware"
	"bankloan-web/internal/core/services"
	"bankloan-web/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler serves the home page, login and logout
type AuthHandler struct {
	authService *services.AuthService
	nav         *services.Navigator
	log         *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, nav *services.Navigator, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		nav:         nav,
		log:         log,
	}
}

// LoginForm is the login form body
type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// Home renders the role selection page
func (h *AuthHandler) Home(c *fiber.Ctx) error {
	h.nav.Leave()
	return response.Page(c, "home", fiber.Map{
		"Title":   "Home",
		"Session": middleware.SessionFrom(c),
	})
}

// LoginPage renders the login form for the role in the URL
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	h.nav.Leave()
	return h.loginPage(c, LoginForm{}, "")
}

// Login submits the login form. Success redirects to the dashboard of the
// role in the URL.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var form LoginForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}
	form.Username = strings.TrimSpace(form.Username)

	landing, err := h.authService.Login(c.UserContext(), c.Params("role"), form.Username, form.Password)
	if err != nil {
		c.Status(fiber.StatusUnauthorized)
		return h.loginPage(c, form, services.MsgLoginFailed)
	}
	return c.Redirect(landing, fiber.StatusSeeOther)
}

// Logout clears the session and returns home
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext()); err != nil {
		h.log.Error("logout could not empty the session slot", zap.Error(err))
	}
	return c.Redirect(services.RouteHome, fiber.StatusSeeOther)
}

func (h *AuthHandler) loginPage(c *fiber.Ctx, form LoginForm, errMsg string) error {
	return response.Page(c, "login", fiber.Map{
		"Title":    "Login",
		"Role":     c.Params("role"),
		"Username": form.Username,
		"Error":    errMsg,
		"Session":  middleware.SessionFrom(c),
	})
}
