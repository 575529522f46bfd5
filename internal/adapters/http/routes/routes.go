package routes

import (
	"time"

	"bankloan-web/internal/adapters/http/handlers"
	"bankloan-web/internal/adapters/http/middleware"
	"bankloan-web/internal/config"
	"bankloan-web/internal/core/services"
	"bankloan-web/internal/views"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// API is the loan API client the routes call
type API interface {
	services.LoginAPI
	handlers.BankAPI
}

// Deps are the long-lived objects the routes are built on
type Deps struct {
	Config *config.Config
	Log    *zap.Logger
	Store  *services.SessionStore
	Nav    *services.Navigator
	API    API
	Probe  handlers.ProbeReader
}

// Setup configures all routes for the application
func Setup(app *fiber.App, d Deps) {
	// Initialize services
	guard := services.NewRouteGuard(d.Config.Guard.EnforceRole)
	authService := services.NewAuthService(d.API, d.Store, d.Nav, d.Log)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(d.Probe, d.Config.AppMode)
	sessionHandler := handlers.NewSessionHandler()
	authHandler := handlers.NewAuthHandler(authService, d.Nav, d.Log)
	dashboardHandler := handlers.NewDashboardHandler(d.Nav, d.API, d.Log)

	// Static assets and docs sit outside the guard
	app.Use("/static", middleware.CacheControl(24*time.Hour), filesystem.New(filesystem.Config{
		Root: views.Static(),
	}))
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Use(middleware.RequireSession(d.Store, guard))

	app.Get(services.RouteHome, authHandler.Home)
	app.Get(services.RouteLogin, authHandler.LoginPage)
	app.Post(services.RouteLogin, middleware.AuthRateLimiter(), authHandler.Login)
	app.Post("/logout", authHandler.Logout)

	app.Get("/api/session", middleware.NoCacheHeaders(), sessionHandler.Current)

	setupDashboardRoutes(app, dashboardHandler)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
}

func setupDashboardRoutes(app *fiber.App, h *handlers.DashboardHandler) {
	customer := app.Group(services.RouteCustomerDashboard, middleware.NoCacheHeaders())
	customer.Get("/", h.Customer)
	customer.Post("/loan-requests", h.SubmitLoanRequest)
	customer.Post("/loan-requests/:id/withdraw", h.WithdrawLoanRequest)
	customer.Post("/payments", h.SubmitPayment)

	provider := app.Group(services.RouteProviderDashboard, middleware.NoCacheHeaders())
	provider.Get("/", h.Provider)
	provider.Post("/funds", h.AddFunds)

	employee := app.Group(services.RouteEmployeeDashboard, middleware.NoCacheHeaders())
	employee.Get("/", h.Employee)
	employee.Post("/approvals", h.ApproveLoan)
	employee.Post("/users/:id/delete", h.DeleteUser)
}
