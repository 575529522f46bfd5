package handlers

import (
	"bankloan-web/internal/core/services"
	"bankloan-web/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ProbeReader exposes the last API probe result
type ProbeReader interface {
	Status() services.ProbeStatus
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	probe ProbeReader
	mode  string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(probe ProbeReader, mode string) *HealthHandler {
	return &HealthHandler{probe: probe, mode: mode}
}

// HealthCheck reports the client and loan API status
// @Summary Health check
// @Description Reports whether the loan API answered the last scheduled probe
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	st := h.probe.Status()
	data := fiber.Map{
		"mode": h.mode,
		"api":  st,
	}
	if st.Checked && !st.Reachable {
		return response.ServiceUnavailable(c, "loan API unreachable", data)
	}
	return response.Success(c, "ok", data)
}
