package handlers

import (
	"safetrade/internal/services/dashboard"
	"safetrade/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboardService dashboard.Service
}

func NewDashboardHandler(dashboardService dashboard.Service) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// Stats returns the platform overview shown on the admin dashboard
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return response.Success(c, "Dashboard data retrieved successfully", stats)
}
