package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mentorlink/mentorlink-api/services"
	"github.com/mentorlink/mentorlink-api/utils/middleware"
	"github.com/mentorlink/mentorlink-api/utils/response"
	"gorm.io/gorm"
)

// DashboardHandler serves the role-aware dashboard rollup
type DashboardHandler struct {
	analytics *services.AnalyticsService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{
		analytics: services.NewAnalyticsService(db),
	}
}

// Get handles GET /dashboard
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	dashboard, err := h.analytics.GetDashboard(c.Context(), user)
	if err != nil {
		return response.FromService(c, err)
	}

	return response.Success(c, dashboard)
}
