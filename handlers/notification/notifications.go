package notification

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/mentorlink/mentorlink-api/services"
	"github.com/mentorlink/mentorlink-api/utils/middleware"
	"github.com/mentorlink/mentorlink-api/utils/response"
	"gorm.io/gorm"
)

// NotificationHandler exposes a user's notification feed
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{
		notifications: services.NewNotificationService(db),
	}
}

// List handles GET /notifications
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	unreadOnly := c.Query("unread") == "true"
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}

	notifications, total, err := h.notifications.ListByUser(c.Context(), user.ID, unreadOnly, limit, (page-1)*limit)
	if err != nil {
		return response.FromService(c, err)
	}

	return response.Paginated(c, notifications, response.CalculatePagination(page, limit, total))
}

// MarkRead handles POST /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	notificationID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid notification ID")
	}

	if err := h.notifications.MarkRead(c.Context(), user.ID, uint(notificationID)); err != nil {
		return response.FromService(c, err)
	}

	return response.Success(c, fiber.Map{"message": "Notification marked as read"})
}
