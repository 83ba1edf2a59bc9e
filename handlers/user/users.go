package user

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mentorlink/mentorlink-api/services"
	"github.com/mentorlink/mentorlink-api/utils/middleware"
	"github.com/mentorlink/mentorlink-api/utils/response"
	"gorm.io/gorm"
)

// UserHandler exposes the mentor directory and mentor/mentee linking
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{
		users: services.NewUserService(db),
	}
}

// LinkRequest identifies the other side of a mentor/mentee link
type LinkRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}

// ListMentors handles GET /users/mentors - the mentor directory
func (h *UserHandler) ListMentors(c *fiber.Ctx) error {
	if _, ok := middleware.GetUser(c); !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	mentors, err := h.users.ListMentors(c.Context())
	if err != nil {
		return response.FromService(c, err)
	}

	return response.Success(c, mentors)
}

// ListMentees handles GET /users/mentees - students linked to the acting mentor
func (h *UserHandler) ListMentees(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	if !user.IsMentor() {
		return response.Forbidden(c, "Only mentors have mentees")
	}

	mentees, err := h.users.ListMentees(c.Context(), user.ID)
	if err != nil {
		return response.FromService(c, err)
	}

	return response.Success(c, mentees)
}

// LinkMentee handles POST /users/link-mentee - a mentor adopts a student
func (h *UserHandler) LinkMentee(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req LinkRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.UserID == 0 {
		return response.BadRequest(c, "user_id is required")
	}

	actor := services.Actor{ID: user.ID, Role: user.Role}
	if err := h.users.LinkMentee(c.Context(), actor, req.UserID); err != nil {
		return response.FromService(c, err)
	}

	return response.SuccessWithMessage(c, "Mentee linked", nil)
}

// LinkMentor handles POST /users/link-mentor - a student picks a mentor
func (h *UserHandler) LinkMentor(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req LinkRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.UserID == 0 {
		return response.BadRequest(c, "user_id is required")
	}

	actor := services.Actor{ID: user.ID, Role: user.Role}
	if err := h.users.LinkMentor(c.Context(), actor, req.UserID); err != nil {
		return response.FromService(c, err)
	}

	return response.SuccessWithMessage(c, "Mentor linked", nil)
}
