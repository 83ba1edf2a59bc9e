package badge

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/mentorlink/mentorlink-api/model"
	"github.com/mentorlink/mentorlink-api/services"
	"github.com/mentorlink/mentorlink-api/utils/middleware"
	"github.com/mentorlink/mentorlink-api/utils/response"
	"github.com/mentorlink/mentorlink-api/utils/validation"
	"gorm.io/gorm"
)

// BadgeHandler exposes badge issuance and listing
type BadgeHandler struct {
	badges    *services.BadgeService
	validator *validation.Validator
}

// NewBadgeHandler creates a new badge handler
func NewBadgeHandler(db *gorm.DB) *BadgeHandler {
	return &BadgeHandler{
		badges:    services.NewBadgeService(db),
		validator: validation.NewValidator(),
	}
}

// IssueBadgeRequest represents a request to issue a badge
type IssueBadgeRequest struct {
	StudentID    uint   `json:"student_id" validate:"required"`
	InternshipID uint   `json:"internship_id" validate:"required"`
	BadgeType    string `json:"badge_type" validate:"required,oneof=Completion Excellence 'Quick Learner' 'Team Player'"`
	Title        string `json:"title" validate:"required,min=3,max=200"`
	Description  string `json:"description,omitempty"`
}

// Issue handles POST /badges. Only the internship's owning mentor may issue.
func (h *BadgeHandler) Issue(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req IssueBadgeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	badge, err := h.badges.Issue(c.Context(), services.Actor{ID: user.ID, Role: user.Role}, services.IssueBadgeRequest{
		StudentID:    req.StudentID,
		InternshipID: req.InternshipID,
		BadgeType:    model.BadgeType(req.BadgeType),
		Title:        validation.SanitizeString(req.Title),
		Description:  validation.SanitizeString(req.Description),
	})
	if err != nil {
		return response.FromService(c, err)
	}

	return response.Created(c, badge)
}

// ListByUser handles GET /badges/:userId - a student's earned badges
func (h *BadgeHandler) ListByUser(c *fiber.Ctx) error {
	if _, ok := middleware.GetUser(c); !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	studentID, err := strconv.ParseUint(c.Params("userId"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	badges, err := h.badges.ListByStudent(c.Context(), uint(studentID))
	if err != nil {
		return response.FromService(c, err)
	}

	return response.Success(c, badges)
}
