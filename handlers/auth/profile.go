package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"github.com/mentorlink/mentorlink-api/model"
	"github.com/mentorlink/mentorlink-api/utils/response"
	"github.com/mentorlink/mentorlink-api/utils/validation"
)

// UpdateProfileRequest represents a profile update request
type UpdateProfileRequest struct {
	Name       *string   `json:"name,omitempty"`
	Avatar     *string   `json:"avatar,omitempty"`
	Bio        *string   `json:"bio,omitempty"`
	Experience *string   `json:"experience,omitempty"`
	Skills     *[]string `json:"skills,omitempty"`
	Interests  *[]string `json:"interests,omitempty"`
}

// GetProfile retrieves the current user's profile
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	// Get user ID from context
	userID := c.Locals("user_id")
	if userID == nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	// Get user from database
	var user model.User
	if err := h.db.First(&user, userID.(uint)).Error; err != nil {
		return response.NotFound(c, "User not found")
	}

	return response.Success(c, toUserResponse(&user))
}

// UpdateProfile updates the current user's profile. Email and role are
// immutable through this endpoint.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	// Get user ID from context
	userID := c.Locals("user_id")
	if userID == nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Get user from database
	var user model.User
	if err := h.db.First(&user, userID.(uint)).Error; err != nil {
		return response.NotFound(c, "User not found")
	}

	// Update fields if provided
	if req.Name != nil {
		name := validation.SanitizeString(*req.Name)
		if name == "" {
			return response.BadRequest(c, "Name cannot be empty")
		}
		user.Name = name
	}
	if req.Avatar != nil {
		user.Avatar = validation.SanitizeString(*req.Avatar)
	}
	if req.Bio != nil {
		user.Bio = validation.SanitizeString(*req.Bio)
	}
	if req.Experience != nil {
		user.Experience = validation.SanitizeString(*req.Experience)
	}
	if req.Skills != nil {
		user.Skills = pq.StringArray(validation.SanitizeStringSlice(*req.Skills))
	}
	if req.Interests != nil {
		user.Interests = pq.StringArray(validation.SanitizeStringSlice(*req.Interests))
	}

	// Save updates
	if err := h.db.Save(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to update profile")
	}

	return response.Success(c, toUserResponse(&user))
}
