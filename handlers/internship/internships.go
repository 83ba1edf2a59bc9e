package internship

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"github.com/mentorlink/mentorlink-api/model"
	"github.com/mentorlink/mentorlink-api/utils/middleware"
	"github.com/mentorlink/mentorlink-api/utils/response"
	"github.com/mentorlink/mentorlink-api/utils/validation"
	"gorm.io/gorm"
)

// InternshipHandler handles micro-internship catalog requests
type InternshipHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewInternshipHandler creates a new internship handler
func NewInternshipHandler(db *gorm.DB) *InternshipHandler {
	return &InternshipHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateInternshipRequest represents a request to post a micro-internship
type CreateInternshipRequest struct {
	Title           string     `json:"title" validate:"required,min=3,max=200"`
	Description     string     `json:"description" validate:"required,min=10"`
	Duration        int        `json:"duration" validate:"required,min=1,max=5"`
	Difficulty      string     `json:"difficulty" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
	SkillsRequired  []string   `json:"skills_required"`
	MaxParticipants int        `json:"max_participants" validate:"omitempty,min=1,max=100"`
	Deadline        *time.Time `json:"deadline,omitempty"`
}

// UpdateInternshipRequest represents a partial update to a posting
type UpdateInternshipRequest struct {
	Title           *string    `json:"title,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Duration        *int       `json:"duration,omitempty"`
	Difficulty      *string    `json:"difficulty,omitempty"`
	SkillsRequired  *[]string  `json:"skills_required,omitempty"`
	MaxParticipants *int       `json:"max_participants,omitempty"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	Status          *string    `json:"status,omitempty"`
}

// InternshipResponse is a posting joined with its mentor and application count
type InternshipResponse struct {
	model.MicroInternship
	Mentor           model.PublicProfile `json:"mentor"`
	ApplicationCount int64               `json:"application_count"`
}

func (h *InternshipHandler) toResponse(internship model.MicroInternship) InternshipResponse {
	var count int64
	h.db.Model(&model.InternshipApplication{}).
		Where("internship_id = ?", internship.ID).
		Count(&count)

	return InternshipResponse{
		MicroInternship:  internship,
		Mentor:           internship.Mentor.ToPublicProfile(),
		ApplicationCount: count,
	}
}

// List returns the catalog, filterable by status, difficulty, mentor and
// required skills (overlap match)
func (h *InternshipHandler) List(c *fiber.Ctx) error {
	query := h.db.Model(&model.MicroInternship{}).Preload("Mentor")

	if status := c.Query("status"); status != "" {
		if !model.ValidInternshipStatus(model.InternshipStatus(status)) {
			return response.BadRequest(c, "Invalid status filter")
		}
		query = query.Where("status = ?", status)
	}

	if difficulty := c.Query("difficulty"); difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}

	if mentorID := c.Query("mentor_id"); mentorID != "" {
		id, err := strconv.ParseUint(mentorID, 10, 64)
		if err != nil {
			return response.BadRequest(c, "Invalid mentor_id filter")
		}
		query = query.Where("mentor_id = ?", id)
	} else if c.Query("mine") == "true" {
		user, ok := middleware.GetUser(c)
		if !ok {
			return response.Unauthorized(c, "Not authenticated")
		}
		query = query.Where("mentor_id = ?", user.ID)
	}

	// Array overlap: any of the requested skills matches
	if skills := c.Query("skills"); skills != "" {
		skillList := validation.SanitizeStringSlice(strings.Split(skills, ","))
		if len(skillList) > 0 {
			query = query.Where("skills_required && ?", pq.StringArray(skillList))
		}
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count internships")
	}

	pagination := response.CalculatePagination(page, limit, total)

	var internships []model.MicroInternship
	if err := query.Order("created_at DESC").
		Limit(pagination.PerPage).
		Offset((pagination.CurrentPage - 1) * pagination.PerPage).
		Find(&internships).Error; err != nil {
		return response.InternalServerError(c, "Failed to list internships")
	}

	results := make([]InternshipResponse, 0, len(internships))
	for _, internship := range internships {
		results = append(results, h.toResponse(internship))
	}

	return response.Paginated(c, results, pagination)
}

// Get returns a single posting by ID
func (h *InternshipHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid internship ID")
	}

	var internship model.MicroInternship
	if err := h.db.Preload("Mentor").First(&internship, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Internship not found")
		}
		return response.InternalServerError(c, "Failed to load internship")
	}

	return response.Success(c, h.toResponse(internship))
}

// Create posts a new micro-internship owned by the acting mentor
func (h *InternshipHandler) Create(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	if !user.IsMentor() {
		return response.Forbidden(c, "Only mentors can post internships")
	}

	var req CreateInternshipRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	difficulty := model.InternshipDifficulty(req.Difficulty)
	if req.Difficulty == "" {
		difficulty = model.DifficultyBeginner
	}

	maxParticipants := req.MaxParticipants
	if maxParticipants == 0 {
		maxParticipants = 10
	}

	internship := model.MicroInternship{
		MentorID:        user.ID,
		Title:           validation.SanitizeString(req.Title),
		Description:     validation.SanitizeString(req.Description),
		Duration:        req.Duration,
		Difficulty:      difficulty,
		SkillsRequired:  pq.StringArray(validation.SanitizeStringSlice(req.SkillsRequired)),
		MaxParticipants: maxParticipants,
		Status:          model.InternshipStatusOpen,
		Deadline:        req.Deadline,
	}

	if err := h.db.Create(&internship).Error; err != nil {
		return response.InternalServerError(c, "Failed to create internship")
	}

	internship.Mentor = *user
	return response.Created(c, h.toResponse(internship))
}

// Update modifies a posting. Only the owning mentor may update, and
// ownership itself can never change.
func (h *InternshipHandler) Update(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid internship ID")
	}

	var internship model.MicroInternship
	if err := h.db.First(&internship, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Internship not found")
		}
		return response.InternalServerError(c, "Failed to load internship")
	}

	if internship.MentorID != user.ID {
		return response.Forbidden(c, "Only the owning mentor can update this internship")
	}

	var req UpdateInternshipRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Title != nil {
		title := validation.SanitizeString(*req.Title)
		if title == "" {
			return response.BadRequest(c, "Title cannot be empty")
		}
		internship.Title = title
	}
	if req.Description != nil {
		internship.Description = validation.SanitizeString(*req.Description)
	}
	if req.Duration != nil {
		if *req.Duration < 1 || *req.Duration > 5 {
			return response.BadRequest(c, "Duration must be between 1 and 5 days")
		}
		internship.Duration = *req.Duration
	}
	if req.Difficulty != nil {
		switch model.InternshipDifficulty(*req.Difficulty) {
		case model.DifficultyBeginner, model.DifficultyIntermediate, model.DifficultyAdvanced:
			internship.Difficulty = model.InternshipDifficulty(*req.Difficulty)
		default:
			return response.BadRequest(c, "Invalid difficulty")
		}
	}
	if req.SkillsRequired != nil {
		internship.SkillsRequired = pq.StringArray(validation.SanitizeStringSlice(*req.SkillsRequired))
	}
	if req.MaxParticipants != nil {
		if *req.MaxParticipants < 1 {
			return response.BadRequest(c, "Max participants must be at least 1")
		}
		internship.MaxParticipants = *req.MaxParticipants
	}
	if req.Deadline != nil {
		internship.Deadline = req.Deadline
	}
	if req.Status != nil {
		status := model.InternshipStatus(*req.Status)
		if !model.ValidInternshipStatus(status) {
			return response.BadRequest(c, "Invalid status")
		}
		internship.Status = status
	}

	if err := h.db.Save(&internship).Error; err != nil {
		return response.InternalServerError(c, "Failed to update internship")
	}

	if err := h.db.Preload("Mentor").First(&internship, internship.ID).Error; err != nil {
		return response.InternalServerError(c, "Failed to reload internship")
	}
	return response.Success(c, h.toResponse(internship))
}
