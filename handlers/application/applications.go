package application

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/mentorlink/mentorlink-api/model"
	"github.com/mentorlink/mentorlink-api/services"
	"github.com/mentorlink/mentorlink-api/utils/middleware"
	"github.com/mentorlink/mentorlink-api/utils/response"
	"gorm.io/gorm"
)

// ApplicationHandler exposes the application lifecycle over HTTP. All state
// machine rules live in the service; the handler only maps identity and errors.
type ApplicationHandler struct {
	applications *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(db *gorm.DB) *ApplicationHandler {
	return &ApplicationHandler{
		applications: services.NewApplicationService(db),
	}
}

func actorFrom(user *model.User) services.Actor {
	return services.Actor{ID: user.ID, Role: user.Role}
}

// Apply handles POST /internships/:id/apply
func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	if !user.IsStudent() {
		return response.Forbidden(c, "Only students can apply to internships")
	}

	internshipID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid internship ID")
	}

	app, err := h.applications.Apply(c.Context(), user.ID, uint(internshipID))
	if err != nil {
		return response.FromService(c, err)
	}

	return response.Created(c, app)
}

// Update handles PATCH /applications/:id. The request body is the raw patch;
// which fields the actor may touch is decided by the service.
func (h *ApplicationHandler) Update(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	appID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	var patch services.ApplicationPatch
	if err := c.BodyParser(&patch); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.applications.UpdateApplication(c.Context(), actorFrom(user), uint(appID), patch)
	if err != nil {
		return response.FromService(c, err)
	}

	return response.Success(c, app)
}

// Get handles GET /applications/:id
func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	appID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	view, err := h.applications.GetApplication(c.Context(), actorFrom(user), uint(appID))
	if err != nil {
		return response.FromService(c, err)
	}

	return response.Success(c, view)
}

// ListMine handles GET /internships/my/applications - the student's own applications
func (h *ApplicationHandler) ListMine(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	views, err := h.applications.ListStudentApplications(c.Context(), user.ID)
	if err != nil {
		return response.FromService(c, err)
	}

	return response.Success(c, views)
}

// ListForMentor handles GET /internships/mentor/applications - every
// application across the mentor's postings
func (h *ApplicationHandler) ListForMentor(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	if !user.IsMentor() {
		return response.Forbidden(c, "Only mentors can view received applications")
	}

	views, err := h.applications.ListMentorApplications(c.Context(), user.ID)
	if err != nil {
		return response.FromService(c, err)
	}

	return response.Success(c, views)
}
