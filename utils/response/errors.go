package response

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/mentorlink/mentorlink-api/services"
)

// FromService translates a service-layer error into the matching HTTP
// response. Handlers call this for any error coming out of the services
// package so the error taxonomy maps consistently:
//
//	NotFound            -> 404
//	Forbidden           -> 403
//	Validation          -> 422
//	Conflict class      -> 409 CONFLICT
//	State class         -> 409 STATE_ERROR
//	anything else       -> 500
func FromService(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return NotFound(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return Forbidden(c, err.Error())
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrProgressDecreased):
		return ValidationError(c, err)
	case services.IsConflict(err):
		return Conflict(c, err.Error())
	case errors.Is(err, services.ErrApplicationsClosed),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrNotAccepted):
		return StateError(c, err.Error())
	default:
		return InternalServerError(c, "")
	}
}
