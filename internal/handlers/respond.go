package handlers

import (
	"errors"
	"strconv"

	"foodgram/internal/domain"
	"foodgram/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Guards are the auth middlewares applied per route.
type Guards struct {
	Required fiber.Handler
	Optional fiber.Handler
}

// respondError maps a service error onto the HTTP status and body clients expect.
func respondError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	var conflict *domain.ConflictError
	var badBody errBadBody
	switch {
	case errors.As(err, &badBody):
		log.Debug().Err(err).Str("path", c.Path()).Msg("invalid request body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  fiber.Map{verr.Field: verr.Message},
		})
	case errors.As(err, &conflict):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": conflict.Message})
	case errors.Is(err, domain.ErrSelfSubscription),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUserExists):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"detail": err.Error()})
	case domain.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Not found."})
	default:
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
}

// errBadBody marks a request body that is not valid JSON for its target.
type errBadBody struct{ cause error }

func (e errBadBody) Error() string { return e.cause.Error() }

// decodeBody parses the JSON body into dst and, when v is non-nil, validates it.
func decodeBody(c *fiber.Ctx, v *validator.Validate, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return errBadBody{cause: err}
	}
	if v == nil {
		return nil
	}
	return validation.Struct(v, dst)
}

// paramID reads a positive integer path parameter. Anything else is a 404,
// as no resource can live at that path.
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Not found."})
}
