package middlewares

import (
	"errors"

	"docchain-backend/chain"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrorHandler centralizes error responses and keeps messages sanitized.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// 1) Fiber errors (use their status code + message)
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	// 2) Validation errors (422 + per-field info)
	if ve, ok := err.(validator.ValidationErrors); ok {
		out := make(map[string]string, len(ve))
		for _, fe := range ve {
			out[fe.Field()] = fe.Tag()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "validation failed",
			"errors":  out,
		})
	}

	// 3) Chain engine rule violations: deterministic, user-facing.
	if status, ok := chainErrorStatus(err); ok {
		return c.Status(status).JSON(fiber.Map{"message": err.Error()})
	}

	// 4) Missing rows
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "not found"})
	}

	// 5) Unknown errors (500)
	log.Error().Err(err).Str("path", c.Path()).Msg("internal error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal server error",
	})
}

func chainErrorStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, chain.ErrDocumentNotFound):
		return fiber.StatusNotFound, true
	case errors.Is(err, chain.ErrDuplicateLink):
		return fiber.StatusConflict, true
	case errors.Is(err, chain.ErrInvalidWorkflowTransition),
		errors.Is(err, chain.ErrPreconditionNotMet),
		errors.Is(err, chain.ErrInvalidTaxConfig):
		return fiber.StatusBadRequest, true
	case errors.Is(err, chain.ErrChainIntegrity):
		// Corrupted data, not a user mistake.
		return fiber.StatusInternalServerError, true
	}
	return 0, false
}
