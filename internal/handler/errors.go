package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/JairoProDev/mitube-go/internal/middleware"
	"github.com/JairoProDev/mitube-go/internal/model"
)

// respondError maps service errors onto the standard API error envelope.
// Unrecognized errors become a 500 with the given fallback message so
// internals never leak to clients.
func respondError(c fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, model.ErrForbidden):
		return middleware.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", "You do not have access to this resource")
	case errors.Is(err, model.ErrDuplicate):
		return middleware.ErrorResponse(c, fiber.StatusConflict, "DUPLICATE", "Resource already exists")
	default:
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

// pathID validates the named path parameter as an identifier. The second
// return value is a ready error response when validation fails.
func pathID(c fiber.Ctx, param string) (string, error) {
	id, errMsg := middleware.ValidateID(c.Params(param))
	if errMsg != "" {
		return "", middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	return id, nil
}
