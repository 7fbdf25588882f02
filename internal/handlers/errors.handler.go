package handlers

import (
	"errors"

	"hypeshelf/internal/apperrors"

	"github.com/gofiber/fiber/v2"
)

// kindOf maps an error kind sentinel to its wire name and HTTP status.
func kindOf(err error) (string, int) {
	switch {
	case errors.Is(err, apperrors.ErrAuthRequired):
		return "AuthRequired", fiber.StatusUnauthorized
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return "PermissionDenied", fiber.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return "NotFound", fiber.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidTitle):
		return "InvalidTitle", fiber.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidBlurb):
		return "InvalidBlurb", fiber.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidLink):
		return "InvalidLink", fiber.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidGenre):
		return "InvalidGenre", fiber.StatusBadRequest
	}
	return "", fiber.StatusInternalServerError
}

// respondError writes an error response. Known kinds surface their
// message and field verbatim; anything else becomes an opaque 500.
func respondError(c *fiber.Ctx, err error) error {
	kind, status := kindOf(err)
	if kind == "" {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	body := fiber.Map{
		"error": err.Error(),
		"kind":  kind,
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Field != "" {
		body["field"] = appErr.Field
	}

	return c.Status(status).JSON(body)
}
