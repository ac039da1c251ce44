package handlers

import (
	"errors"
	"log/slog"

	"github.com/tdakarsh8-beep/cropeye-server/internal/apiutil"
	"github.com/tdakarsh8-beep/cropeye-server/internal/models"

	"github.com/gofiber/fiber/v3"
)

// respondError maps the domain error taxonomy onto HTTP statuses.
// Duplicates conflict; validation, geometry and assignment problems are bad
// requests; a missing lookup row is a bad request too but raised as a
// configuration alarm in the log.
func respondError(c fiber.Ctx, err error) error {
	var dupErr *models.DuplicateError
	if errors.As(err, &dupErr) {
		return c.Status(fiber.StatusConflict).JSON(apiutil.CreateErrorResponse("DUPLICATE", dupErr.Error()))
	}

	var cfgErr *models.ConfigurationError
	if errors.As(err, &cfgErr) {
		slog.Error("system configuration defect", "lookup", cfgErr.Lookup, "name", cfgErr.Name)
		return c.Status(fiber.StatusBadRequest).JSON(apiutil.CreateErrorResponse("CONFIGURATION_ERROR", cfgErr.Error()))
	}

	var geoErr *models.GeometryError
	if errors.As(err, &geoErr) {
		return c.Status(fiber.StatusBadRequest).JSON(apiutil.CreateErrorResponse("INVALID_GEOMETRY", geoErr.Error()))
	}

	var valErr *models.ValidationError
	if errors.As(err, &valErr) {
		return c.Status(fiber.StatusBadRequest).JSON(apiutil.CreateErrorResponse("VALIDATION_ERROR", valErr.Error()))
	}

	var asgErr *models.AssignmentError
	if errors.As(err, &asgErr) {
		return c.Status(fiber.StatusBadRequest).JSON(apiutil.CreateErrorResponse("INVALID_ASSIGNMENT", asgErr.Error()))
	}

	var regErr *models.RegistrationError
	if errors.As(err, &regErr) {
		// Registration wraps an unclassified failure; still a client-visible 400.
		return c.Status(fiber.StatusBadRequest).JSON(apiutil.CreateErrorResponse("REGISTRATION_FAILED", regErr.Error()))
	}

	return c.Status(fiber.StatusInternalServerError).JSON(apiutil.CreateErrorResponse("INTERNAL_SERVER_ERROR", err.Error()))
}
