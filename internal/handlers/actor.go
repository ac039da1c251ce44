package handlers

import (
	"github.com/tdakarsh8-beep/cropeye-server/internal/models"
	"github.com/tdakarsh8-beep/cropeye-server/internal/repository"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// resolveFieldOfficer resolves the acting user from the X-User-ID header and
// checks the fieldofficer role.
func resolveFieldOfficer(c fiber.Ctx, users *repository.UserRepository) (*models.User, error) {
	userID := c.Get("X-User-ID")
	if userID == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "User ID is required")
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID")
	}

	officer, err := users.GetByID(c.Context(), id)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Unknown user")
	}

	if !officer.HasRole(models.RoleFieldOfficer) {
		return nil, fiber.NewError(fiber.StatusForbidden, "Only field officers can register farmers")
	}
	return officer, nil
}
