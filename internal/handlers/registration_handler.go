package handlers

import (
	"github.com/tdakarsh8-beep/cropeye-server/internal/apiutil"
	"github.com/tdakarsh8-beep/cropeye-server/internal/models"
	"github.com/tdakarsh8-beep/cropeye-server/internal/repository"
	"github.com/tdakarsh8-beep/cropeye-server/internal/services"

	"github.com/gofiber/fiber/v3"
)

type RegistrationHandler struct {
	registrationService *services.RegistrationService
	assignmentService   *services.AssignmentService
	userRepository      *repository.UserRepository
}

func NewRegistrationHandler(
	registrationService *services.RegistrationService,
	assignmentService *services.AssignmentService,
	userRepository *repository.UserRepository,
) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: registrationService,
		assignmentService:   assignmentService,
		userRepository:      userRepository,
	}
}

func (h *RegistrationHandler) RegisterRoutes(app *fiber.App) {
	protectedGr := app.Group("farms/protected/api/v1")

	protectedGr.Post("/registrations/complete", h.CompleteRegistration)
	protectedGr.Post("/registrations/quick", h.QuickRegistration)
	protectedGr.Get("/registrations/farmers-today", h.FarmersToday)
}

func (h *RegistrationHandler) requireFieldOfficer(c fiber.Ctx) (*models.User, error) {
	return resolveFieldOfficer(c, h.userRepository)
}

// CompleteRegistration creates farmer, plot, farm and irrigation in one
// atomic transaction, then reports the created ids plus the plot sync
// outcome. Sync failures do not fail the request.
func (h *RegistrationHandler) CompleteRegistration(c fiber.Ctx) error {
	officer, err := h.requireFieldOfficer(c)
	if err != nil {
		return err
	}

	var req models.CompleteRegistrationRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(apiutil.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}

	result, err := h.registrationService.RegisterComplete(c.Context(), &req, officer)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(apiutil.CreateSuccessResponse(fiber.Map{
		"message":              result.Message,
		"registration_summary": result,
		"ids":                  result.IDs(),
		"sync_report":          result.SyncReport,
	}))
}

// QuickRegistration creates only the farmer.
func (h *RegistrationHandler) QuickRegistration(c fiber.Ctx) error {
	officer, err := h.requireFieldOfficer(c)
	if err != nil {
		return err
	}

	var payload models.FarmerPayload
	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(apiutil.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}

	farmer, err := h.registrationService.RegisterQuickFarmer(c.Context(), &payload, officer)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(apiutil.CreateSuccessResponse(fiber.Map{
		"message": "Farmer created successfully",
		"farmer":  farmer,
	}))
}

// FarmersToday lists the farmers registered since local midnight, newest
// first.
func (h *RegistrationHandler) FarmersToday(c fiber.Ctx) error {
	officer, err := h.requireFieldOfficer(c)
	if err != nil {
		return err
	}

	farmers, err := h.assignmentService.FarmersRegisteredToday(c.Context(), officer)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(apiutil.CreateSuccessResponse(fiber.Map{
		"count":   len(farmers),
		"farmers": farmers,
	}))
}
