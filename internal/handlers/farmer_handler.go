package handlers

import (
	"github.com/tdakarsh8-beep/cropeye-server/internal/apiutil"
	"github.com/tdakarsh8-beep/cropeye-server/internal/services"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type FarmerHandler struct {
	cascadeService *services.CascadeService
}

func NewFarmerHandler(cascadeService *services.CascadeService) *FarmerHandler {
	return &FarmerHandler{cascadeService: cascadeService}
}

func (h *FarmerHandler) RegisterRoutes(app *fiber.App) {
	protectedGr := app.Group("farms/protected/api/v1")

	protectedGr.Delete("/farmers/:id", h.DeleteFarmer)
}

// DeleteFarmer removes a farmer and explicitly cascades to their farms and
// plots, fanning each plot deletion out to the downstream services.
func (h *FarmerHandler) DeleteFarmer(c fiber.Ctx) error {
	farmerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(apiutil.CreateErrorResponse("INVALID_ID", "Invalid farmer ID"))
	}

	report, err := h.cascadeService.DeleteFarmer(c.Context(), farmerID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(apiutil.CreateSuccessResponse(fiber.Map{
		"message":        "Farmer deleted",
		"cascade_report": report,
	}))
}
