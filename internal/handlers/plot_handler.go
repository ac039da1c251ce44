package handlers

import (
	"context"
	"log/slog"

	"github.com/tdakarsh8-beep/cropeye-server/internal/apiutil"
	"github.com/tdakarsh8-beep/cropeye-server/internal/models"
	"github.com/tdakarsh8-beep/cropeye-server/internal/repository"
	"github.com/tdakarsh8-beep/cropeye-server/internal/services"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

type PlotHandler struct {
	plotRepository      *repository.PlotRepository
	userRepository      *repository.UserRepository
	registrationService *services.RegistrationService
	cascadeService      *services.CascadeService
	dispatcher          *services.PlotSyncDispatcher
}

func NewPlotHandler(
	plotRepository *repository.PlotRepository,
	userRepository *repository.UserRepository,
	registrationService *services.RegistrationService,
	cascadeService *services.CascadeService,
	dispatcher *services.PlotSyncDispatcher,
) *PlotHandler {
	handler := &PlotHandler{
		plotRepository:      plotRepository,
		userRepository:      userRepository,
		registrationService: registrationService,
		cascadeService:      cascadeService,
		dispatcher:          dispatcher,
	}
	handler.startCron()
	return handler
}

// startCron re-mirrors the full plot set nightly so downstream indexes that
// missed a fan-out eventually converge.
func (h *PlotHandler) startCron() {
	c := cron.New()
	c.AddFunc("@daily", func() {
		if err := h.ResyncAllPlots(context.Background()); err != nil {
			slog.Error("nightly plot resync failed", "error", err)
		}
	})
	c.Start()
}

// ResyncAllPlots bulk-mirrors every plot to every downstream service.
func (h *PlotHandler) ResyncAllPlots(ctx context.Context) error {
	plots, err := h.plotRepository.ListAll(ctx)
	if err != nil {
		return err
	}

	report := h.dispatcher.SyncAllPlots(ctx, plots)
	slog.Info("bulk plot resync finished",
		"plots", len(plots),
		"successful", len(report.Successful),
		"failed", len(report.Failed),
	)
	return nil
}

func (h *PlotHandler) RegisterRoutes(app *fiber.App) {
	protectedGr := app.Group("farms/protected/api/v1")

	protectedGr.Post("/plots", h.CreatePlot)
	protectedGr.Get("/plots/:id", h.GetPlotByID)
	protectedGr.Delete("/plots/:id", h.DeletePlot)
	protectedGr.Get("/plots/:id/sync-status", h.GetPlotSyncStatus)
	protectedGr.Post("/plots/resync", h.ResyncPlots)
}

// CreatePlot registers a single plot. Ownership comes from the payload's
// farmer_id, or is auto-resolved to the most recently registered farmer.
func (h *PlotHandler) CreatePlot(c fiber.Ctx) error {
	officer, err := resolveFieldOfficer(c, h.userRepository)
	if err != nil {
		return err
	}

	var payload models.PlotPayload
	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(apiutil.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}

	plot, report, err := h.registrationService.RegisterPlot(c.Context(), &payload, officer)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(apiutil.CreateSuccessResponse(fiber.Map{
		"message":     "Plot created successfully",
		"plot":        plot,
		"sync_report": report,
	}))
}

func (h *PlotHandler) GetPlotByID(c fiber.Ctx) error {
	plotID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(apiutil.CreateErrorResponse("INVALID_ID", "Invalid plot ID"))
	}

	plot, err := h.plotRepository.GetByID(c.Context(), plotID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.Status(fiber.StatusOK).JSON(apiutil.CreateSuccessResponse(plot))
}

// DeletePlot removes a plot directly (not via a farmer cascade) and fans
// the deletion out to the downstream services.
func (h *PlotHandler) DeletePlot(c fiber.Ctx) error {
	plotID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(apiutil.CreateErrorResponse("INVALID_ID", "Invalid plot ID"))
	}

	if err := h.cascadeService.DeletePlot(c.Context(), plotID, services.DeleteOptions{}); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(apiutil.CreateSuccessResponse(fiber.Map{
		"message": "Plot deleted",
		"plot_id": plotID,
	}))
}

// GetPlotSyncStatus returns the cached report of the last fan-out for the
// plot. Informational only; the relational store stays authoritative.
func (h *PlotHandler) GetPlotSyncStatus(c fiber.Ctx) error {
	plotID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(apiutil.CreateErrorResponse("INVALID_ID", "Invalid plot ID"))
	}

	report, err := h.dispatcher.LastReport(c.Context(), plotID)
	if err != nil {
		return respondError(c, err)
	}
	if report == nil {
		return c.Status(fiber.StatusNotFound).JSON(apiutil.CreateErrorResponse("NOT_FOUND", "No sync report recorded for this plot"))
	}

	return c.Status(fiber.StatusOK).JSON(apiutil.CreateSuccessResponse(report))
}

// ResyncPlots triggers the bulk fan-out on demand.
func (h *PlotHandler) ResyncPlots(c fiber.Ctx) error {
	plots, err := h.plotRepository.ListAll(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	report := h.dispatcher.SyncAllPlots(c.Context(), plots)
	return c.Status(fiber.StatusOK).JSON(apiutil.CreateSuccessResponse(fiber.Map{
		"message":     "Sync completed",
		"plots":       len(plots),
		"sync_report": report,
	}))
}
