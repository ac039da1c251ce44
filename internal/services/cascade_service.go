package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tdakarsh8-beep/cropeye-server/internal/event"
	"github.com/tdakarsh8-beep/cropeye-server/internal/models"

	"github.com/google/uuid"
)

// DeleteOptions controls the side effects of an entity deletion. The skip
// flag is an explicit parameter, passed down the call chain, never hidden
// state on the entity.
type DeleteOptions struct {
	SkipExternalSync bool
}

// CascadeService keeps denormalized ownership edges consistent on deletion.
// Plot and farm ownership use nullable foreign keys (SET NULL), so deleting
// a farmer does not cascade in the database; this service does it explicitly
// and propagates the deletions to the downstream indexing services.
type CascadeService struct {
	users      UserStore
	plots      PlotStore
	farms      FarmStore
	dispatcher *PlotSyncDispatcher
	publisher  *event.RegistrationPublisher
}

func NewCascadeService(
	users UserStore,
	plots PlotStore,
	farms FarmStore,
	dispatcher *PlotSyncDispatcher,
	publisher *event.RegistrationPublisher,
) *CascadeService {
	return &CascadeService{
		users:      users,
		plots:      plots,
		farms:      farms,
		dispatcher: dispatcher,
		publisher:  publisher,
	}
}

// DeleteFarmer deletes a user and, when the user is a farmer, explicitly
// cascades to their farms (irrigations follow via the database cascade) and
// plots. Each plot deletion triggers one delete fan-out; farms do not fan
// out. A user counts as a farmer when it carries the farmer role OR owns at
// least one plot or farm, since role assignment and ownership can disagree.
func (s *CascadeService) DeleteFarmer(ctx context.Context, farmerID uuid.UUID) (*models.CascadeReport, error) {
	user, err := s.users.GetByID(ctx, farmerID)
	if err != nil {
		return nil, err
	}

	plotCount, err := s.plots.CountByFarmer(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	farmCount, err := s.farms.CountByOwner(ctx, farmerID)
	if err != nil {
		return nil, err
	}

	isFarmer := user.HasRole(models.RoleFarmer) || plotCount > 0 || farmCount > 0
	report := &models.CascadeReport{FarmerID: farmerID}

	if isFarmer {
		slog.Info("cascading deletion for farmer",
			"username", user.Username,
			"id", farmerID,
			"plots", plotCount,
			"farms", farmCount,
		)

		// Farms first, so their irrigations are gone before the plots
		// they may reference are touched.
		farms, err := s.farms.ListByOwner(ctx, farmerID)
		if err != nil {
			return nil, err
		}
		for i := range farms {
			if err := s.farms.Delete(ctx, farms[i].ID); err != nil {
				return nil, fmt.Errorf("failed to cascade farm %s: %w", farms[i].FarmUID, err)
			}
			report.FarmsDeleted++
		}

		plots, err := s.plots.ListByFarmer(ctx, farmerID)
		if err != nil {
			return nil, err
		}
		for i := range plots {
			if err := s.DeletePlot(ctx, plots[i].ID, DeleteOptions{}); err != nil {
				return nil, fmt.Errorf("failed to cascade plot %s: %w", plots[i].GatNumber, err)
			}
			report.PlotsDeleted++
		}
	}

	if err := s.users.Delete(ctx, farmerID); err != nil {
		return nil, err
	}

	slog.Info("farmer deletion completed",
		"username", user.Username,
		"farms_deleted", report.FarmsDeleted,
		"plots_deleted", report.PlotsDeleted,
	)

	if s.publisher != nil {
		if err := s.publisher.PublishFarmerDeleted(ctx, user, report); err != nil {
			slog.Warn("failed to publish farmer_deleted event", "farmer", user.Username, "error", err)
		}
	}

	return report, nil
}

// DeletePlot deletes one plot and fans the deletion out to the downstream
// services unless the caller asked to skip the external sync.
func (s *CascadeService) DeletePlot(ctx context.Context, plotID uuid.UUID, opts DeleteOptions) error {
	if err := s.plots.Delete(ctx, plotID); err != nil {
		return err
	}

	if opts.SkipExternalSync {
		slog.Info("skipping delete fan-out for plot", "plot_id", plotID)
		return nil
	}

	s.dispatcher.DeletePlot(ctx, plotID)
	return nil
}
