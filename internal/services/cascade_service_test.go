package services

import (
	"context"
	"testing"
	"time"

	"github.com/tdakarsh8-beep/cropeye-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTarget struct {
	name    string
	deletes []uuid.UUID
}

func (r *recordingTarget) Name() string { return r.name }

func (r *recordingTarget) SyncPlot(_ context.Context, _ models.PlotSyncPayload) error { return nil }

func (r *recordingTarget) SyncPlots(_ context.Context, _ []models.PlotSyncPayload) error {
	return nil
}

func (r *recordingTarget) DeletePlot(_ context.Context, plotID uuid.UUID) error {
	r.deletes = append(r.deletes, plotID)
	return nil
}

func newCascadeFixture(farmer *models.User) (*CascadeService, *fakeUserStore, *fakePlotStore, *fakeFarmStore, *recordingTarget) {
	users := &fakeUserStore{users: map[uuid.UUID]*models.User{farmer.ID: farmer}}
	plots := &fakePlotStore{}
	farms := &fakeFarmStore{}
	target := &recordingTarget{name: "events"}
	dispatcher := NewPlotSyncDispatcherWithTargets([]SyncTarget{target}, nil)
	service := NewCascadeService(users, plots, farms, dispatcher, nil)
	return service, users, plots, farms, target
}

func TestDeleteFarmer_CascadesFarmsAndPlots(t *testing.T) {
	farmer := testUser(models.RoleFarmer, time.Now())
	service, users, plots, farms, target := newCascadeFixture(farmer)
	plots.byFarmer = []models.Plot{
		{ID: uuid.New(), GatNumber: "123"},
		{ID: uuid.New(), GatNumber: "124"},
	}
	farms.byOwner = []models.Farm{{ID: uuid.New(), FarmUID: uuid.New()}}

	report, err := service.DeleteFarmer(context.Background(), farmer.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, report.FarmsDeleted)
	assert.Equal(t, 2, report.PlotsDeleted)
	assert.Equal(t, []uuid.UUID{farmer.ID}, users.deleted)
	assert.Len(t, target.deletes, 2, "each plot deletion fans out exactly once")
}

func TestDeleteFarmer_OwnershipWithoutRoleStillCascades(t *testing.T) {
	// Role assignment and ownership can disagree; owning a plot is enough.
	manager := testUser(models.RoleManager, time.Now())
	service, users, plots, _, target := newCascadeFixture(manager)
	plots.byFarmer = []models.Plot{{ID: uuid.New(), GatNumber: "200"}}

	report, err := service.DeleteFarmer(context.Background(), manager.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, report.PlotsDeleted)
	assert.Equal(t, []uuid.UUID{manager.ID}, users.deleted)
	assert.Len(t, target.deletes, 1)
}

func TestDeleteFarmer_NonFarmerSkipsCascade(t *testing.T) {
	officer := testUser(models.RoleFieldOfficer, time.Now())
	service, users, plots, farms, target := newCascadeFixture(officer)

	report, err := service.DeleteFarmer(context.Background(), officer.ID)

	require.NoError(t, err)
	assert.Equal(t, 0, report.FarmsDeleted)
	assert.Equal(t, 0, report.PlotsDeleted)
	assert.Empty(t, plots.deleted)
	assert.Empty(t, farms.deleted)
	assert.Empty(t, target.deletes)
	assert.Equal(t, []uuid.UUID{officer.ID}, users.deleted, "the user row itself is still removed")
}

func TestDeletePlot_SkipExternalSync(t *testing.T) {
	farmer := testUser(models.RoleFarmer, time.Now())
	service, _, plots, _, target := newCascadeFixture(farmer)
	plotID := uuid.New()

	err := service.DeletePlot(context.Background(), plotID, DeleteOptions{SkipExternalSync: true})

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{plotID}, plots.deleted)
	assert.Empty(t, target.deletes, "skip flag must suppress the delete fan-out")
}

func TestDeletePlot_FansOutByDefault(t *testing.T) {
	farmer := testUser(models.RoleFarmer, time.Now())
	service, _, plots, _, target := newCascadeFixture(farmer)
	plotID := uuid.New()

	err := service.DeletePlot(context.Background(), plotID, DeleteOptions{})

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{plotID}, plots.deleted)
	assert.Equal(t, []uuid.UUID{plotID}, target.deletes)
}
