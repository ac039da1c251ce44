package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tdakarsh8-beep/cropeye-server/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// FAKE STORES
// ============================================================================

type fakeUserStore struct {
	tx            *sqlx.Tx
	usernameTaken bool
	emailTaken    bool
	recentFarmer  *models.User
	users         map[uuid.UUID]*models.User
	created       []*models.User
	deleted       []uuid.UUID
}

func (f *fakeUserStore) BeginTransaction() (*sqlx.Tx, error) { return f.tx, nil }

func (f *fakeUserStore) CreateTx(_ *sqlx.Tx, user *models.User) error {
	user.ID = uuid.New()
	f.created = append(f.created, user)
	return nil
}

func (f *fakeUserStore) UsernameExistsTx(_ *sqlx.Tx, _ string) (bool, error) {
	return f.usernameTaken, nil
}

func (f *fakeUserStore) EmailExistsTx(_ *sqlx.Tx, _ string) (bool, error) {
	return f.emailTaken, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, fmt.Errorf("user %s not found", id)
}

func (f *fakeUserStore) MostRecentFarmerSince(_ context.Context, _ time.Time) (*models.User, error) {
	return f.recentFarmer, nil
}

func (f *fakeUserStore) FarmersRegisteredSince(_ context.Context, _ time.Time) ([]models.User, error) {
	return nil, nil
}

func (f *fakeUserStore) Delete(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakePlotStore struct {
	duplicate bool
	createErr error
	created   []*models.Plot
	byFarmer  []models.Plot
	deleted   []uuid.UUID
}

func (f *fakePlotStore) CreateTx(_ *sqlx.Tx, plot *models.Plot) error {
	if f.createErr != nil {
		return f.createErr
	}
	plot.ID = uuid.New()
	f.created = append(f.created, plot)
	return nil
}

func (f *fakePlotStore) IdentityTupleExistsTx(_ *sqlx.Tx, _, _, _, _ string) (bool, error) {
	return f.duplicate, nil
}

func (f *fakePlotStore) ListByFarmer(_ context.Context, _ uuid.UUID) ([]models.Plot, error) {
	return f.byFarmer, nil
}

func (f *fakePlotStore) CountByFarmer(_ context.Context, _ uuid.UUID) (int, error) {
	return len(f.byFarmer), nil
}

func (f *fakePlotStore) Delete(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeFarmStore struct {
	createErr error
	created   []*models.Farm
	byOwner   []models.Farm
	deleted   []uuid.UUID
}

func (f *fakeFarmStore) CreateTx(_ *sqlx.Tx, farm *models.Farm) error {
	if f.createErr != nil {
		return f.createErr
	}
	farm.ID = uuid.New()
	farm.FarmUID = uuid.New()
	f.created = append(f.created, farm)
	return nil
}

func (f *fakeFarmStore) ListByOwner(_ context.Context, _ uuid.UUID) ([]models.Farm, error) {
	return f.byOwner, nil
}

func (f *fakeFarmStore) CountByOwner(_ context.Context, _ uuid.UUID) (int, error) {
	return len(f.byOwner), nil
}

func (f *fakeFarmStore) Delete(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeIrrigationStore struct {
	created []*models.FarmIrrigation
}

func (f *fakeIrrigationStore) CreateTx(_ *sqlx.Tx, irrigation *models.FarmIrrigation) error {
	irrigation.ID = uuid.New()
	f.created = append(f.created, irrigation)
	return nil
}

type fakeLookupStore struct{}

func (f *fakeLookupStore) GetRoleByNameTx(_ *sqlx.Tx, name string) (*models.Role, error) {
	return &models.Role{ID: 4, Name: name}, nil
}

func (f *fakeLookupStore) GetSoilTypeByIDTx(_ *sqlx.Tx, id int64) (*models.SoilType, error) {
	return &models.SoilType{ID: id, Name: "black"}, nil
}

func (f *fakeLookupStore) GetOrCreateSoilTypeTx(_ *sqlx.Tx, name string) (*models.SoilType, error) {
	return &models.SoilType{ID: 1, Name: name}, nil
}

func (f *fakeLookupStore) GetCropTypeByIDTx(_ *sqlx.Tx, id int64) (*models.CropType, error) {
	return &models.CropType{ID: id, CropType: "sugarcane"}, nil
}

func (f *fakeLookupStore) GetOrCreateCropTypeTx(_ *sqlx.Tx, name, _, _ string) (*models.CropType, error) {
	return &models.CropType{ID: 1, CropType: name}, nil
}

func (f *fakeLookupStore) GetIrrigationTypeByIDTx(_ *sqlx.Tx, id int64) (*models.IrrigationType, error) {
	return &models.IrrigationType{ID: id, Name: models.IrrigationDrip}, nil
}

func (f *fakeLookupStore) GetOrCreateIrrigationTypeTx(_ *sqlx.Tx, name string) (*models.IrrigationType, error) {
	return &models.IrrigationType{ID: 1, Name: name}, nil
}

// ============================================================================
// FIXTURE
// ============================================================================

type registrationFixture struct {
	service *RegistrationService
	users   *fakeUserStore
	plots   *fakePlotStore
	farms   *fakeFarmStore
	irr     *fakeIrrigationStore
	mock    sqlmock.Sqlmock
}

// newRegistrationFixture wires the service over fake stores. The transaction
// handle comes from sqlmock so Commit/Rollback expectations are enforced.
func newRegistrationFixture(t *testing.T) *registrationFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sdb := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { sdb.Close() })

	mock.ExpectBegin()
	tx, err := sdb.Beginx()
	require.NoError(t, err)

	users := &fakeUserStore{tx: tx, users: map[uuid.UUID]*models.User{}}
	plots := &fakePlotStore{}
	farms := &fakeFarmStore{}
	irr := &fakeIrrigationStore{}
	dispatcher := NewPlotSyncDispatcherWithTargets(nil, nil)
	assignment := NewAssignmentService(users)
	service := NewRegistrationService(users, plots, farms, irr, &fakeLookupStore{}, assignment, dispatcher, nil)

	return &registrationFixture{
		service: service,
		users:   users,
		plots:   plots,
		farms:   farms,
		irr:     irr,
		mock:    mock,
	}
}

func validFarmerPayload() *models.FarmerPayload {
	return &models.FarmerPayload{
		Username:  "rameshp",
		Email:     "ramesh@example.com",
		Password:  "secret123",
		FirstName: "Ramesh",
		LastName:  "Patil",
	}
}

func validPlotPayload() *models.PlotPayload {
	return &models.PlotPayload{
		GatNumber: "123",
		Village:   "Kasegaon",
		District:  "Sangli",
		State:     "Maharashtra",
	}
}

// ============================================================================
// UNIFIED REGISTRATION
// ============================================================================

func TestRegisterComplete_MissingFarmerFails(t *testing.T) {
	fx := newRegistrationFixture(t)
	fx.mock.ExpectRollback()
	officer := testUser(models.RoleFieldOfficer, time.Now())
	fx.users.recentFarmer = testUser(models.RoleFarmer, time.Now())

	req := &models.CompleteRegistrationRequest{Plot: validPlotPayload()}
	result, err := fx.service.RegisterComplete(context.Background(), req, officer)

	var valErr *models.ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, "farmer", valErr.Field)
	assert.Nil(t, result)
	assert.Empty(t, fx.users.created, "no farmer row may be created")
	assert.Empty(t, fx.plots.created, "a plot-only payload must not persist a plot")
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestRegisterComplete_FarmFailureRollsBackEverything(t *testing.T) {
	fx := newRegistrationFixture(t)
	fx.farms.createErr = errors.New("farm insert failed")
	fx.mock.ExpectRollback()
	officer := testUser(models.RoleFieldOfficer, time.Now())

	req := &models.CompleteRegistrationRequest{
		Farmer: validFarmerPayload(),
		Plot:   validPlotPayload(),
		Farm:   &models.FarmPayload{Address: "Kasegaon", AreaSize: 2.5},
	}
	result, err := fx.service.RegisterComplete(context.Background(), req, officer)

	var regErr *models.RegistrationError
	assert.ErrorAs(t, err, &regErr)
	assert.Nil(t, result)
	assert.Empty(t, fx.irr.created)
	assert.NoError(t, fx.mock.ExpectationsWereMet(), "the transaction must be rolled back, never committed")
}

func TestRegisterComplete_DuplicatePlotTupleRollsBack(t *testing.T) {
	fx := newRegistrationFixture(t)
	fx.plots.duplicate = true
	fx.mock.ExpectRollback()
	officer := testUser(models.RoleFieldOfficer, time.Now())

	req := &models.CompleteRegistrationRequest{
		Farmer: validFarmerPayload(),
		Plot:   validPlotPayload(),
	}
	_, err := fx.service.RegisterComplete(context.Background(), req, officer)

	var dupErr *models.DuplicateError
	assert.ErrorAs(t, err, &dupErr)
	assert.Empty(t, fx.plots.created)
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestRegisterComplete_CommitsAndReports(t *testing.T) {
	fx := newRegistrationFixture(t)
	fx.mock.ExpectCommit()
	officer := testUser(models.RoleFieldOfficer, time.Now())

	req := &models.CompleteRegistrationRequest{
		Farmer: validFarmerPayload(),
		Plot:   validPlotPayload(),
	}
	result, err := fx.service.RegisterComplete(context.Background(), req, officer)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, result.Farmer.ID)
	require.NotNil(t, result.Plot)
	require.NotNil(t, result.Plot.FarmerID)
	assert.Equal(t, result.Farmer.ID, *result.Plot.FarmerID)
	assert.NotNil(t, result.SyncReport)
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestRegisterQuickFarmer_Commits(t *testing.T) {
	fx := newRegistrationFixture(t)
	fx.mock.ExpectCommit()
	officer := testUser(models.RoleFieldOfficer, time.Now())

	farmer, err := fx.service.RegisterQuickFarmer(context.Background(), validFarmerPayload(), officer)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, farmer.ID)
	assert.Equal(t, &officer.ID, farmer.CreatedBy)
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestRegisterQuickFarmer_DuplicateUsernameRollsBack(t *testing.T) {
	fx := newRegistrationFixture(t)
	fx.users.usernameTaken = true
	fx.mock.ExpectRollback()
	officer := testUser(models.RoleFieldOfficer, time.Now())

	_, err := fx.service.RegisterQuickFarmer(context.Background(), validFarmerPayload(), officer)

	var dupErr *models.DuplicateError
	assert.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "username", dupErr.Field)
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

// ============================================================================
// STANDALONE PLOT CREATION
// ============================================================================

func TestRegisterPlot_AutoAssignsRecentFarmer(t *testing.T) {
	fx := newRegistrationFixture(t)
	fx.mock.ExpectCommit()
	officer := testUser(models.RoleFieldOfficer, time.Now())
	farmer := testUser(models.RoleFarmer, time.Now().Add(-10*time.Minute))
	fx.users.recentFarmer = farmer

	plot, report, err := fx.service.RegisterPlot(context.Background(), validPlotPayload(), officer)

	require.NoError(t, err)
	require.NotNil(t, plot.FarmerID)
	assert.Equal(t, farmer.ID, *plot.FarmerID)
	assert.NotNil(t, report)
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestRegisterPlot_ExplicitFarmerWins(t *testing.T) {
	fx := newRegistrationFixture(t)
	fx.mock.ExpectCommit()
	officer := testUser(models.RoleFieldOfficer, time.Now())
	farmer := testUser(models.RoleFarmer, time.Now().Add(-48*time.Hour))
	fx.users.users[farmer.ID] = farmer
	fx.users.recentFarmer = testUser(models.RoleFarmer, time.Now())

	payload := validPlotPayload()
	payload.FarmerID = &farmer.ID
	plot, _, err := fx.service.RegisterPlot(context.Background(), payload, officer)

	require.NoError(t, err)
	require.NotNil(t, plot.FarmerID)
	assert.Equal(t, farmer.ID, *plot.FarmerID)
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestRegisterPlot_NoCandidateLeavesUnassigned(t *testing.T) {
	fx := newRegistrationFixture(t)
	fx.mock.ExpectCommit()
	officer := testUser(models.RoleFieldOfficer, time.Now())

	plot, _, err := fx.service.RegisterPlot(context.Background(), validPlotPayload(), officer)

	require.NoError(t, err)
	assert.Nil(t, plot.FarmerID)
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestRegisterPlot_StaleCandidateLeavesUnassigned(t *testing.T) {
	fx := newRegistrationFixture(t)
	fx.mock.ExpectCommit()
	officer := testUser(models.RoleFieldOfficer, time.Now())
	fx.users.recentFarmer = testUser(models.RoleFarmer, time.Now().Add(-25*time.Hour))

	plot, _, err := fx.service.RegisterPlot(context.Background(), validPlotPayload(), officer)

	require.NoError(t, err)
	assert.Nil(t, plot.FarmerID, "a stale candidate must not be auto-assigned")
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

// ============================================================================
// PAYLOAD VALIDATION
// ============================================================================

func TestValidateFarmerPayload_OK(t *testing.T) {
	assert.NoError(t, ValidateFarmerPayload(validFarmerPayload()))
}

func TestValidateFarmerPayload_Nil(t *testing.T) {
	var valErr *models.ValidationError
	assert.ErrorAs(t, ValidateFarmerPayload(nil), &valErr)
	assert.Equal(t, "farmer", valErr.Field)
}

func TestValidateFarmerPayload_RequiredFields(t *testing.T) {
	for _, field := range []string{"username", "email", "password", "first_name", "last_name"} {
		payload := validFarmerPayload()
		switch field {
		case "username":
			payload.Username = ""
		case "email":
			payload.Email = ""
		case "password":
			payload.Password = ""
		case "first_name":
			payload.FirstName = ""
		case "last_name":
			payload.LastName = ""
		}

		var valErr *models.ValidationError
		assert.ErrorAs(t, ValidateFarmerPayload(payload), &valErr, field)
		assert.Equal(t, field, valErr.Field)
	}
}

func TestValidatePlotPayload_RequiredFields(t *testing.T) {
	payload := validPlotPayload()
	assert.NoError(t, ValidatePlotPayload(payload))

	payload.Village = ""
	var valErr *models.ValidationError
	assert.ErrorAs(t, ValidatePlotPayload(payload), &valErr)
	assert.Equal(t, "village", valErr.Field)
}

func TestValidatePlotPayload_TalukaOptional(t *testing.T) {
	assert.NoError(t, ValidatePlotPayload(validPlotPayload()), "taluka is not part of the mandatory set")
}

func TestValidateFarmPayload(t *testing.T) {
	assert.NoError(t, ValidateFarmPayload(&models.FarmPayload{Address: "Kasegaon", AreaSize: 2.5}))

	var valErr *models.ValidationError
	assert.ErrorAs(t, ValidateFarmPayload(&models.FarmPayload{AreaSize: 2.5}), &valErr)
	assert.Equal(t, "address", valErr.Field)

	assert.ErrorAs(t, ValidateFarmPayload(&models.FarmPayload{Address: "Kasegaon"}), &valErr)
	assert.Equal(t, "area_size", valErr.Field)
}
