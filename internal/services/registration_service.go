package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tdakarsh8-beep/cropeye-server/internal/event"
	"github.com/tdakarsh8-beep/cropeye-server/internal/models"
	"github.com/tdakarsh8-beep/cropeye-server/internal/repository"

	"github.com/jmoiron/sqlx"
)

// RegistrationService performs the unified farmer registration: farmer,
// plot, farm and irrigation created as one atomic unit. Only the farmer
// block is mandatory. On any failure the whole transaction rolls back and
// nothing persists.
type RegistrationService struct {
	users       UserStore
	plots       PlotStore
	farms       FarmStore
	irrigations IrrigationStore
	lookups     LookupStore
	assignment  *AssignmentService
	dispatcher  *PlotSyncDispatcher
	publisher   *event.RegistrationPublisher
}

func NewRegistrationService(
	users UserStore,
	plots PlotStore,
	farms FarmStore,
	irrigations IrrigationStore,
	lookups LookupStore,
	assignment *AssignmentService,
	dispatcher *PlotSyncDispatcher,
	publisher *event.RegistrationPublisher,
) *RegistrationService {
	return &RegistrationService{
		users:       users,
		plots:       plots,
		farms:       farms,
		irrigations: irrigations,
		lookups:     lookups,
		assignment:  assignment,
		dispatcher:  dispatcher,
		publisher:   publisher,
	}
}

// RegisterComplete runs the unified registration. External side effects
// (sync fan-out, event publish) happen after commit, exactly once for the
// created plot, and never affect the outcome.
func (s *RegistrationService) RegisterComplete(ctx context.Context, req *models.CompleteRegistrationRequest, officer *models.User) (*models.RegistrationResult, error) {
	tx, err := s.users.BeginTransaction()
	if err != nil {
		return nil, fmt.Errorf("failed to begin registration transaction: %w", err)
	}

	result, err := s.registerTx(tx, req, officer)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Error("failed to roll back registration transaction", "error", rbErr)
		}
		slog.Error("farmer registration failed", "officer", officer.Username, "error", err)
		return nil, &models.RegistrationError{Err: err}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit registration transaction: %w", err)
	}

	slog.Info("farmer registration completed",
		"officer", officer.Username,
		"farmer", result.Farmer.Username,
		"has_plot", result.Plot != nil,
		"has_farm", result.Farm != nil,
		"has_irrigation", result.Irrigation != nil,
	)

	// Mirror the plot once for the whole registration, not per sub-entity.
	if result.Plot != nil {
		report := s.dispatcher.SyncPlot(ctx, result.Plot)
		result.SyncReport = &report
	}

	s.publishRegistered(ctx, result, officer)

	result.Message = "Farmer registration completed successfully"
	return result, nil
}

// RegisterQuickFarmer creates only the farmer, without plot/farm/irrigation.
func (s *RegistrationService) RegisterQuickFarmer(ctx context.Context, payload *models.FarmerPayload, officer *models.User) (*models.User, error) {
	tx, err := s.users.BeginTransaction()
	if err != nil {
		return nil, fmt.Errorf("failed to begin registration transaction: %w", err)
	}

	farmer, err := s.createFarmerTx(tx, payload, officer)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Error("failed to roll back registration transaction", "error", rbErr)
		}
		return nil, &models.RegistrationError{Err: err}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit registration transaction: %w", err)
	}

	slog.Info("quick farmer registration completed", "officer", officer.Username, "farmer", farmer.Username)
	s.publishRegistered(ctx, &models.RegistrationResult{Farmer: farmer}, officer)
	return farmer, nil
}

func (s *RegistrationService) registerTx(tx *sqlx.Tx, req *models.CompleteRegistrationRequest, officer *models.User) (*models.RegistrationResult, error) {
	// The farmer block is mandatory here. Plot-only submissions go through
	// RegisterPlot, where ownership may be auto-resolved.
	farmer, err := s.createFarmerTx(tx, req.Farmer, officer)
	if err != nil {
		return nil, err
	}

	var plot *models.Plot
	if req.Plot != nil {
		plot, err = s.createPlotTx(tx, req.Plot, farmer, officer)
		if err != nil {
			return nil, err
		}
	}

	var farm *models.Farm
	if req.Farm != nil {
		farm, err = s.createFarmTx(tx, req.Farm, farmer, officer, plot)
		if err != nil {
			return nil, err
		}
	}

	var irrigation *models.FarmIrrigation
	if req.Irrigation != nil && farm != nil {
		irrigation, err = s.createIrrigationTx(tx, req.Irrigation, farm, plot)
		if err != nil {
			return nil, err
		}
	}

	return &models.RegistrationResult{
		Farmer:     farmer,
		Plot:       plot,
		Farm:       farm,
		Irrigation: irrigation,
	}, nil
}

// RegisterPlot creates a single plot outside the unified registration. When
// the payload names no farmer, ownership is auto-resolved to the most
// recently registered farmer within the assignment window; if no eligible
// candidate exists the plot is created unassigned. The new plot is mirrored
// to the downstream services after commit.
func (s *RegistrationService) RegisterPlot(ctx context.Context, payload *models.PlotPayload, officer *models.User) (*models.Plot, *models.SyncReport, error) {
	farmer, err := s.resolvePlotOwner(ctx, payload, officer)
	if err != nil {
		return nil, nil, err
	}

	tx, err := s.users.BeginTransaction()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin plot transaction: %w", err)
	}

	plot, err := s.createPlotTx(tx, payload, farmer, officer)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Error("failed to roll back plot transaction", "error", rbErr)
		}
		return nil, nil, &models.RegistrationError{Err: err}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit plot transaction: %w", err)
	}

	report := s.dispatcher.SyncPlot(ctx, plot)
	return plot, &report, nil
}

// resolvePlotOwner picks the plot's farmer: the one named in the payload, or
// the most recent farmer in the window. Heuristic, not guaranteed: the
// recency query is not scoped to the requesting officer, and an ineligible
// candidate leaves the plot unassigned rather than failing the creation.
func (s *RegistrationService) resolvePlotOwner(ctx context.Context, payload *models.PlotPayload, officer *models.User) (*models.User, error) {
	if payload.FarmerID != nil {
		return s.users.GetByID(ctx, *payload.FarmerID)
	}

	farmer, err := s.assignment.MostRecentFarmer(ctx, officer, DefaultAssignmentWindow)
	if err != nil {
		return nil, err
	}
	if farmer == nil {
		return nil, nil
	}
	if err := s.assignment.ValidateAssignment(farmer, officer); err != nil {
		slog.Warn("auto-assignment candidate rejected, plot stays unassigned",
			"officer", officer.Username,
			"farmer", farmer.Username,
			"error", err,
		)
		return nil, nil
	}

	slog.Info("auto-assigned plot to most recent farmer",
		"officer", officer.Username,
		"farmer", farmer.Username,
	)
	return farmer, nil
}

func (s *RegistrationService) createFarmerTx(tx *sqlx.Tx, payload *models.FarmerPayload, officer *models.User) (*models.User, error) {
	if err := ValidateFarmerPayload(payload); err != nil {
		return nil, err
	}

	usernameTaken, err := s.users.UsernameExistsTx(tx, payload.Username)
	if err != nil {
		return nil, err
	}
	if usernameTaken {
		return nil, &models.DuplicateError{Field: "username", Value: payload.Username}
	}

	emailTaken, err := s.users.EmailExistsTx(tx, payload.Email)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, &models.DuplicateError{Field: "email", Value: payload.Email}
	}

	farmerRole, err := s.lookups.GetRoleByNameTx(tx, models.RoleFarmer)
	if err != nil {
		return nil, err
	}

	passwordHash, err := repository.HashPassword(payload.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	roleName := farmerRole.Name
	farmer := &models.User{
		Username:     payload.Username,
		Email:        payload.Email,
		PasswordHash: passwordHash,
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		PhoneNumber:  payload.PhoneNumber,
		Address:      payload.Address,
		Village:      payload.Village,
		Taluka:       payload.Taluka,
		District:     payload.District,
		State:        payload.State,
		RoleID:       &farmerRole.ID,
		RoleName:     &roleName,
		CreatedBy:    &officer.ID,
	}

	if err := s.users.CreateTx(tx, farmer); err != nil {
		return nil, err
	}

	slog.Info("created farmer", "username", farmer.Username, "id", farmer.ID, "officer", officer.Email)
	return farmer, nil
}

func (s *RegistrationService) createPlotTx(tx *sqlx.Tx, payload *models.PlotPayload, farmer *models.User, officer *models.User) (*models.Plot, error) {
	if err := ValidatePlotPayload(payload); err != nil {
		return nil, err
	}

	exists, err := s.plots.IdentityTupleExistsTx(tx, payload.GatNumber, payload.PlotNumber, payload.Village, payload.District)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &models.DuplicateError{
			Field: "plot",
			Value: fmt.Sprintf("GAT %s in %s", payload.GatNumber, payload.Village),
		}
	}

	country := payload.Country
	if country == "" {
		country = "India"
	}

	plot := &models.Plot{
		GatNumber:  payload.GatNumber,
		PlotNumber: payload.PlotNumber,
		Village:    payload.Village,
		Taluka:     payload.Taluka,
		District:   payload.District,
		State:      payload.State,
		Country:    country,
		PinCode:    payload.PinCode,
		CreatedBy:  &officer.ID,
	}
	if farmer != nil {
		plot.FarmerID = &farmer.ID
	}

	if len(payload.Location) > 0 {
		location, err := models.ParseGeoJSONPoint(payload.Location)
		if err != nil {
			return nil, err
		}
		plot.Location = location
	}

	if len(payload.Boundary) > 0 {
		boundary, err := models.ParseGeoJSONPolygon(payload.Boundary)
		if err != nil {
			return nil, err
		}
		plot.Boundary = boundary
	}

	if err := s.plots.CreateTx(tx, plot); err != nil {
		return nil, err
	}

	ownerName := "unassigned"
	if farmer != nil {
		ownerName = farmer.Username
	}
	slog.Info("created plot", "gat_number", plot.GatNumber, "id", plot.ID, "farmer", ownerName)
	return plot, nil
}

func (s *RegistrationService) createFarmTx(tx *sqlx.Tx, payload *models.FarmPayload, farmer *models.User, officer *models.User, plot *models.Plot) (*models.Farm, error) {
	if err := ValidateFarmPayload(payload); err != nil {
		return nil, err
	}

	var soilTypeID *int64
	if payload.SoilTypeID != nil {
		soilType, err := s.lookups.GetSoilTypeByIDTx(tx, *payload.SoilTypeID)
		if err != nil {
			return nil, err
		}
		soilTypeID = &soilType.ID
	} else if payload.SoilTypeName != "" {
		soilType, err := s.lookups.GetOrCreateSoilTypeTx(tx, payload.SoilTypeName)
		if err != nil {
			return nil, err
		}
		soilTypeID = &soilType.ID
	}

	var cropTypeID *int64
	if payload.CropTypeID != nil {
		cropType, err := s.lookups.GetCropTypeByIDTx(tx, *payload.CropTypeID)
		if err != nil {
			return nil, err
		}
		cropTypeID = &cropType.ID
	} else if payload.CropTypeName != "" {
		cropType, err := s.lookups.GetOrCreateCropTypeTx(tx, payload.CropTypeName, payload.PlantationType, payload.PlantingMethod)
		if err != nil {
			return nil, err
		}
		cropTypeID = &cropType.ID
	}

	plantationDate, err := payload.PlantationDateTime()
	if err != nil {
		return nil, err
	}

	farm := &models.Farm{
		FarmOwnerID:    farmer.ID,
		CreatedBy:      &officer.ID,
		Address:        payload.Address,
		AreaSize:       payload.AreaSize,
		SoilTypeID:     soilTypeID,
		CropTypeID:     cropTypeID,
		PlantationDate: plantationDate,
		SpacingA:       payload.SpacingA,
		SpacingB:       payload.SpacingB,
	}
	if plot != nil {
		farm.PlotID = &plot.ID
	}

	if err := s.farms.CreateTx(tx, farm); err != nil {
		return nil, err
	}

	slog.Info("created farm", "farm_uid", farm.FarmUID, "id", farm.ID, "farmer", farmer.Username)
	return farm, nil
}

func (s *RegistrationService) createIrrigationTx(tx *sqlx.Tx, payload *models.IrrigationPayload, farm *models.Farm, plot *models.Plot) (*models.FarmIrrigation, error) {
	var irrigationType *models.IrrigationType
	var err error
	if payload.IrrigationTypeID != nil {
		irrigationType, err = s.lookups.GetIrrigationTypeByIDTx(tx, *payload.IrrigationTypeID)
		if err != nil {
			return nil, err
		}
	} else if payload.IrrigationTypeName != "" {
		irrigationType, err = s.lookups.GetOrCreateIrrigationTypeTx(tx, payload.IrrigationTypeName)
		if err != nil {
			return nil, err
		}
	}

	location, err := resolveIrrigationLocation(payload, plot)
	if err != nil {
		return nil, err
	}

	status := true
	if payload.Status != nil {
		status = *payload.Status
	}

	irrigation := &models.FarmIrrigation{
		FarmID:               farm.ID,
		Location:             location,
		Status:               status,
		MotorHorsepower:      payload.MotorHorsepower,
		PipeWidthInches:      payload.PipeWidthInches,
		DistanceMotorToPlotM: payload.DistanceMotorToPlotM,
		PlantsPerAcre:        payload.PlantsPerAcre,
		FlowRateLPH:          payload.FlowRateLPH,
		EmittersCount:        payload.EmittersCount,
	}
	if irrigationType != nil {
		irrigation.IrrigationTypeID = &irrigationType.ID
		if err := irrigation.Validate(irrigationType.Name); err != nil {
			return nil, err
		}
	}

	if err := s.irrigations.CreateTx(tx, irrigation); err != nil {
		return nil, err
	}

	slog.Info("created irrigation", "id", irrigation.ID, "farm_uid", farm.FarmUID)
	return irrigation, nil
}

// resolveIrrigationLocation prefers the payload location, then the plot
// location, then the degenerate origin point.
func resolveIrrigationLocation(payload *models.IrrigationPayload, plot *models.Plot) (*models.GeoJSONPoint, error) {
	if len(payload.Location) > 0 {
		return models.ParseGeoJSONPoint(payload.Location)
	}
	if plot != nil && plot.Location != nil {
		return plot.Location, nil
	}
	return models.DefaultPoint(), nil
}

func (s *RegistrationService) publishRegistered(ctx context.Context, result *models.RegistrationResult, officer *models.User) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishFarmerRegistered(ctx, result, officer); err != nil {
		slog.Warn("failed to publish farmer_registered event", "farmer", result.Farmer.Username, "error", err)
	}
}

// ValidateFarmerPayload checks the mandatory farmer fields.
func ValidateFarmerPayload(payload *models.FarmerPayload) error {
	if payload == nil {
		return &models.ValidationError{Field: "farmer", Message: "Farmer data is required"}
	}
	required := []struct {
		name  string
		value string
	}{
		{"username", payload.Username},
		{"email", payload.Email},
		{"password", payload.Password},
		{"first_name", payload.FirstName},
		{"last_name", payload.LastName},
	}
	for _, field := range required {
		if field.value == "" {
			return &models.ValidationError{Field: field.name, Message: fmt.Sprintf("Farmer %s is required", field.name)}
		}
	}
	return nil
}

// ValidatePlotPayload checks the mandatory plot fields.
func ValidatePlotPayload(payload *models.PlotPayload) error {
	required := []struct {
		name  string
		value string
	}{
		{"gat_number", payload.GatNumber},
		{"village", payload.Village},
		{"district", payload.District},
		{"state", payload.State},
	}
	for _, field := range required {
		if field.value == "" {
			return &models.ValidationError{Field: field.name, Message: fmt.Sprintf("Plot %s is required", field.name)}
		}
	}
	return nil
}

// ValidateFarmPayload checks the mandatory farm fields.
func ValidateFarmPayload(payload *models.FarmPayload) error {
	if payload.Address == "" {
		return &models.ValidationError{Field: "address", Message: "Farm address is required"}
	}
	if payload.AreaSize <= 0 {
		return &models.ValidationError{Field: "area_size", Message: "Farm area_size is required"}
	}
	return nil
}
