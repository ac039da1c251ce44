package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CompleteRegistrationRequest is the composite payload submitted by a field
// officer. Only the farmer block is mandatory; plot, farm and irrigation are
// each optional.
type CompleteRegistrationRequest struct {
	Farmer     *FarmerPayload     `json:"farmer"`
	Plot       *PlotPayload       `json:"plot"`
	Farm       *FarmPayload       `json:"farm"`
	Irrigation *IrrigationPayload `json:"irrigation"`
}

type FarmerPayload struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	Village     string `json:"village"`
	Taluka      string `json:"taluka"`
	District    string `json:"district"`
	State       string `json:"state"`
}

// PlotPayload carries geometry as raw JSON so that both the object form and
// the JSON-encoded string form are accepted. FarmerID is only honored on the
// standalone plot-creation path; unified registration always binds the plot
// to the farmer created in the same request.
type PlotPayload struct {
	GatNumber  string          `json:"gat_number"`
	PlotNumber string          `json:"plot_number"`
	Village    string          `json:"village"`
	Taluka     string          `json:"taluka"`
	District   string          `json:"district"`
	State      string          `json:"state"`
	Country    string          `json:"country"`
	PinCode    string          `json:"pin_code"`
	FarmerID   *uuid.UUID      `json:"farmer_id,omitempty"`
	Location   json.RawMessage `json:"location,omitempty"`
	Boundary   json.RawMessage `json:"boundary,omitempty"`
}

type FarmPayload struct {
	Address        string   `json:"address"`
	AreaSize       float64  `json:"area_size"`
	SoilTypeID     *int64   `json:"soil_type_id,omitempty"`
	SoilTypeName   string   `json:"soil_type_name,omitempty"`
	CropTypeID     *int64   `json:"crop_type_id,omitempty"`
	CropTypeName   string   `json:"crop_type_name,omitempty"`
	PlantationType string   `json:"plantation_type,omitempty"`
	PlantingMethod string   `json:"planting_method,omitempty"`
	PlantationDate *string  `json:"plantation_date,omitempty"`
	SpacingA       *float64 `json:"spacing_a,omitempty"`
	SpacingB       *float64 `json:"spacing_b,omitempty"`
}

// PlantationDateTime parses the plantation date in the 2006-01-02 form used
// by the mobile client.
func (p *FarmPayload) PlantationDateTime() (*time.Time, error) {
	if p.PlantationDate == nil || *p.PlantationDate == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *p.PlantationDate)
	if err != nil {
		return nil, &ValidationError{Field: "plantation_date", Message: "plantation_date must be formatted as YYYY-MM-DD"}
	}
	return &t, nil
}

type IrrigationPayload struct {
	IrrigationTypeID     *int64          `json:"irrigation_type_id,omitempty"`
	IrrigationTypeName   string          `json:"irrigation_type_name,omitempty"`
	Location             json.RawMessage `json:"location,omitempty"`
	Status               *bool           `json:"status,omitempty"`
	MotorHorsepower      *float64        `json:"motor_horsepower,omitempty"`
	PipeWidthInches      *float64        `json:"pipe_width_inches,omitempty"`
	DistanceMotorToPlotM *float64        `json:"distance_motor_to_plot_m,omitempty"`
	PlantsPerAcre        *int64          `json:"plants_per_acre,omitempty"`
	FlowRateLPH          *float64        `json:"flow_rate_lph,omitempty"`
	EmittersCount        *int64          `json:"emitters_count,omitempty"`
}
