package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type SoilType struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

// Plantation choice strings carried on CropType.
const (
	PlantationTypeOther    = "other"
	PlantingMethodOther    = "other"
	PlantationTypeAdsali   = "adsali"
	PlantationTypeSuru     = "suru"
	PlantationTypeRatoon   = "ratoon"
	PlantingMethodThreeBud = "3_bud"
	PlantingMethodTwoBud   = "2_bud"
	PlantingMethodOneBud   = "1_bud"
)

type CropType struct {
	ID             int64  `json:"id" db:"id"`
	CropType       string `json:"crop_type" db:"crop_type"`
	PlantationType string `json:"plantation_type" db:"plantation_type"`
	PlantingMethod string `json:"planting_method" db:"planting_method"`
}

// squareFeetPerAcre is the conversion constant used by the plant count
// estimate.
const squareFeetPerAcre = 43560

// Farm is an agricultural operation owned by exactly one farmer, optionally
// situated on a plot. FarmUID is a stable public identifier distinct from
// the row id.
type Farm struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	FarmUID        uuid.UUID  `json:"farm_uid" db:"farm_uid"`
	FarmOwnerID    uuid.UUID  `json:"farm_owner_id" db:"farm_owner_id"`
	CreatedBy      *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
	PlotID         *uuid.UUID `json:"plot_id,omitempty" db:"plot_id"`
	Address        string     `json:"address" db:"address"`
	AreaSize       float64    `json:"area_size" db:"area_size"`
	SoilTypeID     *int64     `json:"soil_type_id,omitempty" db:"soil_type_id"`
	CropTypeID     *int64     `json:"crop_type_id,omitempty" db:"crop_type_id"`
	PlantationDate *time.Time `json:"plantation_date,omitempty" db:"plantation_date"`
	SpacingA       *float64   `json:"spacing_a,omitempty" db:"spacing_a"`
	SpacingB       *float64   `json:"spacing_b,omitempty" db:"spacing_b"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// FarmUIDString returns the readable farm code:
// USERNAME-GAT-PLOT-UID when the farm sits on a fully numbered plot,
// USERNAME-UID otherwise.
func (f *Farm) FarmUIDString(ownerUsername string, plot *Plot) string {
	uid := strings.ToUpper(strings.ReplaceAll(f.FarmUID.String(), "-", ""))
	if plot != nil && plot.GatNumber != "" && plot.PlotNumber != "" {
		return fmt.Sprintf("%s-%s-%s-%s", ownerUsername, plot.GatNumber, plot.PlotNumber, uid)
	}
	return fmt.Sprintf("%s-%s", ownerUsername, uid)
}

// PlantsInField estimates the number of plants on the farm:
// area(acres) * 43560 / (spacing_a * spacing_b).
// Returns nil when area or either spacing is missing, or the spacing
// product is zero.
func (f *Farm) PlantsInField() *int {
	if f.SpacingA == nil || f.SpacingB == nil || f.AreaSize == 0 {
		return nil
	}
	product := *f.SpacingA * *f.SpacingB
	if product == 0 {
		return nil
	}
	plants := int(f.AreaSize * squareFeetPerAcre / product)
	return &plants
}
