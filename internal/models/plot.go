package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Plot is a surveyed land parcel identified by GAT/plot numbers and its
// administrative address. The tuple (gat_number, plot_number, village,
// taluka, district) is unique.
type Plot struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	GatNumber  string          `json:"gat_number" db:"gat_number"`
	PlotNumber string          `json:"plot_number" db:"plot_number"`
	Village    string          `json:"village" db:"village"`
	Taluka     string          `json:"taluka" db:"taluka"`
	District   string          `json:"district" db:"district"`
	State      string          `json:"state" db:"state"`
	Country    string          `json:"country" db:"country"`
	PinCode    string          `json:"pin_code" db:"pin_code"`
	FarmerID   *uuid.UUID      `json:"farmer_id,omitempty" db:"farmer_id"`
	CreatedBy  *uuid.UUID      `json:"created_by,omitempty" db:"created_by"`
	Location   *GeoJSONPoint   `json:"location,omitempty" db:"location"`
	Boundary   *GeoJSONPolygon `json:"boundary,omitempty" db:"boundary"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// SyncName generates the plot name used by the downstream indexing services:
// GAT_PLOT when both numbers exist, GAT alone, or a "plot_{id}" fallback.
func (p *Plot) SyncName() string {
	if p.GatNumber != "" && p.PlotNumber != "" {
		return fmt.Sprintf("%s_%s", p.GatNumber, p.PlotNumber)
	}
	if p.GatNumber != "" {
		return p.GatNumber
	}
	return fmt.Sprintf("plot_%s", p.ID)
}
