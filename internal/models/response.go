package models

import "github.com/google/uuid"

// SyncReport is the outcome of one fan-out pass across the downstream
// indexing services. Failures are accumulated, never raised.
type SyncReport struct {
	Successful []string `json:"successful"`
	Failed     []string `json:"failed"`
}

// RegistrationResult is returned by the unified registration flow.
type RegistrationResult struct {
	Farmer     *User           `json:"farmer"`
	Plot       *Plot           `json:"plot,omitempty"`
	Farm       *Farm           `json:"farm,omitempty"`
	Irrigation *FarmIrrigation `json:"irrigation,omitempty"`
	Message    string          `json:"message"`
	SyncReport *SyncReport     `json:"sync_report,omitempty"`
}

// RegistrationIDs is the compact id block included in the HTTP response.
type RegistrationIDs struct {
	FarmerID     *uuid.UUID `json:"farmer_id"`
	PlotID       *uuid.UUID `json:"plot_id"`
	FarmID       *uuid.UUID `json:"farm_id"`
	IrrigationID *uuid.UUID `json:"irrigation_id"`
}

// IDs collects the identifiers of whatever entities were created.
func (r *RegistrationResult) IDs() RegistrationIDs {
	ids := RegistrationIDs{}
	if r.Farmer != nil {
		ids.FarmerID = &r.Farmer.ID
	}
	if r.Plot != nil {
		ids.PlotID = &r.Plot.ID
	}
	if r.Farm != nil {
		ids.FarmID = &r.Farm.ID
	}
	if r.Irrigation != nil {
		ids.IrrigationID = &r.Irrigation.ID
	}
	return ids
}

// CascadeReport summarizes an explicit farmer-deletion cascade.
type CascadeReport struct {
	FarmerID     uuid.UUID `json:"farmer_id"`
	FarmsDeleted int       `json:"farms_deleted"`
	PlotsDeleted int       `json:"plots_deleted"`
}

// PlotSyncPayload is the canonical plot representation pushed to the
// downstream indexing services.
type PlotSyncPayload struct {
	ID         uuid.UUID          `json:"id"`
	Name       string             `json:"name"`
	Properties PlotSyncProperties `json:"properties"`
	Geometry   PlotSyncGeometry   `json:"geometry"`
}

type PlotSyncProperties struct {
	Name        string `json:"Name"`
	Description string `json:"Description"`
	GatNumber   string `json:"gat_number"`
	PlotNumber  string `json:"plot_number"`
	Village     string `json:"village"`
	Taluka      string `json:"taluka"`
	District    string `json:"district"`
	State       string `json:"state"`
	Country     string `json:"country"`
	PinCode     string `json:"pin_code"`
}

// PlotSyncGeometry is a GeoJSON-shaped geometry block. Coordinates is either
// [][][]float64 for polygons or []float64 for points, so it stays untyped.
type PlotSyncGeometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}
