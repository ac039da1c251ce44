package event

// FarmQueue receives registration lifecycle events consumed by the
// notification pipeline.
const FarmQueue string = "farm_events"

type FarmEventType string

const (
	FarmerRegistered FarmEventType = "farmer_registered"
	FarmerDeleted    FarmEventType = "farmer_deleted"
)

type FarmEvent struct {
	ID         string         `json:"id"`
	EventType  FarmEventType  `json:"event_type"`
	FarmerID   string         `json:"farmer_id"`
	OfficerID  string         `json:"officer_id,omitempty"`
	Additional map[string]any `json:"additional"`
}
