package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tdakarsh8-beep/cropeye-server/internal/models"
)

// DefaultAssignmentWindow bounds how far back the auto-assignment heuristic
// looks for a freshly registered farmer.
const DefaultAssignmentWindow = 30 * time.Minute

// maxAssignmentAge is the staleness guard on explicit assignment validation.
const maxAssignmentAge = 24 * time.Hour

// AssignmentService binds newly created plots and farms to the most recently
// registered farmer when ownership is not supplied explicitly.
type AssignmentService struct {
	users UserStore
}

func NewAssignmentService(users UserStore) *AssignmentService {
	return &AssignmentService{users: users}
}

// MostRecentFarmer returns the farmer-role user registered most recently
// within the trailing window, or nil when none exists.
//
// The query filters only by role and recency, not by the creating officer:
// two officers registering farmers concurrently can cross-assign each
// other's most recent farmer. Kept as-is; callers relying on this behavior
// exist, so scoping by officer is a product decision, not a patch.
func (s *AssignmentService) MostRecentFarmer(ctx context.Context, officer *models.User, within time.Duration) (*models.User, error) {
	if within <= 0 {
		within = DefaultAssignmentWindow
	}
	since := time.Now().Add(-within)

	farmer, err := s.users.MostRecentFarmerSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recent farmer: %w", err)
	}
	if farmer == nil {
		slog.Warn("no recent farmer found for auto-assignment", "officer", officer.Username, "window", within)
		return nil, nil
	}

	slog.Info("resolved most recent farmer for auto-assignment",
		"officer", officer.Username,
		"farmer", farmer.Username,
	)
	return farmer, nil
}

// FarmersRegisteredToday returns every farmer-role user registered since
// local midnight, newest first.
func (s *AssignmentService) FarmersRegisteredToday(ctx context.Context, officer *models.User) ([]models.User, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	farmers, err := s.users.FarmersRegisteredSince(ctx, midnight)
	if err != nil {
		return nil, fmt.Errorf("failed to list today's farmers: %w", err)
	}
	return farmers, nil
}

// ValidateAssignment checks that the farmer/officer pair is eligible for an
// auto-assignment: the farmer must carry the farmer role, the officer the
// fieldofficer role, and the farmer must have been registered within the
// last 24 hours.
func (s *AssignmentService) ValidateAssignment(farmer, officer *models.User) error {
	if farmer == nil || officer == nil {
		return &models.AssignmentError{Reason: "farmer and field officer are both required"}
	}
	if !farmer.HasRole(models.RoleFarmer) {
		return &models.AssignmentError{Reason: fmt.Sprintf("user %s does not have farmer role", farmer.Username)}
	}
	if !officer.HasRole(models.RoleFieldOfficer) {
		return &models.AssignmentError{Reason: fmt.Sprintf("user %s does not have fieldofficer role", officer.Username)}
	}
	if time.Since(farmer.CreatedAt) > maxAssignmentAge {
		return &models.AssignmentError{Reason: fmt.Sprintf("farmer %s was not registered recently", farmer.Username)}
	}
	return nil
}
