package services

import (
	"testing"
	"time"

	"github.com/tdakarsh8-beep/cropeye-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testUser(role string, createdAt time.Time) *models.User {
	return &models.User{
		ID:        uuid.New(),
		Username:  role + "_user",
		RoleName:  &role,
		CreatedAt: createdAt,
	}
}

func TestValidateAssignment_OK(t *testing.T) {
	service := &AssignmentService{}
	farmer := testUser(models.RoleFarmer, time.Now().Add(-time.Hour))
	officer := testUser(models.RoleFieldOfficer, time.Now().Add(-30*24*time.Hour))

	assert.NoError(t, service.ValidateAssignment(farmer, officer))
}

func TestValidateAssignment_MissingParty(t *testing.T) {
	service := &AssignmentService{}
	officer := testUser(models.RoleFieldOfficer, time.Now())

	var asgErr *models.AssignmentError
	assert.ErrorAs(t, service.ValidateAssignment(nil, officer), &asgErr)
	assert.ErrorAs(t, service.ValidateAssignment(testUser(models.RoleFarmer, time.Now()), nil), &asgErr)
}

func TestValidateAssignment_WrongRoles(t *testing.T) {
	service := &AssignmentService{}
	now := time.Now()

	var asgErr *models.AssignmentError

	err := service.ValidateAssignment(testUser(models.RoleManager, now), testUser(models.RoleFieldOfficer, now))
	assert.ErrorAs(t, err, &asgErr)
	assert.Contains(t, asgErr.Error(), "farmer role")

	err = service.ValidateAssignment(testUser(models.RoleFarmer, now), testUser(models.RoleManager, now))
	assert.ErrorAs(t, err, &asgErr)
	assert.Contains(t, asgErr.Error(), "fieldofficer role")
}

func TestValidateAssignment_StaleFarmer(t *testing.T) {
	service := &AssignmentService{}
	farmer := testUser(models.RoleFarmer, time.Now().Add(-25*time.Hour))
	officer := testUser(models.RoleFieldOfficer, time.Now())

	var asgErr *models.AssignmentError
	assert.ErrorAs(t, service.ValidateAssignment(farmer, officer), &asgErr)
	assert.Contains(t, asgErr.Error(), "not registered recently")
}
