package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tdakarsh8-beep/cropeye-server/internal/models"

	"github.com/jmoiron/sqlx"
)

// LookupRepository serves the seeded reference tables: roles, soil types,
// crop types and irrigation types.
type LookupRepository struct {
	db *sqlx.DB
}

func NewLookupRepository(db *sqlx.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

// GetRoleByNameTx resolves a role by its unique name.
func (r *LookupRepository) GetRoleByNameTx(tx *sqlx.Tx, name string) (*models.Role, error) {
	var role models.Role
	err := tx.Get(&role, `SELECT id, name, display_name FROM roles WHERE name = $1`, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &models.ConfigurationError{Lookup: "role", Name: name}
		}
		return nil, fmt.Errorf("failed to get role by name: %w", err)
	}
	return &role, nil
}

// GetRoleByName is the non-transactional variant used by handlers.
func (r *LookupRepository) GetRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := r.db.GetContext(ctx, &role, `SELECT id, name, display_name FROM roles WHERE name = $1`, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &models.ConfigurationError{Lookup: "role", Name: name}
		}
		return nil, fmt.Errorf("failed to get role by name: %w", err)
	}
	return &role, nil
}

// GetSoilTypeByIDTx resolves a soil type by id.
func (r *LookupRepository) GetSoilTypeByIDTx(tx *sqlx.Tx, id int64) (*models.SoilType, error) {
	var soilType models.SoilType
	err := tx.Get(&soilType, `SELECT id, name, description FROM soil_types WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &models.ConfigurationError{Lookup: "soil type", Name: fmt.Sprintf("id %d", id)}
		}
		return nil, fmt.Errorf("failed to get soil type by id: %w", err)
	}
	return &soilType, nil
}

// GetOrCreateSoilTypeTx resolves a soil type by name, creating it when absent.
func (r *LookupRepository) GetOrCreateSoilTypeTx(tx *sqlx.Tx, name string) (*models.SoilType, error) {
	var soilType models.SoilType
	err := tx.Get(&soilType, `SELECT id, name, description FROM soil_types WHERE name = $1 LIMIT 1`, name)
	if err == nil {
		return &soilType, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get soil type by name: %w", err)
	}

	insert := `INSERT INTO soil_types (name, description) VALUES ($1, $2) RETURNING id, name, description`
	err = tx.Get(&soilType, insert, name, "Auto-created: "+name)
	if err != nil {
		return nil, fmt.Errorf("failed to create soil type: %w", err)
	}
	return &soilType, nil
}

// GetCropTypeByIDTx resolves a crop type by id.
func (r *LookupRepository) GetCropTypeByIDTx(tx *sqlx.Tx, id int64) (*models.CropType, error) {
	var cropType models.CropType
	err := tx.Get(&cropType, `SELECT id, crop_type, plantation_type, planting_method FROM crop_types WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &models.ConfigurationError{Lookup: "crop type", Name: fmt.Sprintf("id %d", id)}
		}
		return nil, fmt.Errorf("failed to get crop type by id: %w", err)
	}
	return &cropType, nil
}

// GetOrCreateCropTypeTx resolves a crop type by name, creating it when
// absent. Plantation type and planting method default to 'other'.
func (r *LookupRepository) GetOrCreateCropTypeTx(tx *sqlx.Tx, name, plantationType, plantingMethod string) (*models.CropType, error) {
	var cropType models.CropType
	err := tx.Get(&cropType, `SELECT id, crop_type, plantation_type, planting_method FROM crop_types WHERE crop_type = $1 LIMIT 1`, name)
	if err == nil {
		return &cropType, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get crop type by name: %w", err)
	}

	if plantationType == "" {
		plantationType = models.PlantationTypeOther
	}
	if plantingMethod == "" {
		plantingMethod = models.PlantingMethodOther
	}

	insert := `
		INSERT INTO crop_types (crop_type, plantation_type, planting_method)
		VALUES ($1, $2, $3)
		RETURNING id, crop_type, plantation_type, planting_method`
	err = tx.Get(&cropType, insert, name, plantationType, plantingMethod)
	if err != nil {
		return nil, fmt.Errorf("failed to create crop type: %w", err)
	}
	return &cropType, nil
}

// GetIrrigationTypeByIDTx resolves an irrigation type by id.
func (r *LookupRepository) GetIrrigationTypeByIDTx(tx *sqlx.Tx, id int64) (*models.IrrigationType, error) {
	var irrigationType models.IrrigationType
	err := tx.Get(&irrigationType, `SELECT id, name, description FROM irrigation_types WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &models.ConfigurationError{Lookup: "irrigation type", Name: fmt.Sprintf("id %d", id)}
		}
		return nil, fmt.Errorf("failed to get irrigation type by id: %w", err)
	}
	return &irrigationType, nil
}

// GetOrCreateIrrigationTypeTx resolves an irrigation type by name, creating
// it when absent.
func (r *LookupRepository) GetOrCreateIrrigationTypeTx(tx *sqlx.Tx, name string) (*models.IrrigationType, error) {
	var irrigationType models.IrrigationType
	err := tx.Get(&irrigationType, `SELECT id, name, description FROM irrigation_types WHERE name = $1 LIMIT 1`, name)
	if err == nil {
		return &irrigationType, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get irrigation type by name: %w", err)
	}

	insert := `INSERT INTO irrigation_types (name, description) VALUES ($1, $2) RETURNING id, name, description`
	err = tx.Get(&irrigationType, insert, name, "Auto-created: "+name)
	if err != nil {
		return nil, fmt.Errorf("failed to create irrigation type: %w", err)
	}
	return &irrigationType, nil
}
