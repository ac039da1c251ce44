package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tdakarsh8-beep/cropeye-server/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type FarmRepository struct {
	db *sqlx.DB
}

func NewFarmRepository(db *sqlx.DB) *FarmRepository {
	return &FarmRepository{db: db}
}

const farmColumns = `
	id, farm_uid, farm_owner_id, created_by, plot_id, address, area_size,
	soil_type_id, crop_type_id, plantation_date, spacing_a, spacing_b,
	created_at, updated_at`

// BeginTransaction starts a new database transaction
func (r *FarmRepository) BeginTransaction() (*sqlx.Tx, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateTx inserts a farm within a transaction.
func (r *FarmRepository) CreateTx(tx *sqlx.Tx, farm *models.Farm) error {
	if farm.ID == uuid.Nil {
		farm.ID = uuid.New()
	}
	if farm.FarmUID == uuid.Nil {
		farm.FarmUID = uuid.New()
	}
	farm.CreatedAt = time.Now()
	farm.UpdatedAt = time.Now()

	query := `
		INSERT INTO farms (
			id, farm_uid, farm_owner_id, created_by, plot_id, address, area_size,
			soil_type_id, crop_type_id, plantation_date, spacing_a, spacing_b,
			created_at, updated_at
		) VALUES (
			:id, :farm_uid, :farm_owner_id, :created_by, :plot_id, :address, :area_size,
			:soil_type_id, :crop_type_id, :plantation_date, :spacing_a, :spacing_b,
			:created_at, :updated_at
		)`

	_, err := tx.NamedExec(query, farm)
	if err != nil {
		return fmt.Errorf("failed to create farm: %w", err)
	}
	return nil
}

// GetByID loads one farm.
func (r *FarmRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Farm, error) {
	var farm models.Farm
	err := r.db.GetContext(ctx, &farm, `SELECT `+farmColumns+` FROM farms WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("not_found: farm not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get farm by id: %w", err)
	}
	return &farm, nil
}

// ListByOwner returns every farm owned by the given farmer.
func (r *FarmRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Farm, error) {
	var farms []models.Farm
	err := r.db.SelectContext(ctx, &farms, `SELECT `+farmColumns+` FROM farms WHERE farm_owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list farms by owner: %w", err)
	}
	return farms, nil
}

// CountByOwner returns the number of farms owned by the given user.
func (r *FarmRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM farms WHERE farm_owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to count farms by owner: %w", err)
	}
	return count, nil
}

// Delete removes one farm row. Its irrigations go down with it via the
// database cascade.
func (r *FarmRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM farms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete farm: %w", err)
	}
	return nil
}
