package repository

import (
	"context"
	"fmt"

	"github.com/tdakarsh8-beep/cropeye-server/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type IrrigationRepository struct {
	db *sqlx.DB
}

func NewIrrigationRepository(db *sqlx.DB) *IrrigationRepository {
	return &IrrigationRepository{db: db}
}

type irrigationRow struct {
	models.FarmIrrigation
	LocationWKB []byte `db:"location_wkb"`
}

// CreateTx inserts a farm irrigation within a transaction.
func (r *IrrigationRepository) CreateTx(tx *sqlx.Tx, irrigation *models.FarmIrrigation) error {
	if irrigation.ID == uuid.Nil {
		irrigation.ID = uuid.New()
	}

	query := `
		INSERT INTO farm_irrigations (
			id, farm_id, irrigation_type_id, location, status,
			motor_horsepower, pipe_width_inches, distance_motor_to_plot_m,
			plants_per_acre, flow_rate_lph, emitters_count
		) VALUES (
			:id, :farm_id, :irrigation_type_id, ST_GeogFromText(:location), :status,
			:motor_horsepower, :pipe_width_inches, :distance_motor_to_plot_m,
			:plants_per_acre, :flow_rate_lph, :emitters_count
		)`

	_, err := tx.NamedExec(query, irrigation)
	if err != nil {
		return fmt.Errorf("failed to create farm irrigation: %w", err)
	}
	return nil
}

// ListByFarm returns every irrigation installation on the given farm.
func (r *IrrigationRepository) ListByFarm(ctx context.Context, farmID uuid.UUID) ([]models.FarmIrrigation, error) {
	query := `
		SELECT
			id, farm_id, irrigation_type_id, status,
			motor_horsepower, pipe_width_inches, distance_motor_to_plot_m,
			plants_per_acre, flow_rate_lph, emitters_count,
			ST_AsBinary(location) AS location_wkb
		FROM farm_irrigations
		WHERE farm_id = $1
		ORDER BY id`

	var rows []irrigationRow
	err := r.db.SelectContext(ctx, &rows, query, farmID)
	if err != nil {
		return nil, fmt.Errorf("failed to list irrigations by farm: %w", err)
	}

	irrigations := make([]models.FarmIrrigation, 0, len(rows))
	for i := range rows {
		irrigation := rows[i].FarmIrrigation
		location, err := models.PointFromEWKB(rows[i].LocationWKB)
		if err != nil {
			return nil, fmt.Errorf("failed to decode irrigation location: %w", err)
		}
		irrigation.Location = location
		irrigations = append(irrigations, irrigation)
	}
	return irrigations, nil
}

// CountByFarm returns the number of irrigation rows on the given farm.
func (r *IrrigationRepository) CountByFarm(ctx context.Context, farmID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM farm_irrigations WHERE farm_id = $1`, farmID)
	if err != nil {
		return 0, fmt.Errorf("failed to count irrigations by farm: %w", err)
	}
	return count, nil
}
