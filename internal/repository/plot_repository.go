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

type PlotRepository struct {
	db *sqlx.DB
}

func NewPlotRepository(db *sqlx.DB) *PlotRepository {
	return &PlotRepository{db: db}
}

// plotRow carries the geography columns as EWKB for manual conversion.
type plotRow struct {
	models.Plot
	LocationWKB []byte `db:"location_wkb"`
	BoundaryWKB []byte `db:"boundary_wkb"`
}

const plotSelectQuery = `
	SELECT
		id, gat_number, plot_number, village, taluka, district, state,
		country, pin_code, farmer_id, created_by, created_at, updated_at,
		ST_AsBinary(location) AS location_wkb,
		ST_AsBinary(boundary) AS boundary_wkb
	FROM plots`

// BeginTransaction starts a new database transaction
func (r *PlotRepository) BeginTransaction() (*sqlx.Tx, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateTx inserts a plot within a transaction. Geometry fields are written
// through ST_GeogFromText from the WKT produced by the model Valuers.
func (r *PlotRepository) CreateTx(tx *sqlx.Tx, plot *models.Plot) error {
	if plot.ID == uuid.Nil {
		plot.ID = uuid.New()
	}
	plot.CreatedAt = time.Now()
	plot.UpdatedAt = time.Now()

	query := `
		INSERT INTO plots (
			id, gat_number, plot_number, village, taluka, district, state,
			country, pin_code, farmer_id, created_by,
			location, boundary, created_at, updated_at
		) VALUES (
			:id, :gat_number, :plot_number, :village, :taluka, :district, :state,
			:country, :pin_code, :farmer_id, :created_by,
			ST_GeogFromText(:location), ST_GeogFromText(:boundary), :created_at, :updated_at
		)`

	_, err := tx.NamedExec(query, plot)
	if err != nil {
		return fmt.Errorf("failed to create plot: %w", err)
	}
	return nil
}

// IdentityTupleExistsTx reports whether a plot with the same
// (gat_number, plot_number, village, district) identity already exists.
func (r *PlotRepository) IdentityTupleExistsTx(tx *sqlx.Tx, gatNumber, plotNumber, village, district string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM plots
			WHERE gat_number = $1 AND plot_number = $2 AND village = $3 AND district = $4
		)`
	err := tx.Get(&exists, query, gatNumber, plotNumber, village, district)
	if err != nil {
		return false, fmt.Errorf("failed to check plot identity tuple: %w", err)
	}
	return exists, nil
}

// GetByID loads one plot with its geometry read back from PostGIS.
func (r *PlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Plot, error) {
	var row plotRow
	err := r.db.GetContext(ctx, &row, plotSelectQuery+` WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("not_found: plot not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get plot by id: %w", err)
	}
	return rowToPlot(&row)
}

// ListByFarmer returns every plot owned by the given farmer.
func (r *PlotRepository) ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.Plot, error) {
	var rows []plotRow
	err := r.db.SelectContext(ctx, &rows, plotSelectQuery+` WHERE farmer_id = $1 ORDER BY created_at DESC`, farmerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plots by farmer: %w", err)
	}
	return rowsToPlots(rows)
}

// ListAll returns every plot. Used by the bulk re-sync job.
func (r *PlotRepository) ListAll(ctx context.Context) ([]models.Plot, error) {
	var rows []plotRow
	err := r.db.SelectContext(ctx, &rows, plotSelectQuery+` ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list plots: %w", err)
	}
	return rowsToPlots(rows)
}

// CountByFarmer returns the number of plots owned by the given user.
func (r *PlotRepository) CountByFarmer(ctx context.Context, farmerID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM plots WHERE farmer_id = $1`, farmerID)
	if err != nil {
		return 0, fmt.Errorf("failed to count plots by farmer: %w", err)
	}
	return count, nil
}

// Delete removes one plot row.
func (r *PlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM plots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete plot: %w", err)
	}
	return nil
}

func rowToPlot(row *plotRow) (*models.Plot, error) {
	plot := row.Plot

	location, err := models.PointFromEWKB(row.LocationWKB)
	if err != nil {
		return nil, fmt.Errorf("failed to decode plot location: %w", err)
	}
	boundary, err := models.PolygonFromEWKB(row.BoundaryWKB)
	if err != nil {
		return nil, fmt.Errorf("failed to decode plot boundary: %w", err)
	}

	plot.Location = location
	plot.Boundary = boundary
	return &plot, nil
}

func rowsToPlots(rows []plotRow) ([]models.Plot, error) {
	plots := make([]models.Plot, 0, len(rows))
	for i := range rows {
		plot, err := rowToPlot(&rows[i])
		if err != nil {
			return nil, err
		}
		plots = append(plots, *plot)
	}
	return plots, nil
}
