package services

import (
	"context"
	"time"

	"github.com/tdakarsh8-beep/cropeye-server/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Store interfaces cover exactly the repository methods the services call,
// so the transactional paths can be tested without a live database. The
// concrete repositories in internal/repository satisfy them.

type UserStore interface {
	BeginTransaction() (*sqlx.Tx, error)
	CreateTx(tx *sqlx.Tx, user *models.User) error
	UsernameExistsTx(tx *sqlx.Tx, username string) (bool, error)
	EmailExistsTx(tx *sqlx.Tx, email string) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	MostRecentFarmerSince(ctx context.Context, since time.Time) (*models.User, error)
	FarmersRegisteredSince(ctx context.Context, since time.Time) ([]models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PlotStore interface {
	CreateTx(tx *sqlx.Tx, plot *models.Plot) error
	IdentityTupleExistsTx(tx *sqlx.Tx, gatNumber, plotNumber, village, district string) (bool, error)
	ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.Plot, error)
	CountByFarmer(ctx context.Context, farmerID uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type FarmStore interface {
	CreateTx(tx *sqlx.Tx, farm *models.Farm) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Farm, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type IrrigationStore interface {
	CreateTx(tx *sqlx.Tx, irrigation *models.FarmIrrigation) error
}

type LookupStore interface {
	GetRoleByNameTx(tx *sqlx.Tx, name string) (*models.Role, error)
	GetSoilTypeByIDTx(tx *sqlx.Tx, id int64) (*models.SoilType, error)
	GetOrCreateSoilTypeTx(tx *sqlx.Tx, name string) (*models.SoilType, error)
	GetCropTypeByIDTx(tx *sqlx.Tx, id int64) (*models.CropType, error)
	GetOrCreateCropTypeTx(tx *sqlx.Tx, name, plantationType, plantingMethod string) (*models.CropType, error)
	GetIrrigationTypeByIDTx(tx *sqlx.Tx, id int64) (*models.IrrigationType, error)
	GetOrCreateIrrigationTypeTx(tx *sqlx.Tx, name string) (*models.IrrigationType, error)
}
