package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tdakarsh8-beep/cropeye-server/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `
	u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name,
	u.phone_number, u.address, u.village, u.taluka, u.district, u.state,
	u.role_id, u.created_by, u.created_at, u.updated_at,
	r.name AS role_name`

// BeginTransaction starts a new database transaction
func (r *UserRepository) BeginTransaction() (*sqlx.Tx, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateTx inserts a user within a transaction.
func (r *UserRepository) CreateTx(tx *sqlx.Tx, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	query := `
		INSERT INTO users (
			id, username, email, password_hash, first_name, last_name,
			phone_number, address, village, taluka, district, state,
			role_id, created_by, created_at, updated_at
		) VALUES (
			:id, :username, :email, :password_hash, :first_name, :last_name,
			:phone_number, :address, :village, :taluka, :district, :state,
			:role_id, :created_by, :created_at, :updated_at
		)`

	_, err := tx.NamedExec(query, user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UsernameExistsTx reports whether a username is already taken.
func (r *UserRepository) UsernameExistsTx(tx *sqlx.Tx, username string) (bool, error) {
	var exists bool
	err := tx.Get(&exists, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

// EmailExistsTx reports whether an email is already taken.
func (r *UserRepository) EmailExistsTx(tx *sqlx.Tx, email string) (bool, error) {
	var exists bool
	err := tx.Get(&exists, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// GetByID loads a user with its role name.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u LEFT JOIN roles r ON u.role_id = r.id WHERE u.id = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("not_found: user not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// MostRecentFarmerSince returns the latest user with the farmer role created
// at or after the given instant, or nil when none exists. The query is
// deliberately not scoped to a creating officer; see the assignment service.
func (r *UserRepository) MostRecentFarmerSince(ctx context.Context, since time.Time) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		JOIN roles r ON u.role_id = r.id
		WHERE r.name = $1 AND u.created_at >= $2
		ORDER BY u.created_at DESC
		LIMIT 1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, models.RoleFarmer, since)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query most recent farmer: %w", err)
	}
	return &user, nil
}

// FarmersRegisteredSince returns all farmer-role users created at or after
// the given instant, newest first.
func (r *UserRepository) FarmersRegisteredSince(ctx context.Context, since time.Time) ([]models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		JOIN roles r ON u.role_id = r.id
		WHERE r.name = $1 AND u.created_at >= $2
		ORDER BY u.created_at DESC`

	var users []models.User
	err := r.db.SelectContext(ctx, &users, query, models.RoleFarmer, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query farmers: %w", err)
	}
	return users, nil
}

// Delete removes a user row. Farms referencing the user as owner go down
// with it via the database cascade; plots are detached (SET NULL), which is
// why farmer deletion must cascade explicitly in the service layer first.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// HashPassword hashes the given password with bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with a bcrypt hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
