package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{db: db}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetAll retrieves all users.
func (r *GORMUserRepository) GetAll() ([]models.User, error) {
	var users []models.User
	if err := r.db.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	return users, nil
}

// GetByID retrieves a user by their ID.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// Update saves the full user record.
func (r *GORMUserRepository) Update(user *models.User) error {
	res := r.db.Save(user)
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", user.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a user by ID.
func (r *GORMUserRepository) Delete(id string) error {
	res := r.db.Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return nil
}

// GORMVerificationTokenRepository is a GORM implementation of
// VerificationTokenRepository.
type GORMVerificationTokenRepository struct {
	db *gorm.DB
}

// NewGORMVerificationTokenRepository creates a new GORMVerificationTokenRepository.
func NewGORMVerificationTokenRepository(db *gorm.DB) *GORMVerificationTokenRepository {
	return &GORMVerificationTokenRepository{db: db}
}

// Create persists a verification token.
func (r *GORMVerificationTokenRepository) Create(token *models.VerificationToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if err := r.db.Create(token).Error; err != nil {
		return fmt.Errorf("failed to create verification token: %w", err)
	}
	return nil
}

// GetByUserAndToken retrieves the token matching the (user, token) pair.
func (r *GORMVerificationTokenRepository) GetByUserAndToken(userID, token string) (*models.VerificationToken, error) {
	var vt models.VerificationToken
	if err := r.db.First(&vt, "user_id = ? AND token = ?", userID, token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("verification token for user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get verification token: %w", err)
	}
	return &vt, nil
}

// Delete removes a verification token by ID.
func (r *GORMVerificationTokenRepository) Delete(id string) error {
	res := r.db.Delete(&models.VerificationToken{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete verification token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("verification token %s: %w", id, ErrNotFound)
	}
	return nil
}
