package repositories

import "storefront/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetAll() ([]models.User, error)
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Delete(id string) error
}

// VerificationTokenRepository defines the interface for verification token
// data access.
type VerificationTokenRepository interface {
	Create(token *models.VerificationToken) error
	GetByUserAndToken(userID, token string) (*models.VerificationToken, error)
	Delete(id string) error
}
