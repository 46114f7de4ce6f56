package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/media"
)

// UserUpdate carries optional profile changes; empty fields stay unchanged.
type UserUpdate struct {
	Username  string
	Email     string
	Password  string
	Street    string
	Apartment string
	City      string
	Zip       string
	Country   string
	Phone     string
}

// UserService handles user profile management.
type UserService struct {
	repo   repositories.UserRepository
	media  media.Service
	logger zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository, mediaSvc media.Service, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, media: mediaSvc, logger: logger}
}

// GetAllUsers retrieves all users.
func (s *UserService) GetAllUsers() ([]models.User, error) {
	return s.repo.GetAll()
}

// GetUserByID retrieves a single user by ID.
func (s *UserService) GetUserByID(id string) (*models.User, error) {
	return s.repo.GetByID(id)
}

// UpdateUser applies a partial profile update. A new password is re-hashed
// before it is stored.
func (s *UserService) UpdateUser(id string, update UserUpdate) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if update.Username != "" {
		user.Username = update.Username
	}
	if update.Email != "" {
		user.Email = update.Email
	}
	if update.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(update.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
	}
	if update.Street != "" {
		user.Street = update.Street
	}
	if update.Apartment != "" {
		user.Apartment = update.Apartment
	}
	if update.City != "" {
		user.City = update.City
	}
	if update.Zip != "" {
		user.Zip = update.Zip
	}
	if update.Country != "" {
		user.Country = update.Country
	}
	if update.Phone != "" {
		user.Phone = update.Phone
	}

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user account.
func (s *UserService) DeleteUser(id string) error {
	return s.repo.Delete(id)
}

// UpdateProfilePhoto uploads a new profile photo and removes the previous
// hosted asset, if any.
func (s *UserService) UpdateProfilePhoto(ctx context.Context, userID, localPath string) error {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return err
	}

	uploaded, err := s.media.Upload(ctx, localPath)
	if err != nil {
		return fmt.Errorf("media upload: %w", err)
	}
	if user.ProfilePhoto.PublicID != "" {
		if err := s.media.Remove(ctx, user.ProfilePhoto.PublicID); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).
				Msg("failed to remove previous profile photo")
		}
	}

	user.ProfilePhoto = uploaded
	return s.repo.Update(user)
}
