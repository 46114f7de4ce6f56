package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/media"
)

// CategoryService handles business logic related to categories.
type CategoryService struct {
	repo   repositories.CategoryRepository
	media  media.Service
	logger zerolog.Logger
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository, mediaSvc media.Service, logger zerolog.Logger) *CategoryService {
	return &CategoryService{repo: repo, media: mediaSvc, logger: logger}
}

// GetAllCategories retrieves all categories with products populated.
func (s *CategoryService) GetAllCategories() ([]models.Category, error) {
	return s.repo.GetAll()
}

// GetCategoryByID retrieves a single category with products populated.
func (s *CategoryService) GetCategoryByID(id string) (*models.Category, error) {
	return s.repo.GetByID(id)
}

// CreateCategory creates a new category.
func (s *CategoryService) CreateCategory(category *models.Category) error {
	return s.repo.Create(category)
}

// UpdateCategory updates an existing category.
func (s *CategoryService) UpdateCategory(category *models.Category) error {
	return s.repo.Update(category)
}

// DeleteCategory deletes a category and detaches its hosted assets (best
// effort).
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}

	var publicIDs []string
	for _, img := range []models.Image{category.Icon, category.Image} {
		if img.PublicID != "" {
			publicIDs = append(publicIDs, img.PublicID)
		}
	}
	if len(publicIDs) > 0 {
		if err := s.media.RemoveMany(ctx, publicIDs); err != nil {
			s.logger.Warn().Err(err).Str("category_id", id).
				Msg("failed to detach category assets from media host")
		}
	}
	return nil
}

// UpdateCategoryImage uploads a new category image, replacing the previous
// hosted asset.
func (s *CategoryService) UpdateCategoryImage(ctx context.Context, id, localPath string) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	uploaded, err := s.media.Upload(ctx, localPath)
	if err != nil {
		return nil, fmt.Errorf("media upload: %w", err)
	}
	if category.Image.PublicID != "" {
		if err := s.media.Remove(ctx, category.Image.PublicID); err != nil {
			s.logger.Warn().Err(err).Str("category_id", id).
				Msg("failed to remove previous category image")
		}
	}

	category.Image = uploaded
	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}
