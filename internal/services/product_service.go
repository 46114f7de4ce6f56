package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/media"
)

// ProductService handles business logic related to products, including image
// attachment through the external media host.
type ProductService struct {
	repo         repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	media        media.Service
	logger       zerolog.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(
	repo repositories.ProductRepository,
	categoryRepo repositories.CategoryRepository,
	mediaSvc media.Service,
	logger zerolog.Logger,
) *ProductService {
	return &ProductService{
		repo:         repo,
		categoryRepo: categoryRepo,
		media:        mediaSvc,
		logger:       logger,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a product after checking that its category exists.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if _, err := s.categoryRepo.GetByID(product.CategoryID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("category %s: %w", product.CategoryID, ErrNotFound)
		}
		return err
	}
	if product.Image.URL == "" {
		product.Image.URL = models.DefaultProductImageURL
	}
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	return s.repo.Update(product)
}

// DeleteProduct deletes a product and detaches its hosted assets. Asset
// removal is best effort; a media failure does not undo the delete.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}

	var publicIDs []string
	if product.Image.PublicID != "" {
		publicIDs = append(publicIDs, product.Image.PublicID)
	}
	for _, img := range product.Images {
		if img.PublicID != "" {
			publicIDs = append(publicIDs, img.PublicID)
		}
	}
	if len(publicIDs) > 0 {
		if err := s.media.RemoveMany(ctx, publicIDs); err != nil {
			s.logger.Warn().Err(err).Str("product_id", id).
				Msg("failed to detach product assets from media host")
		}
	}
	return nil
}

// UpdateProductImage uploads a new primary image, replacing the previous
// hosted asset.
func (s *ProductService) UpdateProductImage(ctx context.Context, id, localPath string) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	uploaded, err := s.media.Upload(ctx, localPath)
	if err != nil {
		return nil, fmt.Errorf("media upload: %w", err)
	}
	if product.Image.PublicID != "" {
		if err := s.media.Remove(ctx, product.Image.PublicID); err != nil {
			s.logger.Warn().Err(err).Str("product_id", id).
				Msg("failed to remove previous product image")
		}
	}

	product.Image = uploaded
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// UploadProductImages uploads gallery images and appends them to the product.
func (s *ProductService) UploadProductImages(ctx context.Context, id string, localPaths []string) (*models.Product, error) {
	if _, err := s.repo.GetByID(id); err != nil {
		return nil, err
	}

	images := make([]models.Image, 0, len(localPaths))
	for _, path := range localPaths {
		uploaded, err := s.media.Upload(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("media upload: %w", err)
		}
		images = append(images, uploaded)
	}
	if err := s.repo.AddImages(id, images); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}
