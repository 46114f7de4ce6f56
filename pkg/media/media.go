package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"storefront/internal/models"
)

// Service is the boundary to the external media host. Upload stores a local
// file and returns its hosted URL plus the asset id needed to delete it later.
type Service interface {
	Upload(ctx context.Context, localPath string) (models.Image, error)
	Remove(ctx context.Context, publicID string) error
	RemoveMany(ctx context.Context, publicIDs []string) error
}

// Config holds media host connection details.
type Config struct {
	BaseURL string
	APIKey  string
}

// HTTPClient talks to a cloudinary-style upload API over HTTP.
type HTTPClient struct {
	cfg    Config
	client *http.Client
}

// NewHTTPClient creates a media client for the configured host.
func NewHTTPClient(cfg Config) *HTTPClient {
	return &HTTPClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResponse struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Upload posts the file as multipart form data and returns the hosted image.
func (c *HTTPClient) Upload(ctx context.Context, localPath string) (models.Image, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return models.Image{}, fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return models.Image{}, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return models.Image{}, fmt.Errorf("failed to read %s: %w", localPath, err)
	}
	if err := writer.Close(); err != nil {
		return models.Image{}, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/upload", &buf)
	if err != nil {
		return models.Image{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return models.Image{}, fmt.Errorf("media upload failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return models.Image{}, fmt.Errorf("media upload failed: status %d", resp.StatusCode)
	}

	var uploaded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return models.Image{}, fmt.Errorf("failed to decode upload response: %w", err)
	}
	return models.Image{URL: uploaded.URL, PublicID: uploaded.PublicID}, nil
}

// Remove deletes one hosted asset by its public id.
func (c *HTTPClient) Remove(ctx context.Context, publicID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.cfg.BaseURL+"/assets/"+publicID, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("media remove failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("media remove failed: status %d", resp.StatusCode)
	}
	return nil
}

// RemoveMany deletes a batch of hosted assets in one call.
func (c *HTTPClient) RemoveMany(ctx context.Context, publicIDs []string) error {
	body, err := json.Marshal(map[string][]string{"public_ids": publicIDs})
	if err != nil {
		return fmt.Errorf("failed to marshal asset ids: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/assets/delete", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("media batch remove failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("media batch remove failed: status %d", resp.StatusCode)
	}
	return nil
}
