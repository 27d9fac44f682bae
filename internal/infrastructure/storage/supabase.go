// Package storage uploads product images to Supabase Storage over its
// REST API and hands back the public URL for the stored object.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/artilheiro/store-backend/internal/application"
	"github.com/artilheiro/store-backend/internal/config"
	"github.com/google/uuid"
)

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type SupabaseClient struct {
	baseURL        string
	serviceRoleKey string
	bucket         string
	maxFileSize    int64
	httpClient     *http.Client
}

func NewSupabaseClient(cfg config.StorageConfig) *SupabaseClient {
	return &SupabaseClient{
		baseURL:        strings.TrimRight(cfg.SupabaseURL, "/"),
		serviceRoleKey: cfg.ServiceRoleKey,
		bucket:         cfg.Bucket,
		maxFileSize:    cfg.MaxFileSize,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// UploadProductImage stores the image under a generated object path and
// returns its public URL. The content type decides the file extension.
func (c *SupabaseClient) UploadProductImage(ctx context.Context, contentType string, size int64, body io.Reader) (string, error) {
	if c.baseURL == "" || c.serviceRoleKey == "" {
		return "", application.NewConfigurationError("storage is not configured")
	}

	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return "", application.NewInvalidArgumentError(
			fmt.Sprintf("unsupported image type %q, expected JPEG, PNG or WebP", contentType))
	}
	if c.maxFileSize > 0 && size > c.maxFileSize {
		return "", application.NewInvalidArgumentError(
			fmt.Sprintf("image exceeds the %d byte limit", c.maxFileSize))
	}

	objectPath := path.Join("products", uuid.New().String()+ext)
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, objectPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("apikey", c.serviceRoleKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceRoleKey)
	req.Header.Set("Content-Type", contentType)
	if size > 0 {
		req.ContentLength = size
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", application.NewGatewayError("storage upload failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", application.NewGatewayError(
			fmt.Sprintf("storage returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))), nil)
	}

	return c.PublicURL(objectPath), nil
}

// PublicURL builds the unauthenticated URL for an object in the bucket.
// The bucket must be marked public in Supabase for it to resolve.
func (c *SupabaseClient) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, objectPath)
}
