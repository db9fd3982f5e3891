package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/buynowhq/buynow-backend/pkg/config"
	"github.com/buynowhq/buynow-backend/pkg/logger"
)

const pingTimeout = 5 * time.Second

// Client wraps the Cloud Storage SDK for image uploads.
type Client struct {
	raw           *storage.Client
	defaultBucket string
}

// Pinger exposes the health check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Uploader is the surface services depend on; fakes implement it in tests.
type Uploader interface {
	Upload(ctx context.Context, folder, filename, contentType string, r io.Reader) (publicID, publicURL string, err error)
	Delete(ctx context.Context, publicID string) error
}

// NewClient initializes the storage wrapper. When no credentials file is
// configured, application default credentials are used.
func NewClient(ctx context.Context, cfg config.GCSConfig, gcp config.GCPConfig, logg *logger.Logger) (*Client, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("gcs bucket name is required")
	}

	var opts []option.ClientOption
	if gcp.ApplicationCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(gcp.ApplicationCredentials))
	}
	raw, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	client := &Client{
		raw:           raw,
		defaultBucket: cfg.BucketName,
	}

	if logg != nil {
		logg.Info(ctx, "gcs client initialized")
	}
	return client, nil
}

// DefaultBucket returns the configured bucket name.
func (c *Client) DefaultBucket() string {
	if c == nil {
		return ""
	}
	return c.defaultBucket
}

// Upload streams r into the bucket under folder and returns the object path
// plus its public URL. A random prefix keeps repeated filenames from colliding.
func (c *Client) Upload(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, string, error) {
	if c == nil || c.raw == nil {
		return "", "", errors.New("gcs client not initialized")
	}
	objectPath := ObjectPath(folder, filename)

	wc := c.raw.Bucket(c.defaultBucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // small files, skip chunking
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", "", fmt.Errorf("uploading object: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", "", fmt.Errorf("finalizing upload: %w", err)
	}
	return objectPath, PublicURL(c.defaultBucket, objectPath), nil
}

// Delete removes the object stored at publicID.
func (c *Client) Delete(ctx context.Context, publicID string) error {
	if c == nil || c.raw == nil {
		return errors.New("gcs client not initialized")
	}
	if strings.TrimSpace(publicID) == "" {
		return nil
	}
	err := c.raw.Bucket(c.defaultBucket).Object(publicID).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

// Ping verifies the bucket is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.raw == nil {
		return errors.New("gcs client not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	_, err := c.raw.Bucket(c.defaultBucket).Attrs(ctx)
	return err
}

// Close releases the underlying client.
func (c *Client) Close() error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

// ObjectPath builds a collision-free object path for an uploaded file.
func ObjectPath(folder, filename string) string {
	name := strings.TrimSpace(filename)
	if name == "" {
		name = "file"
	}
	return path.Join(strings.Trim(folder, "/"), uuid.NewString()+"-"+name)
}

// PublicURL builds the public URL for an object, assuming public read access.
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}
