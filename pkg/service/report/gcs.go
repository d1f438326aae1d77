package report

import (
	"context"
	"path"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
)

// GCSUploader uploads report files to a Cloud Storage bucket
type GCSUploader struct {
	client *storage.Client
	bucket string
	prefix string
}

// GCSOption is a functional option for GCSUploader
type GCSOption func(*gcsConfig)

type gcsConfig struct {
	prefix          string
	credentialsFile string
}

// WithObjectPrefix places objects under prefix
func WithObjectPrefix(prefix string) GCSOption {
	return func(c *gcsConfig) {
		c.prefix = prefix
	}
}

// WithCredentialsFile uses a service account key instead of the default credentials
func WithCredentialsFile(path string) GCSOption {
	return func(c *gcsConfig) {
		c.credentialsFile = path
	}
}

// NewGCSUploader creates a client for bucket
func NewGCSUploader(ctx context.Context, bucket string, opts ...GCSOption) (*GCSUploader, error) {
	if bucket == "" {
		return nil, goerr.New("bucket is required")
	}

	cfg := &gcsConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var clientOpts []option.ClientOption
	if cfg.credentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.credentialsFile))
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client", goerr.V("bucket", bucket))
	}

	return &GCSUploader{
		client: client,
		bucket: bucket,
		prefix: cfg.prefix,
	}, nil
}

// Upload writes data to the object named by prefix and name, and returns its gs:// URL
func (u *GCSUploader) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	objectName := path.Join(u.prefix, name)

	w := u.client.Bucket(u.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "no-cache, no-store, must-revalidate"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to write object", goerr.V("bucket", u.bucket), goerr.V("object", objectName))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize object", goerr.V("bucket", u.bucket), goerr.V("object", objectName))
	}

	return "gs://" + u.bucket + "/" + objectName, nil
}

// Close releases the underlying client
func (u *GCSUploader) Close() error {
	return u.client.Close()
}
