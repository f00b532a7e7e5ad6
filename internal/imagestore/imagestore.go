// Package imagestore uploads food photos and returns where they can be fetched.
package imagestore

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/meltforce/fittrack/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Uploader stores a local file and returns its URL.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (string, error)
}

// New returns the provider selected by cfg.Provider.
func New(cfg config.ImagesConfig) (Uploader, error) {
	switch cfg.Provider {
	case "minio":
		return NewMinio(cfg)
	case "local", "":
		return &Local{Dir: cfg.LocalDir}, nil
	}
	return nil, fmt.Errorf("unknown image provider %q", cfg.Provider)
}

func objectName(localPath string) string {
	return path.Join("food", uuid.NewString()+strings.ToLower(filepath.Ext(localPath)))
}

func contentType(localPath string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(localPath))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Local copies uploads into Dir; the server exposes them under /uploads/.
type Local struct {
	Dir string
}

func (l *Local) Upload(ctx context.Context, localPath string) (string, error) {
	name := objectName(localPath)
	dst := filepath.Join(l.Dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("creating upload dir: %w", err)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("opening image: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return "", fmt.Errorf("copying image: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", dst, err)
	}
	return "/uploads/" + name, nil
}

// Minio uploads to an S3-compatible bucket.
type Minio struct {
	client   *minio.Client
	bucket   string
	endpoint string
	secure   bool
}

// NewMinio creates a MinIO uploader from cfg.
func NewMinio(cfg config.ImagesConfig) (*Minio, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioSecure,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}
	return &Minio{
		client:   client,
		bucket:   cfg.MinioBucket,
		endpoint: cfg.MinioEndpoint,
		secure:   cfg.MinioSecure,
	}, nil
}

func (m *Minio) Upload(ctx context.Context, localPath string) (string, error) {
	name := objectName(localPath)
	_, err := m.client.FPutObject(ctx, m.bucket, name, localPath, minio.PutObjectOptions{
		ContentType: contentType(localPath),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s to bucket %s: %w", name, m.bucket, err)
	}
	return m.url(name), nil
}

func (m *Minio) url(name string) string {
	scheme := "http"
	if m.secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, m.endpoint, m.bucket, name)
}
