package media

import (
	"context"
	"fmt"
)

const (
	ProviderCloudinary = "cloudinary"
	ProviderS3         = "s3"

	defaultFolder = "blog_images"
)

// IUploader pushes a local file to the media host and returns its public URL.
type IUploader interface {
	Upload(ctx context.Context, localPath string) (string, error)
}

type Config struct {
	Provider      string
	Folder        string
	PublicBaseURL string
	Cloudinary    CloudinaryConfig
	S3            S3Config
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type S3Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string // custom S3-compatible host (R2, MinIO)
}

func New(cfg Config) (IUploader, error) {
	if cfg.Folder == "" {
		cfg.Folder = defaultFolder
	}

	switch cfg.Provider {
	case ProviderCloudinary, "":
		return newCloudinary(cfg)
	case ProviderS3:
		return newS3(cfg)
	default:
		return nil, fmt.Errorf("unsupported media provider: %s", cfg.Provider)
	}
}
