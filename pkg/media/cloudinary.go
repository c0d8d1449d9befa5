package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type cloudinaryUploader struct {
	client *cloudinary.Cloudinary
	folder string
}

func newCloudinary(cfg Config) (IUploader, error) {
	c := cfg.Cloudinary
	if c.CloudName == "" || c.APIKey == "" || c.APISecret == "" {
		return nil, errors.New("cloudinary credentials are not configured")
	}

	client, err := cloudinary.NewFromParams(c.CloudName, c.APIKey, c.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}

	return &cloudinaryUploader{
		client: client,
		folder: cfg.Folder,
	}, nil
}

func (c *cloudinaryUploader) Upload(ctx context.Context, localPath string) (string, error) {
	result, err := c.client.Upload.Upload(ctx, localPath, uploader.UploadParams{
		Folder: c.folder,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}

	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", result.Error.Message)
	}

	if result.SecureURL == "" {
		return "", errors.New("cloudinary upload: empty secure_url in response")
	}

	return result.SecureURL, nil
}
