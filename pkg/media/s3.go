package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/gabriel-vasile/mimetype"
	"github.com/oklog/ulid/v2"
)

type s3Uploader struct {
	uploader      *s3manager.Uploader
	bucketName    string
	folder        string
	publicBaseURL string
}

func newS3(cfg Config) (IUploader, error) {
	if cfg.S3.Bucket == "" {
		return nil, errors.New("s3 bucket is not configured")
	}

	sess, err := newSession(cfg.S3)
	if err != nil {
		return nil, err
	}

	return &s3Uploader{
		uploader:      s3manager.NewUploader(sess),
		bucketName:    cfg.S3.Bucket,
		folder:        cfg.Folder,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

func (s *s3Uploader) Upload(ctx context.Context, localPath string) (string, error) {
	src, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open upload source: %w", err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectFile(localPath)
	if err != nil {
		return "", fmt.Errorf("detect content type: %w", err)
	}

	key := s.objectKey(localPath)

	uploadOutput, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        src,
		ContentType: aws.String(mtype.String()),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload: %w", err)
	}

	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key, nil
	}

	return uploadOutput.Location, nil
}

func (s *s3Uploader) objectKey(localPath string) string {
	name := strings.ReplaceAll(filepath.Base(localPath), " ", "-")
	return path.Join(s.folder, fmt.Sprintf("%s-%s", strings.ToLower(ulid.Make().String()), name))
}

func newSession(cfg S3Config) (*session.Session, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		),
		MaxRetries: aws.Int(0),
	}

	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, err
	}

	return sess, nil
}
