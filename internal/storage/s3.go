package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/config"
)

// objectPutter is the slice of the S3 client used here.
type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage stores objects in an S3-compatible bucket (AWS or MinIO).
type S3Storage struct {
	client    objectPutter
	bucket    string
	publicURL string
	logger    *slog.Logger
}

// NewS3Storage builds an S3 client from static credentials. A custom base
// endpoint switches to path-style addressing for MinIO.
func NewS3Storage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*S3Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config failed: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := cfg.S3PublicURL
	if publicURL == "" {
		publicURL = defaultPublicURL(cfg)
	}

	logger.Info("🪣 [Storage] Using S3 storage", "bucket", cfg.S3Bucket, "endpoint", cfg.S3BaseEndpoint)

	return newS3Storage(client, cfg.S3Bucket, publicURL, logger), nil
}

func newS3Storage(client objectPutter, bucket, publicURL string, logger *slog.Logger) *S3Storage {
	return &S3Storage{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}
}

func defaultPublicURL(cfg *config.Config) string {
	if cfg.S3BaseEndpoint != "" {
		return strings.TrimRight(cfg.S3BaseEndpoint, "/") + "/" + cfg.S3Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
}

func (s *S3Storage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		s.logger.Error("❌ [Storage] S3 upload failed", "key", key, "error", err)
		return fmt.Errorf("s3 put object failed: %w", err)
	}

	s.logger.Debug("💾 [Storage] Stored object in S3", "bucket", s.bucket, "key", key, "size", size)
	return nil
}

func (s *S3Storage) URL(key string) string {
	return s.publicURL + "/" + key
}
