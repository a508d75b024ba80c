package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	cfg "github.com/templui/carepledge/internal/config"
)

// Storage holds exported snapshots.
type Storage interface {
	// Put stores body under key
	Put(ctx context.Context, key, contentType string, body io.Reader) error

	// URL returns a time-limited download link for key
	URL(ctx context.Context, key string) (string, error)
}

// S3Storage works with AWS S3, MinIO, DigitalOcean Spaces, Cloudflare R2, etc.
type S3Storage struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	presignExpiry time.Duration
}

type S3Config struct {
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	Endpoint      string // Optional: for S3-compatible services
	PresignExpiry time.Duration
}

// New creates S3 storage from app config. It returns nil, nil when no
// bucket is configured; exports are then unavailable.
func New(ctx context.Context, c *cfg.Config) (Storage, error) {
	if !c.StorageEnabled() {
		slog.Info("snapshot storage disabled (no S3_BUCKET)")
		return nil, nil
	}

	slog.Info("initializing S3 storage",
		"bucket", c.S3Bucket,
		"region", c.S3Region,
		"endpoint", c.S3Endpoint,
	)
	return NewS3Storage(ctx, S3Config{
		Region:        c.S3Region,
		Bucket:        c.S3Bucket,
		AccessKey:     c.S3AccessKey,
		SecretKey:     c.S3SecretKey,
		Endpoint:      c.S3Endpoint,
		PresignExpiry: c.S3PresignExpiry,
	})
}

func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(cfg.Region))

	// Add static credentials if provided
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // Required for MinIO and some S3-compatible services
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	storage := &S3Storage{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		presignExpiry: cfg.PresignExpiry,
	}

	if err := storage.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return storage, nil
}

func (s *S3Storage) ensureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %q does not exist and could not be created: %w", s.bucket, err)
	}

	slog.Info("created S3 bucket", "bucket", s.bucket)
	return nil
}

func (s *S3Storage) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	return nil
}

func (s *S3Storage) URL(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	presignedReq, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.presignExpiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign URL: %w", err)
	}

	return presignedReq.URL, nil
}
