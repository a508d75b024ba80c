package storage

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfg "github.com/templui/carepledge/internal/config"
)

func TestNew_DisabledWithoutBucket(t *testing.T) {
	s, err := New(context.Background(), &cfg.Config{})
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestURL_Presigned(t *testing.T) {
	client := s3.New(s3.Options{
		Region:       "us-east-1",
		Credentials:  credentials.NewStaticCredentialsProvider("key", "secret", ""),
		BaseEndpoint: aws.String("http://localhost:9000"),
		UsePathStyle: true,
	})
	s := &S3Storage{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        "exports",
		presignExpiry: time.Hour,
	}

	url, err := s.URL(context.Background(), "snapshots/admin-1.json")
	require.NoError(t, err)
	assert.Contains(t, url, "http://localhost:9000/exports/snapshots/admin-1.json")
	assert.Contains(t, url, "X-Amz-Expires=3600")
}
