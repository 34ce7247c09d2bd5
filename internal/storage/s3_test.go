package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"ironlog/fitness-tracker/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePresignedDownloadURL(t *testing.T) {
	fs, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        "http://localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		BucketName:      "exports",
	})
	require.NoError(t, err)

	rawURL, err := fs.GeneratePresignedDownloadURL(context.Background(), "exports/u1/abc.json", 10*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/exports/exports/u1/abc.json", u.Path)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	assert.Contains(t, u.Query().Get("X-Amz-Credential"), "test-key")
}

func TestGeneratePresignedDownloadURL_DefaultExpiry(t *testing.T) {
	fs, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        "http://localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		BucketName:      "exports",
	})
	require.NoError(t, err)

	rawURL, err := fs.GeneratePresignedDownloadURL(context.Background(), "k.json", 0)
	require.NoError(t, err)

	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
}
