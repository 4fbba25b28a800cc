// Package storage backs up optimized sighting images to S3-compatible
// object storage (AWS S3 or MinIO).
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	appcfg "github.com/svillar/quiet/internal/config"
)

type BackupClient struct {
	client        *s3.Client
	bucket        string
	region        string
	endpoint      string
	publicBaseURL string
}

func NewBackupClient(ctx context.Context, cfg *appcfg.Config) (*BackupClient, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &BackupClient{
		client:        client,
		bucket:        cfg.S3Bucket,
		region:        cfg.S3Region,
		endpoint:      cfg.S3Endpoint,
		publicBaseURL: cfg.S3PublicBaseURL,
	}, nil
}

// Upload stores the object under a date-partitioned random key and returns
// its public URL.
func (c *BackupClient) Upload(ctx context.Context, body io.Reader, contentType string) (string, error) {
	key := storageKey()

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &c.bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("uploading backup image: %w", err)
	}

	return c.objectURL(key), nil
}

func storageKey() string {
	d := time.Now()
	return fmt.Sprintf("sightings/%d/%d/%d/%v", d.Year(), int(d.Month()), d.Day(), uuid.New())
}

func (c *BackupClient) objectURL(key string) string {
	if c.publicBaseURL != "" {
		return strings.TrimRight(c.publicBaseURL, "/") + "/" + key
	}
	if c.endpoint != "" {
		return strings.TrimRight(c.endpoint, "/") + "/" + c.bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key)
}
