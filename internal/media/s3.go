// Package media uploads user media (avatars, cover images) to an
// S3-compatible object store and hands back publicly servable URLs.
package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	appcfg "github.com/Sagar31658/vidtube/internal/config"
)

// File is one media item to upload. Body is consumed by Upload.
type File struct {
	Name        string // original filename, used for the key extension
	ContentType string
	Size        int64
	Body        io.Reader
}

// Store wraps the S3 client for a single bucket.
type Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewStore builds an S3 client from static credentials. Endpoint is
// set for MinIO-style deployments; path-style addressing is required
// there because bucket subdomains don't resolve.
func NewStore(ctx context.Context, cfg appcfg.S3Config) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "",
		)))
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// storageKey builds a date-partitioned key with a random name, keeping
// the original extension so served content gets a sensible type.
func storageKey(name string) string {
	d := time.Now().UTC()
	return fmt.Sprintf("media/%d/%02d/%02d/%s%s",
		d.Year(), d.Month(), d.Day(), uuid.New(), strings.ToLower(path.Ext(name)))
}

// Upload writes the file to the bucket and returns its public URL.
func (s *Store) Upload(ctx context.Context, f File) (string, error) {
	key := storageKey(f.Name)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f.Body,
	}
	if f.ContentType != "" {
		input.ContentType = aws.String(f.ContentType)
	}
	if f.Size > 0 {
		input.ContentLength = aws.Int64(f.Size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.publicBaseURL + "/" + key, nil
}
