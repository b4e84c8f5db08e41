package datasource

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds explicit construction parameters (mostly for tests). In
// deployed environments the environment variables are the primary path.
type S3Config struct {
	Region          string
	Bucket          string
	Key             string
	Endpoint        string // optional; enables a custom endpoint (e.g. MinIO)
	AccessKeyID     string // optional (falls back to default credentials chain)
	SecretAccessKey string // optional
	SessionToken    string // optional
	PathStyle       bool
}

// S3Source fetches the dataset object from an S3-compatible backend.
type S3Source struct {
	client *s3.Client
	bucket string
	key    string
}

// NewS3 creates an S3 datasource from cfg.
func NewS3(ctx context.Context, cfg S3Config) (*S3Source, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	if cfg.Key == "" {
		cfg.Key = DefaultPath
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3Source{client: client, bucket: cfg.Bucket, key: cfg.Key}, nil
}

// OpenS3FromEnv constructs an S3 datasource from process environment.
func OpenS3FromEnv(ctx context.Context) (*S3Source, error) {
	bucket := os.Getenv("COOLINGCORE_DATA_S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("COOLINGCORE_DATA_S3_BUCKET required for s3 driver")
	}
	cfg := S3Config{
		Bucket:    bucket,
		Key:       os.Getenv("COOLINGCORE_DATA_S3_KEY"),
		Region:    os.Getenv("COOLINGCORE_DATA_S3_REGION"),
		Endpoint:  os.Getenv("COOLINGCORE_DATA_S3_ENDPOINT"),
		PathStyle: strings.EqualFold(os.Getenv("COOLINGCORE_DATA_S3_PATH_STYLE"), "true"),
	}
	return NewS3(ctx, cfg)
}

// Driver implements Source.
func (s *S3Source) Driver() Driver { return DriverS3 }

// Fetch implements Source.
func (s *S3Source) Fetch(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &s.key})
	if err != nil {
		return nil, fmt.Errorf("fetch s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return out.Body, nil
}
