package storage

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"alcyxob/program-pipeline/internal/config"
	"alcyxob/program-pipeline/internal/logger"
)

// s3Storage implements ArtifactStorage using an S3-compatible backend.
type s3Storage struct {
	client        *s3.Client        // Regular client for Put/Delete
	presignClient *s3.PresignClient // Special client for generating presigned URLs
	bucketName    string
	log           *logger.Logger
}

// NewS3Storage creates a new S3 storage service instance.
func NewS3Storage(ctx context.Context, cfg config.S3Config, log *logger.Logger) (ArtifactStorage, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("s3 bucket_name is required")
	}

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(ctx,
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, err
	}

	endpoint := normalizeEndpoint(cfg.Endpoint, cfg.UseSSL)
	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			// Path-style addressing is required by most S3-compatible services (MinIO, Spaces)
			o.UsePathStyle = true
		}
	})

	log = log.With("component", "s3_storage", "bucket", cfg.BucketName)
	log.Info("S3 artifact storage initialized", "endpoint", endpoint)

	return &s3Storage{
		client:        s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		bucketName:    cfg.BucketName,
		log:           log,
	}, nil
}

// normalizeEndpoint adds a scheme to bare host:port endpoints.
func normalizeEndpoint(endpoint string, useSSL bool) string {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" || strings.Contains(endpoint, "://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

// PutObject uploads an artifact.
func (s *s3Storage) PutObject(ctx context.Context, objectKey string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		s.log.Error("failed to upload object", "key", objectKey, "error", err)
		return err
	}
	s.log.Debug("uploaded object", "key", objectKey, "bytes", len(body))
	return nil
}

// GeneratePresignedDownloadURL creates a temporary URL for downloading (GET).
func (s *s3Storage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	if expires <= 0 {
		expires = DefaultPresignedURLExpiry
	}

	presignParams := &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	}

	req, err := s.presignClient.PresignGetObject(ctx, presignParams, s3.WithPresignExpires(expires))
	if err != nil {
		s.log.Error("failed to presign GET", "key", objectKey, "error", err)
		return "", err
	}
	return req.URL, nil
}

// DeleteObject removes an object from the S3 bucket.
func (s *s3Storage) DeleteObject(ctx context.Context, objectKey string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return ErrObjectNotFound
		}
		s.log.Error("failed to delete object", "key", objectKey, "error", err)
		return err
	}
	s.log.Info("deleted object", "key", objectKey)
	return nil
}
