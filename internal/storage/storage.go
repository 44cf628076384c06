package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

var ErrObjectNotFound = errors.New("object not found in storage")

// ArtifactStorage archives pipeline artifacts in object storage.
type ArtifactStorage interface {
	// PutObject uploads body under objectKey, replacing any existing object.
	PutObject(ctx context.Context, objectKey string, body []byte, contentType string) error

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// Object keys for a run's artifacts.
func RawResponseKey(generationID, runID string) string {
	return fmt.Sprintf("generations/%s/%s/raw-response.txt", generationID, runID)
}

func ValidationReportKey(generationID, runID string) string {
	return fmt.Sprintf("generations/%s/%s/validation-report.json", generationID, runID)
}
