package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/program-pipeline/internal/domain"
)

// Error constants for the repository layer
var (
	ErrNotFound       = RepositoryError("not found")
	ErrStatusConflict = RepositoryError("status conflict") // Conditional status transition did not match
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// GenerationRepository persists GenerationRecords.
type GenerationRepository interface {
	// Create stores a new record and returns its ID. Status, timestamps and ID are set here.
	Create(ctx context.Context, record *domain.GenerationRecord) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.GenerationRecord, error)
	// ListByUser returns the user's records, newest first.
	ListByUser(ctx context.Context, userID string, limit int64) ([]domain.GenerationRecord, error)

	// ClaimForProcessing atomically moves a pending or failed record to processing
	// and clears its error. Returns ErrStatusConflict if the record is in any other status.
	ClaimForProcessing(ctx context.Context, id primitive.ObjectID) (*domain.GenerationRecord, error)
	// MarkCompleted and MarkFailed only apply to a processing record.
	MarkCompleted(ctx context.Context, id primitive.ObjectID, program *domain.TrainingProgram, artifacts *domain.GenerationArtifacts) error
	MarkFailed(ctx context.Context, id primitive.ObjectID, message string, artifacts *domain.GenerationArtifacts) error
}
