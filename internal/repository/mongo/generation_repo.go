package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"alcyxob/program-pipeline/internal/domain"
	"alcyxob/program-pipeline/internal/repository"
)

const generationCollectionName = "program_generations"

// mongoGenerationRepository implements repository.GenerationRepository
type mongoGenerationRepository struct {
	collection *mongo.Collection
}

// NewMongoGenerationRepository creates a new GenerationRecord repository.
func NewMongoGenerationRepository(db *mongo.Database) repository.GenerationRepository {
	return &mongoGenerationRepository{
		collection: db.Collection(generationCollectionName),
	}
}

// Create inserts a new pending record.
func (r *mongoGenerationRepository) Create(ctx context.Context, record *domain.GenerationRecord) (primitive.ObjectID, error) {
	if record.UserID == "" {
		return primitive.NilObjectID, errors.New("generation record requires userId")
	}
	record.ID = primitive.NewObjectID()
	record.Status = domain.GenerationPending
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted generation ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single record.
func (r *mongoGenerationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.GenerationRecord, error) {
	var record domain.GenerationRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// ListByUser retrieves the user's records, newest first.
func (r *mongoGenerationRepository) ListByUser(ctx context.Context, userID string, limit int64) ([]domain.GenerationRecord, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []domain.GenerationRecord{}
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ClaimForProcessing is a conditional update on status, so two runs cannot both claim a record.
func (r *mongoGenerationRepository) ClaimForProcessing(ctx context.Context, id primitive.ObjectID) (*domain.GenerationRecord, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var record domain.GenerationRecord
	err := r.collection.FindOneAndUpdate(ctx, claimFilter(id), claimUpdate(time.Now().UTC()), opts).Decode(&record)
	if err == nil {
		return &record, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	return nil, r.missOrConflict(ctx, id)
}

// MarkCompleted stores the validated program and closes the run.
func (r *mongoGenerationRepository) MarkCompleted(ctx context.Context, id primitive.ObjectID, program *domain.TrainingProgram, artifacts *domain.GenerationArtifacts) error {
	update := bson.M{
		"$set": bson.M{
			"status":    domain.GenerationCompleted,
			"program":   program,
			"artifacts": artifacts,
			"updatedAt": time.Now().UTC(),
		},
		"$unset": bson.M{"error": ""},
	}
	return r.finish(ctx, id, update)
}

// MarkFailed records the failure message. Any program from an earlier attempt is cleared.
func (r *mongoGenerationRepository) MarkFailed(ctx context.Context, id primitive.ObjectID, message string, artifacts *domain.GenerationArtifacts) error {
	update := bson.M{
		"$set": bson.M{
			"status":    domain.GenerationFailed,
			"error":     message,
			"artifacts": artifacts,
			"updatedAt": time.Now().UTC(),
		},
		"$unset": bson.M{"program": ""},
	}
	return r.finish(ctx, id, update)
}

func (r *mongoGenerationRepository) finish(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	filter := bson.M{"_id": id, "status": domain.GenerationProcessing}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return r.missOrConflict(ctx, id)
	}
	return nil
}

// missOrConflict tells a missing record apart from one in the wrong status.
func (r *mongoGenerationRepository) missOrConflict(ctx context.Context, id primitive.ObjectID) error {
	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return repository.ErrStatusConflict
}

func claimFilter(id primitive.ObjectID) bson.M {
	return bson.M{
		"_id": id,
		"status": bson.M{"$in": bson.A{
			domain.GenerationPending,
			domain.GenerationFailed,
		}},
	}
}

func claimUpdate(now time.Time) bson.M {
	return bson.M{
		"$set": bson.M{
			"status":    domain.GenerationProcessing,
			"updatedAt": now,
		},
		"$unset": bson.M{"error": ""},
	}
}

// EnsureGenerationIndexes creates necessary indexes. Call during startup.
func EnsureGenerationIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		{
			// Listing a user's generations, newest first
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			// Operators looking for runs stuck in processing
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "updatedAt", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := db.Collection(generationCollectionName).Indexes().CreateMany(ctx, indexes)
	return err
}
