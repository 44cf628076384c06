package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerationStatus type for the generation lifecycle
type GenerationStatus string

const (
	GenerationPending    GenerationStatus = "pending"    // Set at record creation
	GenerationProcessing GenerationStatus = "processing" // A run owns the record
	GenerationCompleted  GenerationStatus = "completed"  // Terminal: validated program stored
	GenerationFailed     GenerationStatus = "failed"     // Terminal: Error holds the reason
)

// IsTerminal reports whether the status ends a run.
func (s GenerationStatus) IsTerminal() bool {
	return s == GenerationCompleted || s == GenerationFailed
}

// CanStart reports whether a run may claim a record in this status.
func (s GenerationStatus) CanStart() bool {
	return s == GenerationPending || s == GenerationFailed
}

// GenerationMetadata describes a single pipeline run for operators.
type GenerationMetadata struct {
	RunID          string     `bson:"runId" json:"runId"`
	Model          string     `bson:"model,omitempty" json:"model,omitempty"`
	Attempts       int        `bson:"attempts" json:"attempts"`
	PromptChars    int        `bson:"promptChars,omitempty" json:"promptChars,omitempty"`
	FailedStage    string     `bson:"failedStage,omitempty" json:"failedStage,omitempty"`
	RawResponseKey string     `bson:"rawResponseKey,omitempty" json:"rawResponseKey,omitempty"` // Object key of the archived raw response
	ReportKey      string     `bson:"reportKey,omitempty" json:"reportKey,omitempty"`           // Object key of the archived validation report
	StartedAt      time.Time  `bson:"startedAt" json:"startedAt"`
	FinishedAt     *time.Time `bson:"finishedAt,omitempty" json:"finishedAt,omitempty"`

	// Head of the raw response of a rejected run, kept on the record whether or not storage is configured
	RawResponseExcerpt string `bson:"rawResponseExcerpt,omitempty" json:"rawResponseExcerpt,omitempty"`
}

// GenerationArtifacts are the intermediate stage outputs kept for audit.
type GenerationArtifacts struct {
	Parameters         *VolumeParameters   `bson:"parameters,omitempty" json:"parameters,omitempty"`
	Injuries           *InjurySummary      `bson:"injuries,omitempty" json:"injuries,omitempty"`
	Landmarks          LandmarkMap         `bson:"landmarks,omitempty" json:"landmarks,omitempty"`
	WeakPoints         *WeakPointProtocol  `bson:"weakPoints,omitempty" json:"weakPoints,omitempty"`
	PeriodizationModel string              `bson:"periodizationModel,omitempty" json:"periodizationModel,omitempty"`
	Plan               *PeriodizationPlan  `bson:"plan,omitempty" json:"plan,omitempty"`
	Validation         *ValidationResult   `bson:"validation,omitempty" json:"validation,omitempty"`
	Metadata           *GenerationMetadata `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// GenerationRecord is the persisted state of one program generation request.
// Only the orchestrator mutates it; the pipeline never deletes it.
type GenerationRecord struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID    string               `bson:"userId" json:"userId"`
	Status    GenerationStatus     `bson:"status" json:"status"`
	Profile   UserProfile          `bson:"profile" json:"profile"` // Input snapshot
	Program   *TrainingProgram     `bson:"program,omitempty" json:"program,omitempty"`
	Error     string               `bson:"error,omitempty" json:"error,omitempty"`
	Artifacts *GenerationArtifacts `bson:"artifacts,omitempty" json:"artifacts,omitempty"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}
