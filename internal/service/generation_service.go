package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/program-pipeline/internal/domain"
	"alcyxob/program-pipeline/internal/generator"
	"alcyxob/program-pipeline/internal/logger"
	"alcyxob/program-pipeline/internal/repository"
	"alcyxob/program-pipeline/internal/storage"
	"alcyxob/program-pipeline/internal/training"
)

// --- Error Definitions ---
var (
	ErrGenerationNotFound     = errors.New("generation not found")
	ErrGenerationInProgress   = errors.New("generation is already processing")
	ErrGenerationCompleted    = errors.New("generation has already completed")
	ErrGenerationAccessDenied = errors.New("access denied to this generation")
	ErrUserIDRequired         = errors.New("user ID is required")
)

// Pipeline stage names, recorded as FailedStage on the run metadata.
const (
	StageEnrich        = "enrich"
	StageLandmarks     = "landmarks"
	StageWeakPoints    = "weak_points"
	StagePeriodization = "periodization"
	StageGenerate      = "generate"
	StageValidate      = "validate"
)

const (
	defaultRunTimeout    = 5 * time.Minute
	persistTimeout       = 15 * time.Second
	defaultHistoryLimit  = 20
	rawExcerptBytes      = 4 << 10
	rawResponseMediaType = "text/plain; charset=utf-8"
	reportMediaType      = "application/json"
)

// StageError is a failed pipeline stage. Its message is what the record's error field shows.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// ProgramValidator gates candidate programs.
type ProgramValidator interface {
	Check(candidate any) (*domain.TrainingProgram, domain.ValidationResult)
}

// Options tune the orchestrator.
type Options struct {
	ArchiveArtifacts bool          // Upload raw responses and validation reports to storage
	RunTimeout       time.Duration // Bound on a background run
	PresignExpiry    time.Duration
}

// ArtifactView is the operator view of a record's intermediate outputs.
type ArtifactView struct {
	ID             primitive.ObjectID          `json:"id"`
	Status         domain.GenerationStatus     `json:"status"`
	Error          string                      `json:"error,omitempty"`
	Artifacts      *domain.GenerationArtifacts `json:"artifacts,omitempty"`
	RawResponseURL string                      `json:"rawResponseUrl,omitempty"`
	ReportURL      string                      `json:"reportUrl,omitempty"`
}

// --- Service Interface ---
type GenerationService interface {
	// RequestGeneration snapshots the profile into a new pending record.
	RequestGeneration(ctx context.Context, userID string, profile domain.UserProfile) (*domain.GenerationRecord, error)
	// Start claims a pending or failed record for a new run.
	Start(ctx context.Context, id primitive.ObjectID) (*domain.GenerationRecord, error)
	// Execute runs every stage on a claimed record and commits the outcome.
	// Stage failures end up on the record; only persistence errors are returned.
	Execute(ctx context.Context, record *domain.GenerationRecord) (*domain.GenerationRecord, error)
	// Run is Start followed by Execute.
	Run(ctx context.Context, id primitive.ObjectID) (*domain.GenerationRecord, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.GenerationRecord, error)

	// Submit creates, claims and runs a generation in the background.
	Submit(ctx context.Context, userID string, profile domain.UserProfile) (*domain.GenerationRecord, error)
	// Retry starts a background run on the user's own pending or failed record.
	Retry(ctx context.Context, id primitive.ObjectID, userID string) (*domain.GenerationRecord, error)
	GetForUser(ctx context.Context, id primitive.ObjectID, userID string) (*domain.GenerationRecord, error)
	ListForUser(ctx context.Context, userID string, limit int64) ([]domain.GenerationRecord, error)
	GetArtifacts(ctx context.Context, id primitive.ObjectID) (*ArtifactView, error)

	// Wait blocks until background runs finish or ctx is done.
	Wait(ctx context.Context) error
}

// --- Service Implementation ---

type generationService struct {
	repo      repository.GenerationRepository
	generator generator.ProgramGenerator
	validator ProgramValidator
	storage   storage.ArtifactStorage // Optional
	opts      Options
	log       *logger.Logger

	now      func() time.Time
	newRunID func() string
	running  sync.WaitGroup
}

// NewGenerationService creates the pipeline orchestrator. store may be nil.
func NewGenerationService(
	repo repository.GenerationRepository,
	gen generator.ProgramGenerator,
	validator ProgramValidator,
	store storage.ArtifactStorage,
	opts Options,
	log *logger.Logger,
) GenerationService {
	if opts.RunTimeout <= 0 {
		opts.RunTimeout = defaultRunTimeout
	}
	return &generationService{
		repo:      repo,
		generator: gen,
		validator: validator,
		storage:   store,
		opts:      opts,
		log:       log.With("component", "generation_service"),
		now:       func() time.Time { return time.Now().UTC() },
		newRunID:  uuid.NewString,
	}
}

// === Record lifecycle ===

func (s *generationService) RequestGeneration(ctx context.Context, userID string, profile domain.UserProfile) (*domain.GenerationRecord, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	profile.UserID = userID

	record := &domain.GenerationRecord{
		UserID:  userID,
		Profile: profile,
	}
	if _, err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("creating generation record: %w", err)
	}
	s.log.Info("generation requested", "generation_id", record.ID.Hex(), "user_id", userID)
	return record, nil
}

func (s *generationService) Start(ctx context.Context, id primitive.ObjectID) (*domain.GenerationRecord, error) {
	record, err := s.repo.ClaimForProcessing(ctx, id)
	if err == nil {
		return record, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrGenerationNotFound
	}
	if !errors.Is(err, repository.ErrStatusConflict) {
		return nil, fmt.Errorf("claiming generation %s: %w", id.Hex(), err)
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.GenerationCompleted {
		return nil, ErrGenerationCompleted
	}
	return nil, ErrGenerationInProgress
}

func (s *generationService) Run(ctx context.Context, id primitive.ObjectID) (*domain.GenerationRecord, error) {
	record, err := s.Start(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Execute(ctx, record)
}

func (s *generationService) Get(ctx context.Context, id primitive.ObjectID) (*domain.GenerationRecord, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGenerationNotFound
		}
		return nil, err
	}
	return record, nil
}

// === Pipeline ===

func (s *generationService) Execute(ctx context.Context, record *domain.GenerationRecord) (*domain.GenerationRecord, error) {
	meta := &domain.GenerationMetadata{
		RunID:     s.newRunID(),
		StartedAt: s.now(),
	}
	artifacts := &domain.GenerationArtifacts{Metadata: meta}
	log := s.log.With("generation_id", record.ID.Hex(), "run_id", meta.RunID)
	log.Info("pipeline run started")
	previous := record.Artifacts

	program, failure := s.runStages(ctx, record, artifacts, log)

	finished := s.now()
	meta.FinishedAt = &finished

	// The run may have hit its deadline; the outcome is still recorded.
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if failure != nil {
		meta.FailedStage = failure.Stage
		message := failure.Error()
		if err := s.repo.MarkFailed(persistCtx, record.ID, message, artifacts); err != nil {
			log.Error("failed to record pipeline failure", "stage", failure.Stage, "error", err)
			return nil, fmt.Errorf("recording failed generation %s: %w", record.ID.Hex(), err)
		}
		log.Warn("pipeline run failed", "stage", failure.Stage, "reason", message)
		s.purgeArchived(persistCtx, previous, log)

		record.Status = domain.GenerationFailed
		record.Error = message
		record.Program = nil
		record.Artifacts = artifacts
		record.UpdatedAt = finished
		return record, nil
	}

	if err := s.repo.MarkCompleted(persistCtx, record.ID, program, artifacts); err != nil {
		log.Error("failed to commit generated program", "error", err)
		return nil, fmt.Errorf("committing generation %s: %w", record.ID.Hex(), err)
	}
	log.Info("pipeline run completed",
		"weeks", program.DurationWeeksTotal,
		"warnings", len(artifacts.Validation.Warnings),
		"duration", finished.Sub(meta.StartedAt),
	)
	s.purgeArchived(persistCtx, previous, log)

	record.Status = domain.GenerationCompleted
	record.Error = ""
	record.Program = program
	record.Artifacts = artifacts
	record.UpdatedAt = finished
	return record, nil
}

// runStages fills artifacts as it goes, so a failed run keeps what the earlier stages produced.
func (s *generationService) runStages(ctx context.Context, record *domain.GenerationRecord, artifacts *domain.GenerationArtifacts, log *logger.Logger) (*domain.TrainingProgram, *StageError) {
	profile := record.Profile
	meta := artifacts.Metadata

	// 1. Enrich
	var enriched domain.EnrichedProfile
	if f := runStage(StageEnrich, func() error {
		enriched = training.EnrichProfile(profile)
		return nil
	}); f != nil {
		return nil, f
	}
	artifacts.Parameters = &enriched.Parameters
	artifacts.Injuries = &enriched.Injuries

	// 2. Volume landmarks
	var landmarks domain.LandmarkMap
	if f := runStage(StageLandmarks, func() error {
		landmarks = training.CalculateAllLandmarks(enriched.Parameters)
		if len(landmarks) == 0 {
			return errors.New("no volume landmarks computed")
		}
		return nil
	}); f != nil {
		return nil, f
	}
	artifacts.Landmarks = landmarks

	// 3. Weak points, only with a complete strength profile
	var weakPoints domain.WeakPointProtocol
	if f := runStage(StageWeakPoints, func() error {
		weakPoints = training.AnalyzeWeakPoints(profile.OneRepMaxes)
		return nil
	}); f != nil {
		return nil, f
	}
	if weakPoints.Analyzed {
		artifacts.WeakPoints = &weakPoints
	}

	// 4. Periodization
	var plan domain.PeriodizationPlan
	if f := runStage(StagePeriodization, func() error {
		model := training.SelectModel(profile.Experience, profile.Goal)
		plan = training.BuildPlan(model, enriched.Parameters, landmarks)
		if plan.TotalWeeks == 0 {
			return fmt.Errorf("periodization model %q has no phases", model.Name)
		}
		return nil
	}); f != nil {
		return nil, f
	}
	artifacts.PeriodizationModel = plan.Model
	artifacts.Plan = &plan
	log.Debug("plan ready", "model", plan.Model, "weeks", plan.TotalWeeks, "baseline", plan.BaselineVolume)

	// 5. Generate
	var candidate *generator.Candidate
	if f := runStage(StageGenerate, func() error {
		var err error
		candidate, err = s.generator.Generate(ctx, generator.Input{
			Profile:    enriched,
			Landmarks:  landmarks,
			WeakPoints: weakPoints,
			Plan:       plan,
		})
		return err
	}); f != nil {
		var malformed *generator.MalformedOutputError
		if errors.As(f.Err, &malformed) {
			meta.RawResponseExcerpt = generator.Excerpt(malformed.Raw, rawExcerptBytes)
			meta.RawResponseKey = s.archive(ctx, storage.RawResponseKey(record.ID.Hex(), meta.RunID), []byte(malformed.Raw), rawResponseMediaType, log)
		}
		return nil, f
	}
	meta.Model = candidate.Model
	meta.Attempts = candidate.Attempts
	meta.PromptChars = candidate.PromptChars
	meta.RawResponseKey = s.archive(ctx, storage.RawResponseKey(record.ID.Hex(), meta.RunID), []byte(candidate.Raw), rawResponseMediaType, log)

	// 6. Validate
	var program *domain.TrainingProgram
	f := runStage(StageValidate, func() error {
		var result domain.ValidationResult
		program, result = s.validator.Check(candidate.Document)
		artifacts.Validation = &result
		if report, err := json.Marshal(result); err == nil {
			meta.ReportKey = s.archive(ctx, storage.ValidationReportKey(record.ID.Hex(), meta.RunID), report, reportMediaType, log)
		}
		if !result.IsValid {
			return errors.New(result.Summary())
		}
		return nil
	})
	if f != nil {
		meta.RawResponseExcerpt = generator.Excerpt(candidate.Raw, rawExcerptBytes)
		return nil, f
	}
	return program, nil
}

// runStage turns an error or a panic inside fn into a StageError.
func runStage(stage string, fn func() error) (failure *StageError) {
	defer func() {
		if r := recover(); r != nil {
			failure = &StageError{Stage: stage, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if err := fn(); err != nil {
		return &StageError{Stage: stage, Err: err}
	}
	return nil
}

// archive uploads an artifact and returns its key, or "" when archiving is off or failed.
// Archive failures never fail the run.
func (s *generationService) archive(ctx context.Context, key string, body []byte, contentType string, log *logger.Logger) string {
	if s.storage == nil || !s.opts.ArchiveArtifacts || len(body) == 0 {
		return ""
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := s.storage.PutObject(ctx, key, body, contentType); err != nil {
		log.Warn("artifact upload failed", "key", key, "error", err)
		return ""
	}
	return key
}

// purgeArchived deletes the objects archived by an earlier run of the same record.
func (s *generationService) purgeArchived(ctx context.Context, previous *domain.GenerationArtifacts, log *logger.Logger) {
	if s.storage == nil || previous == nil || previous.Metadata == nil {
		return
	}
	for _, key := range []string{previous.Metadata.RawResponseKey, previous.Metadata.ReportKey} {
		if key == "" {
			continue
		}
		if err := s.storage.DeleteObject(ctx, key); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			log.Warn("failed to delete superseded artifact", "key", key, "error", err)
		}
	}
}

// === Background runs ===

func (s *generationService) Submit(ctx context.Context, userID string, profile domain.UserProfile) (*domain.GenerationRecord, error) {
	record, err := s.RequestGeneration(ctx, userID, profile)
	if err != nil {
		return nil, err
	}
	claimed, err := s.Start(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	s.launch(claimed)
	return claimed, nil
}

func (s *generationService) Retry(ctx context.Context, id primitive.ObjectID, userID string) (*domain.GenerationRecord, error) {
	if _, err := s.GetForUser(ctx, id, userID); err != nil {
		return nil, err
	}
	claimed, err := s.Start(ctx, id)
	if err != nil {
		return nil, err
	}
	s.launch(claimed)
	return claimed, nil
}

// launch runs Execute detached from the request that triggered it.
func (s *generationService) launch(record *domain.GenerationRecord) {
	snapshot := *record
	s.running.Add(1)
	go func() {
		defer s.running.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.RunTimeout)
		defer cancel()
		if _, err := s.Execute(ctx, &snapshot); err != nil {
			// Record stays in processing until an operator intervenes.
			s.log.Error("background run could not persist its outcome", "generation_id", snapshot.ID.Hex(), "error", err)
		}
	}()
}

func (s *generationService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.running.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// === Queries ===

func (s *generationService) GetForUser(ctx context.Context, id primitive.ObjectID, userID string) (*domain.GenerationRecord, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.UserID != userID {
		return nil, ErrGenerationAccessDenied
	}
	return record, nil
}

func (s *generationService) ListForUser(ctx context.Context, userID string, limit int64) ([]domain.GenerationRecord, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *generationService) GetArtifacts(ctx context.Context, id primitive.ObjectID) (*ArtifactView, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	view := &ArtifactView{
		ID:        record.ID,
		Status:    record.Status,
		Error:     record.Error,
		Artifacts: record.Artifacts,
	}
	if s.storage == nil || record.Artifacts == nil || record.Artifacts.Metadata == nil {
		return view, nil
	}

	meta := record.Artifacts.Metadata
	if meta.RawResponseKey != "" {
		if view.RawResponseURL, err = s.storage.GeneratePresignedDownloadURL(ctx, meta.RawResponseKey, s.opts.PresignExpiry); err != nil {
			return nil, fmt.Errorf("presigning raw response: %w", err)
		}
	}
	if meta.ReportKey != "" {
		if view.ReportURL, err = s.storage.GeneratePresignedDownloadURL(ctx, meta.ReportKey, s.opts.PresignExpiry); err != nil {
			return nil, fmt.Errorf("presigning validation report: %w", err)
		}
	}
	return view, nil
}
