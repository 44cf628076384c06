package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/program-pipeline/internal/domain"
	"alcyxob/program-pipeline/internal/logger"
	"alcyxob/program-pipeline/internal/service"
)

// GenerationHandler serves the program generation endpoints.
type GenerationHandler struct {
	generationService service.GenerationService
	log               *logger.Logger
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(generationService service.GenerationService, log *logger.Logger) *GenerationHandler {
	return &GenerationHandler{
		generationService: generationService,
		log:               log.With("component", "generation_handler"),
	}
}

// --- Request/Response Structs ---

type StrengthProfileRequest struct {
	Squat         *float64 `json:"squat" binding:"omitempty,gte=0,lte=1000"`
	Bench         *float64 `json:"bench" binding:"omitempty,gte=0,lte=1000"`
	Deadlift      *float64 `json:"deadlift" binding:"omitempty,gte=0,lte=1000"`
	OverheadPress *float64 `json:"overheadPress" binding:"omitempty,gte=0,lte=1000"`
}

// GenerationRequest is the onboarding profile. Every field is optional: missing or
// unknown values fall back to the enricher's defaults. Only out-of-range values are rejected.
type GenerationRequest struct {
	Age             int                     `json:"age" binding:"omitempty,gte=10,lte=100"`
	Experience      domain.ExperienceTier   `json:"experience" binding:"max=32"`
	Goal            domain.GoalCategory     `json:"goal" binding:"omitempty,oneof=hypertrophy strength general_fitness"`
	DaysPerWeek     int                     `json:"daysPerWeek" binding:"omitempty,min=1,max=7"`
	SessionDuration string                  `json:"sessionDuration" binding:"max=64"`
	Equipment       []string                `json:"equipment" binding:"omitempty,max=32,dive,max=64"`
	Limitations     string                  `json:"limitations" binding:"max=2000"`
	OneRepMaxes     *StrengthProfileRequest `json:"oneRepMaxes"`
}

func (r GenerationRequest) toProfile() domain.UserProfile {
	profile := domain.UserProfile{
		Age:             r.Age,
		Experience:      r.Experience,
		Goal:            r.Goal,
		DaysPerWeek:     r.DaysPerWeek,
		SessionDuration: r.SessionDuration,
		Equipment:       r.Equipment,
		Limitations:     r.Limitations,
	}
	if r.OneRepMaxes != nil {
		profile.OneRepMaxes = &domain.StrengthProfile{
			Squat:         r.OneRepMaxes.Squat,
			Bench:         r.OneRepMaxes.Bench,
			Deadlift:      r.OneRepMaxes.Deadlift,
			OverheadPress: r.OneRepMaxes.OverheadPress,
		}
	}
	return profile
}

// GenerationResponse is what the requesting user sees: status, and either the program or the error.
type GenerationResponse struct {
	ID        string                  `json:"id"`
	Status    domain.GenerationStatus `json:"status"`
	Program   *domain.TrainingProgram `json:"program,omitempty"`
	Error     string                  `json:"error,omitempty"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

func mapGenerationToResponse(record *domain.GenerationRecord) GenerationResponse {
	return GenerationResponse{
		ID:        record.ID.Hex(),
		Status:    record.Status,
		Program:   record.Program,
		Error:     record.Error,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

// --- Handler Methods ---

// CreateGeneration handles POST /api/v1/generations.
// The pipeline runs in the background; poll GET /generations/:id for the outcome.
func (h *GenerationHandler) CreateGeneration(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	record, err := h.generationService.Submit(c.Request.Context(), userID, req.toProfile())
	if err != nil {
		h.handleServiceError(c, err, "submitting generation")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"id": record.ID.Hex(), "status": record.Status})
}

// RunGeneration handles POST /api/v1/generations/:id/run.
func (h *GenerationHandler) RunGeneration(c *gin.Context) {
	userID, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	record, err := h.generationService.Retry(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err, "retrying generation")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"id": record.ID.Hex(), "status": record.Status})
}

// GetGeneration handles GET /api/v1/generations/:id.
func (h *GenerationHandler) GetGeneration(c *gin.Context) {
	userID, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	record, err := h.generationService.GetForUser(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err, "fetching generation")
		return
	}
	c.JSON(http.StatusOK, mapGenerationToResponse(record))
}

// ListGenerations handles GET /api/v1/generations?limit=N.
func (h *GenerationHandler) ListGenerations(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var limit int64
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || limit < 1 || limit > 100 {
			abortWithError(c, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
	}

	records, err := h.generationService.ListForUser(c.Request.Context(), userID, limit)
	if err != nil {
		h.handleServiceError(c, err, "listing generations")
		return
	}
	resp := make([]GenerationResponse, len(records))
	for i := range records {
		resp[i] = mapGenerationToResponse(&records[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetGenerationArtifacts handles GET /api/v1/generations/:id/artifacts (trainers only).
func (h *GenerationHandler) GetGenerationArtifacts(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid generation ID format")
		return
	}

	view, err := h.generationService.GetArtifacts(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "fetching generation artifacts")
		return
	}
	c.JSON(http.StatusOK, view)
}

// ownerAndID reads the caller and the :id path parameter, aborting on failure.
func (h *GenerationHandler) ownerAndID(c *gin.Context) (string, primitive.ObjectID, bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return "", primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid generation ID format")
		return "", primitive.NilObjectID, false
	}
	return userID, id, true
}

func (h *GenerationHandler) handleServiceError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrGenerationNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrGenerationAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrGenerationInProgress), errors.Is(err, service.ErrGenerationCompleted):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUserIDRequired):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("unexpected service error", "action", action, "error", err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred while "+action)
	}
}
