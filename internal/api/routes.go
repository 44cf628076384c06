package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/program-pipeline/internal/domain" // Needed for RoleMiddleware
	"alcyxob/program-pipeline/internal/logger"
	"alcyxob/program-pipeline/internal/service"
)

// NewRouter builds a gin engine with recovery and structured request logging.
func NewRouter(log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))
	return router
}

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	generationService service.GenerationService,
	log *logger.Logger,
) {
	generationHandler := NewGenerationHandler(generationService, log)
	authMiddleware := AuthMiddleware(jwtSecret, log)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Generation Routes ---
		generationGroup := protected.Group("/generations")
		{
			generationGroup.POST("", generationHandler.CreateGeneration)
			generationGroup.GET("", generationHandler.ListGenerations)
			generationGroup.GET("/:id", generationHandler.GetGeneration)
			generationGroup.POST("/:id/run", generationHandler.RunGeneration)

			// Operator view: stage artifacts and presigned archive links
			generationGroup.GET("/:id/artifacts", RoleMiddleware(domain.RoleTrainer), generationHandler.GetGenerationArtifacts)
		}
	}
}
