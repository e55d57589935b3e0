// internal/api/api.go
package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/fenwickretail/invpipe/internal/api/handlers"
	"github.com/fenwickretail/invpipe/internal/api/middleware"
	"github.com/fenwickretail/invpipe/internal/service"
)

// Services bundles the business-logic layer the router wires handlers
// against; cmd/server and cmd/importctl both assemble one of these from
// the same repository/cache/acquisition dependency graph.
type Services struct {
	Sources *service.SourceService
	Imports *service.ImportService
	Stats   *service.StatsService
}

// AllowedOrigins configures the CORS middleware; nil/empty means "allow
// any origin", matching the SERVER_ALLOWED_ORIGINS default of ["*"].
func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(corsMiddleware(allowedOrigins))

	apiGroup := router.Group("/api/v1")

	if services == nil {
		return router
	}

	if services.Sources != nil {
		sourcesHandler := handlers.NewSourcesHandler(services.Sources)
		sourcesGroup := apiGroup.Group("/sources")
		{
			sourcesGroup.GET("", sourcesHandler.List)
			sourcesGroup.POST("", sourcesHandler.Create)
			sourcesGroup.GET("/:id", sourcesHandler.Get)
			sourcesGroup.PUT("/:id", sourcesHandler.Update)
		}
	}

	if services.Imports != nil {
		importHandler := handlers.NewImportHandler(services.Imports)
		importGroup := apiGroup.Group("/sources/:id")
		{
			importGroup.POST("/upload", importHandler.UploadAndImport)
			importGroup.POST("/stage", importHandler.StageFile)
			importGroup.GET("/staged-files", importHandler.StagedFiles)
			importGroup.POST("/combine", importHandler.Combine)
			importGroup.POST("/fetch", importHandler.TriggerURLFetch)
			importGroup.POST("/poll-email", importHandler.TriggerEmailPoll)
		}
	}

	if services.Stats != nil {
		statsHandler := handlers.NewStatsHandler(services.Stats)
		apiGroup.GET("/sources/:id/stats/history", statsHandler.History)
	}

	return router
}

// corsMiddleware wires gin-contrib/cors against the configured allow
// list; an empty/"*" list falls back to AllowAllOrigins so local
// development needs no configuration at all.
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "Origin", "Cache-Control", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	return cors.New(cfg)
}
