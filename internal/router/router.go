// Package router wires the gin engine: middleware chain and route groups.
package router

import (
	"github.com/gin-gonic/gin"

	"mapsmith/internal/config"
	"mapsmith/internal/handler"
	"mapsmith/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	sessionH *handler.SessionHandler,
	extractH *handler.ExtractHandler,
	documentH *handler.DocumentHandler,
	tagH *handler.TagHandler,
	geocodeH *handler.GeocodeHandler,
	exportH *handler.ExportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Session lifecycle
	v1.POST("/sessions", sessionH.Create)

	sessions := v1.Group("/sessions/:id")
	sessions.GET("", sessionH.Get)
	sessions.DELETE("", sessionH.Delete)
	sessions.POST("/reset", sessionH.Reset)

	// Source ingestion
	sessions.POST("/extract/image", extractH.ExtractImage)
	sessions.POST("/extract/url", extractH.ExtractImageURL)
	sessions.POST("/extract/text", extractH.SetText)
	sessions.GET("/text", extractH.GetText)
	sessions.POST("/import", extractH.Import)

	// Structuring and the edit lifecycle
	sessions.POST("/structure", documentH.Structure)
	sessions.POST("/edit/ai", documentH.AIEdit)
	sessions.POST("/edit/start", documentH.StartEditing)
	sessions.POST("/edit/apply", documentH.ApplyEdits)
	sessions.POST("/edit/discard", documentH.DiscardEdits)

	// Raw JSON editor and metadata
	sessions.GET("/document", documentH.GetDocument)
	sessions.PUT("/document", documentH.PutDocument)
	sessions.GET("/document/validate", documentH.Validate)
	sessions.GET("/info", documentH.GetInfo)
	sessions.PUT("/info", documentH.UpdateInfo)
	sessions.GET("/info/suggest", documentH.Suggest)
	sessions.GET("/stats", documentH.Stats)

	// Place CRUD on the editing slot
	sessions.POST("/places", documentH.AddPlace)
	sessions.PUT("/places/:index", documentH.UpdatePlace)
	sessions.DELETE("/places/:index", documentH.RemovePlace)

	// Tags and filters
	sessions.GET("/tags", tagH.List)
	sessions.POST("/tags/add", tagH.Add)
	sessions.POST("/tags/remove", tagH.Remove)
	sessions.POST("/tags/rename", tagH.Rename)
	sessions.POST("/tags/ai", tagH.AIEdit)
	sessions.PUT("/filters", tagH.UpdateFilters)

	// Geocoding
	sessions.POST("/geocode", geocodeH.RunBatch)
	sessions.PUT("/places/:index/coordinates", geocodeH.UpdateCoordinates)
	sessions.GET("/coordinates/status", geocodeH.Overview)

	// Export
	sessions.GET("/export/json", exportH.ExportJSON)
	sessions.GET("/export/csv", exportH.ExportCSV)
	sessions.GET("/export/xlsx", exportH.ExportXLSX)
	sessions.GET("/export/mapview", exportH.MapView)
	sessions.POST("/export/archive", exportH.Archive)

	return r
}
