package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/mrlokans/university/internal/config"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(StrictTransportSecurityMiddleware())
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
		router.GET("/api/csrf", CSRFToken)
	}

	sessions := cfg.SessionManager
	if sessions == nil {
		// The in-memory store cannot fail to initialise.
		sessions, _ = NewSessionManager(nil, config.Sessions{SecureCookies: cfg.SecureCookies})
	}
	router.Use(sessions.SessionLoadSave())

	var openSessions SessionCounter
	if cfg.Editor != nil {
		openSessions = cfg.Editor
	}
	health := NewHealthController(cfg.Database, openSessions, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// Search
	searchController := NewSearchController(cfg.Store, sessions, cfg.Editor, cfg.SearchObservers...)
	router.GET("/api/search", searchController.GetState)
	router.POST("/api/search/kind", searchController.SelectKind)
	router.POST("/api/search/run", searchController.Run)
	router.POST("/api/search/results/:id/edit", searchController.Edit)
	router.DELETE("/api/search/results/:id", searchController.Delete)

	// Editors
	if cfg.Editor != nil {
		editors := NewEditorsController(cfg.Editor)
		router.POST("/api/editors/:kind", editors.Open)
		router.POST("/api/editors/:kind/:id", editors.Open)
		router.GET("/api/editors/session/:sid", editors.Get)
		router.PATCH("/api/editors/session/:sid", editors.UpdateFields)
		router.POST("/api/editors/session/:sid/save", editors.Save)
		router.DELETE("/api/editors/session/:sid", editors.Close)
		router.POST("/api/editors/session/:sid/:relation/:memberId", editors.Assign)
		router.DELETE("/api/editors/session/:sid/:relation/:memberId", editors.Unassign)
	}

	// Records
	records := NewRecordsController(cfg.Store)
	router.GET("/api/records/:kind", records.List)
	router.GET("/api/records/:kind/:id", records.Get)

	// Audit log
	if cfg.Audit != nil {
		auditController := NewAuditController(cfg.Audit)
		router.GET("/api/audit", auditController.GetAuditEvents)
		router.GET("/api/audit/:kind/:id", auditController.GetRecordEvents)
	}

	// Snapshot exports
	if cfg.Snapshots != nil {
		exports := NewExportsController(cfg.Snapshots, cfg.TaskQueue)
		router.POST("/api/exports", exports.CreateExport)
		router.GET("/api/exports", exports.ListExports)
		router.GET("/api/exports/latest", exports.LatestExport)
	}

	// Task management endpoints
	if cfg.TaskStatus != nil && cfg.Jobs != nil {
		tasksController := NewTasksController(cfg.TaskStatus, cfg.Jobs)
		router.GET("/api/tasks/jobs", tasksController.ListJobs)
		router.POST("/api/tasks/jobs/:name/run", tasksController.RunJob)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
	}

	return router
}

// WrapCORS allows the given browser origins to call the API with
// credentials. With no origins the handler is returned unchanged.
func WrapCORS(handler http.Handler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		return handler
	}
	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept", "Origin", "X-Requested-With", CSRFTokenHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(handler)
}
