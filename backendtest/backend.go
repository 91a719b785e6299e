// Package backendtest provides an in-process fake of the middleware-manager
// backend API. It serves the same REST surface the real backend exposes,
// backed by an in-memory SQLite database, so the entity stores can be
// exercised against real HTTP without a running control plane.
package backendtest

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"

	"github.com/musram/middleware-manager-sub002/config"
)

// Options configures a fake backend.
type Options struct {
	// Debug enables gin's request logger.
	Debug bool

	// AllowCORS enables permissive CORS headers, matching what the real
	// backend serves to the browser console.
	AllowCORS bool

	// CORSOrigin restricts CORS to one origin when set.
	CORSOrigin string

	// UIPath serves a static console build at / when set.
	UIPath string
}

// Backend is a fake middleware-manager backend.
type Backend struct {
	db       *sql.DB
	router   *gin.Engine
	registry *config.TemplateRegistry
}

// New creates a fake backend with an empty in-memory database and the two
// default data sources (pangolin active, traefik standby).
func New(opts Options) (*Backend, error) {
	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := sql.Open("sqlite3", ":memory:?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// The in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	if err := seedDataSources(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed data sources: %w", err)
	}

	registry, err := config.NewTemplateRegistry()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if opts.Debug {
		router.Use(gin.Logger())
	}

	if opts.AllowCORS {
		corsConfig := cors.DefaultConfig()
		if opts.CORSOrigin != "" {
			corsConfig.AllowOrigins = []string{opts.CORSOrigin}
		} else {
			corsConfig.AllowAllOrigins = true
		}
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
		corsConfig.ExposeHeaders = []string{"Content-Length"}
		corsConfig.AllowCredentials = true
		corsConfig.MaxAge = 12 * time.Hour
		router.Use(cors.New(corsConfig))
	}

	b := &Backend{db: db, router: router, registry: registry}
	b.setupRoutes(opts.UIPath)
	return b, nil
}

// Handler returns the backend's HTTP handler, suitable for
// httptest.NewServer.
func (b *Backend) Handler() http.Handler {
	return b.router
}

// Close releases the underlying database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// Run serves the backend on the given address until the listener fails.
func (b *Backend) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           b.router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

func (b *Backend) setupRoutes(uiPath string) {
	b.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := b.router.Group("/api")
	{
		middlewares := api.Group("/middlewares")
		{
			middlewares.GET("", b.getMiddlewares)
			middlewares.POST("", b.createMiddleware)
			middlewares.GET("/:id", b.getMiddleware)
			middlewares.PUT("/:id", b.updateMiddleware)
			middlewares.DELETE("/:id", b.deleteMiddleware)
		}

		services := api.Group("/services")
		{
			services.GET("", b.getServices)
			services.POST("", b.createService)
			services.GET("/:id", b.getService)
			services.PUT("/:id", b.updateService)
			services.DELETE("/:id", b.deleteService)
		}

		resources := api.Group("/resources")
		{
			resources.GET("", b.getResources)
			resources.GET("/:id", b.getResource)
			resources.DELETE("/:id", b.deleteResource)
			resources.POST("/:id/middlewares", b.assignMiddleware)
			resources.POST("/:id/middlewares/bulk", b.assignMultipleMiddlewares)
			resources.DELETE("/:id/middlewares/:middlewareId", b.removeMiddleware)
			resources.PUT("/:id/config/http", b.updateHTTPConfig)
			resources.PUT("/:id/config/tls", b.updateTLSConfig)
			resources.PUT("/:id/config/tcp", b.updateTCPConfig)
			resources.PUT("/:id/config/headers", b.updateHeadersConfig)
			resources.PUT("/:id/config/priority", b.updateRouterPriority)
			resources.GET("/:id/service", b.getResourceService)
			resources.POST("/:id/service", b.assignResourceService)
			resources.DELETE("/:id/service", b.removeResourceService)
		}

		datasource := api.Group("/datasource")
		{
			datasource.GET("", b.getDataSources)
			datasource.GET("/active", b.getActiveDataSource)
			datasource.PUT("/active", b.setActiveDataSource)
			datasource.PUT("/:name", b.updateDataSource)
			datasource.POST("/:name/test", b.testDataSource)
		}
	}

	if uiPath != "" {
		b.router.Use(static.Serve("/", static.LocalFile(uiPath, false)))
		b.router.NoRoute(func(c *gin.Context) {
			if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
				c.JSON(http.StatusNotFound, gin.H{"message": "API endpoint not found"})
				return
			}
			c.File(uiPath + "/index.html")
		})
	}
}

// apiError is the backend's error envelope.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func responseWithError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, apiError{Code: statusCode, Message: message})
}
