// Package httpapi serves the accumulated time series to the dashboard.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/danmuck/telemctl/internal/export"
	"github.com/danmuck/telemctl/internal/observability"
	"github.com/danmuck/telemctl/internal/store"
)

// Server binds the shared store and grouping table to the HTTP boundary. It
// only ever reads the store.
type Server struct {
	name     string
	store    *store.Store
	groups   []export.Group
	appeared time.Time
}

func NewServer(name string, st *store.Store, groups []export.Group) *Server {
	return &Server{
		name:     name,
		store:    st,
		groups:   groups,
		appeared: time.Now(),
	}
}

// Router builds the gin engine with logging, metrics, and CORS middleware.
func (s *Server) Router(logger zerolog.Logger, corsOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.RequestMetricsMiddleware())
	if len(corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: corsOrigins,
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}
	s.registerRoutes(r)
	return r
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.appeared).String(),
			"service": s.name,
		})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":  true,
			"uptime": time.Since(s.appeared).String(),
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// The dashboard polls this; a reader always gets whatever valid samples
	// exist, never an error for a transient ingest problem.
	r.GET("/data/receive", func(c *gin.Context) {
		doc := export.Export(s.store.Snapshot(), s.groups)
		c.JSON(http.StatusOK, doc)
	})
}
