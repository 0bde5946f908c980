package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/wattwise/usage-engine/internal/aggregation"
	"github.com/wattwise/usage-engine/internal/appliance"
	"github.com/wattwise/usage-engine/internal/carbon"
	"github.com/wattwise/usage-engine/internal/config"
	"github.com/wattwise/usage-engine/internal/forecast"
	"github.com/wattwise/usage-engine/internal/history"
	"github.com/wattwise/usage-engine/internal/insights"
)

// Server exposes the dashboard data contract over REST. Each handler reads
// the clock once and threads that instant through every derivation, so a
// single response is internally consistent.
type Server struct {
	cfg       *config.Config
	store     *appliance.Store
	engine    *aggregation.Engine
	generator *history.Generator
	catalog   *insights.Catalog
	estimator *forecast.Estimator
	footprint *carbon.Calculator

	// now is swappable in tests.
	now func() time.Time
}

func NewServer(
	cfg *config.Config,
	store *appliance.Store,
	engine *aggregation.Engine,
	generator *history.Generator,
	catalog *insights.Catalog,
	estimator *forecast.Estimator,
	footprint *carbon.Calculator,
) *Server {
	return &Server{
		cfg:       cfg,
		store:     store,
		engine:    engine,
		generator: generator,
		catalog:   catalog,
		estimator: estimator,
		footprint: footprint,
		now:       time.Now,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors())

	api := r.Group("/api")
	{
		api.GET("/usage", s.getUsage)
		api.GET("/usage/aggregated", s.getAggregatedUsage)
		api.GET("/usage/summary", s.getUsageSummary)
		api.GET("/usage/comparison", s.getComparison)
		api.GET("/prediction", s.getPrediction)
		api.GET("/insights", s.getInsights)
		api.POST("/insights/:id/read", s.markInsightRead)
		api.GET("/notifications", s.getNotifications)
		api.GET("/devices/breakdown", s.getDeviceBreakdown)
		api.GET("/carbon", s.getCarbonFootprint)
		api.GET("/streak", s.getSavingStreak)

		api.GET("/appliances", s.listAppliances)
		api.POST("/appliances", s.addAppliance)
		api.PUT("/appliances/:id", s.updateAppliance)
		api.DELETE("/appliances/:id", s.deleteAppliance)

		api.GET("/onboarding", s.getOnboarding)
		api.POST("/onboarding", s.completeOnboarding)
	}

	return r
}

// Run starts the HTTP server on the given port.
func (s *Server) Run(port int) error {
	addr := fmt.Sprintf("0.0.0.0:%d", port)
	log.Info().Str("address", addr).Msg("Starting REST API server")
	return s.Router().Run(addr)
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
