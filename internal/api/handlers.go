package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/wattwise/usage-engine/internal/aggregation"
	"github.com/wattwise/usage-engine/internal/appliance"
	"github.com/wattwise/usage-engine/internal/insights"
	"github.com/wattwise/usage-engine/internal/metrics"
	"github.com/wattwise/usage-engine/internal/model"
	"github.com/wattwise/usage-engine/internal/streak"
)

// historyMonths returns how much synthetic history a period needs.
func historyMonths(period model.Period) int {
	if period == model.PeriodYear {
		return 12
	}
	return 1
}

func (s *Server) period(c *gin.Context) (model.Period, bool) {
	period := model.Period(c.DefaultQuery("period", string(model.PeriodMonth)))
	if !model.ValidPeriod(period) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period, expected today, week, month or year"})
		return "", false
	}
	return period, true
}

func (s *Server) getUsage(c *gin.Context) {
	period, ok := s.period(c)
	if !ok {
		return
	}
	now := s.now()

	samples := s.generator.Generate(historyMonths(period), now)
	start := aggregation.PeriodStart(period, now)

	filtered := make([]model.UsageSample, 0, len(samples))
	for _, sample := range samples {
		if !sample.Timestamp.Before(start) {
			filtered = append(filtered, sample)
		}
	}

	c.JSON(http.StatusOK, filtered)
}

func (s *Server) getAggregatedUsage(c *gin.Context) {
	period, ok := s.period(c)
	if !ok {
		return
	}
	now := s.now()

	samples := s.generator.Generate(historyMonths(period), now)
	c.JSON(http.StatusOK, s.engine.AggregateSamples(samples, period, now))
}

func (s *Server) getUsageSummary(c *gin.Context) {
	period, ok := s.period(c)
	if !ok {
		return
	}
	now := s.now()

	c.JSON(http.StatusOK, s.engine.Aggregate(s.store.Snapshot(), period, now))
}

func (s *Server) getComparison(c *gin.Context) {
	now := s.now()

	samples := s.generator.Generate(1, now)
	current := s.engine.AggregateSamples(samples, model.PeriodMonth, now)
	previous := s.estimator.PreviousMonth(current)

	c.JSON(http.StatusOK, gin.H{
		"current_month":  current,
		"previous_month": previous,
	})
}

func (s *Server) getPrediction(c *gin.Context) {
	now := s.now()

	monthToDate := s.engine.MonthToDate(s.store.Snapshot(), now)
	c.JSON(http.StatusOK, s.estimator.Predict(monthToDate, now))
}

func (s *Server) getInsights(c *gin.Context) {
	if c.Query("all") == "true" {
		c.JSON(http.StatusOK, s.catalog.All())
		return
	}
	c.JSON(http.StatusOK, s.catalog.Latest())
}

func (s *Server) markInsightRead(c *gin.Context) {
	s.catalog.MarkRead(c.Param("id"))
	metrics.Count("insights.read", 1)
	c.Status(http.StatusNoContent)
}

func (s *Server) getNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, insights.Notifications(s.now()))
}

func (s *Server) getDeviceBreakdown(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.DeviceBreakdown(s.store.Snapshot(), s.now()))
}

func (s *Server) getCarbonFootprint(c *gin.Context) {
	period, ok := s.period(c)
	if !ok {
		return
	}
	now := s.now()

	samples := s.generator.Generate(historyMonths(period), now)
	usage := s.engine.AggregateSamples(samples, period, now)

	c.JSON(http.StatusOK, s.footprint.Footprint(usage.TotalUnits))
}

func (s *Server) getSavingStreak(c *gin.Context) {
	now := s.now()

	samples := s.generator.Generate(1, now)
	c.JSON(http.StatusOK, streak.Compute(samples, s.cfg.MonthlyTargetUnits, now))
}

func (s *Server) listAppliances(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Snapshot())
}

func (s *Server) addAppliance(c *gin.Context) {
	var in appliance.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	a, err := s.store.Add(in, s.now())
	if err != nil {
		var verr *appliance.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		log.Error().Err(err).Msg("Failed to add appliance")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	metrics.Count("appliances.mutations", 1, "op:add")
	c.JSON(http.StatusCreated, a)
}

func (s *Server) updateAppliance(c *gin.Context) {
	var in appliance.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	a, err := s.store.Update(c.Param("id"), in)
	if err != nil {
		var verr *appliance.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
		case errors.Is(err, appliance.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "appliance not found"})
		default:
			log.Error().Err(err).Str("appliance_id", c.Param("id")).Msg("Failed to update appliance")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	metrics.Count("appliances.mutations", 1, "op:update")
	c.JSON(http.StatusOK, a)
}

func (s *Server) deleteAppliance(c *gin.Context) {
	s.store.Delete(c.Param("id"))
	metrics.Count("appliances.mutations", 1, "op:delete")
	c.Status(http.StatusNoContent)
}

func (s *Server) getOnboarding(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"completed": s.store.HasCompletedOnboarding()})
}

func (s *Server) completeOnboarding(c *gin.Context) {
	s.store.CompleteOnboarding()
	c.JSON(http.StatusOK, gin.H{"completed": true})
}
