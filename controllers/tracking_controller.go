package controllers

import (
	"net/http"

	"github.com/humayun7777/medicureon-backend/services"

	"github.com/gin-gonic/gin"
)

type TrackingController struct {
	Tracking *services.ManualTrackingService
	Agg      *services.DataAggregationService
}

func NewTrackingController(ts *services.ManualTrackingService, agg *services.DataAggregationService) *TrackingController {
	return &TrackingController{Tracking: ts, Agg: agg}
}

type trackWaterReq struct {
	Glasses int `json:"glasses"`
}

func (tc *TrackingController) TrackWater(c *gin.Context) {
	uid := c.GetUint("userID")

	var req trackWaterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Glasses == 0 {
		req.Glasses = 1
	}

	total, err := tc.Tracking.TrackWater(uid, req.Glasses)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tc.invalidate()
	c.JSON(http.StatusOK, gin.H{"water": total})
}

func (tc *TrackingController) TrackMeal(c *gin.Context) {
	uid := c.GetUint("userID")

	var req services.MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	total, err := tc.Tracking.TrackMeal(uid, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tc.invalidate()
	c.JSON(http.StatusOK, gin.H{"total_calories": total})
}

type trackMoodReq struct {
	Level int `json:"level" binding:"required"`
}

func (tc *TrackingController) TrackMood(c *gin.Context) {
	uid := c.GetUint("userID")

	var req trackMoodReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mood, err := tc.Tracking.TrackMood(uid, req.Level)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tc.invalidate()
	c.JSON(http.StatusOK, mood)
}

func (tc *TrackingController) GetToday(c *gin.Context) {
	uid := c.GetUint("userID")

	logEntry, err := tc.Tracking.GetTodayData(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, logEntry)
}

func (tc *TrackingController) GetWeeklySummary(c *gin.Context) {
	uid := c.GetUint("userID")

	summary, err := tc.Tracking.GetWeeklySummary(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// A manual mutation changed data out-of-band of the aggregation cache, so
// the next aggregated read must bypass the TTL.
func (tc *TrackingController) invalidate() {
	if tc.Agg != nil {
		tc.Agg.ClearCache()
	}
}
