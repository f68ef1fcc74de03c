package controllers

import (
	"net/http"

	"github.com/humayun7777/medicureon-backend/services"

	"github.com/gin-gonic/gin"
)

type AggregationController struct {
	Agg *services.DataAggregationService
}

func NewAggregationController(agg *services.DataAggregationService) *AggregationController {
	return &AggregationController{Agg: agg}
}

// GetSummary returns the aggregated health view for the caller. This
// endpoint never fails: missing or broken sources degrade to the synthetic
// baseline inside the service.
func (ac *AggregationController) GetSummary(c *gin.Context) {
	uid := c.GetUint("userID")
	country := c.Query("country")

	view := ac.Agg.GetAggregatedHealthData(c.Request.Context(), uid, country)
	c.JSON(http.StatusOK, view)
}

func (ac *AggregationController) ClearCache(c *gin.Context) {
	ac.Agg.ClearCache()
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}
