package routes

import (
	"github.com/humayun7777/medicureon-backend/controllers"
	"github.com/humayun7777/medicureon-backend/metrics"
	"github.com/humayun7777/medicureon-backend/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Deps struct {
	Tracking    *controllers.TrackingController
	Aggregation *controllers.AggregationController
	Realtime    *controllers.RealtimeController
	Registry    *prometheus.Registry
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.Default()

	r.GET("/metrics", gin.WrapH(metrics.Handler(d.Registry)))

	health := r.Group("/health")
	health.Use(middlewares.AuthMiddleware())
	{
		health.GET("/summary", d.Aggregation.GetSummary)
		health.POST("/cache/clear", d.Aggregation.ClearCache)
	}

	tracking := r.Group("/tracking")
	tracking.Use(middlewares.AuthMiddleware())
	{
		tracking.POST("/water", d.Tracking.TrackWater)
		tracking.POST("/meal", d.Tracking.TrackMeal)
		tracking.POST("/mood", d.Tracking.TrackMood)
		tracking.GET("/today", d.Tracking.GetToday)
		tracking.GET("/summary/weekly", d.Tracking.GetWeeklySummary)
	}

	ws := r.Group("/ws")
	ws.Use(middlewares.AuthMiddleware())
	{
		ws.GET("/tracking", d.Realtime.TrackingWS)
	}

	return r
}
