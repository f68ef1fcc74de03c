package main

import (
	"github.com/humayun7777/medicureon-backend/config"
	"github.com/humayun7777/medicureon-backend/controllers"
	"github.com/humayun7777/medicureon-backend/metrics"
	"github.com/humayun7777/medicureon-backend/routes"
	"github.com/humayun7777/medicureon-backend/services"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	config.LoadEnv()
	db := config.InitDB()

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	hub := services.NewRealtimeHub()
	iomt := services.NewIoMTClient()
	mirror := services.NewMirrorQueue(iomt, collector)
	defer mirror.Stop()

	store := services.NewGormLogStore(db)
	tracking := services.NewManualTrackingService(store, mirror, hub)
	aggregation := services.NewDataAggregationService(iomt, tracking, collector)

	r := routes.SetupRouter(routes.Deps{
		Tracking:    controllers.NewTrackingController(tracking, aggregation),
		Aggregation: controllers.NewAggregationController(aggregation),
		Realtime:    controllers.NewRealtimeController(hub),
		Registry:    registry,
	})
	r.Run(":8080")
}
