package models

import "time"

// Canonical metric keys. The aggregated view always carries every one of
// these, defaults filled in before any source is merged.
const (
	MetricHeartRate = "heartRate"
	MetricSteps     = "steps"
	MetricCalories  = "calories"
	MetricDistance  = "distance"
	MetricWater     = "water"
	MetricSleep     = "sleep"
	MetricStress    = "stress"
	MetricMood      = "mood"
)

// SyncedDevice is one entry in the aggregated device registry.
type SyncedDevice struct {
	Type     string     `json:"type"`
	Name     string     `json:"name"`
	LastSync *time.Time `json:"last_sync,omitempty"`
}

type SyncStatus struct {
	Connected bool           `json:"connected"`
	Devices   []SyncedDevice `json:"devices"`
	LastSync  *time.Time     `json:"last_sync,omitempty"`
	Syncing   bool           `json:"syncing"`
}

// AggregatedHealthView is the merge output handed to the dashboard.
// RealTimeMetrics values are float64 except stress/mood which are short
// labels; Vitals is a passthrough of non-canonical device metrics.
type AggregatedHealthView struct {
	RealTimeMetrics map[string]interface{} `json:"real_time_metrics"`
	Vitals          map[string]interface{} `json:"vitals"`
	SyncStatus      SyncStatus             `json:"sync_status"`
	LastUpdated     time.Time              `json:"last_updated"`
}

var deviceDisplayNames = map[string]string{
	"fitbit":       "Fitbit",
	"apple-health": "Apple Health",
	"garmin":       "Garmin",
	"oura":         "Oura Ring",
	"withings":     "Withings",
	"manual-input": "Manual Entry",
}

// DeviceDisplayName maps a device type to its dashboard label.
func DeviceDisplayName(deviceType string) string {
	if name, ok := deviceDisplayNames[deviceType]; ok {
		return name
	}
	return deviceType
}
