package services

import (
	"github.com/humayun7777/medicureon-backend/models"
)

// Cumulative counters fold with take-the-maximum so a later-reporting
// device never regresses a running daily total. heartRate is instantaneous:
// the last device processed wins, in collaborator return order.
var cumulativeMetrics = map[string]bool{
	models.MetricSteps:    true,
	models.MetricCalories: true,
	models.MetricDistance: true,
	models.MetricSleep:    true,
	models.MetricWater:    true,
}

var canonicalNumeric = map[string]bool{
	models.MetricHeartRate: true,
	models.MetricSteps:     true,
	models.MetricCalories:  true,
	models.MetricDistance:  true,
	models.MetricWater:     true,
	models.MetricSleep:     true,
}

// defaultMetrics is the always-initialized canonical set. Every aggregated
// view covers these keys no matter which sources answered.
func defaultMetrics() map[string]interface{} {
	return map[string]interface{}{
		models.MetricHeartRate: float64(0),
		models.MetricSteps:     float64(0),
		models.MetricCalories:  float64(0),
		models.MetricDistance:  float64(0),
		models.MetricWater:     float64(0),
		models.MetricSleep:     float64(0),
		models.MetricStress:    "Low",
		models.MetricMood:      "Good",
	}
}

// canonicalMetricName maps device-side metric names onto the canonical set.
func canonicalMetricName(name string) string {
	if name == "activeCalories" {
		return models.MetricCalories
	}
	return name
}

// normalizeDevices folds every device snapshot into one flat metric map and
// produces the device registry from the same pass. Metrics outside the
// canonical set pass through into vitals, latest value wins.
func normalizeDevices(snapshots []models.DeviceMetricSnapshot, vitals map[string]interface{}) (map[string]interface{}, []models.SyncedDevice) {
	out := make(map[string]interface{})
	registry := make([]models.SyncedDevice, 0, len(snapshots))

	for i := range snapshots {
		snap := &snapshots[i]
		registry = append(registry, models.SyncedDevice{
			Type:     snap.DeviceType,
			Name:     models.DeviceDisplayName(snap.DeviceType),
			LastSync: snap.LastSync(),
		})

		for name, series := range snap.Metrics {
			key := canonicalMetricName(name)
			value := series.Latest.Value

			if !canonicalNumeric[key] {
				vitals[key] = value
				continue
			}
			if cumulativeMetrics[key] {
				if cur, ok := out[key].(float64); !ok || value > cur {
					out[key] = value
				}
			} else {
				out[key] = value
			}
		}
	}
	return out, registry
}

// normalizeManual projects today's manual log onto the canonical keys so it
// competes with device data under the same merge rules. Manual entries
// never report steps or heart rate.
func normalizeManual(logEntry *models.DailyLog) map[string]interface{} {
	out := map[string]interface{}{
		models.MetricWater:    float64(logEntry.Water),
		models.MetricCalories: logEntry.TotalCalories(),
	}
	if logEntry.MoodLevel > 0 {
		out[models.MetricMood] = moodLabel(logEntry.MoodLevel)
	}
	return out
}

func moodLabel(level int) string {
	switch level {
	case 1:
		return "Poor"
	case 2:
		return "Fair"
	case 3:
		return "Good"
	case 4:
		return "Great"
	case 5:
		return "Excellent"
	}
	return "Good"
}

// mergeMetrics folds src into dst key by key: numeric values take the
// maximum across sources, labels take the last non-empty value.
func mergeMetrics(dst, src map[string]interface{}) {
	for key, value := range src {
		dst[key] = mergeValue(dst[key], value)
	}
}

func mergeValue(old, next interface{}) interface{} {
	switch nv := next.(type) {
	case float64:
		if ov, ok := old.(float64); ok && ov > nv {
			return ov
		}
		return nv
	case string:
		if nv != "" {
			return nv
		}
		return old
	}
	return next
}

// buildSyncStatus de-duplicates the combined device list by type, first
// occurrence wins, and takes lastSync from the first deduped device that
// carries a timestamp.
func buildSyncStatus(devices []models.SyncedDevice) models.SyncStatus {
	seen := make(map[string]bool, len(devices))
	deduped := make([]models.SyncedDevice, 0, len(devices))
	for _, d := range devices {
		if seen[d.Type] {
			continue
		}
		seen[d.Type] = true
		deduped = append(deduped, d)
	}

	status := models.SyncStatus{
		Connected: len(deduped) > 0,
		Devices:   deduped,
	}
	for _, d := range deduped {
		if d.LastSync != nil {
			status.LastSync = d.LastSync
			break
		}
	}
	return status
}
