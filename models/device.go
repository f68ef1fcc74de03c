package models

import "time"

// Wire types for the IoMT device-metrics collaborator. Read-only to this
// backend except for the manual-tracking mirror write.

// MetricReading is a single reported value for one metric.
type MetricReading struct {
	Value     float64   `json:"value"`
	Unit      string    `json:"unit"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// MetricSeries is the latest reading plus its history.
type MetricSeries struct {
	Latest MetricReading   `json:"latest"`
	Values []MetricReading `json:"values"`
}

// DeviceMetricSnapshot is everything one connected device reported.
// Metric names: steps, heartRate, activeCalories, distance, sleep, plus
// device-specific extras (spo2, bloodPressure, ...) passed through as vitals.
type DeviceMetricSnapshot struct {
	DeviceID   string                  `json:"deviceId"`
	DeviceType string                  `json:"deviceType"`
	Metrics    map[string]MetricSeries `json:"metrics"`
}

// LastSync is the newest latest-reading timestamp across the device's
// metrics, nil when the device never reported a timestamp.
func (s *DeviceMetricSnapshot) LastSync() *time.Time {
	var last *time.Time
	for _, series := range s.Metrics {
		ts := series.Latest.Timestamp
		if ts.IsZero() {
			continue
		}
		if last == nil || ts.After(*last) {
			t := ts
			last = &t
		}
	}
	return last
}
