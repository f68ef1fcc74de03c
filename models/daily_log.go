package models

import (
	"time"

	"gorm.io/gorm"
)

// One DailyLog per user per local calendar day. Created lazily on first
// access, never deleted, mutated only through ManualTrackingService.
type DailyLog struct {
	gorm.Model
	UserID uint      `gorm:"index;not null" json:"user_id"`
	Date   time.Time `gorm:"index;not null" json:"date"` // truncated to local midnight

	Water int    `json:"water"` // glasses
	Notes string `gorm:"type:text" json:"notes"`

	// last-write-wins mood; zero MoodLevel means "not recorded today"
	MoodLevel      int        `json:"mood_level"`
	MoodCapturedAt *time.Time `json:"mood_captured_at,omitempty"`

	Meals []MealEntry `json:"meals"` // insertion order = chronological
}

// MealEntry is immutable once appended.
type MealEntry struct {
	gorm.Model
	DailyLogID  uint      `gorm:"index;not null" json:"daily_log_id"`
	MealType    string    `gorm:"size:16" json:"meal_type"` // breakfast|lunch|dinner|snack
	Calories    float64   `json:"calories"`
	Description string    `gorm:"type:text" json:"description"`
	CapturedAt  time.Time `json:"captured_at"`
}

// TotalCalories sums all meals for the day.
func (d *DailyLog) TotalCalories() float64 {
	var total float64
	for _, m := range d.Meals {
		total += m.Calories
	}
	return total
}

// DayStartLocal truncates t to local midnight, the canonical day key.
func DayStartLocal(t time.Time) time.Time {
	tt := t.In(time.Local)
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.Local)
}

// DayKey formats the local calendar date, e.g. "2026-08-31".
func DayKey(t time.Time) string {
	return t.In(time.Local).Format("2006-01-02")
}
