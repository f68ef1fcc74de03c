package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/humayun7777/medicureon-backend/models"
)

// MetricMirror is the best-effort remote sync the tracking service hands
// its mutations to. Implemented by MirrorQueue.
type MetricMirror interface {
	Enqueue(userID uint, metricValues map[string]models.MetricReading)
}

type MealRequest struct {
	MealType    string  `json:"meal_type" binding:"required"`
	Calories    float64 `json:"calories"`
	Description string  `json:"description"`
}

type MoodRecord struct {
	Level      int       `json:"level"`
	CapturedAt time.Time `json:"captured_at"`
}

type MoodPoint struct {
	Date  string `json:"date"`
	Level int    `json:"level"`
}

// WeeklySummary covers the 7 days ending today, oldest first. Water and
// calories are zero-filled for days without a log; the mood series is
// sparse, days without a recorded mood are omitted.
type WeeklySummary struct {
	Days     []string    `json:"days"`
	Water    []int       `json:"water"`
	Calories []float64   `json:"calories"`
	Mood     []MoodPoint `json:"mood"`
}

var validMealTypes = map[string]bool{
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
	"snack":     true,
}

// ManualTrackingService is the source of truth for user-entered daily
// health actions. Every mutation persists locally first, then queues a
// best-effort mirror write and broadcasts a change event.
type ManualTrackingService struct {
	store  DailyLogStore
	mirror MetricMirror
	hub    *RealtimeHub
	now    func() time.Time
}

func NewManualTrackingService(store DailyLogStore, mirror MetricMirror, hub *RealtimeHub) *ManualTrackingService {
	return &ManualTrackingService{
		store:  store,
		mirror: mirror,
		hub:    hub,
		now:    time.Now,
	}
}

// GetTodayData returns today's log, creating and persisting a zero-valued
// one on first access of the day.
func (s *ManualTrackingService) GetTodayData(userID uint) (*models.DailyLog, error) {
	day := models.DayStartLocal(s.now())

	logEntry, err := s.store.GetDay(userID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load today's log: %w", err)
	}
	if logEntry != nil {
		return logEntry, nil
	}

	logEntry = &models.DailyLog{UserID: userID, Date: day, Meals: []models.MealEntry{}}
	if err := s.store.SaveDay(logEntry); err != nil {
		return nil, fmt.Errorf("failed to create today's log: %w", err)
	}
	return logEntry, nil
}

// TrackWater adds glasses to today's count and returns the new total.
func (s *ManualTrackingService) TrackWater(userID uint, glasses int) (int, error) {
	if glasses <= 0 {
		return 0, fmt.Errorf("glasses must be positive, got %d", glasses)
	}

	logEntry, err := s.GetTodayData(userID)
	if err != nil {
		return 0, err
	}
	logEntry.Water += glasses
	if err := s.store.SaveDay(logEntry); err != nil {
		return 0, fmt.Errorf("failed to persist water intake: %w", err)
	}

	s.queueMirror(userID, models.MetricWater, float64(logEntry.Water), "glasses")
	s.notify(userID, TrackingEvent{Type: "water", Value: logEntry.Water})
	return logEntry.Water, nil
}

// TrackMeal appends an immutable meal entry stamped at call time and
// returns the day's new calorie total.
func (s *ManualTrackingService) TrackMeal(userID uint, req MealRequest) (float64, error) {
	mealType := strings.ToLower(strings.TrimSpace(req.MealType))
	if !validMealTypes[mealType] {
		return 0, fmt.Errorf("unknown meal type %q", req.MealType)
	}
	if req.Calories < 0 {
		return 0, fmt.Errorf("calories must not be negative, got %v", req.Calories)
	}

	logEntry, err := s.GetTodayData(userID)
	if err != nil {
		return 0, err
	}
	logEntry.Meals = append(logEntry.Meals, models.MealEntry{
		DailyLogID:  logEntry.ID,
		MealType:    mealType,
		Calories:    req.Calories,
		Description: req.Description,
		CapturedAt:  s.now(),
	})
	if err := s.store.SaveDay(logEntry); err != nil {
		return 0, fmt.Errorf("failed to persist meal: %w", err)
	}

	total := logEntry.TotalCalories()
	s.queueMirror(userID, models.MetricCalories, total, "kcal")
	s.notify(userID, TrackingEvent{Type: "calories", Value: total})
	return total, nil
}

// TrackMood overwrites today's mood, last write wins.
func (s *ManualTrackingService) TrackMood(userID uint, level int) (*MoodRecord, error) {
	if level < 1 || level > 5 {
		return nil, fmt.Errorf("mood level must be 1..5, got %d", level)
	}

	logEntry, err := s.GetTodayData(userID)
	if err != nil {
		return nil, err
	}
	capturedAt := s.now()
	logEntry.MoodLevel = level
	logEntry.MoodCapturedAt = &capturedAt
	if err := s.store.SaveDay(logEntry); err != nil {
		return nil, fmt.Errorf("failed to persist mood: %w", err)
	}

	s.queueMirror(userID, models.MetricMood, float64(level), "level")
	s.notify(userID, TrackingEvent{Type: "mood", Value: level})
	return &MoodRecord{Level: level, CapturedAt: capturedAt}, nil
}

func (s *ManualTrackingService) GetWaterIntake(userID uint) (int, error) {
	logEntry, err := s.GetTodayData(userID)
	if err != nil {
		return 0, err
	}
	return logEntry.Water, nil
}

func (s *ManualTrackingService) GetTotalCalories(userID uint) (float64, error) {
	logEntry, err := s.GetTodayData(userID)
	if err != nil {
		return 0, err
	}
	return logEntry.TotalCalories(), nil
}

// GetWeeklySummary builds the 7-day series ending today, oldest first.
func (s *ManualTrackingService) GetWeeklySummary(userID uint) (*WeeklySummary, error) {
	today := models.DayStartLocal(s.now())
	from := today.AddDate(0, 0, -6)
	to := today.AddDate(0, 0, 1)

	logs, err := s.store.GetRange(userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load weekly logs: %w", err)
	}
	byDay := make(map[string]*models.DailyLog, len(logs))
	for i := range logs {
		byDay[models.DayKey(logs[i].Date)] = &logs[i]
	}

	summary := &WeeklySummary{
		Days:     make([]string, 0, 7),
		Water:    make([]int, 0, 7),
		Calories: make([]float64, 0, 7),
		Mood:     []MoodPoint{},
	}
	for i := 0; i < 7; i++ {
		day := from.AddDate(0, 0, i)
		key := models.DayKey(day)
		summary.Days = append(summary.Days, key)

		logEntry := byDay[key]
		if logEntry == nil {
			summary.Water = append(summary.Water, 0)
			summary.Calories = append(summary.Calories, 0)
			continue
		}
		summary.Water = append(summary.Water, logEntry.Water)
		summary.Calories = append(summary.Calories, logEntry.TotalCalories())
		if logEntry.MoodLevel > 0 {
			summary.Mood = append(summary.Mood, MoodPoint{Date: key, Level: logEntry.MoodLevel})
		}
	}
	return summary, nil
}

func (s *ManualTrackingService) queueMirror(userID uint, metric string, value float64, unit string) {
	if s.mirror == nil {
		return
	}
	s.mirror.Enqueue(userID, map[string]models.MetricReading{
		metric: {Value: value, Unit: unit, Timestamp: s.now()},
	})
}

func (s *ManualTrackingService) notify(userID uint, ev TrackingEvent) {
	if s.hub != nil {
		s.hub.BroadcastTracking(userID, ev)
	}
}
