package services

import (
	"errors"
	"time"

	"github.com/humayun7777/medicureon-backend/models"

	"gorm.io/gorm"
)

// DailyLogStore abstracts the durable per-day log storage so the tracking
// service can run against Postgres in production and an in-memory fake in
// tests.
type DailyLogStore interface {
	// GetDay returns the log for the given local day, or (nil, nil) when no
	// log was ever created for it.
	GetDay(userID uint, day time.Time) (*models.DailyLog, error)
	// SaveDay upserts the log, meals included.
	SaveDay(logEntry *models.DailyLog) error
	// GetRange returns existing logs with day in [from, to), oldest first.
	// Days without a log are simply absent.
	GetRange(userID uint, from, to time.Time) ([]models.DailyLog, error)
}

type gormLogStore struct {
	db *gorm.DB
}

func NewGormLogStore(db *gorm.DB) DailyLogStore {
	return &gormLogStore{db: db}
}

func (s *gormLogStore) GetDay(userID uint, day time.Time) (*models.DailyLog, error) {
	start := models.DayStartLocal(day)

	var logEntry models.DailyLog
	err := s.db.
		Preload("Meals").
		Where("user_id = ? AND date = ?", userID, start).
		First(&logEntry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &logEntry, nil
}

func (s *gormLogStore) SaveDay(logEntry *models.DailyLog) error {
	return s.db.Save(logEntry).Error
}

func (s *gormLogStore) GetRange(userID uint, from, to time.Time) ([]models.DailyLog, error) {
	var logs []models.DailyLog
	err := s.db.
		Preload("Meals").
		Where("user_id = ? AND date >= ? AND date < ?", userID, models.DayStartLocal(from), models.DayStartLocal(to)).
		Order("date asc").
		Find(&logs).Error
	return logs, err
}
