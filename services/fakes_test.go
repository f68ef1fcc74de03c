package services

import (
	"context"
	"sync"
	"time"

	"github.com/humayun7777/medicureon-backend/models"
)

// In-memory DailyLogStore so tracking tests run without Postgres.
type memStore struct {
	mu     sync.Mutex
	nextID uint
	logs   map[uint]map[string]*models.DailyLog // userID → day key → log
	fail   error
}

func newMemStore() *memStore {
	return &memStore{logs: make(map[uint]map[string]*models.DailyLog)}
}

func (s *memStore) GetDay(userID uint, day time.Time) (*models.DailyLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	return s.logs[userID][models.DayKey(day)], nil
}

func (s *memStore) SaveDay(logEntry *models.DailyLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	if logEntry.ID == 0 {
		s.nextID++
		logEntry.ID = s.nextID
	}
	if s.logs[logEntry.UserID] == nil {
		s.logs[logEntry.UserID] = make(map[string]*models.DailyLog)
	}
	s.logs[logEntry.UserID][models.DayKey(logEntry.Date)] = logEntry
	return nil
}

func (s *memStore) GetRange(userID uint, from, to time.Time) ([]models.DailyLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	var out []models.DailyLog
	for day := models.DayStartLocal(from); day.Before(to); day = day.AddDate(0, 0, 1) {
		if logEntry := s.logs[userID][models.DayKey(day)]; logEntry != nil {
			out = append(out, *logEntry)
		}
	}
	return out, nil
}

// fakeMirror records what the tracking service queues.
type fakeMirror struct {
	mu   sync.Mutex
	jobs []map[string]models.MetricReading
}

func (m *fakeMirror) Enqueue(userID uint, metricValues map[string]models.MetricReading) {
	m.mu.Lock()
	m.jobs = append(m.jobs, metricValues)
	m.mu.Unlock()
}

func (m *fakeMirror) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

// fakeDevices is a scriptable DeviceMetricsSource.
type fakeDevices struct {
	mu        sync.Mutex
	snapshots []models.DeviceMetricSnapshot
	err       error
	panicWith interface{}
	calls     int
}

func (f *fakeDevices) FetchDeviceMetrics(_ context.Context, _ uint, _ string) ([]models.DeviceMetricSnapshot, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return f.snapshots, f.err
}

func (f *fakeDevices) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeManual is a scriptable ManualLogSource.
type fakeManual struct {
	mu        sync.Mutex
	logEntry  *models.DailyLog
	err       error
	panicWith interface{}
	calls     int
}

func (f *fakeManual) GetTodayData(_ uint) (*models.DailyLog, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return f.logEntry, f.err
}

func (f *fakeManual) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeRecorder counts recorder calls so failure taxonomy is observable.
type fakeRecorder struct {
	mu             sync.Mutex
	cacheHits      int
	cacheMisses    int
	sourceFailures map[string]int
	fallbacks      int
	mergeFaults    int
	mirrorFailures int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{sourceFailures: make(map[string]int)}
}

func (r *fakeRecorder) RecordCacheHit()  { r.mu.Lock(); r.cacheHits++; r.mu.Unlock() }
func (r *fakeRecorder) RecordCacheMiss() { r.mu.Lock(); r.cacheMisses++; r.mu.Unlock() }
func (r *fakeRecorder) RecordSourceFailure(src string) {
	r.mu.Lock()
	r.sourceFailures[src]++
	r.mu.Unlock()
}
func (r *fakeRecorder) RecordFallback()               { r.mu.Lock(); r.fallbacks++; r.mu.Unlock() }
func (r *fakeRecorder) RecordMergeFault()             { r.mu.Lock(); r.mergeFaults++; r.mu.Unlock() }
func (r *fakeRecorder) RecordMirrorFailure()          { r.mu.Lock(); r.mirrorFailures++; r.mu.Unlock() }
func (r *fakeRecorder) RecordFetchLatency(time.Duration) {}

func makeSnapshot(deviceType string, values map[string]float64, ts time.Time) models.DeviceMetricSnapshot {
	series := make(map[string]models.MetricSeries, len(values))
	for name, v := range values {
		reading := models.MetricReading{Value: v, Timestamp: ts, Source: deviceType}
		series[name] = models.MetricSeries{Latest: reading, Values: []models.MetricReading{reading}}
	}
	return models.DeviceMetricSnapshot{
		DeviceID:   deviceType + "-1",
		DeviceType: deviceType,
		Metrics:    series,
	}
}
