package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/humayun7777/medicureon-backend/metrics"
	"github.com/humayun7777/medicureon-backend/models"
)

// DeviceMetricsSource is the IoMT collaborator as seen by the aggregator.
type DeviceMetricsSource interface {
	FetchDeviceMetrics(ctx context.Context, userID uint, country string) ([]models.DeviceMetricSnapshot, error)
}

// ManualLogSource is the manual-tracking side. Implemented by
// ManualTrackingService.
type ManualLogSource interface {
	GetTodayData(userID uint) (*models.DailyLog, error)
}

const cacheTTL = 60 * time.Second

type cacheEntry struct {
	view     *models.AggregatedHealthView
	storedAt time.Time
}

// DataAggregationService combines device telemetry and manual logs into one
// always-populated view per user. Callers never see an error from it; the
// worst case is a synthetic demo view.
type DataAggregationService struct {
	devices DeviceMetricsSource
	manual  ManualLogSource
	rec     metrics.Recorder

	mu    sync.Mutex
	cache map[uint]cacheEntry

	ttl time.Duration
	now func() time.Time
}

func NewDataAggregationService(devices DeviceMetricsSource, manual ManualLogSource, rec metrics.Recorder) *DataAggregationService {
	return &DataAggregationService{
		devices: devices,
		manual:  manual,
		rec:     rec,
		cache:   make(map[uint]cacheEntry),
		ttl:     cacheTTL,
		now:     time.Now,
	}
}

// GetAggregatedHealthData returns the user's aggregated view: cached if
// fresh, otherwise fetched from both sources concurrently, normalized,
// merged and cached. country is forwarded to the IoMT collaborator for
// regional endpoint selection.
func (s *DataAggregationService) GetAggregatedHealthData(ctx context.Context, userID uint, country string) (view *models.AggregatedHealthView) {
	if cached := s.lookupCache(userID); cached != nil {
		s.rec.RecordCacheHit()
		return cached
	}
	s.rec.RecordCacheMiss()

	// A fault while fetching, normalizing or merging must never reach the
	// dashboard: recover into a fresh synthetic view and skip the cache so
	// the next call retries the real sources.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("aggregation fault for user %d: %v", userID, r)
			s.rec.RecordMergeFault()
			view = s.syntheticView()
		}
	}()

	start := time.Now()
	snapshots, manualLog := s.fetchSources(ctx, userID, country)
	s.rec.RecordFetchLatency(time.Since(start))

	view = s.buildView(snapshots, manualLog)
	s.storeCache(userID, view)
	return view
}

// ClearCache drops every cached view, forcing the next read per user to hit
// the sources regardless of TTL. Tracking mutations call this.
func (s *DataAggregationService) ClearCache() {
	s.mu.Lock()
	s.cache = make(map[uint]cacheEntry)
	s.mu.Unlock()
}

func (s *DataAggregationService) lookupCache(userID uint) *models.AggregatedHealthView {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.cache[userID]
	if !ok || s.now().Sub(entry.storedAt) >= s.ttl {
		return nil
	}
	return entry.view
}

func (s *DataAggregationService) storeCache(userID uint, view *models.AggregatedHealthView) {
	s.mu.Lock()
	s.cache[userID] = cacheEntry{view: view, storedAt: s.now()}
	s.mu.Unlock()
}

// fetchSources issues both fetches concurrently and waits for both. A
// failing source degrades to empty without touching the other; a panic in
// either is re-raised on the request goroutine for the recover above.
func (s *DataAggregationService) fetchSources(ctx context.Context, userID uint, country string) ([]models.DeviceMetricSnapshot, *models.DailyLog) {
	var (
		wg        sync.WaitGroup
		snapshots []models.DeviceMetricSnapshot
		manualLog *models.DailyLog
		devFault  interface{}
		manFault  interface{}
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		defer func() { devFault = recover() }()
		snaps, err := s.devices.FetchDeviceMetrics(ctx, userID, country)
		if err != nil {
			if !errors.Is(err, ErrNoDeviceData) {
				log.Printf("device metrics fetch failed for user %d: %v", userID, err)
				s.rec.RecordSourceFailure("devices")
			}
			return
		}
		snapshots = snaps
	}()
	go func() {
		defer wg.Done()
		defer func() { manFault = recover() }()
		logEntry, err := s.manual.GetTodayData(userID)
		if err != nil {
			log.Printf("manual log fetch failed for user %d: %v", userID, err)
			s.rec.RecordSourceFailure("manual")
			return
		}
		manualLog = logEntry
	}()
	wg.Wait()

	if devFault != nil {
		panic(devFault)
	}
	if manFault != nil {
		panic(manFault)
	}
	return snapshots, manualLog
}

func (s *DataAggregationService) buildView(snapshots []models.DeviceMetricSnapshot, manualLog *models.DailyLog) *models.AggregatedHealthView {
	merged := defaultMetrics()
	vitals := make(map[string]interface{})

	deviceMetrics, deviceRegistry := normalizeDevices(snapshots, vitals)
	mergeMetrics(merged, deviceMetrics)

	if manualLog != nil {
		mergeMetrics(merged, normalizeManual(manualLog))
	}

	status := buildSyncStatus(deviceRegistry)

	if !hasRealSignal(merged) {
		s.rec.RecordFallback()
		merged = SyntheticBaseline(s.now())
		status = disconnectedStatus()
	}

	return &models.AggregatedHealthView{
		RealTimeMetrics: merged,
		Vitals:          vitals,
		SyncStatus:      status,
		LastUpdated:     s.now(),
	}
}

func (s *DataAggregationService) syntheticView() *models.AggregatedHealthView {
	return &models.AggregatedHealthView{
		RealTimeMetrics: SyntheticBaseline(s.now()),
		Vitals:          make(map[string]interface{}),
		SyncStatus:      disconnectedStatus(),
		LastUpdated:     s.now(),
	}
}

// hasRealSignal decides whether any source produced a reading. Zero steps
// and zero heart rate together are read as "no instruments connected"; a
// connected device legitimately reporting both as zero is indistinguishable
// and also falls back to the baseline.
func hasRealSignal(m map[string]interface{}) bool {
	steps, _ := m[models.MetricSteps].(float64)
	hr, _ := m[models.MetricHeartRate].(float64)
	return steps != 0 || hr != 0
}

func disconnectedStatus() models.SyncStatus {
	return models.SyncStatus{Connected: false, Devices: []models.SyncedDevice{}}
}
