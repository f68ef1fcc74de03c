package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/humayun7777/medicureon-backend/models"

	"golang.org/x/time/rate"
)

func testClient(baseURL string) *IoMTClient {
	return &IoMTClient{
		baseURL: baseURL,
		apiKey:  "test-key",
		client:  &http.Client{Timeout: 2 * time.Second},
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
}

func TestFetchDeviceMetrics_ParsesSnapshots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("country") != "DE" {
			t.Errorf("country not forwarded, query = %s", r.URL.RawQuery)
		}
		if r.Header.Get("X-Api-Key") != "test-key" {
			t.Error("api key header missing")
		}
		_ = json.NewEncoder(w).Encode(deviceMetricsResponse{Devices: []models.DeviceMetricSnapshot{
			{DeviceID: "fitbit-1", DeviceType: "fitbit", Metrics: map[string]models.MetricSeries{
				"steps": {Latest: models.MetricReading{Value: 4000, Unit: "count"}},
			}},
		}})
	}))
	defer srv.Close()

	snaps, err := testClient(srv.URL).FetchDeviceMetrics(context.Background(), 7, "DE")
	if err != nil {
		t.Fatalf("FetchDeviceMetrics: %v", err)
	}
	if len(snaps) != 1 || snaps[0].DeviceType != "fitbit" {
		t.Fatalf("snapshots = %+v", snaps)
	}
	if snaps[0].Metrics["steps"].Latest.Value != 4000 {
		t.Errorf("steps = %v, want 4000", snaps[0].Metrics["steps"].Latest.Value)
	}
}

func TestFetchDeviceMetrics_NotFoundIsNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchDeviceMetrics(context.Background(), 7, "")
	if !errors.Is(err, ErrNoDeviceData) {
		t.Errorf("err = %v, want ErrNoDeviceData", err)
	}
}

func TestFetchDeviceMetrics_ServerErrorIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchDeviceMetrics(context.Background(), 7, "")
	if err == nil || errors.Is(err, ErrNoDeviceData) {
		t.Errorf("err = %v, want a plain failure", err)
	}
}

func TestPushManualMetrics_TagsPayloadAsManual(t *testing.T) {
	var got models.DeviceMetricSnapshot
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := testClient(srv.URL).PushManualMetrics(context.Background(), 7, map[string]models.MetricReading{
		models.MetricWater: {Value: 5, Unit: "glasses", Timestamp: time.Now()},
	})
	if err != nil {
		t.Fatalf("PushManualMetrics: %v", err)
	}

	if got.DeviceID != "manual-tracking" || got.DeviceType != "manual-input" {
		t.Errorf("payload device = %s/%s, want manual-tracking/manual-input", got.DeviceID, got.DeviceType)
	}
	series, ok := got.Metrics[models.MetricWater]
	if !ok {
		t.Fatal("water series missing from payload")
	}
	if series.Latest.Source != "Manual Entry" {
		t.Errorf("source = %q, want Manual Entry", series.Latest.Source)
	}
	if len(series.Values) != 1 {
		t.Errorf("values = %d, want 1", len(series.Values))
	}
}
