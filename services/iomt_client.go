package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/humayun7777/medicureon-backend/models"

	"golang.org/x/time/rate"
)

// ErrNoDeviceData is the distinguished "no data yet" condition: the IoMT
// store has nothing for this user. Not a failure.
var ErrNoDeviceData = errors.New("no device data for user")

const manualDeviceID = "manual-tracking"
const manualDeviceType = "manual-input"
const manualSource = "Manual Entry"

// IoMTClient talks to the device-metrics collaborator.
type IoMTClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// NewIoMTClient reads credentials from the environment and sets up the
// HTTP client with a politeness rate limit on outbound calls.
func NewIoMTClient() *IoMTClient {
	base := os.Getenv("IOMT_API_URL")
	if base == "" {
		base = "https://iomt.medicureon.com"
	}
	return &IoMTClient{
		baseURL: base,
		apiKey:  os.Getenv("IOMT_API_KEY"),
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

type deviceMetricsResponse struct {
	Devices []models.DeviceMetricSnapshot `json:"devices"`
}

// FetchDeviceMetrics returns every connected device's metric snapshot.
// country is forwarded for regional endpoint selection; a 404 from the
// store maps to ErrNoDeviceData.
func (c *IoMTClient) FetchDeviceMetrics(ctx context.Context, userID uint, country string) ([]models.DeviceMetricSnapshot, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	if country != "" {
		q.Set("country", country)
	}
	q.Set("limit", "100")
	q.Set("aggregation", "latest")
	u := fmt.Sprintf("%s/v1/users/%d/device-metrics?%s", c.baseURL, userID, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create device metrics request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call IoMT API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read IoMT response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoDeviceData
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("IoMT API error %d: %s", resp.StatusCode, string(body))
	}

	var dr deviceMetricsResponse
	if err := json.Unmarshal(body, &dr); err != nil {
		return nil, fmt.Errorf("failed to parse IoMT JSON: %w", err)
	}
	return dr.Devices, nil
}

// PushManualMetrics mirrors manually tracked values into the IoMT store as
// a pseudo-device, tagged so downstream consumers can tell it apart from
// real telemetry.
func (c *IoMTClient) PushManualMetrics(ctx context.Context, userID uint, metricValues map[string]models.MetricReading) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	series := make(map[string]models.MetricSeries, len(metricValues))
	for name, reading := range metricValues {
		reading.Source = manualSource
		series[name] = models.MetricSeries{
			Latest: reading,
			Values: []models.MetricReading{reading},
		}
	}
	payload := models.DeviceMetricSnapshot{
		DeviceID:   manualDeviceID,
		DeviceType: manualDeviceType,
		Metrics:    series,
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal manual metrics payload: %w", err)
	}

	u := fmt.Sprintf("%s/v1/users/%d/device-metrics", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("failed to create mirror request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to mirror manual metrics: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("IoMT mirror error %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
