package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hydroplan/rainharvest/internal/domain"
	"github.com/hydroplan/rainharvest/internal/observability"
)

// Client implements domain.ClimatologySource using the Open-Meteo climate API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an Open-Meteo climatology client.
func NewClient(timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://climate-api.open-meteo.com/v1/climate",
		logger:  logger,
		metrics: metrics,
	}
}

// MonthlyNormals fetches the twelve-month precipitation normals for a
// coordinate pair.
func (c *Client) MonthlyNormals(ctx context.Context, lat, lon float64) (domain.ClimatologyResult, error) {
	params := url.Values{
		"latitude":  {fmt.Sprintf("%.4f", lat)},
		"longitude": {fmt.Sprintf("%.4f", lon)},
		"monthly":   {"precipitation_sum,precipitation_days"},
	}

	start := time.Now()
	result, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	c.metrics.ClimatologyAPIDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.ClimatologyRequests.WithLabelValues("error").Inc()
		return domain.ClimatologyResult{}, err
	}
	c.metrics.ClimatologyRequests.WithLabelValues("success").Inc()
	return result, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.ClimatologyResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.ClimatologyResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ClimatologyResult{}, fmt.Errorf("climatology request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.ClimatologyResult{}, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	var meteoResp response
	if err := json.NewDecoder(resp.Body).Decode(&meteoResp); err != nil {
		return domain.ClimatologyResult{}, fmt.Errorf("decode response: %w", err)
	}

	if len(meteoResp.Monthly.PrecipitationSum) != domain.MonthsPerYear {
		return domain.ClimatologyResult{}, fmt.Errorf("open-meteo returned %d monthly precipitation values, want %d",
			len(meteoResp.Monthly.PrecipitationSum), domain.MonthsPerYear)
	}

	result := domain.ClimatologyResult{Source: "open-meteo"}
	copy(result.MonthlyPrecipMM[:], meteoResp.Monthly.PrecipitationSum)
	if len(meteoResp.Monthly.PrecipitationDays) == domain.MonthsPerYear {
		copy(result.MonthlyRainyDays[:], meteoResp.Monthly.PrecipitationDays)
	}
	return result, nil
}

// Open-Meteo API response types.

type response struct {
	Monthly monthly `json:"monthly"`
}

type monthly struct {
	PrecipitationSum  []float64 `json:"precipitation_sum"`
	PrecipitationDays []float64 `json:"precipitation_days"`
}
