// Package restcountries fetches raw country records from the REST
// Countries v3.1 API. It is the sole I/O boundary of the pipeline: it
// either returns a decodable collection within its timeout or fails
// explicitly with an error wrapping [ErrIngestion].
package restcountries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/atlasboard/country-data-service/internal/domain"
	"github.com/atlasboard/country-data-service/internal/observability"
)

// ErrIngestion marks any failure to retrieve or decode the upstream
// payload: transport errors, timeouts, non-200 responses, and malformed
// top-level JSON. Per-record problems are not errors; the normalizer
// defaults them away.
var ErrIngestion = errors.New("countries ingestion failed")

// fetchFields limits the upstream payload to the fields normalization
// consumes. The full v3.1 payload is ~10x larger.
const fetchFields = "name,population,area,region,subregion,languages,currencies"

// Client retrieves the raw country collection over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a REST Countries client with a hard request timeout.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// FetchAll retrieves and decodes the complete raw collection.
func (c *Client) FetchAll(ctx context.Context) ([]domain.RawCountry, error) {
	fullURL := c.baseURL + "?" + url.Values{"fields": {fetchFields}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrIngestion, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.FetchRequests.WithLabelValues("transport_error").Inc()
		return nil, fmt.Errorf("%w: %w", ErrIngestion, err)
	}
	defer resp.Body.Close()
	c.metrics.FetchDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		c.metrics.FetchRequests.WithLabelValues("http_error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrIngestion, resp.StatusCode, body)
	}

	var raw []domain.RawCountry
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		c.metrics.FetchRequests.WithLabelValues("decode_error").Inc()
		return nil, fmt.Errorf("%w: decode payload: %w", ErrIngestion, err)
	}

	c.metrics.FetchRequests.WithLabelValues("success").Inc()
	c.logger.Debug("fetched raw countries", "count", len(raw), "duration", time.Since(start))
	return raw, nil
}
