package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/atlasboard/country-data-service/internal/domain"
	"github.com/atlasboard/country-data-service/internal/observability"
)

const defaultTopN = 10

type handler struct {
	source  SnapshotSource
	metrics *observability.Metrics
	logger  *slog.Logger
}

// errorResponse matches the {"detail": ...} error shape the dashboard
// frontend expects.
type errorResponse struct {
	Detail string `json:"detail"`
}

// filteredCountry is the reduced projection served by the region filter.
type filteredCountry struct {
	Name       string `json:"name"`
	Population int64  `json:"population"`
	Region     string `json:"region"`
}

type topResponse struct {
	Metric domain.Metric     `json:"metric"`
	Top    []domain.TopEntry `json:"top"`
}

type statsResponse struct {
	domain.MetricStats
	InsufficientData bool                   `json:"insufficient_data"`
	Interpretation   *domain.Interpretation `json:"interpretation,omitempty"`
}

type extremesResponse struct {
	Metric domain.Metric  `json:"metric"`
	Max    domain.Country `json:"max"`
	Min    domain.Country `json:"min"`
}

// countries loads the canonical collection, mapping an ingestion
// failure with no usable snapshot to 502.
func (h *handler) countries(c echo.Context) ([]domain.Country, error) {
	countries, err := h.source.Countries(c.Request().Context())
	if err != nil {
		h.logger.Error("country data unavailable", "error", err)
		return nil, echo.NewHTTPError(http.StatusBadGateway, "country data unavailable")
	}
	return countries, nil
}

func (h *handler) listCountries(c echo.Context) error {
	countries, err := h.countries(c)
	if err != nil {
		return err
	}
	h.metrics.QueriesServed.WithLabelValues("list").Inc()
	return c.JSON(http.StatusOK, countries)
}

func (h *handler) getCountry(c echo.Context) error {
	countries, err := h.countries(c)
	if err != nil {
		return err
	}

	name := c.Param("name")
	country, ok := domain.FindByName(countries, name)
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Detail: "country " + strconv.Quote(name) + " not found"})
	}
	h.metrics.QueriesServed.WithLabelValues("lookup").Inc()
	return c.JSON(http.StatusOK, country)
}

func (h *handler) topCountries(c echo.Context) error {
	metric, err := domain.ParseRankMetric(c.Param("metric"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
	}

	limit := defaultTopN
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	countries, err := h.countries(c)
	if err != nil {
		return err
	}
	h.metrics.QueriesServed.WithLabelValues("top").Inc()
	return c.JSON(http.StatusOK, topResponse{
		Metric: metric,
		Top:    domain.TopN(countries, metric, limit),
	})
}

func (h *handler) filterByRegion(c echo.Context) error {
	region := c.QueryParam("region")
	if region == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "region query parameter is required"})
	}

	countries, err := h.countries(c)
	if err != nil {
		return err
	}

	matched := domain.FilterByRegion(countries, region)
	if len(matched) == 0 {
		// An empty filter result surfaces as not-found at this boundary,
		// unlike stats and extremes which degrade silently.
		return c.JSON(http.StatusNotFound, errorResponse{Detail: "no countries found in region " + strconv.Quote(region)})
	}

	projected := make([]filteredCountry, 0, len(matched))
	for _, m := range matched {
		projected = append(projected, filteredCountry{Name: m.Name, Population: m.Population, Region: m.Region})
	}
	h.metrics.QueriesServed.WithLabelValues("filter").Inc()
	return c.JSON(http.StatusOK, projected)
}

func (h *handler) stats(c echo.Context) error {
	metric, err := domain.ParseMetric(c.QueryParam("metric"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
	}

	countries, err := h.countries(c)
	if err != nil {
		return err
	}

	stats := domain.ComputeStats(countries, metric)
	resp := statsResponse{
		MetricStats:      stats,
		InsufficientData: stats.Insufficient(),
	}
	if in, ok := domain.Interpret(stats); ok {
		resp.Interpretation = &in
	}
	h.metrics.QueriesServed.WithLabelValues("stats").Inc()
	return c.JSON(http.StatusOK, resp)
}

func (h *handler) extremes(c echo.Context) error {
	metric, err := domain.ParseMetric(c.QueryParam("metric"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
	}

	countries, err := h.countries(c)
	if err != nil {
		return err
	}

	ext, ok := domain.FindExtremes(countries, metric)
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Detail: "no country data available"})
	}
	h.metrics.QueriesServed.WithLabelValues("extremes").Inc()
	return c.JSON(http.StatusOK, extremesResponse{Metric: metric, Max: ext.Max, Min: ext.Min})
}
