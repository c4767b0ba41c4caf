package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasboard/country-data-service/internal/api"
	"github.com/atlasboard/country-data-service/internal/domain"
	"github.com/atlasboard/country-data-service/internal/observability"
)

type mockSource struct {
	countries []domain.Country
	err       error
	readyErr  error
}

func (m *mockSource) Countries(_ context.Context) ([]domain.Country, error) {
	return m.countries, m.err
}

func (m *mockSource) CheckReadiness(_ context.Context) error { return m.readyErr }

func fixtureCountries() []domain.Country {
	return []domain.Country{
		{Name: "Colombia", Population: 50882891, Area: 1141748, Density: 44.57, Region: "Americas", Subregion: "South America", Languages: "Spanish", Currencies: "COP (Colombian peso)"},
		{Name: "Monaco", Population: 39244, Area: 2.02, Density: 19427.72, Region: "Europe", Subregion: "Western Europe", Languages: "French", Currencies: "EUR (Euro)"},
		{Name: "India", Population: 1380004385, Area: 3287590, Density: 419.76, Region: "Asia", Subregion: "Southern Asia", Languages: "English, Hindi, Tamil", Currencies: "INR (Indian rupee)"},
	}
}

func newTestServer(source api.SnapshotSource) *api.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return api.NewServer(":0", source, observability.NewMetricsForTesting(), logger)
}

func doRequest(t *testing.T, srv *api.Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealthz(t *testing.T) {
	rec := doRequest(t, newTestServer(&mockSource{}), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyz(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		rec := doRequest(t, newTestServer(&mockSource{}), "/readyz")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not ready", func(t *testing.T) {
		src := &mockSource{readyErr: errors.New("no snapshot yet")}
		rec := doRequest(t, newTestServer(src), "/readyz")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		body := decodeBody[map[string]string](t, rec)
		assert.Equal(t, "no snapshot yet", body["error"])
	})
}

func TestMetricsEndpoint(t *testing.T) {
	rec := doRequest(t, newTestServer(&mockSource{}), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestListCountries(t *testing.T) {
	src := &mockSource{countries: fixtureCountries()}
	rec := doRequest(t, newTestServer(src), "/api/v1/countries")

	require.Equal(t, http.StatusOK, rec.Code)
	countries := decodeBody[[]domain.Country](t, rec)
	require.Len(t, countries, 3)
	assert.Equal(t, "Colombia", countries[0].Name)
	assert.Equal(t, 44.57, countries[0].Density)
}

func TestGetCountry(t *testing.T) {
	srv := newTestServer(&mockSource{countries: fixtureCountries()})

	t.Run("case-insensitive lookup", func(t *testing.T) {
		rec := doRequest(t, srv, "/api/v1/countries/monaco")

		require.Equal(t, http.StatusOK, rec.Code)
		c := decodeBody[domain.Country](t, rec)
		assert.Equal(t, "Monaco", c.Name)
		assert.Equal(t, 19427.72, c.Density)
	})

	t.Run("unknown country", func(t *testing.T) {
		rec := doRequest(t, srv, "/api/v1/countries/Atlantis")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Atlantis")
	})
}

func TestTopCountries(t *testing.T) {
	srv := newTestServer(&mockSource{countries: fixtureCountries()})

	t.Run("by population", func(t *testing.T) {
		rec := doRequest(t, srv, "/api/v1/top/population?limit=2")

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[struct {
			Metric string            `json:"metric"`
			Top    []domain.TopEntry `json:"top"`
		}](t, rec)
		assert.Equal(t, "population", body.Metric)
		require.Len(t, body.Top, 2)
		assert.Equal(t, "India", body.Top[0].Name)
		assert.Equal(t, 1380004385.0, body.Top[0].Value)
		assert.Equal(t, "Colombia", body.Top[1].Name)
	})

	t.Run("default limit", func(t *testing.T) {
		rec := doRequest(t, srv, "/api/v1/top/area")

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[struct {
			Top []domain.TopEntry `json:"top"`
		}](t, rec)
		assert.Len(t, body.Top, 3)
	})

	t.Run("density is not rankable", func(t *testing.T) {
		rec := doRequest(t, srv, "/api/v1/top/density")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown metric", func(t *testing.T) {
		rec := doRequest(t, srv, "/api/v1/top/gdp")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid metric")
	})
}

func TestFilterByRegion(t *testing.T) {
	srv := newTestServer(&mockSource{countries: fixtureCountries()})

	t.Run("case-insensitive region", func(t *testing.T) {
		lower := doRequest(t, srv, "/api/v1/filter?region=americas")
		upper := doRequest(t, srv, "/api/v1/filter?region=Americas")

		require.Equal(t, http.StatusOK, lower.Code)
		assert.JSONEq(t, upper.Body.String(), lower.Body.String())

		matched := decodeBody[[]map[string]any](t, lower)
		require.Len(t, matched, 1)
		assert.Equal(t, "Colombia", matched[0]["name"])
		// Reduced projection: no density or languages fields.
		assert.NotContains(t, matched[0], "density")
	})

	t.Run("empty result is a 404 at this boundary", func(t *testing.T) {
		rec := doRequest(t, srv, "/api/v1/filter?region=Atlantis")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Atlantis")
	})

	t.Run("missing region parameter", func(t *testing.T) {
		rec := doRequest(t, srv, "/api/v1/filter")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestStats(t *testing.T) {
	sample := []domain.Country{
		{Name: "A", Area: 10}, {Name: "B", Area: 20},
		{Name: "C", Area: 30}, {Name: "D", Area: 40},
	}
	srv := newTestServer(&mockSource{countries: sample})

	t.Run("area stats with interpretation", func(t *testing.T) {
		rec := doRequest(t, srv, "/api/v1/stats?metric=area")

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[map[string]any](t, rec)
		assert.Equal(t, "area", body["metric"])
		assert.Equal(t, 25.0, body["mean"])
		assert.Equal(t, 25.0, body["median"])
		assert.Equal(t, 125.0, body["variance"])
		assert.Equal(t, 11.18, body["std_dev"])
		assert.Equal(t, false, body["insufficient_data"])
		require.Contains(t, body, "interpretation")
	})

	t.Run("insufficient data sentinel", func(t *testing.T) {
		rec := doRequest(t, srv, "/api/v1/stats?metric=population")

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[map[string]any](t, rec)
		assert.Equal(t, 0.0, body["mean"])
		assert.Equal(t, true, body["insufficient_data"])
		assert.NotContains(t, body, "interpretation")
	})

	t.Run("density is a valid stats metric", func(t *testing.T) {
		rec := doRequest(t, srv, "/api/v1/stats?metric=density")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown metric", func(t *testing.T) {
		rec := doRequest(t, srv, "/api/v1/stats?metric=gdp")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestExtremes(t *testing.T) {
	t.Run("max and min", func(t *testing.T) {
		srv := newTestServer(&mockSource{countries: fixtureCountries()})
		rec := doRequest(t, srv, "/api/v1/extremes?metric=population")

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[struct {
			Max domain.Country `json:"max"`
			Min domain.Country `json:"min"`
		}](t, rec)
		assert.Equal(t, "India", body.Max.Name)
		assert.Equal(t, "Monaco", body.Min.Name)
	})

	t.Run("no data", func(t *testing.T) {
		srv := newTestServer(&mockSource{})
		rec := doRequest(t, srv, "/api/v1/extremes?metric=population")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown metric", func(t *testing.T) {
		srv := newTestServer(&mockSource{})
		rec := doRequest(t, srv, "/api/v1/extremes?metric=gdp")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestIngestionFailureMapsTo502(t *testing.T) {
	src := &mockSource{err: errors.New("upstream timeout")}
	srv := newTestServer(src)

	for _, path := range []string{
		"/api/v1/countries",
		"/api/v1/countries/Colombia",
		"/api/v1/top/population",
		"/api/v1/filter?region=Americas",
		"/api/v1/stats?metric=population",
		"/api/v1/extremes?metric=population",
	} {
		rec := doRequest(t, srv, path)
		assert.Equal(t, http.StatusBadGateway, rec.Code, path)

		body := decodeBody[map[string]string](t, rec)
		assert.Equal(t, "country data unavailable", body["detail"], path)
	}
}
