package restcountries

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/atlasboard/country-data-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_FetchAll_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("fields"), "population")
		assert.Contains(t, r.URL.Query().Get("fields"), "currencies")

		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`[
			{"name":{"common":"Colombia"},"population":50882891,"area":1141748,"region":"Americas"},
			{"name":{"common":"Monaco"},"population":39244,"area":2.02,"region":"Europe"}
		]`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	raw, err := c.FetchAll(context.Background())
	require.NoError(t, err)

	require.Len(t, raw, 2)
	require.NotNil(t, raw[0].Name)
	assert.Equal(t, "Colombia", raw[0].Name.Common)
	require.NotNil(t, raw[1].Area)
	assert.Equal(t, 2.02, *raw[1].Area)
	assert.Nil(t, raw[0].Subregion)
}

func TestClient_FetchAll_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`upstream exploded`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	_, err := c.FetchAll(context.Background())
	require.ErrorIs(t, err, ErrIngestion)
	assert.Contains(t, err.Error(), "500")
}

func TestClient_FetchAll_MalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	_, err := c.FetchAll(context.Background())
	require.ErrorIs(t, err, ErrIngestion)
	assert.Contains(t, err.Error(), "decode")
}

func TestClient_FetchAll_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 50*time.Millisecond)
	_, err := c.FetchAll(context.Background())
	require.ErrorIs(t, err, ErrIngestion)
}

func TestClient_FetchAll_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := testClient(srv.URL, 5*time.Second)
	_, err := c.FetchAll(ctx)
	require.ErrorIs(t, err, ErrIngestion)
}
