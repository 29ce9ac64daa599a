package web

import (
	"encoding/json"
	"image/png"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gamma-omg/stock-dashboard/internal/cache"
	"github.com/gamma-omg/stock-dashboard/internal/chart"
	"github.com/gamma-omg/stock-dashboard/internal/config"
	"github.com/gamma-omg/stock-dashboard/internal/dashboard"
	"github.com/gamma-omg/stock-dashboard/internal/metrics"
	"github.com/gamma-omg/stock-dashboard/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stocks = `date,open,high,low,close,adj_close,volume
2022-01-03,605.61,609.99,590.56,597.37,597.37,3067500
2022-01-04,599.91,600.41,581.6,591.15,591.15,N/A
2023-01-03,298.06,298.39,288.7,294.95,294.95,6764000
`

func newTestServer(t *testing.T, data string) (*httptest.Server, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "NFLX_stocks.csv")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg := config.Config{}
	cfg.ApplyDefaults()
	cfg.Chart.Width, cfg.Chart.Height = 400, 300

	m := metrics.New("test")
	d := dashboard.New(slog.Default(), cfg.Chart, source.NewCSV(path), cache.NewDatasetCache(slog.Default(), m), m)

	h, err := NewServer(slog.Default(), cfg.Server, d, m).Router()
	require.NoError(t, err)

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts, path
}

func getJSON(t *testing.T, url string, status int, v any) {
	t.Helper()

	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, status, res.StatusCode)
	require.Equal(t, "application/json", res.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(res.Body).Decode(v))
}

func TestYears(t *testing.T) {
	ts, _ := newTestServer(t, stocks)

	var resp YearsResponse
	getJSON(t, ts.URL+"/api/years", http.StatusOK, &resp)

	assert.Equal(t, []int{2022, 2023}, resp.Years)
	require.NotNil(t, resp.Default)
	assert.Equal(t, 2023, *resp.Default)
}

func TestYears_Empty(t *testing.T) {
	ts, _ := newTestServer(t, "date,open,high,low,close,adj_close,volume\n")

	var resp YearsResponse
	getJSON(t, ts.URL+"/api/years", http.StatusOK, &resp)

	assert.Empty(t, resp.Years)
	assert.Nil(t, resp.Default)
}

func TestChart(t *testing.T) {
	ts, _ := newTestServer(t, stocks)

	var ch chart.Chart
	getJSON(t, ts.URL+"/api/chart/2022", http.StatusOK, &ch)

	require.Len(t, ch.Price, 2)
	require.Len(t, ch.Volume, 2)
	assert.Equal(t, "2022-01-03", ch.Price[0].Date)
	assert.Equal(t, chart.Decrease, ch.Volume[0].Color)
	assert.False(t, ch.Volume[1].Volume.Valid)
	assert.Equal(t, "2022 — Candlestick with Trading Volume", ch.Subtitle)
}

func TestChart_UnknownYear(t *testing.T) {
	ts, _ := newTestServer(t, stocks)

	var ch chart.Chart
	getJSON(t, ts.URL+"/api/chart/1999", http.StatusOK, &ch)
	assert.Empty(t, ch.Price)
	assert.Empty(t, ch.Volume)
}

func TestChart_InvalidYear(t *testing.T) {
	ts, _ := newTestServer(t, stocks)

	var resp errorResponse
	getJSON(t, ts.URL+"/api/chart/latest", http.StatusBadRequest, &resp)
	assert.Contains(t, resp.Error, "latest")
}

func TestChart_LoadError(t *testing.T) {
	ts, _ := newTestServer(t, "date,open,high,low,close,adj_close,volume\nnope,1,1,1,1,1,1\n")

	var resp errorResponse
	getJSON(t, ts.URL+"/api/chart/2022", http.StatusInternalServerError, &resp)
	assert.Contains(t, resp.Error, "nope")
}

func TestChartPNG(t *testing.T) {
	ts, _ := newTestServer(t, stocks)

	res, err := http.Get(ts.URL + "/api/chart/2022/png")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "image/png", res.Header.Get("Content-Type"))

	_, err = png.Decode(res.Body)
	require.NoError(t, err)
}

func TestReload(t *testing.T) {
	ts, path := newTestServer(t, stocks)

	var years YearsResponse
	getJSON(t, ts.URL+"/api/years", http.StatusOK, &years)
	assert.Equal(t, []int{2022, 2023}, years.Years)

	require.NoError(t, os.WriteFile(path, []byte(stocks+"2024-01-02,480,485,470,475,475,5000000\n"), 0o644))

	res, err := http.Post(ts.URL+"/api/reload", "application/json", nil)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var reload ReloadResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&reload))
	assert.Equal(t, 4, reload.Records)

	getJSON(t, ts.URL+"/api/years", http.StatusOK, &years)
	assert.Equal(t, []int{2022, 2023, 2024}, years.Years)
}

func TestInvalidate(t *testing.T) {
	ts, path := newTestServer(t, stocks)

	var years YearsResponse
	getJSON(t, ts.URL+"/api/years", http.StatusOK, &years)
	assert.Equal(t, []int{2022, 2023}, years.Years)

	require.NoError(t, os.WriteFile(path, []byte(stocks+"2024-01-02,480,485,470,475,475,5000000\n"), 0o644))

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/cache", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusNoContent, res.StatusCode)

	getJSON(t, ts.URL+"/api/years", http.StatusOK, &years)
	assert.Equal(t, []int{2022, 2023, 2024}, years.Years)
}

func TestChart_OutOfRangeCells(t *testing.T) {
	ts, _ := newTestServer(t, `date,open,high,low,close,adj_close,volume
2022-01-03,605.61,1e400,590.56,597.37,597.37,1e10000000
2022-01-04,599.91,600.41,581.6,591.15,591.15,4393100
`)

	var ch chart.Chart
	getJSON(t, ts.URL+"/api/chart/2022", http.StatusOK, &ch)

	require.Len(t, ch.Price, 2)
	assert.False(t, ch.Price[0].High.Valid)
	assert.False(t, ch.Volume[0].Volume.Valid)
	assert.True(t, ch.Volume[1].Volume.Valid)
}

func TestWriteJSON_EncodeError(t *testing.T) {
	s := NewServer(slog.Default(), config.Server{}, nil, nil)

	rec := httptest.NewRecorder()
	s.writeJSON(rec, http.StatusOK, map[string]float64{"v": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "failed to encode response")
}

func TestIndexAndMetrics(t *testing.T) {
	ts, _ := newTestServer(t, stocks)

	res, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), "Select Year")

	var ch chart.Chart
	getJSON(t, ts.URL+"/api/chart/2023", http.StatusOK, &ch)

	res, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, err = io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "test_chart_requests_total"))
	assert.True(t, strings.Contains(string(body), "test_dataset_cache_misses_total"))
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t, stocks)

	res, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
