package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	m := New("test")
	m.CacheHits.Inc()
	m.ChartRequests.WithLabelValues("json").Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ChartRequests.WithLabelValues("json")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "test_dataset_cache_hits_total 1")
	assert.Contains(t, string(body), `test_chart_requests_total{format="json"} 2`)
}

func TestNew_Independent(t *testing.T) {
	a := New("test")
	b := New("test")
	a.CacheMisses.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.CacheMisses))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CacheMisses))
}
