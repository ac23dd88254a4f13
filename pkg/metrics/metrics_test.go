package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersOnPrivateRegistry(t *testing.T) {
	m1 := New(prometheus.NewRegistry())
	m2 := New(prometheus.NewRegistry())

	m1.DocsIndexedTotal.Add(3)
	m2.DocsIndexedTotal.Inc()
	m1.IndexKeys.WithLabelValues("words").Set(42)

	assert.Equal(t, 3.0, testutil.ToFloat64(m1.DocsIndexedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m2.DocsIndexedTotal))
	assert.Equal(t, 42.0, testutil.ToFloat64(m1.IndexKeys.WithLabelValues("words")))
}

func TestHandlerServesCollectors(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.SearchQueriesTotal.WithLabelValues("hit").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `search_queries_total{result_type="hit"} 1`)
}
