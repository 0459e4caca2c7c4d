package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveLoadDuration("fs", 150*time.Millisecond)
	pr.IncLoadOutcome("fs", ResultSuccess)
	pr.IncLoadOutcome("fs", ResultPartial)
	pr.IncLoadOutcome("fs", ResultSuccess)
	pr.SetIndexedPosts(42)
	pr.AddSkippedRecords("fs", 2)
	pr.AddSkippedRecords("fs", 0)
	pr.IncSnapshotSwap()
	pr.IncReloadRetry("git")
	pr.IncQuery(QueryRelated)
	pr.IncQuery(QueryRelated)

	assert.InDelta(t, 2, testutil.ToFloat64(pr.loadOutcomes.WithLabelValues("fs", "success")), 0)
	assert.InDelta(t, 42, testutil.ToFloat64(pr.indexedPosts), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(pr.skipped.WithLabelValues("fs")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.swaps), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(pr.queries.WithLabelValues("related")), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncSnapshotSwap()
		pr.SetIndexedPosts(1)
		pr.IncQuery(QueryFilter)
	})
}

func TestHTTPHandler_ServesRegistry(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).SetIndexedPosts(7)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "postindex_indexed_posts 7"))
}
