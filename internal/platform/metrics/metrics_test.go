package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfsvc/internal/domain/performance"
)

func TestCollectorCounts(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(500, 20*time.Millisecond)
	c.Transition("goal", "InProgress", "Completed")
	c.VolumeWarning(performance.EntityGoal)
	c.VolumeRejected(performance.EntityFeedback)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.requestsTotal.WithLabelValues("500")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.transitions.WithLabelValues("goal", "InProgress", "Completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.volumeWarnings.WithLabelValues("Goal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.volumeRejected.WithLabelValues("ReviewFeedback")))
}

func TestCollectorsDoNotCollide(t *testing.T) {
	first := New()
	second := New()
	first.Transition("pip", "Active", "Completed")
	assert.Equal(t, 0.0, testutil.ToFloat64(second.transitions.WithLabelValues("pip", "Active", "Completed")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.Record(201, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `perfsvc_http_requests_total{code="201"} 1`)
}
