package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve_CountsByLabel(t *testing.T) {
	m := New("melvis_test")
	m.ObserveIntent("anxiety", "catalog")
	m.ObserveIntent("anxiety", "catalog")
	m.ObserveVideoSearch("fallback")
	m.ObserveAssessment("high")
	m.ObserveChatJob("succeeded")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.IntentsClassified.WithLabelValues("anxiety", "catalog")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VideoSearches.WithLabelValues("fallback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Assessments.WithLabelValues("high")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChatJobs.WithLabelValues("succeeded")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveIntent("general", "catalog")
		m.ObserveVideoSearch("live")
		m.ObserveAssessment("low")
		m.ObserveChatJob("failed")
	})
}

func TestHandler_ExposesPrivateRegistry(t *testing.T) {
	m := New("melvis_test")
	m.ObserveAssessment("moderate")

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `melvis_test_assessments_total{risk_level="moderate"} 1`)
}
