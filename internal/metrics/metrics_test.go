package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordMutation("assign")
	c.RecordMutation("assign")
	c.RecordRejected("add")
	c.RecordLoad(LoadSuccess, 20*time.Millisecond)
	c.SetShiftCount(12)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.mutations.WithLabelValues("assign")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rejected.WithLabelValues("add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.loads.WithLabelValues(LoadSuccess)))
	assert.Equal(t, 12.0, testutil.ToFloat64(c.shiftsInView))
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordMutation("swap")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	resp := w.Result()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `shift_board_mutations_total{op="swap"} 1`)
}
