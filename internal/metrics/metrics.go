// Package metrics 提供 Prometheus 指标的收集与暴露
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	LoadSuccess   = "success"
	LoadFailure   = "failure"
	LoadDiscarded = "discarded"
)

// Recorder 由 store 调用
type Recorder interface {
	RecordMutation(op string)
	RecordRejected(op string)
	RecordLoad(outcome string, duration time.Duration)
	SetShiftCount(n int)
}

type Collector struct {
	mutations    *prometheus.CounterVec
	rejected     *prometheus.CounterVec
	loads        *prometheus.CounterVec
	loadLatency  prometheus.Histogram
	shiftsInView prometheus.Gauge
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shift_board_mutations_total",
			Help: "已成功执行的排班变更次数",
		}, []string{"op"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shift_board_mutations_rejected_total",
			Help: "被拒绝的排班变更次数",
		}, []string{"op"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shift_board_fixture_loads_total",
			Help: "排班数据加载次数",
		}, []string{"outcome"}),
		loadLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shift_board_fixture_load_duration_seconds",
			Help:    "排班数据加载耗时",
			Buckets: prometheus.DefBuckets,
		}),
		shiftsInView: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shift_board_shifts",
			Help: "当前内存中的班次数量",
		}),
	}

	reg.MustRegister(
		c.mutations,
		c.rejected,
		c.loads,
		c.loadLatency,
		c.shiftsInView,
	)

	return c
}

func (c *Collector) RecordMutation(op string) {
	c.mutations.WithLabelValues(op).Inc()
}

func (c *Collector) RecordRejected(op string) {
	c.rejected.WithLabelValues(op).Inc()
}

func (c *Collector) RecordLoad(outcome string, duration time.Duration) {
	c.loads.WithLabelValues(outcome).Inc()
	c.loadLatency.Observe(duration.Seconds())
}

func (c *Collector) SetShiftCount(n int) {
	c.shiftsInView.Set(float64(n))
}

// Nop 不记录任何指标
type Nop struct{}

func (Nop) RecordMutation(string)            {}
func (Nop) RecordRejected(string)            {}
func (Nop) RecordLoad(string, time.Duration) {}
func (Nop) SetShiftCount(int)                {}

// Handler 返回供 Prometheus 抓取的 HTTP handler
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
