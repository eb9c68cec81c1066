// Package metrics 提供引擎的 Prometheus 指标
//
// 指标由会话管理器在操作完成后打点；不注册 Registerer 时
// 使用内部私有注册表，打点成为无副作用操作。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector 引擎指标集合
type Collector struct {
	sessionsActive  prometheus.Gauge
	sessionsCreated prometheus.Counter
	sessionsEnded   prometheus.Counter

	bytesDistributed     prometheus.Counter
	fragmentsDistributed prometheus.Counter

	pathsCreated     prometheus.Counter
	pathsDeactivated prometheus.Counter
	pathScores       prometheus.Histogram

	reevaluations prometheus.Counter
}

// NewCollector 创建指标集合并注册到 reg
//
// reg 为 nil 时注册到私有注册表（指标仍可打点，只是无法抓取）。
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	c := &Collector{
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "multipath",
			Name:      "sessions_active",
			Help:      "当前活跃会话数",
		}),
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "multipath",
			Name:      "sessions_created_total",
			Help:      "累计创建的会话数",
		}),
		sessionsEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "multipath",
			Name:      "sessions_ended_total",
			Help:      "累计结束的会话数（含自然过期）",
		}),
		bytesDistributed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "multipath",
			Name:      "bytes_distributed_total",
			Help:      "累计分发的载荷字节数",
		}),
		fragmentsDistributed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "multipath",
			Name:      "fragments_distributed_total",
			Help:      "累计分发的分片数",
		}),
		pathsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "multipath",
			Name:      "paths_created_total",
			Help:      "累计创建的路径数",
		}),
		pathsDeactivated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "multipath",
			Name:      "paths_deactivated_total",
			Help:      "重评估中被停用的路径数",
		}),
		pathScores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "multipath",
			Name:      "path_score",
			Help:      "重评估后的路径评分分布",
			Buckets:   prometheus.LinearBuckets(0, 100, 11),
		}),
		reevaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "multipath",
			Name:      "reevaluations_total",
			Help:      "累计执行的会话重评估次数",
		}),
	}

	reg.MustRegister(
		c.sessionsActive,
		c.sessionsCreated,
		c.sessionsEnded,
		c.bytesDistributed,
		c.fragmentsDistributed,
		c.pathsCreated,
		c.pathsDeactivated,
		c.pathScores,
		c.reevaluations,
	)

	return c
}

// SessionCreated 会话创建打点
func (c *Collector) SessionCreated() {
	c.sessionsCreated.Inc()
	c.sessionsActive.Inc()
}

// SessionEnded 会话结束打点
func (c *Collector) SessionEnded() {
	c.sessionsEnded.Inc()
	c.sessionsActive.Dec()
}

// DataTransferred 数据分发打点
func (c *Collector) DataTransferred(bytes uint64, fragments int) {
	c.bytesDistributed.Add(float64(bytes))
	c.fragmentsDistributed.Add(float64(fragments))
}

// PathCreated 路径创建打点
func (c *Collector) PathCreated(score int) {
	c.pathsCreated.Inc()
	c.pathScores.Observe(float64(score))
}

// PathDeactivated 路径停用打点
func (c *Collector) PathDeactivated() {
	c.pathsDeactivated.Inc()
}

// PathRescored 路径重评分打点
func (c *Collector) PathRescored(score int) {
	c.pathScores.Observe(float64(score))
}

// Reevaluated 会话重评估打点
func (c *Collector) Reevaluated() {
	c.reevaluations.Inc()
}
