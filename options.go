// Package multipath 实现多路径动态路由引擎
package multipath

import (
	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-multipath/pkg/interfaces"
	"github.com/dep2p/go-multipath/pkg/types"
)

// engineConfig 引擎构建配置
type engineConfig struct {
	routing    types.RoutingConfig
	directory  interfaces.NodeDirectory
	probe      interfaces.MetricsProbe
	source     interfaces.CandidateSource
	clock      clock.Clock
	registerer prometheus.Registerer
	dirCache   int
	userFxOpts []fx.Option
}

// defaultEngineConfig 返回默认引擎配置
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		routing: types.DefaultRoutingConfig(),
	}
}

// Option 引擎构建选项
type Option func(*engineConfig)

// WithRoutingConfig 指定初始路由配置
//
// 配置在引擎构建时整体校验，非法配置使 New 失败。
func WithRoutingConfig(cfg types.RoutingConfig) Option {
	return func(c *engineConfig) {
		c.routing = cfg
	}
}

// WithDirectory 接入节点目录协作方
//
// 接入后候选节点经目录校验（过滤不活跃节点），
// 并启用区域感知选路。查询结果经 LRU 缓存。
func WithDirectory(dir interfaces.NodeDirectory) Option {
	return func(c *engineConfig) {
		c.directory = dir
	}
}

// WithDirectoryCacheSize 指定目录缓存条目数
func WithDirectoryCacheSize(n int) Option {
	return func(c *engineConfig) {
		c.dirCache = n
	}
}

// WithProbe 接入监控协作方
//
// 不接入时使用内置合成探测。
func WithProbe(p interfaces.MetricsProbe) Option {
	return func(c *engineConfig) {
		c.probe = p
	}
}

// WithCandidateSource 接入周期性重评估的候选池来源
//
// 不接入时周期性重评估只重评分，不补充路径。
func WithCandidateSource(s interfaces.CandidateSource) Option {
	return func(c *engineConfig) {
		c.source = s
	}
}

// WithClock 注入时钟协作方（测试用 mock 时钟）
func WithClock(clk clock.Clock) Option {
	return func(c *engineConfig) {
		c.clock = clk
	}
}

// WithPrometheusRegisterer 指定指标注册表
//
// 不指定时指标注册到私有注册表，不对外暴露。
func WithPrometheusRegisterer(reg prometheus.Registerer) Option {
	return func(c *engineConfig) {
		c.registerer = reg
	}
}

// WithFxOption 附加用户自定义 Fx 选项（扩展用）
func WithFxOption(opts ...fx.Option) Option {
	return func(c *engineConfig) {
		c.userFxOpts = append(c.userFxOpts, opts...)
	}
}
