// Package metrics 提供引擎的 Prometheus 指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// ============================================================================
//                              Fx 模块
// ============================================================================

// Params Fx 模块输入参数
type Params struct {
	fx.In

	Registerer prometheus.Registerer `optional:"true"`
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Collector *Collector
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(ProvideCollector),
	)
}

// ProvideCollector 提供 Collector 实例
func ProvideCollector(p Params) Result {
	return Result{
		Collector: NewCollector(p.Registerer),
	}
}

// ============================================================================
//                              模块元信息
// ============================================================================

const (
	// Version 模块版本
	Version = "1.0.0"
	// Name 模块名称
	Name = "metrics"
	// Description 模块描述
	Description = "Prometheus 指标模块，暴露会话与路径统计"
)
