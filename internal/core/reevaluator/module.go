// Package reevaluator 实现周期性路径重评估服务
package reevaluator

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-multipath/internal/config"
	"github.com/dep2p/go-multipath/internal/core/session"
	"github.com/dep2p/go-multipath/pkg/interfaces"
)

// ============================================================================
//                              Fx 模块
// ============================================================================

// Params Fx 模块输入参数
type Params struct {
	fx.In

	Manager *session.Manager
	Store   *config.Store
	Source  interfaces.CandidateSource `optional:"true"`
	Clock   clock.Clock                `optional:"true"`
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Service *Service
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("reevaluator",
		fx.Provide(ProvideService),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideService 提供 Service 实例
func ProvideService(p Params) Result {
	return Result{
		Service: NewService(p.Manager, p.Store, p.Source, p.Clock),
	}
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In

	LC      fx.Lifecycle
	Service *Service
}

// registerLifecycle 注册生命周期
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return input.Service.Start(ctx)
		},
		OnStop: func(_ context.Context) error {
			return input.Service.Stop()
		},
	})
}

// ============================================================================
//                              模块元信息
// ============================================================================

const (
	// Version 模块版本
	Version = "1.0.0"
	// Name 模块名称
	Name = "reevaluator"
	// Description 模块描述
	Description = "周期性路径重评估服务，驱动指标刷新与活跃集修复"
)
