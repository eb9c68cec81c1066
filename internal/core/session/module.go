// Package session 实现路由会话与会话管理器
package session

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-multipath/internal/config"
	"github.com/dep2p/go-multipath/internal/core/metrics"
	"github.com/dep2p/go-multipath/pkg/interfaces"
)

// ============================================================================
//                              Fx 模块
// ============================================================================

// Params Fx 模块输入参数
type Params struct {
	fx.In

	Store     *config.Store
	EventBus  interfaces.EventBus
	Collector *metrics.Collector `optional:"true"`
	Options   Options            `optional:"true"`
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Manager *Manager
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("session",
		fx.Provide(ProvideManager),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideManager 提供 Manager 实例
func ProvideManager(p Params) (Result, error) {
	opts := p.Options
	if opts.Collector == nil {
		opts.Collector = p.Collector
	}
	mgr, err := NewManager(p.Store, p.EventBus, opts)
	if err != nil {
		return Result{}, err
	}
	return Result{Manager: mgr}, nil
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In

	LC      fx.Lifecycle
	Manager *Manager
}

// registerLifecycle 注册生命周期
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return input.Manager.Start(ctx)
		},
		OnStop: func(_ context.Context) error {
			return input.Manager.Stop()
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
	Name = "session"
	// Description 模块描述
	Description = "会话管理模块，负责会话生命周期、分发与重评估入口"
)
