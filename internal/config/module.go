// Package config 提供全局路由配置仓库
package config

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-multipath/pkg/types"
)

// ============================================================================
//                              Fx 模块
// ============================================================================

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Store *Store
}

// Module 返回 Fx 模块
func Module(initial types.RoutingConfig) fx.Option {
	return fx.Module("config",
		fx.Provide(func() (Result, error) {
			store, err := NewStore(initial)
			if err != nil {
				return Result{}, err
			}
			return Result{Store: store}, nil
		}),
	)
}

// ============================================================================
//                              模块元信息
// ============================================================================

const (
	// Version 模块版本
	Version = "1.0.0"
	// Name 模块名称
	Name = "config"
	// Description 模块描述
	Description = "路由配置仓库，提供版本化快照与原子更新"
)
