// Package multipath 实现多路径动态路由引擎
package multipath

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-multipath/internal/config"
	"github.com/dep2p/go-multipath/internal/core/directory"
	"github.com/dep2p/go-multipath/internal/core/eventbus"
	"github.com/dep2p/go-multipath/internal/core/metrics"
	"github.com/dep2p/go-multipath/internal/core/reevaluator"
	"github.com/dep2p/go-multipath/internal/core/session"
	"github.com/dep2p/go-multipath/pkg/interfaces"
)

// buildFxApp 构建 Fx 应用
//
// 组装顺序（按依赖）：
//  1. 配置仓库 → 事件总线 → 指标
//  2. 会话管理器（注入目录/探测/时钟）
//  3. 重评估服务
func buildFxApp(cfg *engineConfig, engine *Engine) (*fx.App, error) {
	// ════════════════════════════════════════════════════════════════════
	// 1. 配置校验（前置）
	// ════════════════════════════════════════════════════════════════════
	if err := cfg.routing.Validate(); err != nil {
		return nil, fmt.Errorf("routing config validation failed: %w", err)
	}

	// 目录协作方包一层 LRU 缓存
	var dir interfaces.NodeDirectory
	if cfg.directory != nil {
		cached, err := directory.NewCache(cfg.directory, cfg.dirCache)
		if err != nil {
			return nil, err
		}
		dir = cached
	}

	managerOpts := session.Options{
		Probe:     cfg.probe,
		Directory: dir,
		Clock:     cfg.clock,
	}

	modules := []fx.Option{
		config.Module(cfg.routing),
		eventbus.Module(),
		metrics.Module(),
		session.Module(),
		reevaluator.Module(),
		fx.Supply(managerOpts),
	}

	// ════════════════════════════════════════════════════════════════════
	// 2. 可选协作方
	// ════════════════════════════════════════════════════════════════════
	if cfg.registerer != nil {
		reg := cfg.registerer
		modules = append(modules, fx.Provide(func() prometheus.Registerer { return reg }))
	}
	if cfg.source != nil {
		src := cfg.source
		modules = append(modules, fx.Provide(func() interfaces.CandidateSource { return src }))
	}
	if cfg.clock != nil {
		clk := cfg.clock
		modules = append(modules, fx.Provide(func() clock.Clock { return clk }))
	}

	// ════════════════════════════════════════════════════════════════════
	// 3. 用户扩展与组件回填
	// ════════════════════════════════════════════════════════════════════
	modules = append(modules, cfg.userFxOpts...)

	modules = append(modules,
		fx.Populate(&engine.store, &engine.bus, &engine.manager, &engine.service),

		// 禁用 Fx 自身的日志输出（避免干扰引擎日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	return fx.New(modules...), nil
}
