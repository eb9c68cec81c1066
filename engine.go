// Package multipath 实现多路径动态路由引擎
package multipath

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/dep2p/go-multipath/internal/config"
	"github.com/dep2p/go-multipath/internal/core/reevaluator"
	"github.com/dep2p/go-multipath/internal/core/session"
	"github.com/dep2p/go-multipath/pkg/interfaces"
	"github.com/dep2p/go-multipath/pkg/lib/log"
	"github.com/dep2p/go-multipath/pkg/types"
)

var logger = log.Logger("engine")

// CreateOption 会话创建选项
type CreateOption = session.CreateOption

// 会话创建选项（转发自 session 包，调用方无需引用 internal 包）
var (
	// WithPathCount 请求特定的路径数（静默钳制到配置区间）
	WithPathCount = session.WithPathCount
	// WithUserConfig 附加用户级配置覆盖
	WithUserConfig = session.WithUserConfig
	// WithTimeout 覆盖会话超时时长
	WithTimeout = session.WithTimeout
	// WithFragmentSize 覆盖会话分片大小
	WithFragmentSize = session.WithFragmentSize
	// WithEncryption 覆盖会话加密方法
	WithEncryption = session.WithEncryption
)

// ============================================================================
//                              引擎
// ============================================================================

// Engine 多路径路由引擎
//
// 引擎是整个模块的组合根：装配配置仓库、事件总线、会话管理器与
// 周期性重评估服务，并以统一门面对外提供会话操作。
// Engine 的方法可并发调用。
type Engine struct {
	app *fx.App

	// 由 Fx 回填
	store   *config.Store
	bus     interfaces.EventBus
	manager *session.Manager
	service *reevaluator.Service

	mu      sync.Mutex
	started bool
	closed  bool
}

// New 创建引擎实例
//
// 构建期完成所有依赖装配与配置校验；失败时不产生任何后台活动。
// 创建后需调用 Start 启动后台服务（过期清理、周期性重评估）。
func New(opts ...Option) (*Engine, error) {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	engine := &Engine{}
	app, err := buildFxApp(cfg, engine)
	if err != nil {
		return nil, err
	}
	if err := app.Err(); err != nil {
		return nil, err
	}
	engine.app = app

	logger.Info("引擎已创建",
		"minPaths", cfg.routing.MinPathCount,
		"maxPaths", cfg.routing.MaxPathCount,
		"reevaluationInterval", cfg.routing.ReevaluationInterval)
	return engine, nil
}

// Start 启动引擎后台服务
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return types.ErrEngineClosed
	}
	if e.started {
		return types.ErrAlreadyStarted
	}

	if err := e.app.Start(ctx); err != nil {
		return err
	}
	e.started = true
	return nil
}

// Stop 停止引擎并结束所有后台服务
//
// 幂等。停止后引擎不可重新启动。
func (e *Engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	if !e.started {
		return nil
	}
	e.started = false
	return e.app.Stop(ctx)
}

// ============================================================================
//                              会话操作
// ============================================================================

// CreateSession 创建一个多路径路由会话
//
// candidates 为候选中继节点；接入目录协作方时会先做存在性与
// 活跃性校验。返回的 SessionInfo 是创建时刻的快照。
func (e *Engine) CreateSession(ctx context.Context, owner types.Principal, candidates []types.NodeID, opts ...CreateOption) (*types.SessionInfo, error) {
	if err := e.ensureOpen(); err != nil {
		return nil, err
	}
	return e.manager.CreateSession(ctx, owner, candidates, opts...)
}

// Transmit 通过会话的活跃路径分发一次载荷
func (e *Engine) Transmit(ctx context.Context, caller types.Principal, id types.SessionID, payloadSize uint64) (*types.TransferSummary, error) {
	if err := e.ensureOpen(); err != nil {
		return nil, err
	}
	return e.manager.Transmit(ctx, caller, id, payloadSize)
}

// Reevaluate 由会话所有者发起一次按需重评估
//
// candidates 为补充路径的候选池；传 nil 表示只重评分、不补路径。
func (e *Engine) Reevaluate(ctx context.Context, caller types.Principal, id types.SessionID, candidates []types.NodeID) error {
	if err := e.ensureOpen(); err != nil {
		return err
	}
	return e.manager.Reevaluate(ctx, caller, id, candidates)
}

// EndSession 结束一个会话
//
// 幂等：对已结束的会话由同一所有者重复调用返回 nil。
func (e *Engine) EndSession(caller types.Principal, id types.SessionID) error {
	if err := e.ensureOpen(); err != nil {
		return err
	}
	return e.manager.EndSession(caller, id)
}

// SessionInfo 返回会话信息快照
//
// 已结束但仍在近期历史中的会话返回 Expired 状态的快照。
func (e *Engine) SessionInfo(id types.SessionID) (*types.SessionInfo, error) {
	if err := e.ensureOpen(); err != nil {
		return nil, err
	}
	return e.manager.Info(id)
}

// PathStats 返回会话全部路径（含已停用）的统计
func (e *Engine) PathStats(id types.SessionID) ([]*types.PathStats, error) {
	if err := e.ensureOpen(); err != nil {
		return nil, err
	}
	return e.manager.PathStats(id)
}

// Sessions 返回当前活跃会话 ID 列表
func (e *Engine) Sessions() []types.SessionID {
	return e.manager.SessionIDs()
}

// Len 返回当前活跃会话数
func (e *Engine) Len() int {
	return e.manager.Len()
}

// TriggerReevaluation 立即触发一轮系统重评估（不等待周期节拍）
func (e *Engine) TriggerReevaluation(ctx context.Context) error {
	if err := e.ensureOpen(); err != nil {
		return err
	}
	e.service.TriggerNow(ctx)
	return nil
}

// ============================================================================
//                              配置与事件
// ============================================================================

// Config 返回当前路由配置
func (e *Engine) Config() types.RoutingConfig {
	return e.store.Current().Config
}

// ConfigVersion 返回当前配置版本（单调递增，从 1 开始）
func (e *Engine) ConfigVersion() uint64 {
	return e.store.Current().Version
}

// UpdateConfig 应用一次全局配置变更
//
// mutate 在当前配置的副本上修改；整体校验通过后才提交为新版本，
// 失败的更新不产生任何变更。新配置只影响后续操作，
// 进行中的操作按其开始时的快照完成。
func (e *Engine) UpdateConfig(mutate func(*types.RoutingConfig)) (types.RoutingConfig, error) {
	if err := e.ensureOpen(); err != nil {
		return e.store.Current().Config, err
	}
	snap, err := e.store.Update(mutate)
	return snap.Config, err
}

// EventBus 返回引擎事件总线
//
// 所有通知事件类型定义于 pkg/types（EvtSessionCreated、
// EvtPathUpdated 等）。
func (e *Engine) EventBus() interfaces.EventBus {
	return e.bus
}

// ensureOpen 检查引擎未关闭
func (e *Engine) ensureOpen() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return types.ErrEngineClosed
	}
	return nil
}
