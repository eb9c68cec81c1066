// Package config 提供全局路由配置仓库
//
// RoutingConfig 是读多写少的共享状态。仓库以版本化快照（copy-on-write）
// 方式保存配置：读取方拿到的是不可变快照，单次会话操作期间观察到的
// 配置恒定；更新先整体校验、后原子替换，失败的更新不产生任何变更。
package config

import (
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-multipath/pkg/lib/log"
	"github.com/dep2p/go-multipath/pkg/types"
)

var logger = log.Logger("config")

// Snapshot 配置快照
//
// 对调用方只读。Version 单调递增，从 1 开始。
type Snapshot struct {
	Version uint64
	Config  types.RoutingConfig
}

// Store 配置仓库
type Store struct {
	// updateMu 串行化更新方；读取方不经过该锁
	updateMu sync.Mutex

	current atomic.Pointer[Snapshot]
}

// NewStore 创建配置仓库
//
// 初始配置必须合法，否则返回校验错误。
func NewStore(initial types.RoutingConfig) (*Store, error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}

	s := &Store{}
	s.current.Store(&Snapshot{Version: 1, Config: initial})
	return s, nil
}

// Current 返回当前配置快照
func (s *Store) Current() Snapshot {
	return *s.current.Load()
}

// Update 应用一次配置变更
//
// mutate 在当前配置的副本上修改；修改结果整体校验通过后
// 才会作为新版本提交。校验失败时仓库保持原版本不变。
func (s *Store) Update(mutate func(*types.RoutingConfig)) (Snapshot, error) {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	old := s.current.Load()
	next := old.Config
	mutate(&next)

	if err := next.Validate(); err != nil {
		return *old, err
	}

	snap := &Snapshot{
		Version: old.Version + 1,
		Config:  next,
	}
	s.current.Store(snap)

	logger.Info("路由配置已更新",
		"version", snap.Version,
		"minPaths", next.MinPathCount,
		"maxPaths", next.MaxPathCount,
		"fragmentSize", next.FragmentSize)

	return *snap, nil
}
