// Package session 实现路由会话与会话管理器
//
// Session 是并发与所有权的单位：每个会话一把互斥锁，
// 同一会话上的 Transmit 与 Reevaluate 串行执行；
// 只读查询返回快照，不暴露内部状态。
package session

import (
	"sync"
	"time"

	"github.com/dep2p/go-multipath/internal/core/path"
	"github.com/dep2p/go-multipath/pkg/types"
)

// Session 一个路由会话
//
// 所有字段由 mu 保护（经 Manager 的操作路径获取）。
// 会话只有两个状态：Active（now < expiryTime）与 Expired。
// EndSession 把 expiryTime 置为当前时刻，立即进入 Expired。
type Session struct {
	mu sync.Mutex

	id    types.SessionID
	owner types.Principal

	paths  []*path.Path              // 有序路径列表，只增不删
	active map[types.PathID]struct{} // 活跃路径集合，恒为 paths 的子集

	createdAt  time.Time
	lastActive time.Time
	expiryTime time.Time

	lastReevaluated time.Time // 周期性重评估的节拍依据

	fragmentSize    int
	encryption      types.EncryptionMethod
	user            *types.UserConfig
	protocolVersion int

	totalBytes uint64

	// ended 终结标记：SessionEnded 事件只发布一次
	ended bool
}

// expired 判断会话在 now 时刻是否已过期
func (s *Session) expired(now time.Time) bool {
	return !now.Before(s.expiryTime)
}

// activeCount 返回活跃路径数
func (s *Session) activeCount() int {
	return len(s.active)
}

// activatePath 把路径追加到列表并加入活跃集
func (s *Session) activatePath(p *path.Path) {
	p.Active = true
	s.paths = append(s.paths, p)
	s.active[p.ID] = struct{}{}
}

// deactivatePath 把路径移出活跃集（仍保留在列表中）
func (s *Session) deactivatePath(p *path.Path) {
	p.Active = false
	delete(s.active, p.ID)
}

// usedRegions 返回活跃路径占用的区域集合
func (s *Session) usedRegions(regions map[types.NodeID]string) map[string]struct{} {
	if len(regions) == 0 {
		return nil
	}
	used := make(map[string]struct{})
	for _, p := range s.paths {
		if !p.Active {
			continue
		}
		for _, n := range p.NodeIDs {
			if r, ok := regions[n]; ok && r != "" {
				used[r] = struct{}{}
			}
		}
	}
	return used
}

// info 生成会话快照，调用方需持有会话锁
func (s *Session) info(now time.Time) *types.SessionInfo {
	state := types.SessionStateActive
	if s.expired(now) {
		state = types.SessionStateExpired
	}

	return &types.SessionInfo{
		ID:              s.id,
		Owner:           s.owner,
		State:           state,
		PathCount:       len(s.paths),
		ActivePathCount: len(s.active),
		CreatedAt:       s.createdAt,
		LastActive:      s.lastActive,
		ExpiryTime:      s.expiryTime,
		FragmentSize:    s.fragmentSize,
		Encryption:      s.encryption,
		ProtocolVersion: s.protocolVersion,
		TotalBytes:      s.totalBytes,
	}
}

// pathStats 生成全部路径的快照，调用方需持有会话锁
func (s *Session) pathStats() []*types.PathStats {
	out := make([]*types.PathStats, 0, len(s.paths))
	for _, p := range s.paths {
		out = append(out, p.ToStats())
	}
	return out
}
