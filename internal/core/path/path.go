// Package path 实现路径聚合与路径选择
//
// Path 是会话内的一条候选中继链。路径由所属会话的锁保护，
// 本包不做自己的并发控制；会话外只通过 ToStats 快照读取。
package path

import (
	"time"

	"github.com/dep2p/go-multipath/pkg/types"
)

// Path 一条中继路径
//
// 路径创建后永不物理删除：被停用的路径移出活跃集，
// 但仍保留在会话的路径列表中供审计与历史查询。
type Path struct {
	ID      types.PathID
	NodeIDs []types.NodeID // 中继链，有序

	Score   int // 当前评分 [0,1000]
	Metrics types.PathMetrics

	Active bool

	CreatedAt     time.Time
	LastEvaluated time.Time

	TotalBytes uint64 // 经该路径分发的累计字节数
}

// ToStats 返回路径只读快照
func (p *Path) ToStats() *types.PathStats {
	nodes := make([]types.NodeID, len(p.NodeIDs))
	copy(nodes, p.NodeIDs)

	return &types.PathStats{
		ID:            p.ID,
		NodeIDs:       nodes,
		Score:         p.Score,
		Metrics:       p.Metrics,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		LastEvaluated: p.LastEvaluated,
		TotalBytes:    p.TotalBytes,
	}
}

// Snapshot 重评估用的轻量快照
//
// 在会话锁外调用监控协作方时使用，避免长时间持锁。
type Snapshot struct {
	ID      types.PathID
	NodeIDs []types.NodeID
	Last    types.PathMetrics
}

// Snapshot 生成探测快照
func (p *Path) Snapshot() Snapshot {
	nodes := make([]types.NodeID, len(p.NodeIDs))
	copy(nodes, p.NodeIDs)

	return Snapshot{
		ID:      p.ID,
		NodeIDs: nodes,
		Last:    p.Metrics,
	}
}
