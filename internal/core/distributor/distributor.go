// Package distributor 实现出站载荷的分片分配
//
// 给定载荷大小与会话当前的活跃路径，按存储顺序把分片轮转分配到
// 各路径上。本包只产出分配计划（纯计算），字节计数的落账由
// 会话管理器在会话锁内完成。
package distributor

import (
	"fmt"

	"github.com/dep2p/go-multipath/internal/core/path"
	"github.com/dep2p/go-multipath/pkg/types"
)

// Share 单条路径在一次分发中分得的字节数
type Share struct {
	Path  types.PathID
	Bytes uint64
}

// Plan 一次分发的分配计划
type Plan struct {
	FragmentCount int     // 分片数
	TotalBytes    uint64  // 分配的总字节数（等于载荷大小）
	Shares        []Share // 按分配顺序排列；同一路径可能出现多次（多轮分配）
}

// BytesByPath 汇总各路径分得的字节数
func (p *Plan) BytesByPath() map[types.PathID]uint64 {
	out := make(map[types.PathID]uint64, len(p.Shares))
	for _, s := range p.Shares {
		out[s.Path] += s.Bytes
	}
	return out
}

// Distribute 计算分片分配计划
//
// 算法：
//
//	fragmentCount    = ceil(payloadSize / fragmentSize)
//	perPathFragments = ceil(fragmentCount / activeCount)
//
// 按路径列表的存储顺序遍历活跃路径，每条分得
// min(perPathFragments*fragmentSize, remaining) 字节。单轮分配不足以
// 覆盖整个载荷时继续下一轮（轮转），直到 remaining == 0，
// 保证载荷总是被完整覆盖。
//
// 活跃路径为空时返回 ErrNoActivePaths，不产生任何分配。
func Distribute(paths []*path.Path, payloadSize uint64, fragmentSize int) (*Plan, error) {
	if payloadSize == 0 {
		return nil, types.ErrInvalidPayload
	}
	if fragmentSize <= 0 {
		return nil, fmt.Errorf("%w: fragment size %d", types.ErrInvalidRange, fragmentSize)
	}

	active := make([]*path.Path, 0, len(paths))
	for _, p := range paths {
		if p.Active {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return nil, types.ErrNoActivePaths
	}

	fragSize := uint64(fragmentSize)
	fragmentCount := int((payloadSize + fragSize - 1) / fragSize)
	perPathFragments := (fragmentCount + len(active) - 1) / len(active)
	chunk := uint64(perPathFragments) * fragSize

	plan := &Plan{
		FragmentCount: fragmentCount,
		TotalBytes:    payloadSize,
	}

	remaining := payloadSize
	for remaining > 0 {
		for _, p := range active {
			if remaining == 0 {
				break
			}
			n := chunk
			if n > remaining {
				n = remaining
			}
			plan.Shares = append(plan.Shares, Share{Path: p.ID, Bytes: n})
			remaining -= n
		}
	}

	return plan, nil
}
