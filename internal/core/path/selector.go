// Package path 实现路径聚合与路径选择
package path

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand"
	"sync"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-multipath/internal/core/scoring"
	"github.com/dep2p/go-multipath/pkg/lib/log"
	"github.com/dep2p/go-multipath/pkg/types"
)

var logger = log.Logger("core/path")

// 新路径的占位初始指标，首次重评估后被实测值替换
var initialMetrics = types.PathMetrics{
	LatencyMs:    100,
	CapacityMbps: 100,
	Security:     800,
	GeoDiversity: 500,
}

// Selector 路径选择器
//
// 从候选节点池构建新路径。洗牌使用 crypto/rand 播种的 PRNG，
// 不使用可预测的时钟种子。
type Selector struct {
	rngMu sync.Mutex
	rng   *mrand.Rand

	clock clock.Clock
}

// NewSelector 创建路径选择器
func NewSelector(clk clock.Clock) *Selector {
	var seed int64
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err == nil {
		seed = int64(binary.LittleEndian.Uint64(buf[:]))
	} else {
		// crypto/rand 不可用时退回时钟种子
		seed = clk.Now().UnixNano()
	}

	return &Selector{
		rng:   mrand.New(mrand.NewSource(seed)),
		clock: clk,
	}
}

// NewSelectorWithSeed 创建固定种子的选择器（测试用）
func NewSelectorWithSeed(clk clock.Clock, seed int64) *Selector {
	return &Selector{
		rng:   mrand.New(mrand.NewSource(seed)),
		clock: clk,
	}
}

// BuildRequest 一次路径构建请求
type BuildRequest struct {
	// Candidates 候选节点池（调用方提供的只读输入）
	Candidates []types.NodeID

	// Desired 期望的路径数；越界时静默钳制到 [MinPathCount, MaxPathCount]
	Desired int

	// Exact 跳过钳制，精确构建 Desired 条路径
	//
	// 重评估补充活跃集时使用：需要的条数可能小于 MinPathCount。
	Exact bool

	// Config 该会话的生效配置（已合并 UserConfig）
	Config types.RoutingConfig

	// User 可选的会话覆盖，用于区域偏好
	User *types.UserConfig

	// Regions 可选的节点区域信息（由目录协作方补充）
	Regions map[types.NodeID]string

	// UsedRegions 会话现有活跃路径已占用的区域
	UsedRegions map[string]struct{}
}

// BuildPaths 构建新路径
//
// 规则：
//  1. Desired 静默钳制到 [min, max]，越界请求不是错误
//  2. 候选数少于 MinPathCount*HopsPerPath（Exact 模式下少于一条完整
//     中继链所需的 HopsPerPath）时返回 ErrInsufficientCandidates，
//     不产生任何路径
//  3. 候选池洗牌后按 HopsPerPath 切分，路径之间节点不相交
//  4. 每条路径以占位指标评分并标记为活跃
func (s *Selector) BuildPaths(req BuildRequest) ([]*Path, error) {
	cfg := req.Config

	desired := req.Desired
	if req.Exact {
		// 补充模式：需要几条建几条，但至少要凑满一条完整中继链
		if desired < 1 {
			desired = 1
		}
		if len(req.Candidates) < cfg.HopsPerPath {
			return nil, fmt.Errorf("%w: have %d, need %d",
				types.ErrInsufficientCandidates, len(req.Candidates), cfg.HopsPerPath)
		}
	} else {
		if need := cfg.MinPathCount * cfg.HopsPerPath; len(req.Candidates) < need {
			return nil, fmt.Errorf("%w: have %d, need %d",
				types.ErrInsufficientCandidates, len(req.Candidates), need)
		}
		desired = clampCount(desired, cfg.MinPathCount, cfg.MaxPathCount)
	}

	pool := s.preparePool(req)

	// 节点不相交约束下可构建的路径数；上面的候选数校验保证至少为 1
	maxDisjoint := len(pool) / cfg.HopsPerPath
	count := desired
	if count > maxDisjoint {
		count = maxDisjoint
	}

	now := s.clock.Now()
	paths := make([]*Path, 0, count)
	used := make(map[string]struct{}, len(req.UsedRegions))
	for r := range req.UsedRegions {
		used[r] = struct{}{}
	}

	next := 0
	for i := 0; i < count; i++ {
		hops := cfg.HopsPerPath
		nodes := make([]types.NodeID, hops)
		copy(nodes, pool[next:next+hops])
		next += hops

		metrics := initialMetrics
		if len(req.Regions) > 0 {
			metrics.GeoDiversity = geoDiversityScore(nodes, req.Regions, used)
			for _, n := range nodes {
				if r, ok := req.Regions[n]; ok && r != "" {
					used[r] = struct{}{}
				}
			}
		}

		p := &Path{
			ID:            types.NewPathID(),
			NodeIDs:       nodes,
			Metrics:       metrics,
			Score:         scoring.Score(metrics, cfg.Weights),
			Active:        true,
			CreatedAt:     now,
			LastEvaluated: now,
		}
		paths = append(paths, p)
	}

	logger.Debug("已构建新路径",
		"count", len(paths),
		"desired", desired,
		"hops", cfg.HopsPerPath,
		"candidates", len(req.Candidates))

	return paths, nil
}

// preparePool 过滤、洗牌并按区域偏好排序候选池
func (s *Selector) preparePool(req BuildRequest) []types.NodeID {
	pool := make([]types.NodeID, len(req.Candidates))
	copy(pool, req.Candidates)

	// 规避区域：剩余候选仍然充足时才过滤
	if req.User != nil && len(req.User.AvoidedRegions) > 0 && len(req.Regions) > 0 {
		avoided := make(map[string]struct{}, len(req.User.AvoidedRegions))
		for _, r := range req.User.AvoidedRegions {
			avoided[r] = struct{}{}
		}
		filtered := pool[:0:0]
		for _, n := range pool {
			if _, bad := avoided[req.Regions[n]]; !bad {
				filtered = append(filtered, n)
			}
		}
		if len(filtered) >= req.Config.MinPathCount*req.Config.HopsPerPath {
			pool = filtered
		}
	}

	s.rngMu.Lock()
	s.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	s.rngMu.Unlock()

	// 偏好区域：稳定前置，保持洗牌后的相对顺序
	if req.User != nil && len(req.User.PreferredRegions) > 0 && len(req.Regions) > 0 {
		preferred := make(map[string]struct{}, len(req.User.PreferredRegions))
		for _, r := range req.User.PreferredRegions {
			preferred[r] = struct{}{}
		}
		front := make([]types.NodeID, 0, len(pool))
		back := make([]types.NodeID, 0, len(pool))
		for _, n := range pool {
			if _, ok := preferred[req.Regions[n]]; ok {
				front = append(front, n)
			} else {
				back = append(back, n)
			}
		}
		pool = append(front, back...)
	}

	return pool
}

// geoDiversityScore 根据区域信息计算路径的地理多样性评分
//
// 路径内区域越分散评分越高；与会话已有活跃路径重叠区域时减半。
// 没有区域信息时调用方沿用占位值 500。
func geoDiversityScore(nodes []types.NodeID, regions map[types.NodeID]string, used map[string]struct{}) int {
	distinct := make(map[string]struct{}, len(nodes))
	overlap := false
	known := 0

	for _, n := range nodes {
		r, ok := regions[n]
		if !ok || r == "" {
			continue
		}
		known++
		distinct[r] = struct{}{}
		if _, u := used[r]; u {
			overlap = true
		}
	}

	if known == 0 {
		return initialMetrics.GeoDiversity
	}

	score := types.WeightScale * len(distinct) / len(nodes)
	if overlap {
		score /= 2
	}
	return score
}

// clampCount 把请求的路径数钳制到 [min, max]
//
// 0 或负数视为未指定，使用下限。
func clampCount(desired, min, max int) int {
	if desired < min {
		return min
	}
	if desired > max {
		return max
	}
	return desired
}
