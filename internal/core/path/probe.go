// Package path 实现路径聚合与路径选择
//
// 本文件实现指标刷新：对监控协作方的有界超时并发调用，
// 以及一个内置的合成探测实现。
package path

import (
	"context"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/dep2p/go-multipath/pkg/interfaces"
	"github.com/dep2p/go-multipath/pkg/types"
)

// 合成探测的漂移参数
const (
	syntheticLatencyStepMs = 10  // 每轮延迟 +10ms
	syntheticLatencyCapMs  = 500 // 延迟上限
	syntheticCapacityStep  = 10  // 每轮容量 -10 Mbps
)

// SyntheticProbe 合成指标探测
//
// 未接入真实监控协作方时的默认实现：延迟每轮 +10ms 封顶 500，
// 容量每轮 -10 Mbps，不低于配置的下限。安全与地理多样性保持不变。
type SyntheticProbe struct {
	// MinCapacityMbps 容量下限
	MinCapacityMbps int
}

// 确保实现接口
var _ interfaces.MetricsProbe = (*SyntheticProbe)(nil)

// Refresh 返回漂移后的指标
func (p *SyntheticProbe) Refresh(_ context.Context, _ types.PathID, _ []types.NodeID, last types.PathMetrics) (types.PathMetrics, error) {
	next := last

	next.LatencyMs += syntheticLatencyStepMs
	if next.LatencyMs > syntheticLatencyCapMs {
		next.LatencyMs = syntheticLatencyCapMs
	}

	next.CapacityMbps -= syntheticCapacityStep
	if next.CapacityMbps < p.MinCapacityMbps {
		next.CapacityMbps = p.MinCapacityMbps
	}

	return next, nil
}

// RefreshAll 并发刷新一组路径的指标
//
// 每条路径一次探测调用，单独施加 timeout；失败或超时的路径
// 沿用上一次的已知指标（周期性重评估容忍陈旧数据）。
// 返回值 metrics 对每条输入路径都有条目；err 聚合所有探测失败，
// 仅供记录，不应中止重评估。
func RefreshAll(ctx context.Context, probe interfaces.MetricsProbe, timeout time.Duration, snaps []Snapshot) (map[types.PathID]types.PathMetrics, error) {
	metrics := make(map[types.PathID]types.PathMetrics, len(snaps))
	for _, s := range snaps {
		metrics[s.ID] = s.Last
	}

	if probe == nil || len(snaps) == 0 {
		return metrics, nil
	}

	type result struct {
		id  types.PathID
		m   types.PathMetrics
		err error
	}

	results := make(chan result, len(snaps))
	var wg sync.WaitGroup

	for _, snap := range snaps {
		wg.Add(1)
		go func(s Snapshot) {
			defer wg.Done()

			probeCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			m, err := probe.Refresh(probeCtx, s.ID, s.NodeIDs, s.Last)
			if err != nil {
				results <- result{id: s.ID, err: err}
				return
			}
			results <- result{id: s.ID, m: m}
		}(snap)
	}

	wg.Wait()
	close(results)

	var errs error
	for r := range results {
		if r.err != nil {
			errs = multierr.Append(errs, r.err)
			continue
		}
		metrics[r.id] = r.m
	}

	return metrics, errs
}
