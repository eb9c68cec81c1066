// Package scoring 实现路径评分
//
// 评分是纯函数：给定路径指标与权重向量，输出 [0,1000] 的整数评分。
// 全程整数定点运算，不引入浮点，保证独立实现可复现相同结果。
//
// 评分公式：
//
//	latencyScore  = clamp(1000 - 2*latencyMs, 0, 1000)，latencyMs >= 500 时为 0
//	capacityScore = min(capacityMbps, 1000)
//	security / geoDiversity 已归一化，按原值使用
//	score = (latencyScore*wLat + security*wSec + capacityScore*wCap + geo*wGeo) / 1000
//
// 除数恒为常量 1000（types.WeightScale），不存在除零。
// 权重向量在配置提交时校验，本包不再逐次检查。
package scoring

import (
	"github.com/dep2p/go-multipath/pkg/types"
)

// latencyCutoffMs 延迟评分的截止值，达到即记 0 分
const latencyCutoffMs = 500

// LatencyScore 把延迟（毫秒）映射为 [0,1000] 的评分
//
// 负延迟（探测方实现异常）钳制到上限，不放大总评分。
func LatencyScore(latencyMs int) int {
	if latencyMs >= latencyCutoffMs {
		return 0
	}
	return clampScore(types.WeightScale - 2*latencyMs)
}

// CapacityScore 把容量（Mbps）映射为 [0,1000] 的评分
func CapacityScore(capacityMbps int) int {
	if capacityMbps < 0 {
		return 0
	}
	if capacityMbps > types.WeightScale {
		return types.WeightScale
	}
	return capacityMbps
}

// Score 计算路径综合评分
//
// security 与 geoDiversity 作为已归一化评分直接参与加权；
// 结果为截断整数除法，始终落在 [0,1000]。
func Score(m types.PathMetrics, w types.CriteriaWeights) int {
	lat := LatencyScore(m.LatencyMs)
	cap := CapacityScore(m.CapacityMbps)
	sec := clampScore(m.Security)
	geo := clampScore(m.GeoDiversity)

	total := lat*w.Latency + sec*w.Security + cap*w.Capacity + geo*w.GeoDiversity
	return total / types.WeightScale
}

// clampScore 把已归一化评分钳制到 [0,1000]
func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > types.WeightScale {
		return types.WeightScale
	}
	return v
}
