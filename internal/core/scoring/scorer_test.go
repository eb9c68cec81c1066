package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dep2p/go-multipath/pkg/types"
)

// TestLatencyScore 测试延迟评分映射
func TestLatencyScore(t *testing.T) {
	t.Run("Zero", func(t *testing.T) {
		assert.Equal(t, 1000, LatencyScore(0))
	})

	t.Run("Typical", func(t *testing.T) {
		assert.Equal(t, 800, LatencyScore(100))
		assert.Equal(t, 400, LatencyScore(300))
	})

	t.Run("Cutoff", func(t *testing.T) {
		// 截止值处与之上都记 0 分
		assert.Equal(t, 2, LatencyScore(499))
		assert.Equal(t, 0, LatencyScore(500))
		assert.Equal(t, 0, LatencyScore(10000))
	})

	t.Run("NegativeClampedToMax", func(t *testing.T) {
		// 异常探测方给出负延迟：钳制到 1000，不越界放大
		assert.Equal(t, 1000, LatencyScore(-1))
		assert.Equal(t, 1000, LatencyScore(-500))
	})

	t.Log("✅ LatencyScore 测试通过")
}

// TestCapacityScore 测试容量评分映射
func TestCapacityScore(t *testing.T) {
	assert.Equal(t, 0, CapacityScore(-5))
	assert.Equal(t, 0, CapacityScore(0))
	assert.Equal(t, 100, CapacityScore(100))
	assert.Equal(t, 1000, CapacityScore(1000))
	assert.Equal(t, 1000, CapacityScore(4000))

	t.Log("✅ CapacityScore 测试通过")
}

// TestScore 测试综合评分
func TestScore(t *testing.T) {
	weights := types.DefaultCriteriaWeights()

	t.Run("InitialPlaceholderMetrics", func(t *testing.T) {
		// 新路径的占位指标在默认权重下评分恒为 615
		m := types.PathMetrics{
			LatencyMs:    100,
			CapacityMbps: 100,
			Security:     800,
			GeoDiversity: 500,
		}
		assert.Equal(t, 615, Score(m, weights))
	})

	t.Run("Bounds", func(t *testing.T) {
		best := types.PathMetrics{LatencyMs: 0, CapacityMbps: 1000, Security: 1000, GeoDiversity: 1000}
		worst := types.PathMetrics{LatencyMs: 500, CapacityMbps: 0, Security: 0, GeoDiversity: 0}
		assert.Equal(t, 1000, Score(best, weights))
		assert.Equal(t, 0, Score(worst, weights))
	})

	t.Run("ClampsDirtyInputs", func(t *testing.T) {
		// 越界的归一化指标先钳制再加权
		m := types.PathMetrics{
			LatencyMs:    -10,
			CapacityMbps: 5000,
			Security:     2000,
			GeoDiversity: -1,
		}
		got := Score(m, weights)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 1000)
		// lat=1000, cap=1000, sec=1000, geo=0 → 350+300+200 = 850
		assert.Equal(t, 850, got)
	})

	t.Run("TruncatingDivision", func(t *testing.T) {
		// 整数定点运算：结果截断，不四舍五入
		w := types.CriteriaWeights{Latency: 1000, Security: 0, Capacity: 0, GeoDiversity: 0}
		m := types.PathMetrics{LatencyMs: 100}
		assert.Equal(t, 800, Score(m, w))

		w = types.CriteriaWeights{Latency: 333, Security: 333, Capacity: 334, GeoDiversity: 0}
		m = types.PathMetrics{LatencyMs: 0, CapacityMbps: 1, Security: 1}
		// (1000*333 + 1*333 + 1*334) / 1000 = 333667/1000 = 333
		assert.Equal(t, 333, Score(m, w))
	})

	t.Run("SingleCriterionWeight", func(t *testing.T) {
		// 单一维度满权重时评分等于该维度评分
		w := types.CriteriaWeights{Latency: 0, Security: 1000, Capacity: 0, GeoDiversity: 0}
		m := types.PathMetrics{Security: 777}
		assert.Equal(t, 777, Score(m, w))
	})

	t.Log("✅ Score 测试通过")
}
