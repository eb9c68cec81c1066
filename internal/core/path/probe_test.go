package path

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-multipath/pkg/types"
)

// TestSyntheticProbe 测试合成探测的指标漂移
func TestSyntheticProbe(t *testing.T) {
	probe := &SyntheticProbe{MinCapacityMbps: 10}
	ctx := context.Background()

	t.Run("Drift", func(t *testing.T) {
		last := types.PathMetrics{LatencyMs: 100, CapacityMbps: 100, Security: 800, GeoDiversity: 500}
		next, err := probe.Refresh(ctx, "p1", nil, last)
		require.NoError(t, err)

		assert.Equal(t, 110, next.LatencyMs)
		assert.Equal(t, 90, next.CapacityMbps)
		// 安全与地理多样性不漂移
		assert.Equal(t, 800, next.Security)
		assert.Equal(t, 500, next.GeoDiversity)
	})

	t.Run("LatencyCapped", func(t *testing.T) {
		last := types.PathMetrics{LatencyMs: 495, CapacityMbps: 100}
		next, err := probe.Refresh(ctx, "p1", nil, last)
		require.NoError(t, err)
		assert.Equal(t, 500, next.LatencyMs)
	})

	t.Run("CapacityFloored", func(t *testing.T) {
		last := types.PathMetrics{LatencyMs: 100, CapacityMbps: 12}
		next, err := probe.Refresh(ctx, "p1", nil, last)
		require.NoError(t, err)
		assert.Equal(t, 10, next.CapacityMbps)
	})

	t.Log("✅ SyntheticProbe 测试通过")
}

// failingProbe 对指定路径返回错误的探测桩
type failingProbe struct {
	failFor types.PathID
}

func (p *failingProbe) Refresh(_ context.Context, id types.PathID, _ []types.NodeID, last types.PathMetrics) (types.PathMetrics, error) {
	if id == p.failFor {
		return types.PathMetrics{}, errors.New("probe unreachable")
	}
	next := last
	next.LatencyMs += 50
	return next, nil
}

// slowProbe 阻塞到 ctx 取消的探测桩
type slowProbe struct{}

func (p *slowProbe) Refresh(ctx context.Context, _ types.PathID, _ []types.NodeID, _ types.PathMetrics) (types.PathMetrics, error) {
	<-ctx.Done()
	return types.PathMetrics{}, ctx.Err()
}

// TestRefreshAll 测试并发指标刷新
func TestRefreshAll(t *testing.T) {
	ctx := context.Background()

	snaps := []Snapshot{
		{ID: "a", Last: types.PathMetrics{LatencyMs: 100, CapacityMbps: 100}},
		{ID: "b", Last: types.PathMetrics{LatencyMs: 200, CapacityMbps: 50}},
	}

	t.Run("AllSucceed", func(t *testing.T) {
		got, err := RefreshAll(ctx, &failingProbe{}, time.Second, snaps)
		require.NoError(t, err)
		assert.Equal(t, 150, got["a"].LatencyMs)
		assert.Equal(t, 250, got["b"].LatencyMs)
	})

	t.Run("FailureKeepsLastKnown", func(t *testing.T) {
		got, err := RefreshAll(ctx, &failingProbe{failFor: "b"}, time.Second, snaps)
		// 错误被聚合返回供记录，但每条路径仍有指标
		require.Error(t, err)
		assert.Equal(t, 150, got["a"].LatencyMs)
		assert.Equal(t, 200, got["b"].LatencyMs, "失败路径沿用上次指标")
	})

	t.Run("TimeoutKeepsLastKnown", func(t *testing.T) {
		got, err := RefreshAll(ctx, &slowProbe{}, 10*time.Millisecond, snaps)
		require.Error(t, err)
		assert.Equal(t, snaps[0].Last, got["a"])
		assert.Equal(t, snaps[1].Last, got["b"])
	})

	t.Run("NilProbePassthrough", func(t *testing.T) {
		got, err := RefreshAll(ctx, nil, time.Second, snaps)
		require.NoError(t, err)
		assert.Equal(t, snaps[0].Last, got["a"])
	})

	t.Run("EmptySnapshots", func(t *testing.T) {
		got, err := RefreshAll(ctx, &failingProbe{}, time.Second, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Log("✅ RefreshAll 测试通过")
}
