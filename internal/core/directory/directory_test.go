package directory

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-multipath/pkg/types"
)

// countingDirectory 统计回源次数的目录包装
type countingDirectory struct {
	inner   *Static
	lookups atomic.Int64
}

func (d *countingDirectory) Lookup(ctx context.Context, id types.NodeID) (types.NodeInfo, error) {
	d.lookups.Add(1)
	return d.inner.Lookup(ctx, id)
}

// TestCache_Lookup 测试目录缓存
func TestCache_Lookup(t *testing.T) {
	ctx := context.Background()

	static := NewStatic()
	static.Put(types.NodeInfo{ID: "n1", Region: "eu-west", Status: types.NodeStatusActive})

	counting := &countingDirectory{inner: static}
	cache, err := NewCache(counting, 8)
	require.NoError(t, err)

	t.Run("HitSkipsOrigin", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			info, err := cache.Lookup(ctx, "n1")
			require.NoError(t, err)
			assert.Equal(t, "eu-west", info.Region)
		}
		// 只有第一次回源
		assert.Equal(t, int64(1), counting.lookups.Load())
	})

	t.Run("MissNotCached", func(t *testing.T) {
		before := counting.lookups.Load()
		_, err := cache.Lookup(ctx, "unknown")
		assert.ErrorIs(t, err, ErrNodeUnknown)
		_, err = cache.Lookup(ctx, "unknown")
		assert.ErrorIs(t, err, ErrNodeUnknown)
		// 失败结果不缓存，每次都回源
		assert.Equal(t, before+2, counting.lookups.Load())
	})

	t.Run("InvalidateForcesRefresh", func(t *testing.T) {
		static.Put(types.NodeInfo{ID: "n1", Region: "us-east", Status: types.NodeStatusActive})

		// 失效前仍读到旧区域
		info, err := cache.Lookup(ctx, "n1")
		require.NoError(t, err)
		assert.Equal(t, "eu-west", info.Region)

		cache.Invalidate("n1")
		info, err = cache.Lookup(ctx, "n1")
		require.NoError(t, err)
		assert.Equal(t, "us-east", info.Region)
	})

	t.Log("✅ Cache.Lookup 测试通过")
}

// TestValidateCandidates 测试候选校验
func TestValidateCandidates(t *testing.T) {
	ctx := context.Background()

	static := NewStatic()
	static.Put(types.NodeInfo{ID: "active", Region: "eu-west", Status: types.NodeStatusActive})
	static.Put(types.NodeInfo{ID: "inactive", Region: "us-east", Status: types.NodeStatusInactive})
	static.Put(types.NodeInfo{ID: "noregion", Status: types.NodeStatusActive})

	t.Run("FiltersInactive", func(t *testing.T) {
		valid, regions := ValidateCandidates(ctx, static,
			[]types.NodeID{"active", "inactive", "noregion"})

		assert.Equal(t, []types.NodeID{"active", "noregion"}, valid)
		assert.Equal(t, "eu-west", regions["active"])
		_, hasRegion := regions["noregion"]
		assert.False(t, hasRegion)
	})

	t.Run("UnknownNodesKept", func(t *testing.T) {
		// 目录查不到的节点保留，但没有区域信息
		valid, regions := ValidateCandidates(ctx, static,
			[]types.NodeID{"active", "stranger"})

		assert.Equal(t, []types.NodeID{"active", "stranger"}, valid)
		_, hasRegion := regions["stranger"]
		assert.False(t, hasRegion)
	})

	t.Run("NilDirectoryPassthrough", func(t *testing.T) {
		candidates := []types.NodeID{"a", "b"}
		valid, regions := ValidateCandidates(ctx, nil, candidates)
		assert.Equal(t, candidates, valid)
		assert.Nil(t, regions)
	})

	t.Log("✅ ValidateCandidates 测试通过")
}

// TestStatic 测试内存目录
func TestStatic(t *testing.T) {
	ctx := context.Background()
	static := NewStatic()

	static.Put(types.NodeInfo{ID: "n1", Region: "eu", Status: types.NodeStatusActive})
	assert.Equal(t, 1, static.Len())

	info, err := static.Lookup(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "eu", info.Region)

	static.Remove("n1")
	_, err = static.Lookup(ctx, "n1")
	assert.ErrorIs(t, err, ErrNodeUnknown)
	assert.Equal(t, 0, static.Len())

	t.Log("✅ Static 目录测试通过")
}
