// Package directory 封装节点目录协作方
//
// 引擎本身只操作不透明的节点 ID；目录用于两件事：
//   - 候选校验：过滤目录中标记为不活跃的节点
//   - 区域补充：为区域感知选路提供 nodeID -> region 信息
//
// 目录查询结果经 LRU 缓存，避免每次选路重复查询。
package directory

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dep2p/go-multipath/pkg/interfaces"
	"github.com/dep2p/go-multipath/pkg/lib/log"
	"github.com/dep2p/go-multipath/pkg/types"
)

var logger = log.Logger("core/directory")

// defaultCacheSize 默认缓存条目数
const defaultCacheSize = 1024

// Cache 带 LRU 缓存的目录客户端
type Cache struct {
	inner interfaces.NodeDirectory
	cache *lru.Cache[types.NodeID, types.NodeInfo]
}

// 确保实现接口
var _ interfaces.NodeDirectory = (*Cache)(nil)

// NewCache 创建目录缓存
//
// size <= 0 时使用默认大小。
func NewCache(inner interfaces.NodeDirectory, size int) (*Cache, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	c, err := lru.New[types.NodeID, types.NodeInfo](size)
	if err != nil {
		return nil, err
	}
	return &Cache{inner: inner, cache: c}, nil
}

// Lookup 查询节点信息，命中缓存时不回源
func (c *Cache) Lookup(ctx context.Context, id types.NodeID) (types.NodeInfo, error) {
	if info, ok := c.cache.Get(id); ok {
		return info, nil
	}

	info, err := c.inner.Lookup(ctx, id)
	if err != nil {
		return types.NodeInfo{}, err
	}

	c.cache.Add(id, info)
	return info, nil
}

// Invalidate 移除缓存条目（目录侧状态变更时调用）
func (c *Cache) Invalidate(id types.NodeID) {
	c.cache.Remove(id)
}

// ValidateCandidates 校验并补充候选节点列表
//
// 目录中标记为不活跃的节点被过滤；目录查不到的节点保留
// （评分与分发算法并不依赖目录信息），但没有区域数据。
// 返回过滤后的候选列表与可用的区域映射。
func ValidateCandidates(ctx context.Context, dir interfaces.NodeDirectory, candidates []types.NodeID) ([]types.NodeID, map[types.NodeID]string) {
	if dir == nil {
		return candidates, nil
	}

	valid := make([]types.NodeID, 0, len(candidates))
	regions := make(map[types.NodeID]string, len(candidates))

	for _, id := range candidates {
		info, err := dir.Lookup(ctx, id)
		if err != nil {
			// 目录查不到不算失败，该节点按无区域信息处理
			valid = append(valid, id)
			continue
		}
		if info.Status == types.NodeStatusInactive {
			logger.Debug("过滤不活跃候选节点", "node", id.ShortString())
			continue
		}
		valid = append(valid, id)
		if info.Region != "" {
			regions[id] = info.Region
		}
	}

	return valid, regions
}
