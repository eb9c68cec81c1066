// Package directory 封装节点目录协作方
package directory

import (
	"context"
	"errors"
	"sync"

	"github.com/dep2p/go-multipath/pkg/interfaces"
	"github.com/dep2p/go-multipath/pkg/types"
)

// ErrNodeUnknown 目录中不存在该节点
var ErrNodeUnknown = errors.New("directory: node unknown")

// Static 内存节点目录
//
// 测试与示例用的目录实现；生产环境由外部目录协作方接入。
type Static struct {
	mu    sync.RWMutex
	nodes map[types.NodeID]types.NodeInfo
}

// 确保实现接口
var _ interfaces.NodeDirectory = (*Static)(nil)

// NewStatic 创建内存目录
func NewStatic() *Static {
	return &Static{
		nodes: make(map[types.NodeID]types.NodeInfo),
	}
}

// Put 写入或覆盖节点条目
func (s *Static) Put(info types.NodeInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[info.ID] = info
}

// Remove 删除节点条目
func (s *Static) Remove(id types.NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nodes, id)
}

// Lookup 查询节点信息
func (s *Static) Lookup(_ context.Context, id types.NodeID) (types.NodeInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.nodes[id]
	if !ok {
		return types.NodeInfo{}, ErrNodeUnknown
	}
	return info, nil
}

// Len 返回目录条目数
func (s *Static) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}
