// Package interfaces 定义引擎对外与模块间的接口
//
// 本文件定义引擎依赖的外部协作方接口。引擎自身不做网络 I/O，
// 目录查询与指标探测都通过这些接口注入。
package interfaces

import (
	"context"

	"github.com/dep2p/go-multipath/pkg/types"
)

// NodeDirectory 节点目录协作方
//
// 提供 nodeID -> {region, status, publicKey} 查询，
// 用于候选节点校验与区域感知选路。
type NodeDirectory interface {
	// Lookup 查询单个节点的目录信息
	//
	// 未知节点返回 types.ErrPathNotFound 之外的实现自定义错误即可，
	// 调用方只以 err != nil 判断。
	Lookup(ctx context.Context, id types.NodeID) (types.NodeInfo, error)
}

// MetricsProbe 监控协作方
//
// 重评估时刷新路径指标。实现可以发起真实测量，也可以返回
// 估算值；调用方对每次调用施加有界超时，超时或出错时
// 沿用上一次的已知指标。
type MetricsProbe interface {
	// Refresh 基于上一次指标返回该路径的最新指标
	Refresh(ctx context.Context, pathID types.PathID, nodes []types.NodeID, last types.PathMetrics) (types.PathMetrics, error)
}

// CandidateSource 候选节点池来源
//
// 周期性重评估需要补充路径时，从这里获取会话可用的候选节点。
type CandidateSource interface {
	// Candidates 返回指定会话可用的候选节点列表
	Candidates(ctx context.Context, session types.SessionID) ([]types.NodeID, error)
}
