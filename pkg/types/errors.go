// Package types 定义多路径路由引擎的基础类型
//
// 本文件定义所有公共错误。校验失败一律发生在任何状态变更之前，
// 返回这些错误的调用不会产生部分副作用。
package types

import "errors"

// ============================================================================
//                              授权与生命周期错误
// ============================================================================

var (
	// ErrNotAuthorized 调用方不是会话所有者
	ErrNotAuthorized = errors.New("multipath: caller is not the session owner")

	// ErrSessionExpired 会话已过期（now >= expiryTime）
	ErrSessionExpired = errors.New("multipath: session expired")

	// ErrSessionNotFound 未知会话 ID
	ErrSessionNotFound = errors.New("multipath: session not found")

	// ErrPathNotFound 未知路径 ID
	ErrPathNotFound = errors.New("multipath: path not found")
)

// ============================================================================
//                              候选与选路错误
// ============================================================================

var (
	// ErrInsufficientCandidates 候选节点数少于最小路径数
	ErrInsufficientCandidates = errors.New("multipath: insufficient candidate nodes")

	// ErrNoActivePaths 会话没有任何活跃路径可分发流量
	ErrNoActivePaths = errors.New("multipath: no active paths")
)

// ============================================================================
//                              配置校验错误
// ============================================================================

var (
	// ErrInvalidWeights 权重向量之和不等于 1000
	ErrInvalidWeights = errors.New("multipath: criteria weights must sum to 1000")

	// ErrInvalidRange 非法的 min/max 或阈值边界
	ErrInvalidRange = errors.New("multipath: invalid range bounds")

	// ErrInvalidEncryption 未知的加密方式枚举值
	ErrInvalidEncryption = errors.New("multipath: invalid encryption method")

	// ErrInvalidPayload 非法的载荷大小
	ErrInvalidPayload = errors.New("multipath: payload size must be positive")
)

// ============================================================================
//                              引擎生命周期错误
// ============================================================================

var (
	// ErrEngineClosed 引擎已关闭
	ErrEngineClosed = errors.New("multipath: engine closed")

	// ErrAlreadyStarted 服务已启动
	ErrAlreadyStarted = errors.New("multipath: already started")
)
