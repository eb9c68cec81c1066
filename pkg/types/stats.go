// Package types 定义多路径路由引擎的基础类型
//
// 本文件定义路径指标与只读快照结构。
package types

import (
	"time"
)

// ============================================================================
//                              PathMetrics - 路径指标
// ============================================================================

// PathMetrics 单条路径的原始指标
//
// LatencyMs / CapacityMbps 由监控协作方测得；
// Security / GeoDiversity 已归一化到 [0,1000]。
type PathMetrics struct {
	LatencyMs    int // 延迟（毫秒）
	CapacityMbps int // 容量（Mbps）
	Security     int // 安全评分 [0,1000]
	GeoDiversity int // 地理多样性评分 [0,1000]
}

// ============================================================================
//                              快照结构
// ============================================================================

// PathStats 路径只读快照
type PathStats struct {
	ID            PathID      // 路径 ID
	NodeIDs       []NodeID    // 中继链（有序）
	Score         int         // 当前评分 [0,1000]
	Metrics       PathMetrics // 当前指标
	Active        bool        // 是否在活跃集内
	CreatedAt     time.Time   // 创建时间
	LastEvaluated time.Time   // 最近一次评估/使用时间
	TotalBytes    uint64      // 经该路径分发的累计字节数
}

// SessionInfo 会话只读快照
type SessionInfo struct {
	ID              SessionID        // 会话 ID
	Owner           Principal        // 所有者
	State           SessionState     // 当前状态
	PathCount       int              // 路径总数（含已停用）
	ActivePathCount int              // 活跃路径数
	CreatedAt       time.Time        // 创建时间
	LastActive      time.Time        // 最近一次传输时间
	ExpiryTime      time.Time        // 过期时间
	FragmentSize    int              // 分片大小
	Encryption      EncryptionMethod // 加密方式
	ProtocolVersion int              // 协议版本
	TotalBytes      uint64           // 累计传输字节数
}

// TransferSummary 单次 Transmit 的分发结果
type TransferSummary struct {
	SessionID     SessionID         // 会话 ID
	FragmentCount int               // 分片数
	TotalBytes    uint64            // 分发的字节数（等于载荷大小）
	BytesByPath   map[PathID]uint64 // 各路径分得的字节数
}
