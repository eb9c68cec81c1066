// Package types 定义多路径路由引擎的基础类型
//
// 本文件定义事件类型。所有事件经进程内事件总线发布，
// 订阅方通过指针类型订阅，如 bus.Subscribe(new(types.EvtSessionCreated))。
package types

import (
	"time"
)

// ============================================================================
//                              Event - 事件接口
// ============================================================================

// Event 基础事件接口
type Event interface {
	// Type 返回事件类型
	Type() string

	// Timestamp 返回事件时间戳
	Timestamp() time.Time
}

// BaseEvent 基础事件实现
type BaseEvent struct {
	EventType string
	Time      time.Time
}

// Type 返回事件类型
func (e BaseEvent) Type() string {
	return e.EventType
}

// Timestamp 返回事件时间戳
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// NewBaseEvent 创建基础事件
func NewBaseEvent(eventType string, now time.Time) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      now,
	}
}

// ============================================================================
//                              会话事件
// ============================================================================

// EvtSessionCreated 会话创建事件
type EvtSessionCreated struct {
	BaseEvent
	SessionID  SessionID // 会话 ID
	Owner      Principal // 所有者
	PathCount  int       // 初始路径数
	CreatedAt  time.Time // 创建时间
	ExpiryTime time.Time // 过期时间
}

// EvtSessionEnded 会话结束事件
//
// 主动 EndSession 与自然过期都会发布本事件，且每个会话只发布一次。
type EvtSessionEnded struct {
	BaseEvent
	SessionID  SessionID     // 会话 ID
	Owner      Principal     // 所有者
	Duration   time.Duration // 会话持续时长
	TotalBytes uint64        // 会话累计传输字节数
}

// EvtDataTransferred 数据分发事件
//
// 每次 Transmit 调用发布一条，汇总本次分片数与字节数。
type EvtDataTransferred struct {
	BaseEvent
	SessionID     SessionID // 会话 ID
	FragmentCount int       // 分片数
	TotalSize     uint64    // 本次分发的字节数
}

// ============================================================================
//                              路径事件
// ============================================================================

// EvtPathCreated 路径创建事件
type EvtPathCreated struct {
	BaseEvent
	PathID    PathID    // 路径 ID
	SessionID SessionID // 所属会话
	NodeCount int       // 路径跳数（节点数）
	Score     int       // 初始评分
	CreatedAt time.Time // 创建时间
}

// EvtPathUpdated 路径评分更新事件
//
// 重评估导致评分变化或路径停用时发布。
type EvtPathUpdated struct {
	BaseEvent
	PathID      PathID    // 路径 ID
	SessionID   SessionID // 所属会话
	OldScore    int       // 旧评分
	NewScore    int       // 新评分
	Deactivated bool      // 本次更新是否将路径移出活跃集
}
