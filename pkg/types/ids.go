package types

import (
	"github.com/google/uuid"
)

// ============================================================================
//                              ID 类型
// ============================================================================

// SessionID 会话 ID
type SessionID string

// PathID 路径 ID
type PathID string

// NodeID 中继节点 ID
//
// 对引擎而言是不透明标识，由节点目录（外部协作方）负责解释。
type NodeID string

// Principal 调用方主体
//
// 会话的所有者标识，引擎只做相等性比较，不关心其内部含义。
type Principal string

// NewSessionID 生成新的会话 ID
func NewSessionID() SessionID {
	return SessionID("ses-" + uuid.NewString())
}

// NewPathID 生成新的路径 ID
func NewPathID() PathID {
	return PathID("path-" + uuid.NewString())
}

// ShortString 返回截短的会话 ID（用于日志）
func (id SessionID) ShortString() string {
	return truncate(string(id), 12)
}

// ShortString 返回截短的路径 ID（用于日志）
func (id PathID) ShortString() string {
	return truncate(string(id), 13)
}

// ShortString 返回截短的节点 ID（用于日志）
func (id NodeID) ShortString() string {
	return truncate(string(id), 8)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
