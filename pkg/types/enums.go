package types

// ============================================================================
//                              EncryptionMethod - 加密方式
// ============================================================================

// EncryptionMethod 会话使用的加密方式
//
// 引擎只记录会话声明的加密方式，不涉及任何密码学实现。
type EncryptionMethod int

const (
	// EncryptionUnknown 未知加密方式
	EncryptionUnknown EncryptionMethod = iota
	// EncryptionChaCha20Poly1305 ChaCha20-Poly1305
	EncryptionChaCha20Poly1305
	// EncryptionAES256GCM AES-256-GCM
	EncryptionAES256GCM
	// EncryptionXChaCha20Poly1305 XChaCha20-Poly1305
	EncryptionXChaCha20Poly1305
)

// String 返回加密方式的字符串表示
func (m EncryptionMethod) String() string {
	switch m {
	case EncryptionChaCha20Poly1305:
		return "chacha20-poly1305"
	case EncryptionAES256GCM:
		return "aes-256-gcm"
	case EncryptionXChaCha20Poly1305:
		return "xchacha20-poly1305"
	default:
		return "unknown"
	}
}

// Valid 检查加密方式是否为已知枚举值
func (m EncryptionMethod) Valid() bool {
	switch m {
	case EncryptionChaCha20Poly1305, EncryptionAES256GCM, EncryptionXChaCha20Poly1305:
		return true
	default:
		return false
	}
}

// ============================================================================
//                              SessionState - 会话状态
// ============================================================================

// SessionState 会话状态
//
// 状态机只有两个状态：
//
//	Active ──(now >= expiryTime / EndSession)──► Expired
type SessionState int

const (
	// SessionStateActive 活跃（now < expiryTime）
	SessionStateActive SessionState = iota
	// SessionStateExpired 已过期（now >= expiryTime）
	SessionStateExpired
)

// String 返回会话状态的字符串表示
func (s SessionState) String() string {
	switch s {
	case SessionStateActive:
		return "active"
	case SessionStateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              NodeStatus - 节点状态
// ============================================================================

// NodeStatus 节点目录中的节点状态
type NodeStatus int

const (
	// NodeStatusUnknown 未知状态
	NodeStatusUnknown NodeStatus = iota
	// NodeStatusActive 活跃，可参与路径构建
	NodeStatusActive
	// NodeStatusInactive 不活跃，构建路径时被过滤
	NodeStatusInactive
)

// String 返回节点状态的字符串表示
func (s NodeStatus) String() string {
	switch s {
	case NodeStatusActive:
		return "active"
	case NodeStatusInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// NodeInfo 节点目录条目
//
// 由节点目录协作方提供，用于候选校验与区域感知选路。
type NodeInfo struct {
	ID        NodeID     // 节点 ID
	Region    string     // 区域（如 "eu-west"）
	Status    NodeStatus // 节点状态
	PublicKey []byte     // 节点公钥（引擎不解释其内容）
}
