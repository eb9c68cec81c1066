package multipath

import "github.com/dep2p/go-multipath/pkg/types"

// 公共错误定义（转发自 pkg/types，便于调用方就近引用）
var (
	// ────────────────────────────────────────────────────────────────────────
	// 引擎生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrAlreadyStarted 引擎已启动
	ErrAlreadyStarted = types.ErrAlreadyStarted

	// ErrEngineClosed 引擎已关闭
	ErrEngineClosed = types.ErrEngineClosed

	// ────────────────────────────────────────────────────────────────────────
	// 会话相关错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrSessionNotFound 会话不存在
	ErrSessionNotFound = types.ErrSessionNotFound

	// ErrSessionExpired 会话已过期或已结束
	ErrSessionExpired = types.ErrSessionExpired

	// ErrNotAuthorized 调用方不是会话所有者
	ErrNotAuthorized = types.ErrNotAuthorized

	// ────────────────────────────────────────────────────────────────────────
	// 路径与分发相关错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrPathNotFound 路径不存在
	ErrPathNotFound = types.ErrPathNotFound

	// ErrInsufficientCandidates 候选节点不足以构建最小路径数
	ErrInsufficientCandidates = types.ErrInsufficientCandidates

	// ErrNoActivePaths 会话没有任何活跃路径
	ErrNoActivePaths = types.ErrNoActivePaths

	// ErrInvalidPayload 非法载荷（零字节）
	ErrInvalidPayload = types.ErrInvalidPayload

	// ────────────────────────────────────────────────────────────────────────
	// 配置相关错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrInvalidWeights 权重不合法（越界或总和不等于 1000）
	ErrInvalidWeights = types.ErrInvalidWeights

	// ErrInvalidRange 路径数区间不合法
	ErrInvalidRange = types.ErrInvalidRange

	// ErrInvalidEncryption 加密方法不合法
	ErrInvalidEncryption = types.ErrInvalidEncryption
)
