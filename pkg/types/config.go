// Package types 定义多路径路由引擎的基础类型
//
// 本文件定义路由配置结构及其校验规则。
package types

import (
	"time"
)

// WeightScale 权重向量的固定总和
//
// 评分公式使用整数定点运算，除数恒为 WeightScale，
// 因此权重向量必须精确相加为 1000。
const WeightScale = 1000

// CurrentProtocolVersion 当前会话协议版本
const CurrentProtocolVersion = 1

// ============================================================================
//                              CriteriaWeights - 评分权重向量
// ============================================================================

// CriteriaWeights 评分权重向量
//
// 四个非负整数，总和必须精确等于 1000。
type CriteriaWeights struct {
	Latency      int // 延迟权重
	Security     int // 安全权重
	Capacity     int // 容量权重
	GeoDiversity int // 地理多样性权重
}

// Sum 返回权重总和
func (w CriteriaWeights) Sum() int {
	return w.Latency + w.Security + w.Capacity + w.GeoDiversity
}

// Validate 校验权重向量
func (w CriteriaWeights) Validate() error {
	if w.Latency < 0 || w.Security < 0 || w.Capacity < 0 || w.GeoDiversity < 0 {
		return ErrInvalidWeights
	}
	if w.Sum() != WeightScale {
		return ErrInvalidWeights
	}
	return nil
}

// DefaultCriteriaWeights 返回默认权重向量
func DefaultCriteriaWeights() CriteriaWeights {
	return CriteriaWeights{
		Latency:      350,
		Security:     300,
		Capacity:     200,
		GeoDiversity: 150,
	}
}

// ============================================================================
//                              RoutingConfig - 全局路由配置
// ============================================================================

// RoutingConfig 进程级路由配置
//
// 读多写少：更新经配置仓库（internal/config.Store）以版本化快照方式提交，
// 单次会话操作始终观察到一致的配置版本。
type RoutingConfig struct {
	// MinPathCount 活跃路径数下限
	MinPathCount int

	// MaxPathCount 活跃路径数上限
	MaxPathCount int

	// Weights 评分权重向量（总和必须为 1000）
	Weights CriteriaWeights

	// FragmentSize 单个分片的字节数
	FragmentSize int

	// HopsPerPath 每条路径的中继跳数
	//
	// 1 表示单节点路径。大于 1 时选路器尽量构建节点不相交的多跳路径。
	HopsPerPath int

	// DefaultEncryption 会话默认加密方式
	DefaultEncryption EncryptionMethod

	// SessionTimeout 会话默认生存时长
	SessionTimeout time.Duration

	// ReevaluationInterval 周期性路径重评估间隔
	ReevaluationInterval time.Duration

	// DeactivationThreshold 路径停用阈值
	//
	// 重评估后评分低于该值的路径被移出活跃集（仍保留在路径列表中）。
	DeactivationThreshold int

	// MinCapacityMbps 合成探测的容量下限（Mbps）
	MinCapacityMbps int
}

// DefaultRoutingConfig 返回默认路由配置
func DefaultRoutingConfig() RoutingConfig {
	return RoutingConfig{
		MinPathCount:          3,
		MaxPathCount:          7,
		Weights:               DefaultCriteriaWeights(),
		FragmentSize:          8192,
		HopsPerPath:           1,
		DefaultEncryption:     EncryptionChaCha20Poly1305,
		SessionTimeout:        time.Hour,
		ReevaluationInterval:  5 * time.Minute,
		DeactivationThreshold: 300,
		MinCapacityMbps:       10,
	}
}

// Validate 校验路由配置
//
// 区别于请求参数的静默钳制：配置字段非法属于硬校验失败，直接拒绝提交。
func (c RoutingConfig) Validate() error {
	if c.MinPathCount <= 0 || c.MaxPathCount < c.MinPathCount {
		return ErrInvalidRange
	}
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.FragmentSize <= 0 {
		return ErrInvalidRange
	}
	if c.HopsPerPath <= 0 {
		return ErrInvalidRange
	}
	if !c.DefaultEncryption.Valid() {
		return ErrInvalidEncryption
	}
	if c.SessionTimeout <= 0 || c.ReevaluationInterval <= 0 {
		return ErrInvalidRange
	}
	if c.DeactivationThreshold < 0 || c.DeactivationThreshold > WeightScale {
		return ErrInvalidRange
	}
	if c.MinCapacityMbps < 0 {
		return ErrInvalidRange
	}
	return nil
}

// ============================================================================
//                              UserConfig - 会话级覆盖配置
// ============================================================================

// UserConfig 可选的会话级配置覆盖
//
// 存在时对该会话覆盖全局 RoutingConfig 的对应字段；零值字段不生效。
type UserConfig struct {
	// MinPathCount 覆盖活跃路径数下限（0 表示不覆盖）
	MinPathCount int

	// MaxPathCount 覆盖活跃路径数上限（0 表示不覆盖）
	MaxPathCount int

	// Weights 覆盖权重向量（nil 表示不覆盖）
	Weights *CriteriaWeights

	// PreferredRegions 偏好区域：选路时同区域候选优先
	PreferredRegions []string

	// AvoidedRegions 规避区域：候选充足时跳过这些区域的节点
	AvoidedRegions []string

	// Encryption 覆盖加密方式（EncryptionUnknown 表示不覆盖）
	Encryption EncryptionMethod
}

// Validate 校验覆盖配置
func (u *UserConfig) Validate() error {
	if u == nil {
		return nil
	}
	if u.MinPathCount < 0 || u.MaxPathCount < 0 {
		return ErrInvalidRange
	}
	if u.MinPathCount > 0 && u.MaxPathCount > 0 && u.MaxPathCount < u.MinPathCount {
		return ErrInvalidRange
	}
	if u.Weights != nil {
		if err := u.Weights.Validate(); err != nil {
			return err
		}
	}
	if u.Encryption != EncryptionUnknown && !u.Encryption.Valid() {
		return ErrInvalidEncryption
	}
	return nil
}

// Resolve 合并全局配置与会话覆盖，返回该会话的生效配置
func (c RoutingConfig) Resolve(u *UserConfig) RoutingConfig {
	eff := c
	if u == nil {
		return eff
	}
	if u.MinPathCount > 0 {
		eff.MinPathCount = u.MinPathCount
	}
	if u.MaxPathCount > 0 {
		eff.MaxPathCount = u.MaxPathCount
	}
	if u.Weights != nil {
		eff.Weights = *u.Weights
	}
	if u.Encryption != EncryptionUnknown {
		eff.DefaultEncryption = u.Encryption
	}
	return eff
}
