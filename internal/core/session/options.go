// Package session 实现路由会话与会话管理器
package session

import (
	"time"

	"github.com/dep2p/go-multipath/pkg/types"
)

// createSettings 会话创建参数
type createSettings struct {
	desired      int                    // 期望路径数，0 表示使用配置下限
	user         *types.UserConfig      // 会话级覆盖
	timeout      time.Duration          // 生存时长，0 表示使用配置默认
	fragmentSize int                    // 分片大小，0 表示使用配置默认
	encryption   types.EncryptionMethod // 加密方式，Unknown 表示使用配置默认
}

// CreateOption 会话创建选项
type CreateOption func(*createSettings)

// WithPathCount 指定期望的初始路径数
//
// 越界的值会被静默钳制到配置允许的 [min, max]，不会报错。
func WithPathCount(n int) CreateOption {
	return func(s *createSettings) {
		s.desired = n
	}
}

// WithUserConfig 附加会话级覆盖配置
func WithUserConfig(u *types.UserConfig) CreateOption {
	return func(s *createSettings) {
		s.user = u
	}
}

// WithTimeout 指定会话生存时长
func WithTimeout(d time.Duration) CreateOption {
	return func(s *createSettings) {
		s.timeout = d
	}
}

// WithFragmentSize 指定分片大小
func WithFragmentSize(n int) CreateOption {
	return func(s *createSettings) {
		s.fragmentSize = n
	}
}

// WithEncryption 指定加密方式
func WithEncryption(m types.EncryptionMethod) CreateOption {
	return func(s *createSettings) {
		s.encryption = m
	}
}
