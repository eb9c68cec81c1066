package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCriteriaWeights_Validate 测试权重向量校验
func TestCriteriaWeights_Validate(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		w := DefaultCriteriaWeights()
		require.NoError(t, w.Validate())
		assert.Equal(t, WeightScale, w.Sum())
	})

	t.Run("SumTooLow", func(t *testing.T) {
		w := CriteriaWeights{Latency: 100, Security: 100, Capacity: 100, GeoDiversity: 100}
		assert.ErrorIs(t, w.Validate(), ErrInvalidWeights)
	})

	t.Run("SumTooHigh", func(t *testing.T) {
		w := CriteriaWeights{Latency: 500, Security: 500, Capacity: 500, GeoDiversity: 500}
		assert.ErrorIs(t, w.Validate(), ErrInvalidWeights)
	})

	t.Run("Negative", func(t *testing.T) {
		// 总和为 1000 但含负分量，同样拒绝
		w := CriteriaWeights{Latency: 1200, Security: -200, Capacity: 0, GeoDiversity: 0}
		assert.ErrorIs(t, w.Validate(), ErrInvalidWeights)
	})

	t.Run("SingleCriterion", func(t *testing.T) {
		w := CriteriaWeights{Latency: 1000}
		assert.NoError(t, w.Validate())
	})

	t.Log("✅ CriteriaWeights.Validate 测试通过")
}

// TestRoutingConfig_Validate 测试全局配置校验
func TestRoutingConfig_Validate(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		cfg := DefaultRoutingConfig()
		require.NoError(t, cfg.Validate())
		assert.Equal(t, 3, cfg.MinPathCount)
		assert.Equal(t, 7, cfg.MaxPathCount)
		assert.Equal(t, 8192, cfg.FragmentSize)
		assert.Equal(t, 300, cfg.DeactivationThreshold)
	})

	t.Run("InvalidRange", func(t *testing.T) {
		cfg := DefaultRoutingConfig()
		cfg.MinPathCount = 5
		cfg.MaxPathCount = 3
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidRange)
	})

	t.Run("ZeroMin", func(t *testing.T) {
		cfg := DefaultRoutingConfig()
		cfg.MinPathCount = 0
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidRange)
	})

	t.Run("BadWeights", func(t *testing.T) {
		cfg := DefaultRoutingConfig()
		cfg.Weights.Latency = 0
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidWeights)
	})

	t.Run("BadFragmentSize", func(t *testing.T) {
		cfg := DefaultRoutingConfig()
		cfg.FragmentSize = 0
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidRange)
	})

	t.Run("BadEncryption", func(t *testing.T) {
		cfg := DefaultRoutingConfig()
		cfg.DefaultEncryption = EncryptionMethod(99)
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidEncryption)
	})

	t.Run("BadThreshold", func(t *testing.T) {
		cfg := DefaultRoutingConfig()
		cfg.DeactivationThreshold = 1001
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidRange)
	})

	t.Run("BadTimeout", func(t *testing.T) {
		cfg := DefaultRoutingConfig()
		cfg.SessionTimeout = 0
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidRange)
	})

	t.Log("✅ RoutingConfig.Validate 测试通过")
}

// TestUserConfig_Validate 测试会话级覆盖配置校验
func TestUserConfig_Validate(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		var u *UserConfig
		assert.NoError(t, u.Validate())
	})

	t.Run("Empty", func(t *testing.T) {
		assert.NoError(t, (&UserConfig{}).Validate())
	})

	t.Run("InvertedRange", func(t *testing.T) {
		u := &UserConfig{MinPathCount: 5, MaxPathCount: 2}
		assert.ErrorIs(t, u.Validate(), ErrInvalidRange)
	})

	t.Run("BadWeights", func(t *testing.T) {
		u := &UserConfig{Weights: &CriteriaWeights{Latency: 1}}
		assert.ErrorIs(t, u.Validate(), ErrInvalidWeights)
	})

	t.Run("BadEncryption", func(t *testing.T) {
		u := &UserConfig{Encryption: EncryptionMethod(42)}
		assert.ErrorIs(t, u.Validate(), ErrInvalidEncryption)
	})

	t.Log("✅ UserConfig.Validate 测试通过")
}

// TestRoutingConfig_Resolve 测试全局配置与会话覆盖的合并
func TestRoutingConfig_Resolve(t *testing.T) {
	base := DefaultRoutingConfig()

	t.Run("NilPassthrough", func(t *testing.T) {
		eff := base.Resolve(nil)
		assert.Equal(t, base, eff)
	})

	t.Run("PartialOverride", func(t *testing.T) {
		u := &UserConfig{MinPathCount: 4}
		eff := base.Resolve(u)
		assert.Equal(t, 4, eff.MinPathCount)
		// 未覆盖字段保持全局值
		assert.Equal(t, base.MaxPathCount, eff.MaxPathCount)
		assert.Equal(t, base.Weights, eff.Weights)
	})

	t.Run("WeightsAndEncryption", func(t *testing.T) {
		w := CriteriaWeights{Latency: 700, Security: 100, Capacity: 100, GeoDiversity: 100}
		u := &UserConfig{Weights: &w, Encryption: EncryptionAES256GCM}
		eff := base.Resolve(u)
		assert.Equal(t, w, eff.Weights)
		assert.Equal(t, EncryptionAES256GCM, eff.DefaultEncryption)
	})

	t.Run("DoesNotMutateBase", func(t *testing.T) {
		u := &UserConfig{MinPathCount: 6, MaxPathCount: 9}
		_ = base.Resolve(u)
		assert.Equal(t, 3, base.MinPathCount)
		assert.Equal(t, time.Hour, base.SessionTimeout)
	})

	t.Log("✅ RoutingConfig.Resolve 测试通过")
}

// TestEncryptionMethod_Valid 测试加密方式枚举
func TestEncryptionMethod_Valid(t *testing.T) {
	assert.True(t, EncryptionChaCha20Poly1305.Valid())
	assert.True(t, EncryptionAES256GCM.Valid())
	assert.True(t, EncryptionXChaCha20Poly1305.Valid())
	assert.False(t, EncryptionUnknown.Valid())
	assert.False(t, EncryptionMethod(99).Valid())

	t.Log("✅ EncryptionMethod.Valid 测试通过")
}
