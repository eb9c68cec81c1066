// Package reevaluator 实现周期性路径重评估服务
//
// 服务按 RoutingConfig.ReevaluationInterval 的节拍驱动会话管理器
// 执行系统发起的重评估：刷新指标、重评分、停用低分路径、
// 从候选池补充活跃集。按需（所有者发起）的重评估不经过本服务，
// 直接走 Manager.Reevaluate。
package reevaluator

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-multipath/internal/config"
	"github.com/dep2p/go-multipath/internal/core/session"
	"github.com/dep2p/go-multipath/pkg/interfaces"
	"github.com/dep2p/go-multipath/pkg/lib/log"
)

var logger = log.Logger("core/reevaluator")

// tickDivisor 服务节拍相对重评估间隔的细分倍数
//
// 节拍比间隔更密，配合 Manager 内部的到期判断，
// 避免配置更新后仍按旧间隔触发。
const tickDivisor = 4

// Service 周期性重评估服务
type Service struct {
	manager *session.Manager
	cfg     *config.Store
	source  interfaces.CandidateSource // 可选；nil 时只重评分不补路径
	clk     clock.Clock

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService 创建重评估服务
func NewService(manager *session.Manager, cfg *config.Store, source interfaces.CandidateSource, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.New()
	}
	return &Service{
		manager: manager,
		cfg:     cfg,
		source:  source,
		clk:     clk,
	}
}

// Start 启动周期性重评估
//
// 循环的生命周期由 Stop 管理，不随启动方的 ctx 取消。
func (s *Service) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return nil // 已启动
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	go s.loop(ctx)

	logger.Info("重评估服务已启动",
		"interval", s.cfg.Current().Config.ReevaluationInterval)
	return nil
}

// Stop 停止服务
func (s *Service) Stop() error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
	logger.Info("重评估服务已停止")
	return nil
}

// TriggerNow 立即执行一轮重评估（测试与运维用）
func (s *Service) TriggerNow(ctx context.Context) {
	s.manager.RefreshAll(ctx, s.source)
}

// loop 重评估循环
func (s *Service) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := s.clk.Ticker(s.tick())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.manager.RefreshAll(ctx, s.source)
			ticker.Reset(s.tick())
		}
	}
}

// tick 计算当前节拍
func (s *Service) tick() time.Duration {
	interval := s.cfg.Current().Config.ReevaluationInterval
	tick := interval / tickDivisor
	if tick < time.Second {
		tick = time.Second
	}
	return tick
}
