// Package session 实现路由会话与会话管理器
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dep2p/go-multipath/internal/config"
	"github.com/dep2p/go-multipath/internal/core/directory"
	"github.com/dep2p/go-multipath/internal/core/distributor"
	"github.com/dep2p/go-multipath/internal/core/metrics"
	"github.com/dep2p/go-multipath/internal/core/path"
	"github.com/dep2p/go-multipath/internal/core/scoring"
	"github.com/dep2p/go-multipath/pkg/interfaces"
	"github.com/dep2p/go-multipath/pkg/lib/log"
	"github.com/dep2p/go-multipath/pkg/types"
)

var logger = log.Logger("core/session")

// 默认参数
const (
	defaultProbeTimeout  = 3 * time.Second
	defaultSweepInterval = 30 * time.Second
	defaultHistorySize   = 256
)

// Options 管理器的可选依赖
//
// 零值字段使用内置默认实现。
type Options struct {
	// Probe 监控协作方；nil 时使用合成探测
	Probe interfaces.MetricsProbe

	// Directory 节点目录协作方；nil 时跳过候选校验与区域补充
	Directory interfaces.NodeDirectory

	// Clock 时钟协作方；nil 时使用真实时钟
	Clock clock.Clock

	// Collector 指标收集器；nil 时使用私有注册表
	Collector *metrics.Collector

	// Selector 路径选择器；nil 时自动创建（测试可注入固定种子的选择器）
	Selector *path.Selector

	// ProbeTimeout 单次探测调用的超时
	ProbeTimeout time.Duration

	// SweepInterval 过期会话清扫间隔
	SweepInterval time.Duration

	// HistorySize 已结束会话历史缓存条目数
	HistorySize int
}

// Manager 会话管理器
//
// 持有全部会话，对外路由 CreateSession / Transmit / Reevaluate /
// EndSession 调用。所有变更性调用都做所有者校验；校验失败发生在
// 任何状态变更之前，调用原子地失败。
type Manager struct {
	mu       sync.RWMutex
	sessions map[types.SessionID]*Session

	// history 已结束会话的快照，支撑 EndSession 幂等与事后查询
	history *lru.Cache[types.SessionID, *types.SessionInfo]

	cfg      *config.Store
	selector *path.Selector
	probe    interfaces.MetricsProbe
	dir      interfaces.NodeDirectory
	clk      clock.Clock
	stats    *metrics.Collector

	probeTimeout  time.Duration
	sweepInterval time.Duration

	// 事件发射器
	emitSessionCreated interfaces.Emitter
	emitSessionEnded   interfaces.Emitter
	emitDataMoved      interfaces.Emitter
	emitPathCreated    interfaces.Emitter
	emitPathUpdated    interfaces.Emitter

	// 清扫协程生命周期
	lifeMu sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager 创建会话管理器
func NewManager(store *config.Store, bus interfaces.EventBus, opts Options) (*Manager, error) {
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}

	probe := opts.Probe
	if probe == nil {
		probe = &path.SyntheticProbe{
			MinCapacityMbps: store.Current().Config.MinCapacityMbps,
		}
	}

	selector := opts.Selector
	if selector == nil {
		selector = path.NewSelector(clk)
	}

	stats := opts.Collector
	if stats == nil {
		stats = metrics.NewCollector(nil)
	}

	probeTimeout := opts.ProbeTimeout
	if probeTimeout <= 0 {
		probeTimeout = defaultProbeTimeout
	}
	sweepInterval := opts.SweepInterval
	if sweepInterval <= 0 {
		sweepInterval = defaultSweepInterval
	}
	historySize := opts.HistorySize
	if historySize <= 0 {
		historySize = defaultHistorySize
	}

	history, err := lru.New[types.SessionID, *types.SessionInfo](historySize)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		sessions:      make(map[types.SessionID]*Session),
		history:       history,
		cfg:           store,
		selector:      selector,
		probe:         probe,
		dir:           opts.Directory,
		clk:           clk,
		stats:         stats,
		probeTimeout:  probeTimeout,
		sweepInterval: sweepInterval,
	}

	if m.emitSessionCreated, err = bus.Emitter(new(types.EvtSessionCreated)); err != nil {
		return nil, err
	}
	if m.emitSessionEnded, err = bus.Emitter(new(types.EvtSessionEnded)); err != nil {
		return nil, err
	}
	if m.emitDataMoved, err = bus.Emitter(new(types.EvtDataTransferred)); err != nil {
		return nil, err
	}
	if m.emitPathCreated, err = bus.Emitter(new(types.EvtPathCreated)); err != nil {
		return nil, err
	}
	if m.emitPathUpdated, err = bus.Emitter(new(types.EvtPathUpdated)); err != nil {
		return nil, err
	}

	return m, nil
}

// ============================================================================
//                              生命周期
// ============================================================================

// Start 启动过期会话清扫协程
//
// 清扫协程的生命周期由 Stop 管理，不随启动方的 ctx 取消。
func (m *Manager) Start(_ context.Context) error {
	m.lifeMu.Lock()
	defer m.lifeMu.Unlock()

	if m.cancel != nil {
		return nil // 已启动
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.wg.Add(1)
	go m.sweepLoop(ctx)

	logger.Info("会话管理器已启动", "sweepInterval", m.sweepInterval)
	return nil
}

// Stop 停止清扫协程并关闭发射器
func (m *Manager) Stop() error {
	m.lifeMu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.lifeMu.Unlock()

	m.wg.Wait()

	m.emitSessionCreated.Close()
	m.emitSessionEnded.Close()
	m.emitDataMoved.Close()
	m.emitPathCreated.Close()
	m.emitPathUpdated.Close()

	logger.Info("会话管理器已停止")
	return nil
}

// sweepLoop 周期性终结自然过期的会话
func (m *Manager) sweepLoop(ctx context.Context) {
	defer m.wg.Done()

	ticker := m.clk.Ticker(m.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweepExpired()
		}
	}
}

// sweepExpired 扫描并终结已过期会话
func (m *Manager) sweepExpired() {
	m.mu.RLock()
	candidates := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		candidates = append(candidates, s)
	}
	m.mu.RUnlock()

	now := m.clk.Now()
	for _, s := range candidates {
		s.mu.Lock()
		if s.ended || !s.expired(now) {
			s.mu.Unlock()
			continue
		}
		m.finalizeLocked(s, now)
		s.mu.Unlock()
	}
}

// finalizeLocked 终结会话：发布 SessionEnded、写入历史、从存活表摘除
//
// 调用方需持有 s.mu；对每个会话恰好执行一次。
func (m *Manager) finalizeLocked(s *Session, now time.Time) {
	s.ended = true
	info := s.info(now)

	m.mu.Lock()
	delete(m.sessions, s.id)
	m.history.Add(s.id, info)
	m.mu.Unlock()

	m.emitSessionEnded.Emit(&types.EvtSessionEnded{
		BaseEvent:  types.NewBaseEvent("session.ended", now),
		SessionID:  s.id,
		Owner:      s.owner,
		Duration:   now.Sub(s.createdAt),
		TotalBytes: s.totalBytes,
	})
	m.stats.SessionEnded()

	logger.Info("会话已结束",
		"session", s.id.ShortString(),
		"duration", now.Sub(s.createdAt),
		"totalBytes", s.totalBytes)
}

// ============================================================================
//                              会话创建
// ============================================================================

// CreateSession 创建会话并构建初始路径集
//
// 初始路径数为 clamp(请求值, min, max)；候选节点数少于生效的
// MinPathCount 时整个调用失败，不产生任何路径。
func (m *Manager) CreateSession(ctx context.Context, owner types.Principal, candidates []types.NodeID, opts ...CreateOption) (*types.SessionInfo, error) {
	settings := &createSettings{}
	for _, opt := range opts {
		opt(settings)
	}

	// 全部校验先于任何状态变更
	if err := settings.user.Validate(); err != nil {
		return nil, err
	}
	if settings.timeout < 0 || settings.fragmentSize < 0 {
		return nil, types.ErrInvalidRange
	}
	if settings.encryption != types.EncryptionUnknown && !settings.encryption.Valid() {
		return nil, types.ErrInvalidEncryption
	}

	cfg := m.cfg.Current().Config
	eff := cfg.Resolve(settings.user)

	valid, regions := directory.ValidateCandidates(ctx, m.dir, candidates)

	paths, err := m.selector.BuildPaths(path.BuildRequest{
		Candidates: valid,
		Desired:    settings.desired,
		Config:     eff,
		User:       settings.user,
		Regions:    regions,
	})
	if err != nil {
		return nil, err
	}

	now := m.clk.Now()

	timeout := settings.timeout
	if timeout == 0 {
		timeout = eff.SessionTimeout
	}
	fragmentSize := settings.fragmentSize
	if fragmentSize == 0 {
		fragmentSize = eff.FragmentSize
	}
	encryption := settings.encryption
	if encryption == types.EncryptionUnknown {
		encryption = eff.DefaultEncryption
	}

	s := &Session{
		id:              types.NewSessionID(),
		owner:           owner,
		active:          make(map[types.PathID]struct{}),
		createdAt:       now,
		lastActive:      now,
		expiryTime:      now.Add(timeout),
		lastReevaluated: now,
		fragmentSize:    fragmentSize,
		encryption:      encryption,
		user:            settings.user,
		protocolVersion: types.CurrentProtocolVersion,
	}
	for _, p := range paths {
		s.activatePath(p)
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	m.emitSessionCreated.Emit(&types.EvtSessionCreated{
		BaseEvent:  types.NewBaseEvent("session.created", now),
		SessionID:  s.id,
		Owner:      owner,
		PathCount:  len(paths),
		CreatedAt:  now,
		ExpiryTime: s.expiryTime,
	})
	for _, p := range paths {
		m.emitPathCreated.Emit(&types.EvtPathCreated{
			BaseEvent: types.NewBaseEvent("path.created", now),
			PathID:    p.ID,
			SessionID: s.id,
			NodeCount: len(p.NodeIDs),
			Score:     p.Score,
			CreatedAt: p.CreatedAt,
		})
		m.stats.PathCreated(p.Score)
	}
	m.stats.SessionCreated()

	logger.Info("会话已创建",
		"session", s.id.ShortString(),
		"owner", string(owner),
		"paths", len(paths),
		"expiry", s.expiryTime)

	return s.info(now), nil
}

// ============================================================================
//                              数据分发
// ============================================================================

// Transmit 把一次出站载荷分发到活跃路径上
//
// 要求调用方为会话所有者且会话处于 Active 状态。
// 分配计划覆盖全部载荷后才落账；活跃路径为空时返回 ErrNoActivePaths。
func (m *Manager) Transmit(_ context.Context, caller types.Principal, id types.SessionID, payloadSize uint64) (*types.TransferSummary, error) {
	s, err := m.live(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.owner != caller {
		return nil, types.ErrNotAuthorized
	}
	now := m.clk.Now()
	if s.ended || s.expired(now) {
		return nil, types.ErrSessionExpired
	}

	plan, err := distributor.Distribute(s.paths, payloadSize, s.fragmentSize)
	if err != nil {
		return nil, err
	}

	// 校验全部通过，开始落账
	byPath := plan.BytesByPath()
	for _, p := range s.paths {
		if n, ok := byPath[p.ID]; ok {
			p.TotalBytes += n
			p.LastEvaluated = now
		}
	}
	s.lastActive = now
	s.totalBytes += plan.TotalBytes

	m.emitDataMoved.Emit(&types.EvtDataTransferred{
		BaseEvent:     types.NewBaseEvent("session.data", now),
		SessionID:     s.id,
		FragmentCount: plan.FragmentCount,
		TotalSize:     plan.TotalBytes,
	})
	m.stats.DataTransferred(plan.TotalBytes, plan.FragmentCount)

	logger.Debug("载荷已分发",
		"session", s.id.ShortString(),
		"bytes", plan.TotalBytes,
		"fragments", plan.FragmentCount,
		"activePaths", s.activeCount())

	return &types.TransferSummary{
		SessionID:     s.id,
		FragmentCount: plan.FragmentCount,
		TotalBytes:    plan.TotalBytes,
		BytesByPath:   byPath,
	}, nil
}

// ============================================================================
//                              重评估
// ============================================================================

// Reevaluate 按需重评估会话的路径集
//
// 所有者发起的外部调用；周期性重评估见 RefreshAll。
func (m *Manager) Reevaluate(ctx context.Context, caller types.Principal, id types.SessionID, candidates []types.NodeID) error {
	s, err := m.live(id)
	if err != nil {
		return err
	}
	return m.reevaluateSession(ctx, s, caller, candidates, false)
}

// RefreshAll 对到期的会话执行一轮系统发起的重评估
//
// 由重评估服务按 ReevaluationInterval 周期调用；
// source 为空时只重评分，不补充路径。
func (m *Manager) RefreshAll(ctx context.Context, source interfaces.CandidateSource) {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	interval := m.cfg.Current().Config.ReevaluationInterval
	now := m.clk.Now()

	for _, s := range sessions {
		s.mu.Lock()
		due := !s.ended && !s.expired(now) && now.Sub(s.lastReevaluated) >= interval
		id := s.id
		s.mu.Unlock()
		if !due {
			continue
		}

		var candidates []types.NodeID
		if source != nil {
			var err error
			candidates, err = source.Candidates(ctx, id)
			if err != nil {
				logger.Warn("获取候选节点失败",
					"session", id.ShortString(),
					"err", err)
			}
		}

		if err := m.reevaluateSession(ctx, s, s.owner, candidates, true); err != nil {
			logger.Warn("周期性重评估失败",
				"session", id.ShortString(),
				"err", err)
		}
	}
}

// reevaluateSession 单个会话的重评估
//
// 流程：
//  1. 持锁快照路径与生效配置，校验所有者与过期
//  2. 释放锁，带超时并发刷新指标（失败沿用旧值）
//  3. 重新持锁，逐路径重评分；低于停用阈值的移出活跃集
//  4. 活跃数低于下限时从候选池补建路径
//
// 单条路径的探测失败不会中止整个调用；只有过期与越权会失败。
func (m *Manager) reevaluateSession(ctx context.Context, s *Session, caller types.Principal, candidates []types.NodeID, system bool) error {
	cfg := m.cfg.Current().Config

	s.mu.Lock()
	if !system && s.owner != caller {
		s.mu.Unlock()
		return types.ErrNotAuthorized
	}
	now := m.clk.Now()
	if s.ended || s.expired(now) {
		s.mu.Unlock()
		return types.ErrSessionExpired
	}

	eff := cfg.Resolve(s.user)
	snaps := make([]path.Snapshot, 0, len(s.paths))
	for _, p := range s.paths {
		snaps = append(snaps, p.Snapshot())
	}
	user := s.user
	s.mu.Unlock()

	// 锁外：指标刷新与候选校验（可能较慢）
	refreshed, probeErr := path.RefreshAll(ctx, m.probe, m.probeTimeout, snaps)
	if probeErr != nil {
		logger.Warn("部分路径指标刷新失败，沿用旧指标",
			"session", s.id.ShortString(),
			"err", probeErr)
	}
	valid, regions := directory.ValidateCandidates(ctx, m.dir, candidates)

	s.mu.Lock()
	defer s.mu.Unlock()

	now = m.clk.Now()
	if s.ended || s.expired(now) {
		// 探测期间会话已终结，放弃本轮结果
		return types.ErrSessionExpired
	}

	for _, p := range s.paths {
		nm, ok := refreshed[p.ID]
		if !ok {
			// 探测期间新建的路径，本轮跳过
			continue
		}

		oldScore := p.Score
		p.Metrics = nm
		p.Score = scoring.Score(nm, eff.Weights)
		p.LastEvaluated = now

		deactivated := false
		if p.Active && p.Score < eff.DeactivationThreshold {
			s.deactivatePath(p)
			deactivated = true
			m.stats.PathDeactivated()
			logger.Info("路径评分低于阈值，已停用",
				"session", s.id.ShortString(),
				"path", p.ID.ShortString(),
				"score", p.Score,
				"threshold", eff.DeactivationThreshold)
		}

		if p.Score != oldScore || deactivated {
			m.emitPathUpdated.Emit(&types.EvtPathUpdated{
				BaseEvent:   types.NewBaseEvent("path.updated", now),
				PathID:      p.ID,
				SessionID:   s.id,
				OldScore:    oldScore,
				NewScore:    p.Score,
				Deactivated: deactivated,
			})
		}
		m.stats.PathRescored(p.Score)
	}

	// 活跃集低于下限时补建路径；候选不足时降级而非失败
	if need := eff.MinPathCount - s.activeCount(); need > 0 && len(valid) > 0 {
		newPaths, err := m.selector.BuildPaths(path.BuildRequest{
			Candidates:  valid,
			Desired:     need,
			Exact:       true,
			Config:      eff,
			User:        user,
			Regions:     regions,
			UsedRegions: s.usedRegions(regions),
		})
		if err != nil {
			logger.Warn("补充路径失败，活跃集低于下限",
				"session", s.id.ShortString(),
				"active", s.activeCount(),
				"min", eff.MinPathCount,
				"err", err)
		} else {
			for _, p := range newPaths {
				s.activatePath(p)
				m.emitPathCreated.Emit(&types.EvtPathCreated{
					BaseEvent: types.NewBaseEvent("path.created", now),
					PathID:    p.ID,
					SessionID: s.id,
					NodeCount: len(p.NodeIDs),
					Score:     p.Score,
					CreatedAt: p.CreatedAt,
				})
				m.stats.PathCreated(p.Score)
			}
		}
	}

	s.lastReevaluated = now
	m.stats.Reevaluated()

	logger.Debug("会话重评估完成",
		"session", s.id.ShortString(),
		"paths", len(s.paths),
		"active", s.activeCount())

	return nil
}

// ============================================================================
//                              会话终结
// ============================================================================

// EndSession 主动结束会话
//
// 把 expiryTime 置为当前时刻并终结会话。幂等：对已结束的
// 会话再次调用是无副作用的成功。
func (m *Manager) EndSession(caller types.Principal, id types.SessionID) error {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		// 已终结的会话：幂等成功（仍做所有者校验）
		if info, found := m.history.Get(id); found {
			if info.Owner != caller {
				return types.ErrNotAuthorized
			}
			return nil
		}
		return fmt.Errorf("%w: %s", types.ErrSessionNotFound, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.owner != caller {
		return types.ErrNotAuthorized
	}
	if s.ended {
		return nil
	}

	now := m.clk.Now()
	if !s.expired(now) {
		s.expiryTime = now
	}
	m.finalizeLocked(s, now)

	return nil
}

// ============================================================================
//                              只读查询
// ============================================================================

// Info 返回会话快照
//
// 已结束的会话返回历史快照（State 为 Expired）。
func (m *Manager) Info(id types.SessionID) (*types.SessionInfo, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		if info, found := m.history.Get(id); found {
			cp := *info
			cp.State = types.SessionStateExpired
			return &cp, nil
		}
		return nil, fmt.Errorf("%w: %s", types.ErrSessionNotFound, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info(m.clk.Now()), nil
}

// PathStats 返回会话全部路径的快照（含已停用路径）
func (m *Manager) PathStats(id types.SessionID) ([]*types.PathStats, error) {
	s, err := m.live(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pathStats(), nil
}

// SessionIDs 返回当前存活的会话 ID 列表
func (m *Manager) SessionIDs() []types.SessionID {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]types.SessionID, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Len 返回当前存活的会话数
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// live 按 ID 取存活会话
//
// 已终结的会话返回 ErrSessionExpired，未知 ID 返回 ErrSessionNotFound。
func (m *Manager) live(id types.SessionID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		if _, found := m.history.Get(id); found {
			return nil, types.ErrSessionExpired
		}
		return nil, fmt.Errorf("%w: %s", types.ErrSessionNotFound, id)
	}
	return s, nil
}
