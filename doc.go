// Package multipath 实现多路径动态路由引擎
//
// 引擎把一个逻辑会话的流量拆分到多条独立评分的中继路径上，
// 持续重评估路径健康度并再平衡流量。它只负责控制面决策：
// 开多少条路径、选哪些节点、流量如何切分、何时替换路径；
// 实际的网络传输、节点目录与指标测量由外部协作方提供。
//
// # 快速开始
//
//	engine, err := multipath.New()
//	if err != nil { ... }
//	if err := engine.Start(ctx); err != nil { ... }
//	defer engine.Stop(ctx)
//
//	info, err := engine.CreateSession(ctx, "alice", candidates)
//	summary, err := engine.Transmit(ctx, "alice", info.ID, 1<<20)
//	err = engine.Reevaluate(ctx, "alice", info.ID, candidates)
//	err = engine.EndSession("alice", info.ID)
//
// # 组成
//
//   - 评分（internal/core/scoring）：纯整数定点评分，[0,1000]
//   - 选路（internal/core/path）：洗牌、多跳、节点不相交路径构建
//   - 会话（internal/core/session）：所有权、生命周期、分发与重评估入口
//   - 分发（internal/core/distributor）：分片轮转分配
//   - 重评估（internal/core/reevaluator）：周期性健康检查与活跃集修复
//   - 事件（internal/core/eventbus）：类型化进程内事件
//
// 所有通知事件定义于 pkg/types，经 Engine.EventBus() 订阅：
//
//	sub, _ := engine.EventBus().Subscribe(new(types.EvtPathUpdated))
//	for ev := range sub.Out() { ... }
package multipath
