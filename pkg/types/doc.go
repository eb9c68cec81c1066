// Package types 定义多路径路由引擎的基础类型
//
// 本包不依赖任何 internal 包，供引擎内部各模块与外部调用方共用：
//   - ID 类型（SessionID / PathID / NodeID / Principal）
//   - 枚举（EncryptionMethod / SessionState / NodeStatus）
//   - 公共错误（授权、过期、候选不足、配置校验等）
//   - 事件类型（EvtSessionCreated 等，经事件总线发布）
//   - 配置结构（RoutingConfig / UserConfig / CriteriaWeights）
//   - 路径指标与快照结构（PathMetrics / PathStats / SessionInfo）
package types
