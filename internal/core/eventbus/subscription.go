// Package eventbus 实现进程内事件总线
package eventbus

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// ============================================================================
//                              Subscription 实现
// ============================================================================

// Subscription 订阅
type Subscription struct {
	bus       *Bus
	typ       reflect.Type
	out       chan interface{}
	closeOnce sync.Once
	closed    atomic.Bool
}

// Out 返回事件通道
func (s *Subscription) Out() <-chan interface{} {
	return s.out
}

// Close 取消订阅
//
// 并发安全，可多次调用。关闭时先从总线摘除，再后台排空并关闭通道，
// 避免阻塞正在发射的一方。
func (s *Subscription) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.bus.removeSub(s)

		go func() {
			for range s.out {
			}
		}()
		close(s.out)
	})

	return nil
}

// ============================================================================
//                              Emitter 实现
// ============================================================================

// Emitter 事件发射器
type Emitter struct {
	bus       *Bus
	node      *node
	typ       reflect.Type
	closed    atomic.Bool
	closeOnce sync.Once
}

// Emit 发射事件
//
// 接受事件值或事件指针；订阅方收到的始终是事件值。
func (e *Emitter) Emit(event interface{}) error {
	if e.closed.Load() {
		return ErrEmitterClosed
	}

	v := reflect.ValueOf(event)
	if v.Kind() == reflect.Ptr && v.Type().Elem() == e.typ {
		event = v.Elem().Interface()
	}

	e.node.emit(event)
	return nil
}

// Close 关闭发射器
//
// 引用计数归零且没有订阅者时，事件类型节点被回收。
func (e *Emitter) Close() error {
	e.closeOnce.Do(func() {
		e.closed.Store(true)

		if e.node.nEmitters.Add(-1) == 0 {
			e.bus.tryDropNode(e.typ)
		}
	})

	return nil
}
