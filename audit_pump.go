package goGate

import (
	"context"
	"sync"
	"sync/atomic"
)

// auditPump ferries decision events from the request path to the configured
// AuditSink on a single background goroutine. Decide must stay free of I/O, so
// publishing is a channel send against a bounded queue; with DropIfFull the
// pump sheds the event and counts the drop instead of applying backpressure to
// the gated request.
type auditPump struct {
	sink       AuditSink
	queue      chan AuditEvent
	done       chan struct{}
	dropIfFull bool
	drops      atomic.Uint64
	closed     atomic.Bool
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

// newAuditPump returns nil when auditing is disabled; a nil pump swallows
// publishes, so callers never branch on the config themselves.
func newAuditPump(cfg AuditConfig, sink AuditSink) *auditPump {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	p := &auditPump{
		sink:       sink,
		queue:      make(chan AuditEvent, cfg.BufferSize),
		done:       make(chan struct{}),
		dropIfFull: cfg.DropIfFull,
	}

	p.wg.Add(1)
	go p.deliver()

	return p
}

func (p *auditPump) deliver() {
	defer p.wg.Done()

	for {
		select {
		case event := <-p.queue:
			p.sink.Emit(context.Background(), event)
		case <-p.done:
			p.drain()
			return
		}
	}
}

// drain flushes decision events already queued at close time. Events published
// after close are dropped, not flushed.
func (p *auditPump) drain() {
	for {
		select {
		case event := <-p.queue:
			p.sink.Emit(context.Background(), event)
		default:
			return
		}
	}
}

// publish hands one decision event to the delivery goroutine. In shedding mode
// it returns immediately whether or not the event was queued; otherwise it
// waits until the queue accepts the event, the context is cancelled, or the
// pump closes.
func (p *auditPump) publish(ctx context.Context, event AuditEvent) {
	if p == nil || p.closed.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if p.dropIfFull {
		select {
		case p.queue <- event:
		case <-p.done:
		default:
			p.drops.Add(1)
		}
		return
	}

	select {
	case p.queue <- event:
	case <-ctx.Done():
	case <-p.done:
	}
}

// close stops delivery after draining whatever is queued. Safe to call more
// than once and on a nil pump.
func (p *auditPump) close() {
	if p == nil {
		return
	}
	p.stopOnce.Do(func() {
		p.closed.Store(true)
		close(p.done)
		p.wg.Wait()
	})
}

// dropCount reports how many decision events were shed since the pump started.
func (p *auditPump) dropCount() uint64 {
	if p == nil {
		return 0
	}
	return p.drops.Load()
}
