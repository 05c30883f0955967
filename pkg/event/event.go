// Package event is an in-process event dispatcher. Listeners run either
// inline (Fire) or in the background (FireAsync); a panicking listener is
// logged and never takes down the caller.
package event

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/dinehub/pkg/logger"
	"github.com/shashiranjanraj/dinehub/pkg/workerpool"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload any)

type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	wg       sync.WaitGroup
	pool     *workerpool.Pool
	closed   bool
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: map[string][]Handler{}}
}

// UsePool runs FireAsync listeners on pool instead of fresh goroutines.
// When the pool is full or closed the listener runs inline.
func (d *Dispatcher) UsePool(pool *workerpool.Pool) *Dispatcher {
	d.pool = pool
	return d
}

// Listen registers a handler for the given event name.
func (d *Dispatcher) Listen(event string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[event] = append(d.handlers[event], h)
}

// Fire dispatches an event synchronously to every listener.
func (d *Dispatcher) Fire(ctx context.Context, event string, payload any) {
	if d == nil {
		return
	}
	for _, h := range d.listeners(event) {
		d.call(ctx, event, h, payload)
	}
}

// FireAsync dispatches to every listener concurrently and returns at once.
// The listeners see a context detached from ctx's cancellation. After Close
// the listeners run inline instead.
func (d *Dispatcher) FireAsync(ctx context.Context, event string, payload any) {
	if d == nil {
		return
	}
	hs, open := d.track(event)
	if !open {
		d.Fire(ctx, event, payload)
		return
	}

	detached := context.WithoutCancel(ctx)
	for _, h := range hs {
		task := func() {
			defer d.wg.Done()
			d.call(detached, event, h, payload)
		}

		if d.pool == nil {
			go task()
			continue
		}
		if err := d.pool.Submit(task); err != nil {
			logger.WithCtx(ctx).Warn("event: pool unavailable, running listener inline", "event", event, "error", err)
			task()
		}
	}
}

// Wait blocks until every FireAsync listener started so far has returned.
func (d *Dispatcher) Wait() {
	if d != nil {
		d.wg.Wait()
	}
}

// Close stops background dispatch and waits for running listeners.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.wg.Wait()
}

// track snapshots the listeners of event and counts them as in flight, unless
// the dispatcher is closed. Add and Close share d.mu so no Add races Wait.
func (d *Dispatcher) track(event string) ([]Handler, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return nil, false
	}
	hs := make([]Handler, len(d.handlers[event]))
	copy(hs, d.handlers[event])
	d.wg.Add(len(hs))
	return hs, true
}

func (d *Dispatcher) listeners(event string) []Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	hs := make([]Handler, len(d.handlers[event]))
	copy(hs, d.handlers[event])
	return hs
}

func (d *Dispatcher) call(ctx context.Context, event string, h Handler, payload any) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("event: listener panicked", "event", event, "panic", r)
		}
	}()
	h(ctx, payload)
}
