// Package workerpool runs tasks on a fixed set of goroutines behind a
// bounded queue. The event dispatcher uses it for asynchronous listeners so
// a burst of orders cannot spawn an unbounded number of goroutines.
package workerpool

import (
	"errors"
	"sync"

	"github.com/shashiranjanraj/dinehub/pkg/logger"
)

var (
	// ErrPoolFull is returned by Submit when the queue is at capacity.
	ErrPoolFull = errors.New("workerpool: pool is full")
	// ErrPoolClosed is returned once Shutdown has started.
	ErrPoolClosed = errors.New("workerpool: pool is closed")
)

type Pool struct {
	mu     sync.RWMutex
	closed bool
	tasks  chan func()
	wg     sync.WaitGroup
}

// New starts size workers with a queue of 2*size tasks.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{tasks: make(chan func(), size*2)}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}
	return p
}

// Submit enqueues task without blocking.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// Pending is the number of queued tasks not yet picked up by a worker.
func (p *Pool) Pending() int { return len(p.tasks) }

// Shutdown refuses new tasks, drains the queue and waits for the workers.
// Safe to call more than once.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		run(task)
	}
}

func run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workerpool: task panicked", "panic", r)
		}
	}()
	task()
}
