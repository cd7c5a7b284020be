// Package workerpool provides a bounded goroutine pool with backpressure.
// Submit never blocks: when every worker is busy and the task buffer is
// full it returns ErrPoolFull so the caller can fall back or reject.
package workerpool

import (
	"errors"
	"sync"
)

var (
	// ErrPoolFull means all workers are busy and the buffer is at capacity.
	ErrPoolFull = errors.New("workerpool: pool is full")
	// ErrPoolClosed means Shutdown has already been called.
	ErrPoolClosed = errors.New("workerpool: pool is closed")
)

// Pool runs submitted tasks on a fixed set of worker goroutines.
type Pool struct {
	tasks  chan func()
	wg     sync.WaitGroup
	once   sync.Once
	closed chan struct{}
}

// New starts a pool with size workers and a buffer of twice that, so short
// bursts are absorbed without tripping ErrPoolFull.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		tasks:  make(chan func(), size*2),
		closed: make(chan struct{}),
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit enqueues task without blocking. Returns ErrPoolFull when the
// buffer is at capacity, ErrPoolClosed after Shutdown.
func (p *Pool) Submit(task func()) error {
	select {
	case <-p.closed:
		return ErrPoolClosed
	default:
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait blocks until a buffer slot frees up or the pool closes.
func (p *Pool) SubmitWait(task func()) error {
	select {
	case <-p.closed:
		return ErrPoolClosed
	case p.tasks <- task:
		return nil
	}
}

// Shutdown stops accepting tasks and waits for in-flight work to finish.
// Safe to call more than once.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		close(p.closed)
		close(p.tasks)
		p.wg.Wait()
	})
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		run(task)
	}
}

// run isolates a panicking task so it cannot take the worker down.
func run(task func()) {
	defer func() { _ = recover() }()
	task()
}
