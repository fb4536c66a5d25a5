// Package worker is a fixed-size goroutine pool for fire-and-forget
// background jobs (cache prewarms). Jobs never block the caller: when
// the buffer is full the job is dropped, since a prewarm that cannot be
// queued will simply happen lazily on the next read.
package worker

import (
	"sync"

	"github.com/sarmadgill/pump-ledger/pkg/logger"
)

type Job func()

type Pool struct {
	jobs    chan Job
	workers int
	quit    chan struct{}
	waiter  sync.WaitGroup
	once    sync.Once
}

func NewPool(workers, buffer int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		jobs:    make(chan Job, buffer),
		workers: workers,
		quit:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	p.waiter.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func(index int) {
			defer p.waiter.Done()
			for {
				select {
				case job := <-p.jobs:
					p.run(index, job)
				case <-p.quit:
					return
				}
			}
		}(i)
	}
}

func (p *Pool) run(index int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("worker job panicked", "worker", index, "panic", r)
		}
	}()
	job()
}

// TrySubmit enqueues the job unless the buffer is full or the pool has
// stopped. Reports whether the job was queued.
func (p *Pool) TrySubmit(job Job) bool {
	select {
	case <-p.quit:
		return false
	case p.jobs <- job:
		return true
	default:
		return false
	}
}

func (p *Pool) Pending() int {
	return len(p.jobs)
}

// Stop terminates the workers. Queued jobs that were not picked up are
// dropped.
func (p *Pool) Stop() {
	p.once.Do(func() { close(p.quit) })
	p.waiter.Wait()
}
