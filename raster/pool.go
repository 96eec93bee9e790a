package raster

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers leaves one core for the frame orchestrator.
func DefaultWorkers() int {
	return max(1, runtime.NumCPU()-1)
}

// FrameResult is what the barrier reports for one frame.
type FrameResult struct {
	Enqueued  int
	Completed int
	// Skipped counts units dropped because the frame deadline passed
	// before any worker picked them up.
	Skipped int
}

// Pool is a fixed set of long-lived workers draining a shared Queue into a
// Rasterizer. One goroutine submits a frame's units and then calls Wait;
// that goroutine must not Submit again until Wait has returned.
type Pool struct {
	queue   *Queue
	raster  *Rasterizer
	workers int

	pending   sync.WaitGroup
	enqueued  atomic.Int64
	completed atomic.Int64
	skipped   atomic.Int64

	group  *errgroup.Group
	cancel context.CancelFunc
}

func NewPool(r *Rasterizer, workers int) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	return &Pool{
		queue:   NewQueue(),
		raster:  r,
		workers: workers,
	}
}

func (p *Pool) Workers() int {
	return p.workers
}

// Start spawns the workers. They run until Stop or until ctx is canceled.
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.group, ctx = errgroup.WithContext(ctx)
	for i := 0; i < p.workers; i++ {
		p.group.Go(func() error {
			return p.work(ctx)
		})
	}
	// Canceling the parent context closes the queue so blocked workers wake.
	context.AfterFunc(ctx, p.queue.Close)
}

func (p *Pool) work(ctx context.Context) error {
	for {
		u, ok := p.queue.Pop()
		if !ok {
			return nil
		}
		if ctx.Err() != nil {
			p.skipped.Add(1)
			p.pending.Done()
			continue
		}
		p.raster.Fill(u)
		p.completed.Add(1)
		p.pending.Done()
		runtime.Gosched()
	}
}

// Submit enqueues one unit for the current frame.
func (p *Pool) Submit(u DrawUnit) {
	p.pending.Add(1)
	if !p.queue.Push(u) {
		// Pool already stopped.
		p.skipped.Add(1)
		p.pending.Done()
		return
	}
	p.enqueued.Add(1)
}

// Wait blocks until every unit submitted since the last Wait has been
// rasterized, then resets the counters for the next frame. With zero
// submitted units it returns immediately. If ctx ends first, units still in
// the queue are discarded and counted as skipped; units already being
// rasterized are waited for, so the buffer is quiescent on return.
func (p *Pool) Wait(ctx context.Context) FrameResult {
	done := make(chan struct{})
	go func() {
		p.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		for {
			if _, ok := p.queue.TryPop(); !ok {
				break
			}
			p.skipped.Add(1)
			p.pending.Done()
		}
		<-done
	}

	return FrameResult{
		Enqueued:  int(p.enqueued.Swap(0)),
		Completed: int(p.completed.Swap(0)),
		Skipped:   int(p.skipped.Swap(0)),
	}
}

// Stop shuts the workers down and waits for them to exit. Units still
// queued are skipped.
func (p *Pool) Stop() error {
	p.queue.Close()
	if p.cancel != nil {
		p.cancel()
	}
	if p.group == nil {
		return nil
	}
	return p.group.Wait()
}
