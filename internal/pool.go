// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package internal

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/klauspost/cpuid"
	"github.com/pbnjay/memory"
)

// Approximate working-set bytes per pixel of a request: a few intermediate
// RGB float32 buffers plus color space scratch
const poolBytesPerPixel = 64

// Fraction of physical memory the pool may commit to in-flight pixels
const poolMemoryFraction = 4

// A unit of pool work producing a buffer
type Task func(ctx context.Context) (*PixelBuffer, error)

type poolResult struct {
	buf *PixelBuffer
	err error
}

type poolJob struct {
	ctx    context.Context
	pixels int64
	run    Task
	done   chan poolResult
}

// Bounded executor for enhancement requests. Two independent limits apply:
// a fixed queue depth, which rejects excess submissions immediately, and an
// in-flight pixel budget derived from physical memory, which delays
// execution instead of rejecting. Workers match the logical core count.
type Pool struct {
	workers     int
	queue       chan *poolJob
	pixelBudget int64

	mu       sync.Mutex
	cond     *sync.Cond
	inFlight int64
	closed   bool
	wg       sync.WaitGroup
}

// Create a pool with the given worker count and queue depth. Zero values
// select defaults: one worker per logical core and a queue of four jobs
// per worker.
func NewPool(workers, queueDepth int) *Pool {
	if workers<=0 {
		workers=cpuid.CPU.LogicalCores
		if workers<=0 { workers=runtime.NumCPU() }
	}
	if queueDepth<=0 { queueDepth=4*workers }

	budget:=int64(memory.TotalMemory()/poolMemoryFraction)/poolBytesPerPixel
	if budget<=0 { budget=1<<24 }

	p:=&Pool{
		workers    : workers,
		queue      : make(chan *poolJob, queueDepth),
		pixelBudget: budget,
	}
	p.cond=sync.NewCond(&p.mu)
	LogPrintf("Worker pool: %d workers, queue depth %d, budget %d Mpixels\n",
		workers, queueDepth, budget>>20)

	for i:=0; i<workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job:=range p.queue {
		if err:=ctxErr(job.ctx); err!=nil {
			job.done<-poolResult{nil, err}
			continue
		}
		if err:=p.acquire(job.ctx, job.pixels); err!=nil {
			job.done<-poolResult{nil, err}
			continue
		}
		buf, err:=job.run(job.ctx)
		p.release(job.pixels)
		job.done<-poolResult{buf, err}
	}
}

// Block until the job's pixels fit under the in-flight budget. Oversized
// jobs exceeding the whole budget run alone rather than never. Returns
// early when the job's context terminates while waiting.
func (p *Pool) acquire(ctx context.Context, pixels int64) error {
	if pixels>p.pixelBudget { pixels=p.pixelBudget }

	// wake waiters when the context ends so the ctx check below runs
	stop:=context.AfterFunc(ctx, func() {
		p.mu.Lock()
		p.cond.Broadcast()
		p.mu.Unlock()
	})
	defer stop()

	p.mu.Lock()
	defer p.mu.Unlock()
	for p.inFlight+pixels>p.pixelBudget {
		if err:=ctxErr(ctx); err!=nil { return err }
		p.cond.Wait()
	}
	p.inFlight+=pixels
	return nil
}

func (p *Pool) release(pixels int64) {
	if pixels>p.pixelBudget { pixels=p.pixelBudget }
	p.mu.Lock()
	p.inFlight-=pixels
	p.cond.Broadcast()
	p.mu.Unlock()
}

// Submit a task covering the given number of pixels and wait for its
// result. Returns ErrCapacityExceeded without blocking when the queue is
// full. A context that terminates first yields ErrTimeout or ErrCanceled,
// and the task's eventual result is discarded.
func (p *Pool) Submit(ctx context.Context, pixels int64, task Task) (*PixelBuffer, error) {
	job:=&poolJob{ctx:ctx, pixels:pixels, run:task, done:make(chan poolResult, 1)}

	// enqueue under the mutex, so Shutdown cannot close the queue between
	// the closed check and the send
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: pool is shut down", ErrCapacityExceeded)
	}
	select {
	case p.queue<-job:
		p.mu.Unlock()
	default:
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: queue full (%d pending)", ErrCapacityExceeded, cap(p.queue))
	}

	select {
	case res:=<-job.done:
		return res.buf, res.err
	case <-ctx.Done():
		// the buffered done channel lets the worker finish and move on
		return nil, ctxErr(ctx)
	}
}

// Stop accepting work and wait for running jobs to drain
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed=true
	p.mu.Unlock()
	close(p.queue)
	p.wg.Wait()
}
