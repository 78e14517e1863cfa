// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

import "sync"

// AwaitEffect bridges to a host asyncio operation: Start is run on a
// background goroutine (outside the cooperative scheduler's single
// logical driver), and the performing task blocks until that goroutine
// calls the [ExternalPromise] it was handed (spec.md §4.4 "asyncio
// bridge"). Not supported under [SimulationRun] — see [ErrAwaitUnsupported].
type AwaitEffect struct {
	effectBase
	Start func(p *ExternalPromise)
}

func (AwaitEffect) EffectName() string { return "Await" }

// Await builds a Program that runs start on a background goroutine and
// blocks until it completes or fails the ExternalPromise it receives.
func Await(start func(p *ExternalPromise)) Program { return AwaitEffect{Start: start} }

// ExternalPromise is the handle code outside the VM uses to settle an
// Await'd operation. Complete/Fail may be called from any goroutine at
// any time — this is the one multi-producer touchpoint in the whole
// runtime, grounded on joeycumines-go-utilpkg/eventloop's promisify.go
// and registry.go (thread-safe completion callbacks fed back into a
// single-threaded event loop).
type ExternalPromise struct {
	once   OnceSettle
	taskID TaskID
	queue  *externalQueue
}

// Complete settles the bridged operation successfully. A second call (or
// a call after Fail) is a no-op: only the first settlement is delivered.
func (p *ExternalPromise) Complete(value any) {
	if !p.once.TrySettle() {
		return
	}
	p.queue.push(externalCompletion{task: p.taskID, value: value})
}

// Fail settles the bridged operation with an error.
func (p *ExternalPromise) Fail(err error) {
	if !p.once.TrySettle() {
		return
	}
	p.queue.push(externalCompletion{task: p.taskID, err: err})
}

// externalCompletion is one entry in the bridge's completion queue: a
// task to resume and the value or error to resume it with.
type externalCompletion struct {
	task  TaskID
	value any
	err   error
}

// externalQueue is the thread-safe, multi-producer/single-consumer queue
// external goroutines push completions into and the scheduler drains on
// its own turn. Grounded on the same eventloop pattern as
// [ExternalPromise]: a mutex-guarded slice plus a notification channel
// rather than an unbounded lock-free structure, since completions arrive
// at human/IO timescales, not hot-path rates.
type externalQueue struct {
	mu      sync.Mutex
	pending []externalCompletion
	notify  chan struct{}
}

func newExternalQueue() *externalQueue {
	return &externalQueue{notify: make(chan struct{}, 1)}
}

func (q *externalQueue) push(c externalCompletion) {
	q.mu.Lock()
	q.pending = append(q.pending, c)
	q.mu.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// drain removes and returns every completion queued so far, without
// blocking.
func (q *externalQueue) drain() []externalCompletion {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	out := q.pending
	q.pending = nil
	return out
}

// empty reports whether the queue currently has no pending completions,
// used by the scheduler's deadlock check (spec.md §4.3 "Deadlock": a run
// with blocked tasks is not deadlocked while an external completion could
// still arrive).
func (q *externalQueue) empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending) == 0
}
