// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

import "time"

// RunResult is what every entry point returns: the root program's
// outcome plus the final state observers need for diagnostics and
// testing (spec.md §5 "Entry points").
type RunResult struct {
	Outcome Outcome[any]
	Env     Env
	Store   *Store
	Log     []any
	Trace   *CallNode // nil unless WithObservability(true)
}

func newRunResult(root *taskState, out Outcome[any]) RunResult {
	return RunResult{
		Outcome: out,
		Env:     root.env,
		Store:   root.store,
		Log:     root.store.Log(),
		Trace:   root.trace,
	}
}

// Run executes prog synchronously to completion on the calling goroutine.
// [Await] runs its Start callback on a background goroutine and blocks the
// scheduler loop only until that goroutine settles the task's
// [ExternalPromise] — every other task keeps stepping in the meantime via
// the external-completion queue (spec.md §5 "Run").
func Run(prog Program, env Env, store *Store, opts ...RunOption) RunResult {
	cfg := defaultRunConfig()
	for _, o := range opts {
		o(&cfg)
	}
	sched := newScheduler(realClock{}, cfg.handlers, cfg.logger, cfg.observability, cfg.quantum)
	root := sched.spawn(env, store, prog, nil)
	out := sched.run(root)
	return newRunResult(sched.tasks[root], out)
}

// AsyncRun is semantically identical to [Run]: the scheduler is always a
// single logical driver. It exists as a distinct, differently named entry
// point because the spec calls out "driven by a caller-supplied
// goroutine" as a separate mode — here, that means the caller is free to
// invoke AsyncRun from whichever goroutine it likes (e.g. one already
// servicing a larger host event loop) while [Await] callbacks still run
// on their own background goroutines and report back through the same
// external-completion queue.
func AsyncRun(prog Program, env Env, store *Store, opts ...RunOption) RunResult {
	return Run(prog, env, store, opts...)
}

// SimulationRun executes prog against a deterministic virtual clock: Delay
// and WaitUntil resolve instantly once every other task has gone idle,
// rather than sleeping in real time, and [Await] is unsupported (there is
// no real I/O loop to bridge into) — any Await raises
// [ErrAwaitUnsupported] (spec.md §5 "Simulation run").
func SimulationRun(prog Program, env Env, store *Store, opts ...RunOption) RunResult {
	cfg := defaultRunConfig()
	for _, o := range opts {
		o(&cfg)
	}
	start := cfg.simStart
	if start.IsZero() {
		start = time.Unix(0, 0).UTC()
	}
	sched := newScheduler(newSimClock(start), cfg.handlers, cfg.logger, cfg.observability, cfg.quantum)
	root := sched.spawn(env, store, prog, nil)
	out := sched.run(root)
	return newRunResult(sched.tasks[root], out)
}
