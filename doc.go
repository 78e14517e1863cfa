// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package effekt is the core runtime of an algebraic-effects system meant to
// be embedded in a host dynamic language. Programs are lazy, composable
// values describing side effects; the runtime interprets them with a
// stepping CESK-style evaluator, dispatches effects to pluggable handlers,
// and coordinates concurrent tasks through a cooperative scheduler.
//
// # Layers
//
// Four cooperating layers, each a leaf dependency of the one above:
//
//   - Data model: [Effect], [Program], [Frame], [Env], [Store], [TaskID],
//     [PromiseID] — see cont.go, kleisli.go, env.go, store.go, frame.go,
//     promise.go.
//   - Evaluator: [StepTask] advances one task by one dispatch — see step.go.
//   - Scheduler: [Scheduler] owns the task table, ready queue, and the
//     blocked-on-task/promise/semaphore maps — see scheduler.go.
//   - External bridge: a thread-safe completion queue that lets code
//     outside the VM (goroutines, callbacks) complete promises — see
//     bridge.go.
//
// # Effect taxonomy
//
// Reader ([Ask], [Local]), State ([Get], [Put], [Modify]), Writer ([Tell],
// [Listen]), Control ([Pure], [Safe], [Intercept]), Concurrency ([Spawn],
// [Wait], [Gather], [Race], [CreatePromise], [CreateSemaphore]), Time
// ([Delay], [GetTime], [WaitUntil]), and the asyncio bridge ([Await]).
//
// # Entry points
//
//   - [Run]: synchronous, single-threaded, real sleeps, background-thread
//     [Await].
//   - [AsyncRun]: driven by a caller-supplied goroutine, [Await] runs
//     concurrently with other spawned tasks.
//   - [SimulationRun]: deterministic, instant virtual clock, [Await]
//     unsupported.
//
// # Design
//
// Frame dispatch is virtual (the [Frame] interface's OnValue/OnError), not
// defunctionalized — unlike the teacher this package grew from, frames here
// carry effect-system control state (caught errors, saved environments,
// intercept transforms) rather than pure arithmetic continuations, so
// interface dispatch reads better than a type-switch over data. The
// CESK stepping discipline (advance one dispatch, thread env/store/kont
// explicitly, pool short-lived nodes) is kept throughout.
package effekt
