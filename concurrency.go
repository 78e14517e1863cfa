// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

// SpawnEffect starts Body as an independent child task with a snapshot
// copy of the current Env/Store, resolving to the new [TaskID] without
// waiting for Body to finish (spec.md §4.3 "Spawn").
type SpawnEffect struct {
	effectBase
	Body Program
}

func (SpawnEffect) EffectName() string { return "Spawn" }

// Spawn builds a Program that starts body as a new task and resolves to
// its TaskID.
func Spawn(body Program) Program { return SpawnEffect{Body: body} }

// WaitEffect blocks until a task finishes, resolving to its value or
// re-raising its error (spec.md §4.2 "Wait").
type WaitEffect struct {
	effectBase
	Task TaskID
}

func (WaitEffect) EffectName() string { return "Wait" }

// Wait builds a Program that blocks until task finishes, resolving to its
// value or re-raising the error it failed with. Wrap the target's own body
// in [Safe] to collect failure instead of propagating it.
func Wait(task TaskID) Program { return WaitEffect{Task: task} }

// GatherEffect blocks until every task in Tasks finishes, resolving to
// their values in the order given (not completion order). Fail-fast: the
// first task to settle with an error aborts the parent immediately with
// that error (spec.md §4.2 "Gather") — the remaining tasks are left
// running as orphans, not collected. An empty Tasks resolves immediately
// to an empty slice. Wrap individual tasks' bodies in [Safe] to collect
// every outcome instead of failing fast.
type GatherEffect struct {
	effectBase
	Tasks []TaskID
}

func (GatherEffect) EffectName() string { return "Gather" }

// Gather builds a Program that waits on every task in tasks, fail-fast.
func Gather(tasks []TaskID) Program { return GatherEffect{Tasks: tasks} }

// RaceEffect blocks until the first task in Tasks finishes, resolving to
// that task's value (or re-raising its error) and its index in Tasks. If
// CancelLosers is set, the remaining tasks are cancelled once the winner
// settles (spec.md's Open Question on race-loser cancellation, resolved
// as opt-in — see SPEC_FULL.md "Supplemented features").
type RaceEffect struct {
	effectBase
	Tasks        []TaskID
	CancelLosers bool
}

func (RaceEffect) EffectName() string { return "Race" }

// RaceResult pairs the winning task's resolved value with its identity and
// index in the Tasks slice passed to [Race] (spec.md §4.2 "Race":
// "resolves to {first, value, rest}").
type RaceResult struct {
	Index int
	Task  TaskID
	Value any
}

// Race builds a Program resolving to the first of tasks to finish.
func Race(tasks []TaskID, opts ...RaceOption) Program {
	e := RaceEffect{Tasks: tasks}
	for _, o := range opts {
		o(&e)
	}
	return e
}

// RaceOption configures [Race].
type RaceOption func(*RaceEffect)

// CancelLosers cancels every task in a Race that did not win, once the
// winner settles.
func CancelLosers() RaceOption {
	return func(e *RaceEffect) { e.CancelLosers = true }
}

// CancelEffect requests cooperative cancellation of task: it resumes its
// next blocking Wait/Gather/Race/AwaitPromise with [ErrTaskCancelled]
// rather than being killed outright, since the runtime has no way to
// forcibly interrupt a task's host-side generator mid-body.
type CancelEffect struct {
	effectBase
	Task TaskID
}

func (CancelEffect) EffectName() string { return "Cancel" }

// Cancel builds a Program that requests cancellation of task.
func Cancel(task TaskID) Program { return CancelEffect{Task: task} }

// IsDoneEffect queries whether task has reached a terminal status (spec.md
// §3 "Task — a Future plus lifecycle operations (Cancel, IsDone)"; §4.2
// "is_done() returns whether the task has reached a terminal status").
type IsDoneEffect struct {
	effectBase
	Task TaskID
}

func (IsDoneEffect) EffectName() string { return "IsDone" }

// IsDone builds a Program resolving to true once task has settled
// (successfully or with an error), false while it's still running.
func IsDone(task TaskID) Program { return IsDoneEffect{Task: task} }
