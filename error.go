// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

import (
	"errors"
	"fmt"
)

// Sentinel errors the runtime raises. Callers compare against these with
// errors.Is; handlers and user code may wrap them with additional context
// via fmt.Errorf("...: %w", ...).
var (
	// ErrMissingEnvKey is raised when [Ask] is performed for a key absent
	// from the current [Env] chain.
	ErrMissingEnvKey = errors.New("effekt: missing env key")

	// ErrUnhandledEffect is raised when a [HandlerTable] has no registered
	// handler for the effect being dispatched.
	ErrUnhandledEffect = errors.New("effekt: unhandled effect")

	// ErrTaskCancelled is the error a cancelled task's Wait/Gather/Race
	// resumes with.
	ErrTaskCancelled = errors.New("effekt: task cancelled")

	// ErrPromiseAlreadyCompleted is raised by a second Complete/Fail call
	// on a [Promise] that has already settled.
	ErrPromiseAlreadyCompleted = errors.New("effekt: promise already completed")

	// ErrSemaphoreOverRelease is raised when a semaphore's permit count is
	// released above its configured capacity.
	ErrSemaphoreOverRelease = errors.New("effekt: semaphore released past capacity")

	// ErrDeadlock is raised when the scheduler's ready queue empties while
	// tasks remain blocked with no external completion that could ever
	// unblock them (spec.md §4.3 "Deadlock").
	ErrDeadlock = errors.New("effekt: scheduler deadlock, no runnable task and no pending external completion")

	// ErrAwaitUnsupported is raised by [Await] under [SimulationRun], which
	// has no real I/O loop to bridge into (spec.md §4.4).
	ErrAwaitUnsupported = errors.New("effekt: await is not supported under simulation run")
)

// MissingEnvKeyError carries the specific key that was looked up and is
// absent, for diagnostics. It wraps [ErrMissingEnvKey] so errors.Is still
// matches.
type MissingEnvKeyError struct {
	Key Key
}

func (e *MissingEnvKeyError) Error() string {
	return fmt.Sprintf("%v: %v", ErrMissingEnvKey, e.Key)
}

func (e *MissingEnvKeyError) Unwrap() error { return ErrMissingEnvKey }

// UnhandledEffectError carries the effect name that had no registered
// handler.
type UnhandledEffectError struct {
	EffectName string
}

func (e *UnhandledEffectError) Error() string {
	return fmt.Sprintf("%v: %s", ErrUnhandledEffect, e.EffectName)
}

func (e *UnhandledEffectError) Unwrap() error { return ErrUnhandledEffect }

// TaskPanicError wraps a non-error panic value recovered from a handler or
// generator body running within a task, so it can propagate as a normal
// Outcome instead of crashing the whole run.
type TaskPanicError struct {
	Recovered any
}

func (e *TaskPanicError) Error() string {
	return "effekt: task panicked: " + errAny(e.Recovered)
}
