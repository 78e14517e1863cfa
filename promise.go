// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

import "github.com/google/uuid"

// TaskID identifies a spawned task, unique within a run.
type TaskID uuid.UUID

func (id TaskID) String() string { return uuid.UUID(id).String() }

// PromiseID identifies a promise, unique within a run.
type PromiseID uuid.UUID

func (id PromiseID) String() string { return uuid.UUID(id).String() }

// newTaskID and newPromiseID mint fresh identifiers. Grounded on
// yungbote-neurobridge-backend's use of google/uuid for externally visible
// handles; a monotonic counter is kept alongside (scheduler.go) purely for
// deterministic log ordering, but every handle crossing the package
// boundary is a uuid.UUID so host bindings never leak internal sequence
// numbers.
func newTaskID() TaskID       { return TaskID(uuid.New()) }
func newPromiseID() PromiseID { return PromiseID(uuid.New()) }

// promiseState is the at-most-once settlement box behind a [PromiseID].
// Grounded on the teacher's affine.go one-shot resumption gate,
// generalized from a single resume callback to fan-out over every
// [AwaitPromise] subscriber waiting at the moment of settlement — the
// Promise/A+ "settle once, notify all" discipline from
// joeycumines-go-utilpkg/eventloop's promise.go.
type promiseState struct {
	id      PromiseID
	once    OnceSettle
	value   any
	err     error
	waiters []chan Outcome[any]
}

func newPromiseState(id PromiseID) *promiseState {
	return &promiseState{id: id}
}

// settle completes the promise exactly once, returning
// [ErrPromiseAlreadyCompleted] on a second call. It is called by the
// CompletePromise/FailPromise handlers on the scheduler's driver; the
// [OnceSettle] gate decides which call wins.
func (p *promiseState) settle(value any, err error) error {
	if !p.once.TrySettle() {
		return ErrPromiseAlreadyCompleted
	}
	p.value, p.err = value, err
	var out Outcome[any]
	if err != nil {
		out = Err[any](err)
	} else {
		out = Ok(value)
	}
	for _, w := range p.waiters {
		w <- out
	}
	p.waiters = nil
	return nil
}

// subscribe registers a waiter and returns its outcome channel. If the
// promise already settled, the channel carries the result immediately
// without blocking on the scheduler's settlement path.
func (p *promiseState) subscribe() <-chan Outcome[any] {
	ch := make(chan Outcome[any], 1)
	if p.once.Settled() {
		if p.err != nil {
			ch <- Err[any](p.err)
		} else {
			ch <- Ok(p.value)
		}
		return ch
	}
	p.waiters = append(p.waiters, ch)
	return ch
}

// CreatePromiseEffect allocates a fresh, unsettled promise.
type CreatePromiseEffect struct{ effectBase }

func (CreatePromiseEffect) EffectName() string { return "CreatePromise" }

// CreatePromise builds a Program resolving to the new [PromiseID].
func CreatePromise() Program { return CreatePromiseEffect{} }

// CompletePromiseEffect settles a promise with a success value.
type CompletePromiseEffect struct {
	effectBase
	ID    PromiseID
	Value any
}

func (CompletePromiseEffect) EffectName() string { return "CompletePromise" }

// CompletePromise builds a Program that settles id with value, raising
// [ErrPromiseAlreadyCompleted] if it was already settled.
func CompletePromise(id PromiseID, value any) Program {
	return CompletePromiseEffect{ID: id, Value: value}
}

// FailPromiseEffect settles a promise with a failure.
type FailPromiseEffect struct {
	effectBase
	ID  PromiseID
	Err error
}

func (FailPromiseEffect) EffectName() string { return "FailPromise" }

// FailPromise builds a Program that settles id with err.
func FailPromise(id PromiseID, err error) Program {
	return FailPromiseEffect{ID: id, Err: err}
}

// AwaitPromiseEffect blocks the performing task until a promise settles,
// resolving to its value or re-raising its error.
type AwaitPromiseEffect struct {
	effectBase
	ID PromiseID
}

func (AwaitPromiseEffect) EffectName() string { return "AwaitPromise" }

// AwaitPromise builds a Program that blocks until id settles.
func AwaitPromise(id PromiseID) Program { return AwaitPromiseEffect{ID: id} }
