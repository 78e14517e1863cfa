// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

import "github.com/google/uuid"

// SemaphoreID identifies a semaphore, unique within a run.
type SemaphoreID uuid.UUID

func (id SemaphoreID) String() string { return uuid.UUID(id).String() }

// semaphoreState tracks a counting semaphore's permits and the FIFO queue
// of tasks waiting for one. Grounded on MongooseMoo-barn's scheduler
// ordering (server/scheduler.go's TaskQueue), adapted from task-run order
// to permit-grant order: whichever task asked first gets the next permit
// that frees up, which is what spec.md §4.3 calls "FIFO-fair semaphores".
type semaphoreState struct {
	id       SemaphoreID
	capacity int
	held     int
	waiters  []TaskID
}

func newSemaphoreState(id SemaphoreID, capacity int) *semaphoreState {
	return &semaphoreState{id: id, capacity: capacity}
}

// tryAcquire grants a permit immediately if one is free, else enqueues
// waiter and reports false.
func (s *semaphoreState) tryAcquire(waiter TaskID) bool {
	if s.held < s.capacity {
		s.held++
		return true
	}
	s.waiters = append(s.waiters, waiter)
	return false
}

// release returns one permit. If a task is waiting, it is handed the
// freed permit directly (held count unchanged) and woken reports its ID
// with wokeAny true. Otherwise held decreases and wokeAny is false; over
// reports whether the semaphore had no permits held to release at all.
func (s *semaphoreState) release() (woken TaskID, wokeAny bool, over bool) {
	if len(s.waiters) > 0 {
		woken = s.waiters[0]
		s.waiters = s.waiters[1:]
		return woken, true, false
	}
	if s.held == 0 {
		return TaskID{}, false, true
	}
	s.held--
	return TaskID{}, false, false
}

// CreateSemaphoreEffect allocates a counting semaphore with capacity
// permits.
type CreateSemaphoreEffect struct {
	effectBase
	Capacity int
}

func (CreateSemaphoreEffect) EffectName() string { return "CreateSemaphore" }

// CreateSemaphore builds a Program resolving to the new [SemaphoreID].
func CreateSemaphore(capacity int) Program {
	return CreateSemaphoreEffect{Capacity: capacity}
}

// AcquireSemaphoreEffect blocks the performing task until a permit on sem
// is available.
type AcquireSemaphoreEffect struct {
	effectBase
	ID SemaphoreID
}

func (AcquireSemaphoreEffect) EffectName() string { return "AcquireSemaphore" }

// AcquireSemaphore builds a Program that blocks until a permit is free.
func AcquireSemaphore(sem SemaphoreID) Program { return AcquireSemaphoreEffect{ID: sem} }

// ReleaseSemaphoreEffect returns one permit to sem, raising
// [ErrSemaphoreOverRelease] if that would exceed its capacity.
type ReleaseSemaphoreEffect struct {
	effectBase
	ID SemaphoreID
}

func (ReleaseSemaphoreEffect) EffectName() string { return "ReleaseSemaphore" }

// ReleaseSemaphore builds a Program that releases one permit on sem.
func ReleaseSemaphore(sem SemaphoreID) Program { return ReleaseSemaphoreEffect{ID: sem} }
