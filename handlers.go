// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

import (
	"container/heap"
)

// DefaultHandlers builds the handler table for the Concurrency and Time
// effect families — the ones whose meaning depends on scheduler state
// rather than being defined by the stepper itself (those live in
// step.go's dispatchControl). Reader/State/Writer/Control never need
// entries here; they are handled unconditionally.
func DefaultHandlers() *HandlerTable {
	t := NewHandlerTable()

	t.Register("Spawn", func(st *taskState, eff Effect) (any, error) {
		e := eff.(SpawnEffect)
		return st.sched.spawn(st.env, st.store, e.Body, st.intercepts), nil
	})

	t.RegisterBlocking("Wait", func(st *taskState, eff Effect) {
		e := eff.(WaitEffect)
		sched := st.sched
		if target, ok := sched.tasks[e.Task]; ok && target.status == taskDone {
			v, _ := target.result.Value()
			st.resumeWith(v, target.result.Error())
			sched.enqueue(st.id)
			return
		}
		sched.blockedOnTask[e.Task] = append(sched.blockedOnTask[e.Task], st.id)
	})

	t.RegisterBlocking("Gather", func(st *taskState, eff Effect) {
		e := eff.(GatherEffect)
		sched := st.sched
		if len(e.Tasks) == 0 {
			st.resumeWith([]any{}, nil)
			sched.enqueue(st.id)
			return
		}
		g := &gatherWait{tasks: e.Tasks, results: make(map[TaskID]Outcome[any], len(e.Tasks))}
		for _, tid := range e.Tasks {
			if target, ok := sched.tasks[tid]; ok && target.status == taskDone {
				if !target.result.IsOk() {
					// Fail-fast (spec.md §4.2 "Gather"): an already-settled
					// error aborts before we even block.
					st.resumeWith(nil, target.result.Error())
					sched.enqueue(st.id)
					return
				}
				g.results[tid] = target.result
			}
		}
		if len(g.results) == len(g.tasks) {
			sched.settleGather(st.id, g)
			return
		}
		sched.blockedGather[st.id] = g
	})

	t.RegisterBlocking("Race", func(st *taskState, eff Effect) {
		e := eff.(RaceEffect)
		sched := st.sched
		for _, tid := range e.Tasks {
			if target, ok := sched.tasks[tid]; ok && target.status == taskDone {
				g := &gatherWait{tasks: e.Tasks, race: true, cancelOut: e.CancelLosers,
					results: map[TaskID]Outcome[any]{tid: target.result}}
				sched.settleRace(st.id, g, tid)
				return
			}
		}
		sched.blockedGather[st.id] = &gatherWait{
			tasks: e.Tasks, race: true, cancelOut: e.CancelLosers,
			results: make(map[TaskID]Outcome[any]),
		}
	})

	t.Register("IsDone", func(st *taskState, eff Effect) (any, error) {
		e := eff.(IsDoneEffect)
		target, ok := st.sched.tasks[e.Task]
		if !ok {
			return nil, &MissingEnvKeyError{Key: e.Task}
		}
		return target.status == taskDone, nil
	})

	t.Register("Cancel", func(st *taskState, eff Effect) (any, error) {
		e := eff.(CancelEffect)
		st.sched.requestCancel(e.Task)
		return nil, nil
	})

	t.Register("CreatePromise", func(st *taskState, eff Effect) (any, error) {
		id := newPromiseID()
		st.sched.promises[id] = newPromiseState(id)
		return id, nil
	})

	t.Register("CompletePromise", func(st *taskState, eff Effect) (any, error) {
		e := eff.(CompletePromiseEffect)
		p, ok := st.sched.promises[e.ID]
		if !ok {
			return nil, &MissingEnvKeyError{Key: e.ID}
		}
		return nil, p.settle(e.Value, nil)
	})

	t.Register("FailPromise", func(st *taskState, eff Effect) (any, error) {
		e := eff.(FailPromiseEffect)
		p, ok := st.sched.promises[e.ID]
		if !ok {
			return nil, &MissingEnvKeyError{Key: e.ID}
		}
		return nil, p.settle(nil, e.Err)
	})

	t.RegisterBlocking("AwaitPromise", func(st *taskState, eff Effect) {
		e := eff.(AwaitPromiseEffect)
		sched := st.sched
		p, ok := sched.promises[e.ID]
		if !ok {
			st.resumeWith(nil, &MissingEnvKeyError{Key: e.ID})
			sched.enqueue(st.id)
			return
		}
		ch := p.subscribe()
		select {
		case out := <-ch:
			v, _ := out.Value()
			st.resumeWith(v, out.Error())
			sched.enqueue(st.id)
		default:
			go func() {
				out := <-ch
				v, _ := out.Value()
				sched.external.push(externalCompletion{task: st.id, value: v, err: out.Error()})
			}()
			sched.outstandingAwaits++
		}
	})

	t.Register("CreateSemaphore", func(st *taskState, eff Effect) (any, error) {
		e := eff.(CreateSemaphoreEffect)
		id := SemaphoreID(newTaskID())
		st.sched.semaphores[id] = newSemaphoreState(id, e.Capacity)
		return id, nil
	})

	t.RegisterBlocking("AcquireSemaphore", func(st *taskState, eff Effect) {
		e := eff.(AcquireSemaphoreEffect)
		sched := st.sched
		sem, ok := sched.semaphores[e.ID]
		if !ok {
			st.resumeWith(nil, &MissingEnvKeyError{Key: e.ID})
			sched.enqueue(st.id)
			return
		}
		if sem.tryAcquire(st.id) {
			st.resumeWith(nil, nil)
			sched.enqueue(st.id)
		}
		// else: enqueued into sem.waiters; woken by a future Release.
	})

	t.Register("ReleaseSemaphore", func(st *taskState, eff Effect) (any, error) {
		e := eff.(ReleaseSemaphoreEffect)
		sem, ok := st.sched.semaphores[e.ID]
		if !ok {
			return nil, &MissingEnvKeyError{Key: e.ID}
		}
		woken, wokeAny, over := sem.release()
		if over {
			return nil, ErrSemaphoreOverRelease
		}
		if wokeAny {
			if w, ok := st.sched.tasks[woken]; ok {
				w.resumeWith(nil, nil)
				st.sched.enqueue(woken)
			}
		}
		return nil, nil
	})

	t.RegisterBlocking("Delay", func(st *taskState, eff Effect) {
		e := eff.(DelayEffect)
		sched := st.sched
		heap.Push(&sched.timers, &timer{deadline: sched.clock.Now().Add(e.Duration), task: st.id})
	})

	t.Register("GetTime", func(st *taskState, eff Effect) (any, error) {
		return st.sched.clock.Now(), nil
	})

	t.RegisterBlocking("WaitUntil", func(st *taskState, eff Effect) {
		e := eff.(WaitUntilEffect)
		sched := st.sched
		if !e.Deadline.After(sched.clock.Now()) {
			st.resumeWith(nil, nil)
			sched.enqueue(st.id)
			return
		}
		heap.Push(&sched.timers, &timer{deadline: e.Deadline, task: st.id})
	})

	t.RegisterBlocking("Await", func(st *taskState, eff Effect) {
		e := eff.(AwaitEffect)
		sched := st.sched
		if _, simulated := sched.clock.(*simClock); simulated {
			st.resumeWith(nil, ErrAwaitUnsupported)
			sched.enqueue(st.id)
			return
		}
		p := &ExternalPromise{taskID: st.id, queue: sched.external}
		sched.outstandingAwaits++
		go e.Start(p)
	})

	return t
}
