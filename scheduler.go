// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

import (
	"container/heap"
	"fmt"

	"github.com/rs/zerolog"
)

// Scheduler owns every task of one run and drives them cooperatively: a
// single logical goroutine repeatedly picks the next ready task, steps it
// once, and files the result (spec.md §4.3). Grounded on
// MongooseMoo-barn's server/scheduler.go TaskQueue and task/task.go
// TaskState for the ready-queue/blocked-map shape, generalized from that
// MOO server's fixed verb-call tasks to the spec's open effect taxonomy.
type Scheduler struct {
	tasks map[TaskID]*taskState
	ready []TaskID

	blockedOnTask  map[TaskID][]TaskID // task -> tasks waiting on its completion
	blockedGather  map[TaskID]*gatherWait
	promises       map[PromiseID]*promiseState
	semaphores     map[SemaphoreID]*semaphoreState
	timers         timerHeap
	external       *externalQueue
	askGates       *askGateTable
	cancelled      map[TaskID]bool
	outstandingAwaits int

	clock        Clock
	handlers     *HandlerTable
	logger       zerolog.Logger
	observability bool
	quantum      int
	seq          uint64

	atomicKeys map[Key]SemaphoreID

	rootResult *Outcome[any]
	rootID     TaskID
}

// atomicSemaphoreFor returns the binary semaphore guarding [AtomicUpdate]
// calls on key, creating it on first use. One semaphore per key keeps
// concurrent AtomicUpdates on different keys from serializing each other.
func (s *Scheduler) atomicSemaphoreFor(key Key) SemaphoreID {
	if s.atomicKeys == nil {
		s.atomicKeys = make(map[Key]SemaphoreID)
	}
	if id, ok := s.atomicKeys[key]; ok {
		return id
	}
	id := SemaphoreID(newTaskID())
	s.semaphores[id] = newSemaphoreState(id, 1)
	s.atomicKeys[key] = id
	return id
}

// gatherWait tracks a Gather/Race's outstanding children.
type gatherWait struct {
	tasks     []TaskID
	results   map[TaskID]Outcome[any]
	race      bool
	cancelOut bool
}

func newScheduler(clock Clock, handlers *HandlerTable, logger zerolog.Logger, observability bool, quantum int) *Scheduler {
	if quantum < 1 {
		quantum = 1
	}
	return &Scheduler{
		tasks:          make(map[TaskID]*taskState),
		blockedOnTask:  make(map[TaskID][]TaskID),
		blockedGather:  make(map[TaskID]*gatherWait),
		promises:       make(map[PromiseID]*promiseState),
		semaphores:     make(map[SemaphoreID]*semaphoreState),
		external:       newExternalQueue(),
		askGates:       newAskGateTable(),
		cancelled:      make(map[TaskID]bool),
		clock:          clock,
		handlers:       handlers,
		logger:         logger,
		observability:  observability,
		quantum:        quantum,
	}
}

// spawn creates a new task running body, with env/store inherited from the
// spawning context (store as a branch snapshot — see store.go's Snapshot
// doc — env by value since Env is already immutable). intercepts is the
// parent's active intercept scope: spec.md §4.1 requires child-task
// kontinuations to inherit the parent's enclosing InterceptFrames.
func (s *Scheduler) spawn(env Env, store *Store, body Program, intercepts *interceptScope) TaskID {
	id := newTaskID()
	st := &taskState{
		id:         id,
		current:    body,
		frames:     acquireFrameStack(),
		env:        env,
		store:      store.Snapshot(),
		intercepts: intercepts,
		handlers:   s.handlers,
		sched:      s,
	}
	if s.observability {
		st.trace = &CallNode{Label: fmt.Sprintf("task:%s", id)}
	}
	s.tasks[id] = st
	s.enqueue(id)
	return id
}

func (s *Scheduler) enqueue(id TaskID) {
	s.seq++
	s.ready = append(s.ready, id)
}

// runNested runs prog to completion synchronously, sharing caller's store
// and handlers but its own frame stack — used by lazy-env-entry resolution
// (step.go's resolveAsk) where a sub-computation must finish before the
// Ask that triggered it can resolve.
func (s *Scheduler) runNested(parent *taskState, prog Program) Outcome[any] {
	st := &taskState{
		current:    prog,
		frames:     acquireFrameStack(),
		env:        parent.env,
		store:      parent.store,
		intercepts: parent.intercepts,
		handlers:   parent.handlers,
		sched:      s,
	}
	for st.status != taskDone {
		StepTask(st)
		if st.status == taskBlocked {
			panic("effekt: lazy env entries may not perform blocking effects")
		}
	}
	releaseFrameStack(st.frames)
	return st.result
}

func (s *Scheduler) logRecord(e StructuredLogEffect) {
	evt := s.logger.WithLevel(zerologLevel(e.Level)).Str("msg", e.Msg)
	for k, v := range e.Fields {
		evt = evt.Interface(k, v)
	}
	evt.Send()
}

func zerologLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// run drives the scheduler until the root task settles or a deadlock is
// detected, returning the root's outcome.
func (s *Scheduler) run(rootID TaskID) Outcome[any] {
	s.rootID = rootID
	for {
		if root := s.tasks[rootID]; root.status == taskDone {
			return root.result
		}
		if len(s.ready) == 0 {
			if !s.advanceBlocked() {
				return Err[any](ErrDeadlock)
			}
			continue
		}
		id := s.ready[0]
		s.ready = s.ready[1:]
		st := s.tasks[id]
		if st.status != taskReady {
			continue
		}
		for i := 0; i < s.quantum && st.status == taskReady; i++ {
			StepTask(st)
		}
		switch st.status {
		case taskReady:
			s.enqueue(id)
		case taskDone:
			s.onTaskDone(id, st)
		case taskBlocked:
			// parked in whichever table its blocking handler (handlers.go)
			// registered it into; nothing further to do here.
		}
	}
}

// advanceBlocked drains the external queue and fires any elapsed timers,
// returning true if that unblocked at least one task. If neither queue has
// anything and outstandingAwaits is zero, the run is deadlocked.
func (s *Scheduler) advanceBlocked() bool {
	progressed := false
	for _, c := range s.external.drain() {
		if st, ok := s.tasks[c.task]; ok {
			st.resumeWith(c.value, c.err)
			s.enqueue(c.task)
			s.outstandingAwaits--
			progressed = true
		}
	}
	if progressed {
		return true
	}
	if len(s.timers) > 0 {
		t := heap.Pop(&s.timers).(*timer)
		if cs, ok := s.clock.(*simClock); ok && t.deadline.After(cs.Now()) {
			cs.advance(t.deadline.Sub(cs.Now()))
		} else if d := t.deadline.Sub(s.clock.Now()); d > 0 {
			s.clock.Sleep(d)
		}
		if st, ok := s.tasks[t.task]; ok {
			st.resumeWith(nil, nil)
			s.enqueue(t.task)
		}
		return true
	}
	if s.outstandingAwaits > 0 {
		if s.external.empty() {
			<-s.external.notify
		}
		return true
	}
	return false
}

// onTaskDone fans the completed task's outcome out to anything blocked on
// it: plain Wait callers (unwrapped to a value, or the error re-raised —
// spec.md §4.2 "Wait"), and any Gather/Race it's a member of.
func (s *Scheduler) onTaskDone(id TaskID, st *taskState) {
	for _, waiter := range s.blockedOnTask[id] {
		if w, ok := s.tasks[waiter]; ok {
			v, _ := st.result.Value()
			w.resumeWith(v, st.result.Error())
			s.enqueue(waiter)
		}
	}
	delete(s.blockedOnTask, id)

	for owner, g := range s.blockedGather {
		for _, t := range g.tasks {
			if t != id {
				continue
			}
			g.results[id] = st.result
			switch {
			case g.race:
				s.settleRace(owner, g, id)
				delete(s.blockedGather, owner)
			case !st.result.IsOk():
				// Fail-fast (spec.md §4.2 "Gather"): the first error aborts
				// the parent immediately; siblings are left to run to
				// completion as orphans rather than being collected.
				if w, ok := s.tasks[owner]; ok {
					w.resumeWith(nil, st.result.Error())
					s.enqueue(owner)
				}
				delete(s.blockedGather, owner)
			case len(g.results) == len(g.tasks):
				s.settleGather(owner, g)
				delete(s.blockedGather, owner)
			}
		}
	}
}

// settleGather resolves a successful Gather to the plain (unwrapped)
// values of every child, in input order (spec.md §4.2/§8 "the result
// list's i-th element is the value of fi"). Only called once every child
// in g has settled with a non-error outcome — see onTaskDone's fail-fast
// branch for the error case.
func (s *Scheduler) settleGather(owner TaskID, g *gatherWait) {
	out := make([]any, len(g.tasks))
	for i, t := range g.tasks {
		v, _ := g.results[t].Value()
		out[i] = v
	}
	if w, ok := s.tasks[owner]; ok {
		w.resumeWith(out, nil)
		s.enqueue(owner)
	}
}

// settleRace resolves a Race to the winner's plain value, or re-raises its
// error — the same Wait-style unwrap, since a Race is a Wait on whichever
// future settles first (spec.md §4.2 "Race").
func (s *Scheduler) settleRace(owner TaskID, g *gatherWait, winner TaskID) {
	idx := 0
	for i, t := range g.tasks {
		if t == winner {
			idx = i
			break
		}
	}
	if g.cancelOut {
		for _, t := range g.tasks {
			if t != winner {
				s.requestCancel(t)
			}
		}
	}
	if w, ok := s.tasks[owner]; ok {
		result := g.results[winner]
		v, _ := result.Value()
		if !result.IsOk() {
			w.resumeWith(nil, result.Error())
		} else {
			w.resumeWith(RaceResult{Index: idx, Task: winner, Value: v}, nil)
		}
		s.enqueue(owner)
	}
}

// requestCancel marks task cancelled; its next blocking point resumes with
// [ErrTaskCancelled] rather than the runtime forcibly tearing it down.
func (s *Scheduler) requestCancel(task TaskID) {
	s.cancelled[task] = true
	if st, ok := s.tasks[task]; ok && st.status == taskBlocked {
		st.resumeWith(nil, ErrTaskCancelled)
		s.enqueue(task)
	}
}
