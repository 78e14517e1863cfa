// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

import "fmt"

// taskStatus is the CESK machine's control-state classification for one
// task: ready to be stepped, blocked on something only the scheduler can
// resolve, or settled.
type taskStatus int

const (
	taskReady taskStatus = iota
	taskBlocked
	taskDone
)

// blockReason names what a blocked task is waiting on, so the scheduler
// knows which table to park it in (spec.md §4.3).
type blockReason int

const (
	blockNone blockReason = iota
	blockOnPromise
	blockOnSemaphore
	blockOnTask
	blockOnClock
	blockOnExternal
)

// taskState is the CESK "machine state" for one task: Control (current
// Program plus any running generators), Environment, Store (the snapshot
// taken when the task was spawned), and Kontinuation (the frame stack). Grounded on the teacher's
// Suspension[A]/stepProcessor (step.go), restructured around a mutable
// per-task record instead of an immutable returned tuple, because the
// scheduler must be able to park and resume a task's whole machine state
// across unrelated tasks running in between.
type taskState struct {
	id TaskID

	current Program // next Program to execute; nil when resuming a value/error
	resVal  any
	resErr  error
	hasRes  bool

	frames     []Frame
	genStack   []*ProgramIter
	env        Env
	store      *Store
	intercepts *interceptScope
	handlers   *HandlerTable
	sched      *Scheduler

	status    taskStatus
	reason    blockReason
	blockedOn any // PromiseID, SemaphoreID, TaskID, or nil

	result Outcome[any]
	trace  *CallNode // non-nil only when observability is enabled
}

func (st *taskState) pushFrame(f Frame) { st.frames = append(st.frames, f) }

func (st *taskState) popFrame() (Frame, bool) {
	if len(st.frames) == 0 {
		return nil, false
	}
	f := st.frames[len(st.frames)-1]
	st.frames = st.frames[:len(st.frames)-1]
	return f, true
}

// resumeWith queues a value or error to flow into the task the next time
// it is stepped, without running any evaluation yet. Used by the
// scheduler when a blocked task unblocks (e.g. Wait's target promise
// settles, or AcquireSemaphore finally gets a permit).
func (st *taskState) resumeWith(value any, err error) {
	st.resVal, st.resErr, st.hasRes = value, err, true
	st.status = taskReady
	st.reason = blockNone
	st.blockedOn = nil
}

// StepTask advances st by exactly one dispatch (spec.md §4.1): either it
// runs one effect to completion against the handler table, or it threads
// a pending resumption value through the active generator and frame
// stack far enough to reach the next effect. It never blocks — a task
// that performs a blocking effect transitions to taskBlocked and returns
// to the scheduler loop instead.
func StepTask(st *taskState) {
	if st.hasRes {
		st.hasRes = false
		st.settle(st.resVal, st.resErr)
		return
	}
	prog := st.current
	st.current = nil
	switch p := prog.(type) {
	case nil:
		panic("effekt: StepTask called with no pending program or resumption")
	case pureProgram:
		st.settle(p.value, nil)
	case KleisliCall:
		it := p.ToIter()
		st.genStack = append(st.genStack, it)
		next, done, val, err := it.Start()
		st.afterGenStep(next, done, val, err)
	case Effect:
		st.dispatchEffect(p)
	default:
		panic(fmt.Sprintf("effekt: unknown Program type %T", prog))
	}
}

// afterGenStep interprets a [ProgramIter] step: either the generator
// yielded a new Program to run (descend into it), or it completed (settle
// the frame beneath it with its final value/error).
func (st *taskState) afterGenStep(next Program, done bool, val any, err error) {
	if !done {
		st.current = next
		return
	}
	st.genStack = st.genStack[:len(st.genStack)-1]
	st.settle(val, err)
}

// settle delivers a value or error to whatever is waiting for it: first
// the innermost running generator (if any KleisliCall is mid-flight),
// otherwise the next [Frame] on the stack, otherwise the task itself is
// done.
func (st *taskState) settle(value any, err error) {
	if n := len(st.genStack); n > 0 {
		it := st.genStack[n-1]
		next, done, v, e := it.Send(value, err)
		st.afterGenStep(next, done, v, e)
		return
	}
	f, ok := st.popFrame()
	if !ok {
		st.status = taskDone
		if err != nil {
			st.result = Err[any](err)
		} else {
			st.result = Ok(value)
		}
		return
	}
	var fr FrameResult
	if err != nil {
		fr = f.OnError(st, err)
	} else {
		fr = f.OnValue(st, value)
	}
	st.applyFrameResult(fr)
}

func (st *taskState) applyFrameResult(fr FrameResult) {
	switch fr.Kind {
	case ContinueValue:
		st.settle(fr.Value, nil)
	case ContinueError:
		st.settle(nil, fr.Err)
	case ContinueProgram:
		st.current = fr.Prog
	case ResumeSequence:
		st.current = fr.Prog
	default:
		panic("effekt: unknown FrameResult kind")
	}
}

// dispatchEffect runs one effect: built-in control effects are handled
// directly against the frame stack; everything else goes through the
// active intercept scope (if any transform matches) and then the
// HandlerTable.
//
// An Effect substituted in place of another Effect (spec.md §4.1) is not
// re-fed through the scope that produced it — only that scope's outer
// chain gets a chance to match it — so a transform that replaces "any Ask"
// with another Ask can never match its own output and loop forever. A
// substitution that is a compound Program, by contrast, is simply stepped
// fresh next cycle and is not re-walked here at all.
func (st *taskState) dispatchEffect(eff Effect) {
	if st.trace != nil {
		st.trace.child(eff.EffectName())
	}
	scope := st.intercepts
	for scope != nil {
		t, matched, ok := scope.find(eff)
		if !ok || t.Replace == nil {
			break
		}
		replacement := t.Replace(eff)
		if nextEff, isEffect := replacement.(Effect); isEffect {
			eff = nextEff
			scope = matched.outer
			continue
		}
		st.current = replacement
		return
	}
	if handled := st.dispatchControl(eff); handled {
		return
	}
	if bfn, ok := st.handlers.lookupBlocking(eff); ok {
		if st.sched.cancelled[st.id] {
			st.settle(nil, ErrTaskCancelled)
			return
		}
		st.status = taskBlocked
		bfn(st, eff)
		return
	}
	fn, ok := st.handlers.lookup(eff)
	if !ok {
		st.settle(nil, &UnhandledEffectError{EffectName: eff.EffectName()})
		return
	}
	v, err := fn(st, eff)
	st.settle(v, err)
}

// dispatchControl handles the effects whose meaning is defined by the
// stepper itself (Control/Reader/State/Writer's scoping operations)
// rather than by a registered handler — these always exist regardless of
// what [DefaultHandlers] a run was configured with.
func (st *taskState) dispatchControl(eff Effect) bool {
	switch e := eff.(type) {
	case AskEffect:
		st.resolveAsk(e.Key)
		return true
	case LocalEffect:
		st.pushFrame(localFrame{saved: st.env})
		st.env = st.env.With(e.Overrides)
		st.current = e.Body
		return true
	case GetEffect:
		v, _ := st.store.Get(e.Key)
		st.settle(v, nil)
		return true
	case PutEffect:
		st.store.Put(e.Key, e.Value)
		st.settle(nil, nil)
		return true
	case ModifyEffect:
		st.settle(st.store.Modify(e.Key, e.F), nil)
		return true
	case TellEffect:
		st.store.AppendLog(e.Entry)
		st.settle(nil, nil)
		return true
	case StructuredLogEffect:
		st.sched.logRecord(e)
		st.store.AppendLog(e)
		st.settle(nil, nil)
		return true
	case ListenEffect:
		st.pushFrame(listenFrame{logStart: len(st.store.Log())})
		st.current = e.Body
		return true
	case SafeEffect:
		st.pushFrame(safeFrame{})
		st.current = e.Body
		return true
	case AtomicUpdateEffect:
		sem := st.sched.atomicSemaphoreFor(e.Key)
		body := e.Body
		key := e.Key
		st.current = WithSemaphore(sem, NewKleisliCall("AtomicUpdate", "", func(yield func(Program) (any, error)) (any, error) {
			current, _ := st.store.Get(key)
			var committed any
			var has bool
			result := body(current, func(v any) { committed, has = v, true })
			v, err := yield(result)
			if err != nil {
				return nil, err
			}
			if has {
				st.store.Put(key, committed)
			}
			return v, nil
		}))
		return true
	case InterceptEffect:
		st.pushFrame(interceptFrame{saved: st.intercepts})
		st.intercepts = &interceptScope{
			transform: interceptTransform{Match: e.Match, Replace: e.Replace},
			outer:     st.intercepts,
		}
		st.current = e.Body
		return true
	}
	return false
}

// resolveAsk looks up key in the task's Env, evaluating and caching a lazy
// (Program-valued) entry the first time it is asked, and coordinating
// concurrent Asks of the same key through the scheduler's ask-gate table
// (reader.go).
func (st *taskState) resolveAsk(key Key) {
	v, ok := st.env.Lookup(key)
	if !ok {
		st.settle(nil, &MissingEnvKeyError{Key: key})
		return
	}
	lazy, isLazy := v.(Program)
	if !isLazy {
		st.settle(v, nil)
		return
	}
	gate, leader := st.sched.askGates.begin(key)
	if !leader {
		val, err := gate.wait()
		st.settle(val, err)
		return
	}
	result := st.sched.runNested(st, lazy)
	val, _ := result.Value()
	resErr := result.Error()
	gate.settle(val, resErr)
	st.env.set(key, val)
	st.settle(val, resErr)
}
