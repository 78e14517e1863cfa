// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

import "reflect"

// HandlerFunc dispatches a single effect instance. It receives the task's
// mutable state and the effect value, and returns the value or error the
// performing program should resume with.
//
// Grounded on the teacher's HandleFunc/Dispatch pair (dispatch.go), widened
// from a single F-bounded Handler per run to a per-effect-type table so
// every effect family in the taxonomy (Reader/State/Writer/Control/
// Concurrency/Time/asyncio) can be registered independently.
type HandlerFunc func(st *taskState, eff Effect) (any, error)

// BlockingHandlerFunc dispatches an effect that cannot resume immediately
// (Spawn's children, Wait/Gather/Race, semaphore acquisition, timers, the
// asyncio bridge). The stepper sets st.status = taskBlocked before calling
// it; the handler either parks st in the scheduler's bookkeeping, to be
// resumed later via [taskState.resumeWith] once the thing it was waiting
// for settles, or resumes and re-enqueues st at once.
type BlockingHandlerFunc func(st *taskState, eff Effect)

// HandlerTable maps an effect's registered name to the function that
// dispatches it. Every effect type used in a run must have exactly one
// registered handler (spec.md §2 "one handler per effect family per run").
type HandlerTable struct {
	handlers map[string]HandlerFunc
	blocking map[string]BlockingHandlerFunc
}

// NewHandlerTable returns an empty table. Use [HandlerTable.Register] or
// [DefaultHandlers] to populate it.
func NewHandlerTable() *HandlerTable {
	return &HandlerTable{
		handlers: make(map[string]HandlerFunc),
		blocking: make(map[string]BlockingHandlerFunc),
	}
}

// Register installs fn as the handler for the effect family named by name.
// Registering the same name twice replaces the previous handler, which is
// how test doubles substitute a handler for a whole run. ([Intercept] does
// not touch the table; it installs a scoped transform instead.)
func (t *HandlerTable) Register(name string, fn HandlerFunc) *HandlerTable {
	t.handlers[name] = fn
	return t
}

// RegisterBlocking installs fn as the blocking handler for name.
func (t *HandlerTable) RegisterBlocking(name string, fn BlockingHandlerFunc) *HandlerTable {
	t.blocking[name] = fn
	return t
}

// Clone returns a shallow copy of the table, so overrides can be
// registered on the copy without mutating the original.
func (t *HandlerTable) Clone() *HandlerTable {
	cp := &HandlerTable{
		handlers: make(map[string]HandlerFunc, len(t.handlers)),
		blocking: make(map[string]BlockingHandlerFunc, len(t.blocking)),
	}
	for k, v := range t.handlers {
		cp.handlers[k] = v
	}
	for k, v := range t.blocking {
		cp.blocking[k] = v
	}
	return cp
}

// lookup finds the handler for eff, or (nil, false) if none is registered.
func (t *HandlerTable) lookup(eff Effect) (HandlerFunc, bool) {
	fn, ok := t.handlers[eff.EffectName()]
	return fn, ok
}

// lookupBlocking finds the blocking handler for eff, or (nil, false).
func (t *HandlerTable) lookupBlocking(eff Effect) (BlockingHandlerFunc, bool) {
	fn, ok := t.blocking[eff.EffectName()]
	return fn, ok
}

// effectTypeName derives a registration name for an effect value from its
// concrete Go type. The built-in effects do not use it: each one declares
// its own name through EffectName.
func effectTypeName(eff any) string {
	t := reflect.TypeOf(eff)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
