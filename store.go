// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

// Reserved Store keys (spec.md §3 "Store"). Scheduler bookkeeping (task
// table, ready queue, promise registry, external-completion queue) is
// deliberately NOT kept under reserved Store keys in this implementation —
// it lives in concrete, typed fields on [Scheduler] instead (scheduler.go,
// bridge.go). That bookkeeping was never reachable through [Get]/[Put] in
// the spec either; hoisting it out of the dynamically-typed Store loses no
// visible behavior and avoids threading `any` through hot scheduler paths.
const (
	// LogKey is the append-only log Tell/Listen operate on. Its value is
	// always a []any once written; reading it before any Tell returns nil.
	LogKey Key = "__log__"

	// ClockKey is reserved for the simulated clock's current value. No
	// runtime writes it: [SimulationRun] keeps virtual time in its Clock
	// (read it with [GetTime]), and the other runtimes use the wall clock.
	ClockKey Key = "__current_time__"
)

// Store is the mutable key→value map that State and Writer effects write
// to. Unlike [Env], it is mutated in place and its log only grows. Each
// spawned task works on its own [Store.Snapshot] of the spawning task's
// store, so a child's writes and log entries are not seen by its parent.
//
// Store is only ever touched by the single logical scheduler driver that
// steps tasks (spec.md §5: "all task-level code runs on one logical
// driver") — the external bridge's completion queue is the sole
// multi-producer touchpoint in the whole runtime (bridge.go), so Store
// itself needs no internal locking.
type Store struct {
	vars map[Key]any
}

// NewStore builds a Store from an initial set of bindings.
func NewStore(vars map[Key]any) *Store {
	s := &Store{vars: make(map[Key]any, len(vars)+1)}
	for k, v := range vars {
		s.vars[k] = v
	}
	return s
}

// Get returns the value at key, or (nil, false) if absent. State's Get
// effect never raises — this mirrors that: absence is data, not an error.
func (s *Store) Get(key Key) (any, bool) {
	v, ok := s.vars[key]
	return v, ok
}

// Put writes value at key, overwriting any previous binding.
func (s *Store) Put(key Key, value any) {
	if s.vars == nil {
		s.vars = make(map[Key]any, 1)
	}
	s.vars[key] = value
}

// Modify applies f to the current value at key (nil if absent) and writes
// the result back, atomically with respect to other steps of the same
// task (the scheduler never interleaves another task between a Modify's
// read and its write because a task runs to completion between effect
// suspensions — spec.md §4.2 "State").
func (s *Store) Modify(key Key, f func(any) any) any {
	cur, _ := s.Get(key)
	next := f(cur)
	s.Put(key, next)
	return next
}

// AppendLog appends one entry to the reserved log. The log is append-only
// for the life of a run: entries are never removed, even by Listen, which
// only reads a slice of it.
func (s *Store) AppendLog(entry any) {
	raw, _ := s.Get(LogKey)
	log, _ := raw.([]any)
	s.Put(LogKey, append(log, entry))
}

// Log returns a copy of the accumulated log.
func (s *Store) Log() []any {
	raw, ok := s.Get(LogKey)
	if !ok {
		return nil
	}
	log, _ := raw.([]any)
	out := make([]any, len(log))
	copy(out, log)
	return out
}

// Snapshot returns a Store holding a shallow copy of the receiver's user
// keys — the "snapshot copy of the store" [Spawn] gives each child task
// (spec.md §3 "Invariants"). A shallow copy is sufficient: Store values are
// conventionally treated as immutable payloads by effect handlers, exactly
// as Env values are; only the top-level key→value bindings are duplicated
// so the child's Put/Modify calls never affect the parent's map.
func (s *Store) Snapshot() *Store {
	cp := make(map[Key]any, len(s.vars))
	for k, v := range s.vars {
		cp[k] = v
	}
	return &Store{vars: cp}
}
