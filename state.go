// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

// GetEffect reads the current value at a Store key (spec.md §4.2 "State").
// Grounded on the teacher's Get[S] (state.go), generalized from a single
// typed S to a keyed lookup against the dynamically typed [Store].
type GetEffect struct {
	effectBase
	Key Key
}

func (GetEffect) EffectName() string { return "Get" }

// Get builds a Program that reads key from the Store, resolving to nil if
// the key was never written.
func Get(key Key) Program { return GetEffect{Key: key} }

// PutEffect overwrites the value at a Store key.
type PutEffect struct {
	effectBase
	Key   Key
	Value any
}

func (PutEffect) EffectName() string { return "Put" }

// Put builds a Program that writes value at key.
func Put(key Key, value any) Program { return PutEffect{Key: key, Value: value} }

// ModifyEffect applies a pure function to the current value at a Store key
// and writes the result back, resolving to the new value.
type ModifyEffect struct {
	effectBase
	Key Key
	F   func(any) any
}

func (ModifyEffect) EffectName() string { return "Modify" }

// Modify builds a Program that applies f to the current value at key and
// stores the result.
func Modify(key Key, f func(any) any) Program { return ModifyEffect{Key: key, F: f} }

// AtomicUpdateEffect is sugar over Acquire/Get/Put/Release for a
// read-modify-write that must not interleave with another task's access to
// the same Store key across a nested-effect body (unlike the plain
// [Modify], whose function is pure and cannot itself perform effects).
// Body receives the current value and a commit function; whatever Body's
// commit call is given becomes the new value once Body settles.
type AtomicUpdateEffect struct {
	effectBase
	Key  Key
	Body func(current any, commit func(any)) Program
}

func (AtomicUpdateEffect) EffectName() string { return "AtomicUpdate" }

// AtomicUpdate scopes a semaphore-guarded read-modify-write around key:
// Body may itself perform effects (unlike [Modify]'s pure function) while
// holding exclusive access to key.
func AtomicUpdate(key Key, body func(current any, commit func(any)) Program) Program {
	return AtomicUpdateEffect{Key: key, Body: body}
}
