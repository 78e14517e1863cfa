// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

// Env is the immutable, lookup-only configuration map that Reader effects
// read from. Keys are any hashable value: a string, a protocol/capability
// token, or an opaque struct used as a typed identifier (spec.md §3, §9
// "Protocol/capability-keyed env").
//
// Env values are never mutated in place — [Env.With] returns a new Env
// layered on top of the receiver, which is how [Local] scopes overrides
// without disturbing the parent's view.
type Env struct {
	vars   map[Key]any
	parent *Env
}

// NewEnv builds an Env from an initial set of bindings. A nil or empty map
// is equivalent to the empty environment.
func NewEnv(vars map[Key]any) Env {
	if len(vars) == 0 {
		return Env{}
	}
	cp := make(map[Key]any, len(vars))
	for k, v := range vars {
		cp[k] = v
	}
	return Env{vars: cp}
}

// Lookup returns the value bound to key and whether it was found, searching
// this layer and then each parent layer in turn (innermost wins).
func (e Env) Lookup(key Key) (any, bool) {
	for layer := &e; layer != nil; layer = layer.parent {
		if layer.vars != nil {
			if v, ok := layer.vars[key]; ok {
				return v, true
			}
		}
	}
	return nil, false
}

// With returns a new Env with overrides layered on top of the receiver.
// The receiver is never mutated; this is the basis of [Local]'s scoping.
func (e Env) With(overrides map[Key]any) Env {
	if len(overrides) == 0 {
		return e
	}
	parent := e
	cp := make(map[Key]any, len(overrides))
	for k, v := range overrides {
		cp[k] = v
	}
	return Env{vars: cp, parent: &parent}
}

// set mutates a single binding in the topmost layer in place. Used only by
// the lazy-env-entry cache: a Program-valued Ask result is memoized by
// rewriting the bound value to its resolved form so later Asks of the same
// key in the same layer skip re-evaluation. This does not violate the
// "env restore" invariant because Local always restores the whole Env
// value (including this layer) on both the success and error path.
func (e *Env) set(key Key, value any) {
	if e.vars == nil {
		e.vars = make(map[Key]any, 1)
	}
	e.vars[key] = value
}
