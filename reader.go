// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

import "sync"

// AskEffect is the Reader family's operation for reading the environment.
// Perform(Ask(key)) resolves to the value bound to key in the task's
// current [Env], raising [ErrMissingEnvKey] if no layer binds it.
//
// Grounded on the teacher's Ask[E] (reader.go), generalized from "read the
// single typed environment" to "look up one key in a heterogeneous Env".
type AskEffect struct {
	effectBase
	Key Key
}

func (AskEffect) EffectName() string { return "Ask" }

// Ask builds a Program that performs the Reader family's lookup effect.
func Ask(key Key) Program { return AskEffect{Key: key} }

// LocalEffect is the Reader family's scoped-override operation: run Body
// with overrides layered on top of the current Env, restoring the
// original Env once Body settles on either path.
type LocalEffect struct {
	effectBase
	Overrides map[Key]any
	Body      Program
}

func (LocalEffect) EffectName() string { return "Local" }

// Local builds a Program that runs body with overrides layered over the
// current environment (spec.md §4.2 "Local").
func Local(overrides map[Key]any, body Program) Program {
	return LocalEffect{Overrides: overrides, Body: body}
}

// askGateTable coordinates concurrent Asks of the same lazy (Program-
// valued) env entry so the underlying program evaluates exactly once
// (spec.md §4.2: "concurrent Asks for the same key coordinate via a
// per-key binary semaphore ... no cyclic-dependency false positives").
//
// One table lives per run (owned by [Scheduler]), keyed by key identity
// only — lazy entries are resolved relative to the layer they were bound
// in, and Local always restores that layer on exit, so a bare Key is
// sufficient to identify "the" in-flight resolution at any moment.
type askGateTable struct {
	mu    sync.Mutex
	gates map[Key]*askGate
}

type askGate struct {
	done  chan struct{}
	value any
	err   error
}

func newAskGateTable() *askGateTable {
	return &askGateTable{gates: make(map[Key]*askGate)}
}

// begin returns the gate for key, creating it if absent, and whether the
// caller is the one responsible for resolving it (leader) or should wait
// for the leader's result (follower).
func (t *askGateTable) begin(key Key) (g *askGate, leader bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if g, ok := t.gates[key]; ok {
		return g, false
	}
	g = &askGate{done: make(chan struct{})}
	t.gates[key] = g
	return g, true
}

// settle resolves the gate and wakes any followers.
func (g *askGate) settle(value any, err error) {
	g.value, g.err = value, err
	close(g.done)
}

// wait blocks until the leader settles the gate.
func (g *askGate) wait() (any, error) {
	<-g.done
	return g.value, g.err
}
