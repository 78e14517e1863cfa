// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

// Resumed is the runtime type for values flowing through effect suspension
// and resumption. Handler return values and frame results carry Resumed.
type Resumed = any

// Key is any hashable value used to index [Env] and [Store]: a string, a
// capability token, or an opaque struct used as a typed identifier.
type Key = any

// Program is any value the evaluator can execute: either an [Effect] (a
// primitive step) or a [KleisliCall] (a compound, re-runnable computation).
//
// Program is a closed sum on purpose — the evaluator's stepping loop
// switches on exactly these two shapes (step.go). User code never
// implements Program directly; it builds programs from effect
// constructors (e.g. [Ask], [Spawn]), the combinators in combinators.go,
// or by authoring a [KleisliGen].
type Program interface {
	// isProgram is unexported: Program is a closed interface.
	isProgram()
}

// Effect is a tagged, frozen value describing an operation a handler
// performs. Every effect type registered with a [HandlerTable] has exactly
// one handler per run. Effects are ordinary data: constructed, passed
// around, and may be nested inside other effects' payloads (e.g. the
// sub-program carried by [Safe] or [Listen]).
type Effect interface {
	Program
	// EffectName identifies the effect family for diagnostics and for
	// [HandlerTable] registration keys.
	EffectName() string
}

// effectBase is embedded by concrete effect types to satisfy the Program
// half of [Effect] without repeating the marker method.
type effectBase struct{}

func (effectBase) isProgram() {}

// pureProgram is an already-valued [Program]: the Control family's Pure(v).
// The stepping loop treats it as an immediate ContinueValue, never reaching
// the handler table — Pure performs no effect.
type pureProgram struct {
	effectBase
	value any
}

// Pure lifts a value into a [Program] that performs no effect: stepping it
// immediately yields the value to the enclosing continuation.
func Pure(v any) Program {
	return pureProgram{value: v}
}
