// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

import "testing"

func TestObservabilityOffLeavesTraceNil(t *testing.T) {
	res := Run(Ask("k"), NewEnv(map[Key]any{"k": "v"}), NewStore(nil))
	if res.Trace != nil {
		t.Fatalf("expected nil trace when observability is off, got %v", res.Trace)
	}
}

func TestObservabilityRecordsEffectDispatches(t *testing.T) {
	prog := NewKleisliCall("prog", "", func(yield func(Program) (any, error)) (any, error) {
		if _, err := yield(Put("x", 1)); err != nil {
			return nil, err
		}
		return yield(Get("x"))
	})
	env := NewEnv(nil)
	res := Run(prog, env, NewStore(nil), WithObservability(true))
	if !res.Outcome.IsOk() {
		t.Fatalf("unexpected failure: %v", res.Outcome.Error())
	}
	if res.Trace == nil {
		t.Fatal("expected a non-nil trace when observability is enabled")
	}
	if len(res.Trace.Children) == 0 {
		t.Fatal("expected at least one recorded effect dispatch")
	}
	names := make([]string, len(res.Trace.Children))
	for i, c := range res.Trace.Children {
		names[i] = c.Label
	}
	if names[0] != "Put" {
		t.Fatalf("expected first recorded effect to be Put, got %v", names)
	}
}
