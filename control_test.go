// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

import (
	"errors"
	"testing"
)

func TestSafeTurnsErrorIntoOutcome(t *testing.T) {
	failing := NewKleisliCall("failing", "", func(yield func(Program) (any, error)) (any, error) {
		return nil, errors.New("boom")
	})
	res := Run(Safe(failing), NewEnv(nil), NewStore(nil))
	v, ok := res.Outcome.Value()
	if !ok {
		t.Fatalf("Safe itself must not fail the run: %v", res.Outcome.Error())
	}
	inner := v.(Outcome[any])
	if inner.IsOk() {
		t.Fatal("expected inner Outcome to be a failure")
	}
	if inner.Error().Error() != "boom" {
		t.Fatalf("unexpected inner error: %v", inner.Error())
	}
}

func TestInterceptSubstitutesMatchedEffect(t *testing.T) {
	prog := Intercept(
		func(eff Effect) bool { return eff.EffectName() == "Ask" },
		func(eff Effect) Program { return Pure("intercepted") },
		Ask("anything"),
	)
	res := Run(prog, NewEnv(nil), NewStore(nil))
	v, ok := res.Outcome.Value()
	if !ok || v != "intercepted" {
		t.Fatalf("expected intercepted substitution, got %+v", res.Outcome)
	}
}

func TestInterceptRestoresOuterScopeAfterBody(t *testing.T) {
	prog := NewKleisliCall("prog", "", func(yield func(Program) (any, error)) (any, error) {
		scoped, _ := yield(Intercept(
			func(eff Effect) bool { return eff.EffectName() == "Ask" },
			func(eff Effect) Program { return Pure("scoped") },
			Ask("k"),
		))
		unscoped, err := yield(Ask("k"))
		return []any{scoped, unscoped, err}, nil
	})
	env := NewEnv(map[Key]any{"k": "real"})
	res := Run(prog, env, NewStore(nil))
	v, ok := res.Outcome.Value()
	if !ok {
		t.Fatalf("unexpected failure: %v", res.Outcome.Error())
	}
	triple := v.([]any)
	if triple[0] != "scoped" || triple[1] != "real" {
		t.Fatalf("expected intercept scoped to its body only, got %v", triple)
	}
}
