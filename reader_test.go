// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

import (
	"errors"
	"testing"
)

func TestAskResolvesBoundKey(t *testing.T) {
	env := NewEnv(map[Key]any{"name": "world"})
	res := Run(Ask("name"), env, NewStore(nil))
	v, ok := res.Outcome.Value()
	if !ok || v != "world" {
		t.Fatalf("expected Ok(world), got %+v", res.Outcome)
	}
}

func TestAskMissingKeyFails(t *testing.T) {
	res := Run(Ask("missing"), NewEnv(nil), NewStore(nil))
	if res.Outcome.IsOk() {
		t.Fatal("expected failure for missing env key")
	}
	if !errors.Is(res.Outcome.Error(), ErrMissingEnvKey) {
		t.Fatalf("expected ErrMissingEnvKey, got %v", res.Outcome.Error())
	}
}

func TestLocalRestoresEnvOnSuccessAndError(t *testing.T) {
	env := NewEnv(map[Key]any{"x": 1})
	prog := NewKleisliCall("prog", "", func(yield func(Program) (any, error)) (any, error) {
		inner, _ := yield(Local(map[Key]any{"x": 2}, Ask("x")))
		outer, _ := yield(Ask("x"))
		_, failed := yield(Local(map[Key]any{"x": 3}, Ask("missing")))
		afterFailure, _ := yield(Ask("x"))
		return []any{inner, outer, failed, afterFailure}, nil
	})
	res := Run(prog, env, NewStore(nil))
	v, ok := res.Outcome.Value()
	if !ok {
		t.Fatalf("unexpected failure: %v", res.Outcome.Error())
	}
	pair := v.([]any)
	if pair[0] != 2 || pair[1] != 1 {
		t.Fatalf("expected [2 1], got %v", pair[:2])
	}
	if pair[2] == nil || pair[3] != 1 {
		t.Fatalf("expected a failing Local body to restore x=1, got %v", pair[2:])
	}
}

func TestLazyEnvEntryEvaluatedOnce(t *testing.T) {
	calls := 0
	lazy := NewKleisliCall("lazy", "", func(yield func(Program) (any, error)) (any, error) {
		calls++
		return "resolved", nil
	})
	env := NewEnv(map[Key]any{"k": Program(lazy)})
	prog := NewKleisliCall("prog", "", func(yield func(Program) (any, error)) (any, error) {
		a, _ := yield(Ask("k"))
		b, _ := yield(Ask("k"))
		return []any{a, b}, nil
	})
	res := Run(prog, env, NewStore(nil))
	if calls != 1 {
		t.Fatalf("expected lazy entry evaluated exactly once, got %d calls", calls)
	}
	v, _ := res.Outcome.Value()
	pair := v.([]any)
	if pair[0] != "resolved" || pair[1] != "resolved" {
		t.Fatalf("expected both asks to resolve to the cached value, got %v", pair)
	}
}
