// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

import "testing"

func TestRunPureProgram(t *testing.T) {
	res := Run(Pure(42), NewEnv(nil), NewStore(nil))
	v, ok := res.Outcome.Value()
	if !ok || v != 42 {
		t.Fatalf("expected Ok(42), got %+v", res.Outcome)
	}
}

func TestRunStateProgram(t *testing.T) {
	prog := NewKleisliCall("prog", "", func(yield func(Program) (any, error)) (any, error) {
		if _, err := yield(Put("count", 1)); err != nil {
			return nil, err
		}
		v, err := yield(Modify("count", func(cur any) any { return cur.(int) + 1 }))
		return v, err
	})
	res := Run(prog, NewEnv(nil), NewStore(nil))
	v, ok := res.Outcome.Value()
	if !ok || v != 2 {
		t.Fatalf("expected Ok(2), got %+v", res.Outcome)
	}
	stored, _ := res.Store.Get("count")
	if stored != 2 {
		t.Fatalf("expected store[count]=2, got %v", stored)
	}
}

func TestUnhandledEffectRaises(t *testing.T) {
	prog := customEffect{}
	res := Run(prog, NewEnv(nil), NewStore(nil))
	if res.Outcome.IsOk() {
		t.Fatal("expected failure for an effect with no registered handler")
	}
}

type customEffect struct{ effectBase }

func (customEffect) EffectName() string { return "CustomUnregistered" }
