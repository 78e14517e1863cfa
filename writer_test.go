// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

import "testing"

func TestTellAppendsToLog(t *testing.T) {
	prog := NewKleisliCall("prog", "", func(yield func(Program) (any, error)) (any, error) {
		if _, err := yield(Tell("a")); err != nil {
			return nil, err
		}
		return yield(Tell("b"))
	})
	res := Run(prog, NewEnv(nil), NewStore(nil))
	if !res.Outcome.IsOk() {
		t.Fatalf("unexpected failure: %v", res.Outcome.Error())
	}
	if len(res.Log) != 2 || res.Log[0] != "a" || res.Log[1] != "b" {
		t.Fatalf("unexpected log: %v", res.Log)
	}
}

func TestListenCapturesOnlyItsOwnScope(t *testing.T) {
	prog := NewKleisliCall("prog", "", func(yield func(Program) (any, error)) (any, error) {
		if _, err := yield(Tell("before")); err != nil {
			return nil, err
		}
		inner := NewKleisliCall("inner", "", func(yield func(Program) (any, error)) (any, error) {
			return yield(Tell("inside"))
		})
		result, err := yield(Listen(inner))
		if err != nil {
			return nil, err
		}
		if _, err := yield(Tell("after")); err != nil {
			return nil, err
		}
		return result, nil
	})
	res := Run(prog, NewEnv(nil), NewStore(nil))
	v, ok := res.Outcome.Value()
	if !ok {
		t.Fatalf("unexpected failure: %v", res.Outcome.Error())
	}
	lr := v.(listenResult)
	if len(lr.Log) != 1 || lr.Log[0] != "inside" {
		t.Fatalf("expected Listen to capture only its own scope, got %v", lr.Log)
	}
	if len(res.Log) != 3 {
		t.Fatalf("expected the full run log to contain all three entries, got %v", res.Log)
	}
}
