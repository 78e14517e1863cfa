// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

import (
	"errors"
	"testing"
)

func TestBracketReleasesOnSuccess(t *testing.T) {
	released := false
	prog := Bracket(
		Pure("handle"),
		func(r any) Program { return Pure(r) },
		func(r any) Program {
			return NewKleisliCall("release", "", func(yield func(Program) (any, error)) (any, error) {
				released = true
				return nil, nil
			})
		},
	)
	res := Run(prog, NewEnv(nil), NewStore(nil))
	v, ok := res.Outcome.Value()
	if !ok || v != "handle" {
		t.Fatalf("expected Ok(handle), got %+v", res.Outcome)
	}
	if !released {
		t.Fatal("expected release to run on success")
	}
}

func TestBracketReleasesOnFailure(t *testing.T) {
	released := false
	failing := NewKleisliCall("use", "", func(yield func(Program) (any, error)) (any, error) {
		return nil, errors.New("use failed")
	})
	prog := Bracket(
		Pure("handle"),
		func(any) Program { return failing },
		func(any) Program {
			return NewKleisliCall("release", "", func(yield func(Program) (any, error)) (any, error) {
				released = true
				return nil, nil
			})
		},
	)
	res := Run(prog, NewEnv(nil), NewStore(nil))
	if res.Outcome.IsOk() {
		t.Fatal("expected Bracket to propagate use's failure")
	}
	if !released {
		t.Fatal("expected release to run even when use fails")
	}
}

func TestOnErrorRunsCleanupThenRethrows(t *testing.T) {
	cleaned := false
	failing := NewKleisliCall("body", "", func(yield func(Program) (any, error)) (any, error) {
		return nil, errors.New("boom")
	})
	prog := OnError(failing, func(err error) Program {
		return NewKleisliCall("cleanup", "", func(yield func(Program) (any, error)) (any, error) {
			cleaned = true
			return nil, nil
		})
	})
	res := Run(prog, NewEnv(nil), NewStore(nil))
	if res.Outcome.IsOk() {
		t.Fatal("expected OnError to rethrow the original error")
	}
	if res.Outcome.Error().Error() != "boom" {
		t.Fatalf("expected original error preserved, got %v", res.Outcome.Error())
	}
	if !cleaned {
		t.Fatal("expected cleanup to run")
	}
}

func TestOnErrorSkipsCleanupOnSuccess(t *testing.T) {
	cleaned := false
	prog := OnError(Pure("ok"), func(err error) Program {
		cleaned = true
		return Pure(nil)
	})
	res := Run(prog, NewEnv(nil), NewStore(nil))
	v, ok := res.Outcome.Value()
	if !ok || v != "ok" {
		t.Fatalf("expected Ok(ok), got %+v", res.Outcome)
	}
	if cleaned {
		t.Fatal("expected cleanup to be skipped on success")
	}
}

func TestWithSemaphoreReleasesAfterBody(t *testing.T) {
	prog := NewKleisliCall("prog", "", func(yield func(Program) (any, error)) (any, error) {
		sem, _ := yield(CreateSemaphore(1))
		sid := sem.(SemaphoreID)
		if _, err := yield(WithSemaphore(sid, Pure("inside"))); err != nil {
			return nil, err
		}
		return yield(WithSemaphore(sid, Pure("inside-again")))
	})
	res := Run(prog, NewEnv(nil), NewStore(nil))
	v, ok := res.Outcome.Value()
	if !ok || v != "inside-again" {
		t.Fatalf("expected WithSemaphore to re-acquire after releasing, got %+v", res.Outcome)
	}
}
