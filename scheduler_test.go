// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpawnAndWait(t *testing.T) {
	prog := NewKleisliCall("prog", "", func(yield func(Program) (any, error)) (any, error) {
		child, _ := yield(Spawn(Pure(7)))
		return yield(Wait(child.(TaskID)))
	})
	res := Run(prog, NewEnv(nil), NewStore(nil))
	require.True(t, res.Outcome.IsOk())
	v, _ := res.Outcome.Value()
	require.Equal(t, 7, v)
}

func TestWaitReraisesChildError(t *testing.T) {
	boom := errors.New("boom")
	failing := NewKleisliCall("failing", "", func(yield func(Program) (any, error)) (any, error) {
		return nil, boom
	})
	prog := NewKleisliCall("prog", "", func(yield func(Program) (any, error)) (any, error) {
		child, _ := yield(Spawn(failing))
		return yield(Wait(child.(TaskID)))
	})
	res := Run(prog, NewEnv(nil), NewStore(nil))
	require.False(t, res.Outcome.IsOk())
	require.ErrorIs(t, res.Outcome.Error(), boom)
}

func TestGatherPreservesCallerOrder(t *testing.T) {
	prog := NewKleisliCall("prog", "", func(yield func(Program) (any, error)) (any, error) {
		a, _ := yield(Spawn(Pure("a")))
		b, _ := yield(Spawn(Pure("b")))
		c, _ := yield(Spawn(Pure("c")))
		return yield(Gather([]TaskID{a.(TaskID), b.(TaskID), c.(TaskID)}))
	})
	res := Run(prog, NewEnv(nil), NewStore(nil))
	require.True(t, res.Outcome.IsOk())
	v, _ := res.Outcome.Value()
	got := v.([]any)
	require.Equal(t, []any{"a", "b", "c"}, got)
}

func TestGatherEmptyResolvesImmediately(t *testing.T) {
	prog := NewKleisliCall("prog", "", func(yield func(Program) (any, error)) (any, error) {
		return yield(Gather(nil))
	})
	res := Run(prog, NewEnv(nil), NewStore(nil))
	require.True(t, res.Outcome.IsOk())
	v, _ := res.Outcome.Value()
	require.Equal(t, []any{}, v)
}

func TestGatherFailsFastOnFirstError(t *testing.T) {
	boom := errors.New("boom")
	failing := NewKleisliCall("failing", "", func(yield func(Program) (any, error)) (any, error) {
		return nil, boom
	})
	prog := NewKleisliCall("prog", "", func(yield func(Program) (any, error)) (any, error) {
		a, _ := yield(Spawn(failing))
		b, _ := yield(Spawn(Pure("b")))
		return yield(Gather([]TaskID{a.(TaskID), b.(TaskID)}))
	})
	res := Run(prog, NewEnv(nil), NewStore(nil))
	require.False(t, res.Outcome.IsOk())
	require.ErrorIs(t, res.Outcome.Error(), boom)
}

func TestGatherSafeCollectsPartialFailure(t *testing.T) {
	boom := errors.New("boom")
	failing := NewKleisliCall("failing", "", func(yield func(Program) (any, error)) (any, error) {
		return nil, boom
	})
	prog := NewKleisliCall("prog", "", func(yield func(Program) (any, error)) (any, error) {
		a, _ := yield(Spawn(Safe(Pure(1))))
		b, _ := yield(Spawn(Safe(failing)))
		c, _ := yield(Spawn(Safe(Pure(3))))
		return yield(Gather([]TaskID{a.(TaskID), b.(TaskID), c.(TaskID)}))
	})
	res := Run(prog, NewEnv(nil), NewStore(nil))
	require.True(t, res.Outcome.IsOk())
	v, _ := res.Outcome.Value()
	results := v.([]any)
	require.Len(t, results, 3)
	o1 := results[0].(Outcome[any])
	require.True(t, o1.IsOk())
	v1, _ := o1.Value()
	require.Equal(t, 1, v1)
	o2 := results[1].(Outcome[any])
	require.False(t, o2.IsOk())
	require.ErrorIs(t, o2.Error(), boom)
	o3 := results[2].(Outcome[any])
	require.True(t, o3.IsOk())
	v3, _ := o3.Value()
	require.Equal(t, 3, v3)
}

func TestRaceResolvesToFirstSettled(t *testing.T) {
	prog := NewKleisliCall("prog", "", func(yield func(Program) (any, error)) (any, error) {
		slow := Bracket(Pure(nil), func(any) Program { return Delay(0) }, func(any) Program { return Pure(nil) })
		_ = slow
		fast, _ := yield(Spawn(Pure("fast")))
		delayed, _ := yield(Spawn(NewKleisliCall("delayed", "", func(yield func(Program) (any, error)) (any, error) {
			if _, err := yield(Delay(0)); err != nil {
				return nil, err
			}
			return "slow", nil
		})))
		return yield(Race([]TaskID{fast.(TaskID), delayed.(TaskID)}))
	})
	res := Run(prog, NewEnv(nil), NewStore(nil))
	require.True(t, res.Outcome.IsOk())
	v, _ := res.Outcome.Value()
	rr := v.(RaceResult)
	require.Equal(t, "fast", rr.Value)
}

func TestIsDoneReflectsTaskLifecycle(t *testing.T) {
	prog := NewKleisliCall("prog", "", func(yield func(Program) (any, error)) (any, error) {
		p, _ := yield(CreatePromise())
		pid := p.(PromiseID)
		child, _ := yield(Spawn(AwaitPromise(pid)))
		cid := child.(TaskID)
		before, _ := yield(IsDone(cid))
		if _, err := yield(CompletePromise(pid, "done")); err != nil {
			return nil, err
		}
		if _, err := yield(Wait(cid)); err != nil {
			return nil, err
		}
		after, _ := yield(IsDone(cid))
		return []any{before, after}, nil
	})
	res := Run(prog, NewEnv(nil), NewStore(nil))
	require.True(t, res.Outcome.IsOk())
	v, _ := res.Outcome.Value()
	result := v.([]any)
	require.Equal(t, false, result[0])
	require.Equal(t, true, result[1])
}

func TestPromiseCompletesExactlyOnce(t *testing.T) {
	prog := NewKleisliCall("prog", "", func(yield func(Program) (any, error)) (any, error) {
		id, _ := yield(CreatePromise())
		pid := id.(PromiseID)
		if _, err := yield(CompletePromise(pid, "first")); err != nil {
			return nil, err
		}
		_, secondErr := yield(CompletePromise(pid, "second"))
		val, err := yield(AwaitPromise(pid))
		return []any{val, err, secondErr}, nil
	})
	res := Run(prog, NewEnv(nil), NewStore(nil))
	require.True(t, res.Outcome.IsOk())
	v, _ := res.Outcome.Value()
	triple := v.([]any)
	require.Equal(t, "first", triple[0])
	require.ErrorIs(t, triple[2].(error), ErrPromiseAlreadyCompleted)
}

func TestSemaphoreOverReleaseFails(t *testing.T) {
	prog := NewKleisliCall("prog", "", func(yield func(Program) (any, error)) (any, error) {
		sem, _ := yield(CreateSemaphore(1))
		sid := sem.(SemaphoreID)
		if _, err := yield(ReleaseSemaphore(sid)); err != nil {
			return nil, err
		}
		return nil, nil
	})
	res := Run(prog, NewEnv(nil), NewStore(nil))
	require.False(t, res.Outcome.IsOk())
	require.ErrorIs(t, res.Outcome.Error(), ErrSemaphoreOverRelease)
}

func TestSemaphoreReleaseThenReacquireSucceeds(t *testing.T) {
	prog := NewKleisliCall("prog", "", func(yield func(Program) (any, error)) (any, error) {
		sem, _ := yield(CreateSemaphore(1))
		sid := sem.(SemaphoreID)
		if _, err := yield(AcquireSemaphore(sid)); err != nil {
			return nil, err
		}
		if _, err := yield(ReleaseSemaphore(sid)); err != nil {
			return nil, err
		}
		return yield(AcquireSemaphore(sid))
	})
	res := Run(prog, NewEnv(nil), NewStore(nil))
	require.True(t, res.Outcome.IsOk())
}

func TestSemaphoreFIFOOrdering(t *testing.T) {
	prog := NewKleisliCall("prog", "", func(yield func(Program) (any, error)) (any, error) {
		sem, _ := yield(CreateSemaphore(1))
		sid := sem.(SemaphoreID)
		order := []int{}
		var mk func(n int) Program
		mk = func(n int) Program {
			return NewKleisliCall("worker", "", func(yield func(Program) (any, error)) (any, error) {
				if _, err := yield(AcquireSemaphore(sid)); err != nil {
					return nil, err
				}
				order = append(order, n)
				return nil, nil
			})
		}
		if _, err := yield(AcquireSemaphore(sid)); err != nil {
			return nil, err
		}
		t1, _ := yield(Spawn(mk(1)))
		t2, _ := yield(Spawn(mk(2)))
		if _, err := yield(ReleaseSemaphore(sid)); err != nil {
			return nil, err
		}
		if _, err := yield(Wait(t1.(TaskID))); err != nil {
			return nil, err
		}
		if _, err := yield(ReleaseSemaphore(sid)); err != nil {
			return nil, err
		}
		if _, err := yield(Wait(t2.(TaskID))); err != nil {
			return nil, err
		}
		return order, nil
	})
	res := Run(prog, NewEnv(nil), NewStore(nil))
	require.True(t, res.Outcome.IsOk())
	v, _ := res.Outcome.Value()
	require.Equal(t, []int{1, 2}, v)
}
