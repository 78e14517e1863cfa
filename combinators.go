// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

// MapProgram transforms prog's result with a pure function f, passing any
// error through unchanged. Grounded on the teacher's Map (monad.go),
// restated over [Program]/[KleisliCall] instead of closure-based [Cont].
func MapProgram(prog Program, f func(any) any) Program {
	return NewKleisliCall("Map", "", func(yield func(Program) (any, error)) (any, error) {
		v, err := yield(prog)
		if err != nil {
			return nil, err
		}
		return f(v), nil
	})
}

// FlatMapProgram runs prog, then passes its result to f to get the next
// Program to run (monadic bind).
func FlatMapProgram(prog Program, f func(any) Program) Program {
	return NewKleisliCall("FlatMap", "", func(yield func(Program) (any, error)) (any, error) {
		v, err := yield(prog)
		if err != nil {
			return nil, err
		}
		return yield(f(v))
	})
}

// ThenProgram runs first, discards its result, then runs second.
func ThenProgram(first, second Program) Program {
	return NewKleisliCall("Then", "", func(yield func(Program) (any, error)) (any, error) {
		if _, err := yield(first); err != nil {
			return nil, err
		}
		return yield(second)
	})
}

// Sequence runs every program in progs in order, resolving to their
// results as a []any. The first error aborts the remaining programs.
func Sequence(progs []Program) Program {
	return NewKleisliCall("Sequence", "", func(yield func(Program) (any, error)) (any, error) {
		out := make([]any, 0, len(progs))
		for _, p := range progs {
			v, err := yield(p)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	})
}

// GatherList runs every program in progs to completion (via [Safe]) and
// resolves to their [Outcome]s in order, regardless of whether any
// individual program failed — unlike [Sequence], one failure does not
// abort the rest.
func GatherList(progs []Program) Program {
	return NewKleisliCall("GatherList", "", func(yield func(Program) (any, error)) (any, error) {
		out := make([]Outcome[any], 0, len(progs))
		for _, p := range progs {
			v, _ := yield(Safe(p))
			out = append(out, v.(Outcome[any]))
		}
		return out, nil
	})
}

// FirstSuccess runs each program in progs in order, stopping at the first
// one that succeeds and resolving to its value. If every program fails,
// resolves to the last one's error.
func FirstSuccess(progs []Program) Program {
	return NewKleisliCall("FirstSuccess", "", func(yield func(Program) (any, error)) (any, error) {
		var lastErr error
		for _, p := range progs {
			v, _ := yield(Safe(p))
			o := v.(Outcome[any])
			if o.IsOk() {
				val, _ := o.Value()
				return val, nil
			}
			lastErr = o.Error()
		}
		return nil, lastErr
	})
}
