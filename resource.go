// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

import "fmt"

// Bracket runs acquire, then use on the acquired resource, guaranteeing
// release runs afterward whether use succeeded, failed, or panicked
// (spec.md §4.2 "Resource safety"). Resolves to use's value, or re-raises
// use's error; release's own error, if any, is logged via [StructuredLog]
// rather than swallowed or allowed to mask use's outcome — grounded on the teacher's Bracket
// (resource.go), rebuilt atop [KleisliGen] instead of nested Cont binds so
// release can itself perform effects.
func Bracket(acquire Program, use func(resource any) Program, release func(resource any) Program) Program {
	return NewKleisliCall("Bracket", "", func(yield func(Program) (any, error)) (any, error) {
		resource, err := yield(acquire)
		if err != nil {
			return nil, err
		}
		outcome, _ := yield(Safe(use(resource)))
		o := outcome.(Outcome[any])
		if _, relErr := yield(release(resource)); relErr != nil {
			yield(StructuredLog("warn", "bracket release failed", map[string]any{
				"error": relErr.Error(),
			}))
		}
		if !o.IsOk() {
			return nil, o.Error()
		}
		v, _ := o.Value()
		return v, nil
	})
}

// OnError runs body and, if it throws, runs cleanup(err) before
// re-throwing the original error. cleanup's own failure is wrapped and
// propagated instead of the original error, since a broken cleanup is
// itself actionable information.
func OnError(body Program, cleanup func(err error) Program) Program {
	return NewKleisliCall("OnError", "", func(yield func(Program) (any, error)) (any, error) {
		outcome, _ := yield(Safe(body))
		o := outcome.(Outcome[any])
		if o.IsOk() {
			v, _ := o.Value()
			return v, nil
		}
		if _, cleanupErr := yield(cleanup(o.Error())); cleanupErr != nil {
			return nil, fmt.Errorf("effekt: cleanup after error %q failed: %w", o.Error(), cleanupErr)
		}
		return nil, o.Error()
	})
}

// WithSemaphore acquires sem, runs body, and releases sem once body
// settles on either path (spec.md's supplemented scoped-release sugar over
// Acquire/Release — see semaphore.go).
func WithSemaphore(sem SemaphoreID, body Program) Program {
	return Bracket(
		AcquireSemaphore(sem),
		func(any) Program { return body },
		func(any) Program { return ReleaseSemaphore(sem) },
	)
}
