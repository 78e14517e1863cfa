// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

// Outcome is the spec's "Result" ADT (spec.md §3): a value that is either a
// success (Ok) or a failure (Err). [Safe] turns a sub-program's thrown
// error into an Outcome instead of propagating it up the frame stack.
//
// Grounded on the teacher's Either[E,A] (error.go), renamed to match the
// spec's vocabulary and narrowed to a single error type since every error
// in this runtime is already a Go error.
type Outcome[A any] struct {
	ok  bool
	val A
	err error
}

// Ok builds a successful Outcome.
func Ok[A any](v A) Outcome[A] { return Outcome[A]{ok: true, val: v} }

// Err builds a failed Outcome.
func Err[A any](err error) Outcome[A] { return Outcome[A]{err: err} }

// IsOk reports whether the Outcome is a success.
func (o Outcome[A]) IsOk() bool { return o.ok }

// Value returns the success value and true, or the zero value and false.
func (o Outcome[A]) Value() (A, bool) { return o.val, o.ok }

// Error returns the failure error, or nil if the Outcome is a success.
func (o Outcome[A]) Error() error { return o.err }

// Unwrap returns the success value, panicking if the Outcome is a failure.
// Intended for call sites that already checked IsOk.
func (o Outcome[A]) Unwrap() A {
	if !o.ok {
		panic(o.err)
	}
	return o.val
}

// MapOutcome transforms a successful Outcome's value, passing failures
// through unchanged.
func MapOutcome[A, B any](o Outcome[A], f func(A) B) Outcome[B] {
	if !o.ok {
		return Outcome[B]{err: o.err}
	}
	return Ok(f(o.val))
}
