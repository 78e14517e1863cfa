// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

// SafeEffect runs Body and resolves to an [Outcome] instead of propagating
// a thrown error up the frame stack (spec.md §4.2 "Control: Safe").
// Grounded on the teacher's RunError/Either machinery (error.go),
// restructured around Outcome and the Frame stepper instead of a nested
// Handle call.
type SafeEffect struct {
	effectBase
	Body Program
}

func (SafeEffect) EffectName() string { return "Safe" }

// Safe builds a Program that turns body's thrown error, if any, into a
// value: an [Outcome].
func Safe(body Program) Program { return SafeEffect{Body: body} }

// interceptTransform substitutes or post-processes effects performed
// within an Intercept scope. Match reports whether this transform applies
// to eff; when it does, Replace's result runs instead of the effect's
// normal handler.
type interceptTransform struct {
	// Match reports whether this transform intercepts eff.
	Match func(eff Effect) bool
	// Replace, if non-nil, substitutes a different Program to run in
	// eff's place.
	Replace func(eff Effect) Program
}

// interceptScope is a cons-cell of installed transforms, innermost first,
// so lookup starts at the innermost scope and moves outward only when a
// scope declines to match: when scopes nest, the innermost matching
// transform wins.
type interceptScope struct {
	transform interceptTransform
	outer     *interceptScope
}

// find returns the nearest (innermost) transform matching eff, along with
// the scope it matched in. Callers that substitute eff with another Effect
// must resume the next lookup from matched.outer (see step.go's
// dispatchEffect) rather than from s again, so a transform can never match
// its own substituted Effect a second time.
func (s *interceptScope) find(eff Effect) (transform interceptTransform, matched *interceptScope, ok bool) {
	for cur := s; cur != nil; cur = cur.outer {
		if cur.transform.Match(eff) {
			return cur.transform, cur, true
		}
	}
	return interceptTransform{}, nil, false
}

// InterceptEffect installs the Match/Replace transform for the duration of Body, restoring
// the enclosing scope's transform chain once Body settles.
type InterceptEffect struct {
	effectBase
	Match   func(eff Effect) bool
	Replace func(eff Effect) Program
	Body    Program
}

func (InterceptEffect) EffectName() string { return "Intercept" }

// Intercept builds a Program that substitutes replace(eff) for any effect
// matched by match while body runs, restoring the outer scope afterward.
func Intercept(match func(eff Effect) bool, replace func(eff Effect) Program, body Program) Program {
	return InterceptEffect{Match: match, Replace: replace, Body: body}
}
