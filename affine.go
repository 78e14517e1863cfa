// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

import "sync/atomic"

// OnceSettle enforces at-most-once settlement across goroutines. It gates
// both the in-VM promise state (promise.go) and [ExternalPromise]
// (bridge.go), whose Complete/Fail may be called from arbitrary goroutines
// that race each other. Grounded on the teacher's Affine[R,A]
// (affine.go) one-shot resumption gate, repurposed from "a continuation
// can be called at most once" to "a promise can settle at most once" —
// same atomic CAS discipline, different payload.
type OnceSettle struct {
	done atomic.Bool
}

// TrySettle reports whether this call is the one that gets to settle —
// true the first time it's called, false on every call after.
func (o *OnceSettle) TrySettle() bool {
	return o.done.CompareAndSwap(false, true)
}

// Settled reports whether TrySettle has already succeeded once.
func (o *OnceSettle) Settled() bool {
	return o.done.Load()
}
