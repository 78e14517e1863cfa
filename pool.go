// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

import "sync"

// framePool recycles the frame-stack slices backing each [taskState]. A run
// with many short-lived Spawn'd tasks (the Gather/Race seed scenarios)
// would otherwise allocate a fresh stack per task; reuse keeps that off
// the hot path the same way the teacher's effectFramePool/bindFramePool
// kept defunctionalized Expr frames off the hot path (pool.go).
var framePool = sync.Pool{
	New: func() any { return make([]Frame, 0, 8) },
}

func acquireFrameStack() []Frame {
	return framePool.Get().([]Frame)
}

func releaseFrameStack(s []Frame) {
	framePool.Put(s[:0])
}
