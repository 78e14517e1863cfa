// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

import "time"

// Clock abstracts "now" and "sleep" so [Run]/[AsyncRun] can use the wall
// clock while [SimulationRun] advances a virtual clock instantly to the
// next pending deadline instead of actually sleeping (spec.md §4.4 "Time").
type Clock interface {
	Now() time.Time
	// Sleep blocks the calling goroutine until d has elapsed according to
	// this clock. The real clock sleeps for real; the simulated clock
	// resolves instantly once the scheduler has advanced virtual time
	// past the deadline (see Scheduler.advanceBlocked).
	Sleep(d time.Duration)
}

// realClock is the wall-clock [Clock] used by [Run] and [AsyncRun].
type realClock struct{}

func (realClock) Now() time.Time      { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// simClock is the deterministic virtual clock used by [SimulationRun]. It
// never sleeps: [Scheduler] advances simNow directly to the earliest
// pending timer deadline whenever the ready queue empties, so simulated
// time passes instantly from the test's perspective.
type simClock struct {
	now time.Time
}

func newSimClock(start time.Time) *simClock { return &simClock{now: start} }

func (c *simClock) Now() time.Time        { return c.now }
func (c *simClock) Sleep(time.Duration)    {} // scheduler drives advancement directly
func (c *simClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// DelayEffect blocks the performing task until d has elapsed.
type DelayEffect struct {
	effectBase
	Duration time.Duration
}

func (DelayEffect) EffectName() string { return "Delay" }

// Delay builds a Program that blocks the task for d.
func Delay(d time.Duration) Program { return DelayEffect{Duration: d} }

// GetTimeEffect resolves to the run's current time.
type GetTimeEffect struct{ effectBase }

func (GetTimeEffect) EffectName() string { return "GetTime" }

// GetTime builds a Program resolving to the run's current time.
func GetTime() Program { return GetTimeEffect{} }

// WaitUntilEffect blocks the performing task until the clock reaches t.
type WaitUntilEffect struct {
	effectBase
	Deadline time.Time
}

func (WaitUntilEffect) EffectName() string { return "WaitUntil" }

// WaitUntil builds a Program that blocks until deadline.
func WaitUntil(deadline time.Time) Program { return WaitUntilEffect{Deadline: deadline} }

// timer is a pending Delay/WaitUntil deadline, ordered by Deadline in the
// scheduler's timer heap (container/heap, grounded on MongooseMoo-barn's
// task/timer queue).
type timer struct {
	deadline time.Time
	task     TaskID
	index    int
}

type timerHeap []*timer

func (h timerHeap) Len() int            { return len(h) }
func (h timerHeap) Less(i, j int) bool  { return h[i].deadline.Before(h[j].deadline) }
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *timerHeap) Push(x any) {
	t := x.(*timer)
	t.index = len(*h)
	*h = append(*h, t)
}
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}
