// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// RunOption configures a [Run]/[AsyncRun]/[SimulationRun] invocation.
// Grounded on joeycumines-go-utilpkg/eventloop's options.go functional-
// options pattern.
type RunOption func(*runConfig)

type runConfig struct {
	logger        zerolog.Logger
	handlers      *HandlerTable
	quantum       int
	observability bool
	simStart      time.Time
}

func defaultRunConfig() runConfig {
	return runConfig{
		logger:   zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger(),
		handlers: DefaultHandlers(),
		quantum:  1,
	}
}

// WithLogger installs logger as the run's structured-log sink for
// [StructuredLog] effects, replacing the default console writer.
func WithLogger(logger zerolog.Logger) RunOption {
	return func(c *runConfig) { c.logger = logger }
}

// WithHandlers replaces the run's Concurrency/Time handler table, e.g. to
// substitute test doubles for Spawn/Delay in isolation.
func WithHandlers(handlers *HandlerTable) RunOption {
	return func(c *runConfig) { c.handlers = handlers }
}

// WithObservability turns on [CallNode] trace-tree recording
// (observability.go). Off by default: recording costs an allocation per
// effect dispatch, so runs that don't need the trace shouldn't pay for it.
func WithObservability(enabled bool) RunOption {
	return func(c *runConfig) { c.observability = enabled }
}

// WithSchedulerQuantum sets how many dispatches the scheduler runs a task
// for before yielding to the next ready task, trading fairness for
// throughput on tight non-blocking loops. Default 1 (strict round robin).
func WithSchedulerQuantum(n int) RunOption {
	return func(c *runConfig) {
		if n > 0 {
			c.quantum = n
		}
	}
}

// WithSimulationStart sets the virtual clock's starting time for
// [SimulationRun]. Defaults to the Unix epoch so runs are reproducible
// byte-for-byte across machines and timezones.
func WithSimulationStart(t time.Time) RunOption {
	return func(c *runConfig) { c.simStart = t }
}
