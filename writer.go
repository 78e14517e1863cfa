// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

// TellEffect appends one entry to the run's log (spec.md §4.2 "Writer").
// Grounded on the teacher's Tell[W] (writer.go), narrowed from a generic
// output type to the reserved Store log since the spec keeps a single
// run-wide append-only log rather than a typed Writer monoid per handler.
type TellEffect struct {
	effectBase
	Entry any
}

func (TellEffect) EffectName() string { return "Tell" }

// Tell builds a Program that appends entry to the log.
func Tell(entry any) Program { return TellEffect{Entry: entry} }

// ListenEffect runs Body and resolves to its value paired with the slice
// of log entries appended while it ran (spec.md §4.2 "Listen").
type ListenEffect struct {
	effectBase
	Body Program
}

func (ListenEffect) EffectName() string { return "Listen" }

// Listen builds a Program that captures body's log output alongside its
// result.
func Listen(body Program) Program { return ListenEffect{Body: body} }

// StructuredLogEffect appends a structured record to both the run's log
// and, when a logger is configured (logging.go's WithLogger), the
// zerolog sink — bridging the spec's abstract Writer log with real
// operational logging the way the ambient stack is expected to.
type StructuredLogEffect struct {
	effectBase
	Level  string
	Msg    string
	Fields map[string]any
}

func (StructuredLogEffect) EffectName() string { return "StructuredLog" }

// StructuredLog builds a Program that writes a leveled, structured record.
func StructuredLog(level, msg string, fields map[string]any) Program {
	return StructuredLogEffect{Level: level, Msg: msg, Fields: fields}
}
