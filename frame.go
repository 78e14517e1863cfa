// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

// Frame is a continuation frame in the CESK stepping loop: the "what to do
// next" half of the machine's state. Unlike the teacher this package grew
// from, Frame is a genuine virtual interface rather than a defunctionalized
// type-switch target — the spec requires arbitrary user-defined frames
// behind a uniform two-method protocol, which only interface dispatch can
// give without a closed type-switch.
//
// OnValue is called when the computation below this frame produced a
// value; OnError is called when it produced an error. Both return a
// [FrameResult] telling the stepper what to do next.
type Frame interface {
	OnValue(st *taskState, value any) FrameResult
	OnError(st *taskState, err error) FrameResult
}

// FrameResultKind discriminates the sum in [FrameResult].
type FrameResultKind int

const (
	// ContinueValue: pop to the next frame with a plain value.
	ContinueValue FrameResultKind = iota
	// ContinueError: pop to the next frame with an error.
	ContinueError
	// ContinueProgram: push a new [Program] to be stepped, resuming this
	// stack of frames once it settles.
	ContinueProgram
	// ResumeSequence: replace the current program. The stepper treats it
	// exactly like ContinueProgram; no built-in frame or handler returns it.
	ResumeSequence
)

// FrameResult is the sum type every [Frame] method returns, telling the
// stepper how to proceed (spec.md §4.1).
type FrameResult struct {
	Kind  FrameResultKind
	Value any
	Err   error
	Prog  Program
}

// FrResultValue builds a ContinueValue result.
func FrResultValue(v any) FrameResult { return FrameResult{Kind: ContinueValue, Value: v} }

// FrResultError builds a ContinueError result.
func FrResultError(err error) FrameResult { return FrameResult{Kind: ContinueError, Err: err} }

// FrResultProgram builds a ContinueProgram result: step prog next, then
// resume the current frame stack with whatever it produces.
func FrResultProgram(prog Program) FrameResult { return FrameResult{Kind: ContinueProgram, Prog: prog} }

// FrResultResume builds a ResumeSequence result: the stepper replaces its
// current program with prog, keeping the existing frame stack beneath it.
func FrResultResume(prog Program) FrameResult { return FrameResult{Kind: ResumeSequence, Prog: prog} }

// safeFrame implements the resumption half of [Safe]: once the guarded
// program settles, hand the caller an [Outcome] instead of propagating an
// error up the frame stack.
type safeFrame struct{}

func (safeFrame) OnValue(_ *taskState, value any) FrameResult {
	return FrResultValue(Ok(value))
}

func (safeFrame) OnError(_ *taskState, err error) FrameResult {
	return FrResultValue(Err[any](err))
}

// localFrame restores the caller's Env once a [Local]-scoped sub-program
// settles, on both the success and error path (spec.md §4.2 "Local").
type localFrame struct {
	saved Env
}

func (f localFrame) OnValue(st *taskState, value any) FrameResult {
	st.env = f.saved
	return FrResultValue(value)
}

func (f localFrame) OnError(st *taskState, err error) FrameResult {
	st.env = f.saved
	return FrResultError(err)
}

// listenFrame captures the slice of the log appended while the guarded
// program ran, pairing it with the program's value (spec.md §4.2 "Listen").
type listenFrame struct {
	logStart int
}

func (f listenFrame) OnValue(st *taskState, value any) FrameResult {
	log := st.store.Log()
	appended := append([]any(nil), log[f.logStart:]...)
	return FrResultValue(listenResult{Value: value, Log: appended})
}

func (f listenFrame) OnError(_ *taskState, err error) FrameResult {
	return FrResultError(err)
}

// listenResult is the pair Listen resumes its caller with.
type listenResult struct {
	Value any
	Log   []any
}

// interceptFrame pops the scoped substitution installed by [Intercept] once
// its body settles, restoring the enclosing scope's substitution chain
// (spec.md §4.2 "Intercept": "outer-to-inner scope order").
type interceptFrame struct {
	saved *interceptScope
}

func (f interceptFrame) OnValue(st *taskState, value any) FrameResult {
	st.intercepts = f.saved
	return FrResultValue(value)
}

func (f interceptFrame) OnError(st *taskState, err error) FrameResult {
	st.intercepts = f.saved
	return FrResultError(err)
}

