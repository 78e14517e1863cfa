// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

// KleisliGen is a user-authored generator body. It receives a yield function
// and drives the computation forward by yielding [Program] values (usually
// effects); yield returns the value or error the handler resumed with. The
// generator's own return value (or panic-recovered error) becomes the
// KleisliCall's result.
//
// This is the target-language answer to the host's `yield effect` sugar
// (spec.md §9): since Go has no first-class resumable generators, a
// KleisliGen runs on its own goroutine and communicates with the evaluator
// over a pair of channels (see [ProgramIter]) — a stack-allocated fiber in
// spirit if not in the runtime's literal implementation.
type KleisliGen func(yield func(Program) (any, error)) (any, error)

// KleisliCall is a bound invocation of a compound program: a generator
// function plus metadata for diagnostics. Calling [KleisliCall.ToIter]
// instantiates a fresh, independent, re-runnable sequence.
type KleisliCall struct {
	effectBase
	// Name is the source name of the generator, for diagnostics.
	Name string
	// Loc is the caller location (file:line) that constructed this call.
	Loc string
	gen KleisliGen
}

// NewKleisliCall binds a generator body into a re-runnable [KleisliCall].
func NewKleisliCall(name, loc string, gen KleisliGen) KleisliCall {
	return KleisliCall{Name: name, Loc: loc, gen: gen}
}

// ToIter instantiates a fresh lazy sequence over this call's body. Two calls
// to ToIter on the same KleisliCall produce independent sequences: each
// starts its own goroutine running the generator from the top.
func (k KleisliCall) ToIter() *ProgramIter {
	it := &ProgramIter{
		reqCh:  make(chan iterReq),
		respCh: make(chan iterResp),
	}
	go it.drive(k.gen)
	return it
}

// iterReq is what the evaluator sends into a running generator to resume it.
type iterReq struct {
	val any
	err error
}

// iterResp is what a running generator reports back: either the next
// yielded program, or completion (done=true) with a final value or error.
type iterResp struct {
	prog  Program
	done  bool
	value any
	err   error
}

// ProgramIter is a live, in-progress instantiation of a [KleisliCall]'s
// body. It is driven by repeated calls to [ProgramIter.Next], which sends a
// resumption value into the generator and receives the next yielded
// program (or the final result).
//
// ProgramIter is not safe for concurrent use: exactly one goroutine (the
// task stepping it) may call Next at a time, and only after the previous
// Next has returned.
type ProgramIter struct {
	reqCh   chan iterReq
	respCh  chan iterResp
	started bool
	done    bool
}

// drive runs the generator body on its own goroutine, translating `yield`
// calls into request/response round-trips on the iterator's channels.
func (it *ProgramIter) drive(gen KleisliGen) {
	yield := func(p Program) (any, error) {
		it.respCh <- iterResp{prog: p}
		req := <-it.reqCh
		return req.val, req.err
	}
	value, err := func() (v any, e error) {
		defer func() {
			if r := recover(); r != nil {
				if rerr, ok := r.(error); ok {
					e = rerr
				} else {
					e = &GeneratorPanicError{Recovered: r}
				}
			}
		}()
		return gen(yield)
	}()
	it.respCh <- iterResp{done: true, value: value, err: err}
}

// Start requests the first yielded program (or the immediate return value,
// for a generator that yields nothing).
func (it *ProgramIter) Start() (prog Program, done bool, value any, err error) {
	if it.started {
		panic("effekt: ProgramIter.Start called twice")
	}
	it.started = true
	resp := <-it.respCh
	if resp.done {
		it.done = true
		return nil, true, resp.value, resp.err
	}
	return resp.prog, false, nil, nil
}

// Send resumes the generator with a successful value (sendErr nil) or
// throws an error into it (sendErr non-nil), and returns the next yielded
// program or the final result.
func (it *ProgramIter) Send(sendVal any, sendErr error) (prog Program, done bool, value any, err error) {
	if it.done {
		panic("effekt: ProgramIter.Send called after completion")
	}
	it.reqCh <- iterReq{val: sendVal, err: sendErr}
	resp := <-it.respCh
	if resp.done {
		it.done = true
		return nil, true, resp.value, resp.err
	}
	return resp.prog, false, nil, nil
}

// GeneratorPanicError wraps a non-error panic value recovered from a
// KleisliGen body so it can propagate as a normal effect-system error.
type GeneratorPanicError struct {
	Recovered any
}

func (e *GeneratorPanicError) Error() string {
	return "effekt: generator panicked: " + errAny(e.Recovered)
}

func errAny(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return "non-error panic value"
}
