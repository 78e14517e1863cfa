// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

import (
	"fmt"
	"runtime"
	"strings"
)

// CallNode is one node of the effect-call tree recorded when a run is
// started with [WithObservability](true): a labeled span with its children
// in call order. Each task gets a root node, and every effect dispatch in
// that task appends one child (the effect's name) directly under it; the
// recorded tree is not nested deeper than that.
// Zero overhead when observability is off — [taskState.trace] stays nil
// and nothing allocates.
type CallNode struct {
	Label    string
	Children []*CallNode
}

// child appends and returns a new child span under n.
func (n *CallNode) child(label string) *CallNode {
	c := &CallNode{Label: label}
	n.Children = append(n.Children, c)
	return c
}

// String renders the tree as indented lines, root first.
func (n *CallNode) String() string {
	var b strings.Builder
	n.write(&b, 0)
	return b.String()
}

func (n *CallNode) write(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.Label)
	b.WriteByte('\n')
	for _, c := range n.Children {
		c.write(b, depth+1)
	}
}

// Diagnostic captures enough context to explain a failure after the fact:
// the error itself, the effect-call-tree path active when it was raised,
// and the host Go stack at the point the Diagnostic was built.
// Grounded on joeycumines-go-utilpkg/eventloop's creationStack pattern
// (capture runtime.Callers once at construction, render lazily).
type Diagnostic struct {
	Err       error
	Path      []string
	HostStack []uintptr
}

// captureHostStack records the calling goroutine's stack, skipping this
// function and its immediate caller ([NewDiagnostic]) so the trace starts
// at the code that asked for the Diagnostic.
func captureHostStack() []uintptr {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	return pcs[:n]
}

// NewDiagnostic builds a Diagnostic for err, capturing the current host
// stack and the effect-call path recorded in trace (nil if observability
// is off, in which case Path is empty).
func NewDiagnostic(err error, trace *CallNode) Diagnostic {
	d := Diagnostic{Err: err, HostStack: captureHostStack()}
	if trace != nil {
		d.Path = leafPath(trace)
	}
	return d
}

// leafPath returns the labels from root to the last-recorded leaf.
func leafPath(n *CallNode) []string {
	path := []string{n.Label}
	for len(n.Children) > 0 {
		n = n.Children[len(n.Children)-1]
		path = append(path, n.Label)
	}
	return path
}

// String renders the diagnostic: the error, the effect path, and the
// resolved host stack frames.
func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "error: %v\n", d.Err)
	if len(d.Path) > 0 {
		fmt.Fprintf(&b, "effect path: %s\n", strings.Join(d.Path, " > "))
	}
	frames := runtime.CallersFrames(d.HostStack)
	for {
		f, more := frames.Next()
		fmt.Fprintf(&b, "  %s\n    %s:%d\n", f.Function, f.File, f.Line)
		if !more {
			break
		}
	}
	return b.String()
}
