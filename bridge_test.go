// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effekt

import (
	"errors"
	"testing"
	"time"
)

func TestAwaitResumesOnExternalCompletion(t *testing.T) {
	prog := Await(func(p *ExternalPromise) {
		go func() {
			time.Sleep(10 * time.Millisecond)
			p.Complete("external result")
		}()
	})
	res := Run(prog, NewEnv(nil), NewStore(nil))
	v, ok := res.Outcome.Value()
	if !ok || v != "external result" {
		t.Fatalf("expected Ok(external result), got %+v", res.Outcome)
	}
}

func TestAwaitPropagatesFailure(t *testing.T) {
	boom := errors.New("external failure")
	prog := Await(func(p *ExternalPromise) {
		go p.Fail(boom)
	})
	res := Run(prog, NewEnv(nil), NewStore(nil))
	if res.Outcome.IsOk() {
		t.Fatal("expected Await to propagate the external failure")
	}
	if !errors.Is(res.Outcome.Error(), boom) {
		t.Fatalf("expected wrapped %v, got %v", boom, res.Outcome.Error())
	}
}
