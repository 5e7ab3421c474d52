package engine

import (
	"fmt"

	"github.com/frpnet/core/link"
)

// GoExecutor runs a link-fn on a fresh goroutine per call. It is the one
// concrete asynchronous executor this package supplies; a general
// thread-pool is a separate concern from the core, but the async
// evaluation path still needs a real executor to exercise it.
type GoExecutor struct{}

func (GoExecutor) Run(l *link.Link, input link.Result, netref any, onDone func(*link.Result, error)) {
	nr, _ := netref.(*NetRef)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				onDone(nil, fmt.Errorf("link %q panicked: %v", l.Label, r))
			}
		}()
		var res *link.Result
		var err error
		run := func() { res, err = l.Fn(input) }
		if nr != nil {
			WithNetRef(nr, run)
		} else {
			run()
		}
		onDone(res, err)
	}()
}
