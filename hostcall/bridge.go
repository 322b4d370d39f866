//
// Created on 2023/3/13 by khanghh
// Project: github.com/verichains/devnode
// Copyright (c) 2023 Verichains Lab
//

package hostcall

// Handler processes a single request on the host executor. It must not block
// for long: while it runs, every worker serialized behind the same host is
// stalled. Returned errors are business failures and travel back to the
// invoking worker; panics are contract violations and are left to crash.
type Handler[Req, Res any] func(Req) (Res, error)

// Bridge is a registration handle binding one handler to a host. The handle
// holds a non-owning reference: it never keeps the host executor alive, and
// it stays valid (but fatal to use) after the host shuts down.
type Bridge[Req, Res any] struct {
	host    *Host
	handler Handler[Req, Res]
}

// Register binds handler to the host's executor and returns the invocation
// handle. Any number of workers may share the returned bridge.
func Register[Req, Res any](host *Host, handler Handler[Req, Res]) *Bridge[Req, Res] {
	if handler == nil {
		panic("hostcall: nil handler")
	}
	return &Bridge[Req, Res]{host: host, handler: handler}
}

type outcome[Res any] struct {
	res Res
	err error
}

// Invoke runs the registered handler on the host executor and blocks the
// calling goroutine until it produced a result. Calls from multiple workers
// are serialized by the host; calls issued by a single worker are observed
// by the host in issue order.
//
// Invoking a bridge whose host has been closed is a protocol violation and
// panics. There is no cancellation: a call either completes or the process
// is in a fatal state.
func (b *Bridge[Req, Res]) Invoke(req Req) (Res, error) {
	// Buffered so the handler never blocks handing back the result.
	done := make(chan outcome[Res], 1)

	select {
	case b.host.calls <- func() {
		res, err := b.handler(req)
		done <- outcome[Res]{res: res, err: err}
	}:
	case <-b.host.quit:
		panic("hostcall: bridge invoked after host shutdown")
	}

	select {
	case out := <-done:
		return out.res, out.err
	case <-b.host.quit:
		// The handler may have finished right before shutdown; a delivered
		// result wins over the teardown fault.
		select {
		case out := <-done:
			return out.res, out.err
		default:
			panic("hostcall: host shut down with call in flight")
		}
	}
}
