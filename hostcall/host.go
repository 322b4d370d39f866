//
// Created on 2023/3/13 by khanghh
// Project: github.com/verichains/devnode
// Copyright (c) 2023 Verichains Lab
//

// Package hostcall implements the synchronous callback bridge between
// blocking engine workers and the single logical host consumer. Workers
// enqueue a call and block until the host executor has run the registered
// handler; the executor drains calls one at a time, so handlers bound to the
// same host never interleave.
package hostcall

import (
	"sync"
	"sync/atomic"
)

const (
	stateRunning = iota
	stateClosed
)

// Host owns the executor goroutine that runs every registered handler.
// There is exactly one logical consumer per Host; all bridges registered on
// it share the same serial mailbox.
type Host struct {
	calls chan func()
	quit  chan struct{}
	state int32

	wg sync.WaitGroup
}

// NewHost starts the host executor. The executor keeps running until Close
// is called; registering bridges on it does not affect its lifetime.
func NewHost() *Host {
	h := &Host{
		calls: make(chan func()),
		quit:  make(chan struct{}),
	}
	h.wg.Add(1)
	go h.run()
	return h
}

func (h *Host) run() {
	defer h.wg.Done()
	for {
		select {
		case call := <-h.calls:
			call()
		case <-h.quit:
			return
		}
	}
}

// Close permanently tears down the executor. Any blocked or future Invoke on
// a bridge registered with this host fails fatally; a closed host is never
// restarted. Close is idempotent and blocks until the executor has exited.
func (h *Host) Close() {
	if atomic.CompareAndSwapInt32(&h.state, stateRunning, stateClosed) {
		close(h.quit)
	}
	h.wg.Wait()
}
