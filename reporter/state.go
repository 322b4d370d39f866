//
// Created on 2023/3/16 by khanghh
// Project: github.com/verichains/devnode
// Copyright (c) 2023 Verichains Lab
//

package reporter

// loggingState tracks what the previous rendered lines were about, so that
// follow-up events can collapse into them instead of appending. Exactly one
// variant is active per collector; every transition replaces the whole
// state.
type loggingState interface {
	loggingState()
}

// emptyState means the next event starts a fresh paragraph.
type emptyState struct{}

// collapsingMethod is active while consecutive successful calls of the same
// JSON-RPC method are folded into a single "method (count)" line.
type collapsingMethod struct {
	method string
	count  int
}

// manualMining tracks a run of consecutive empty blocks produced by explicit
// mine requests. rangeStart is the height of the run's first block once at
// least one empty block was rendered.
type manualMining struct {
	rangeStart *uint64
}

// intervalMining tracks the same kind of empty-block run for timer-driven
// mining. It is a separate slot from manualMining on purpose: the two
// triggers must never merge their ranges.
type intervalMining struct {
	rangeStart *uint64
}

func (emptyState) loggingState()        {}
func (*collapsingMethod) loggingState() {}
func (*manualMining) loggingState()     {}
func (*intervalMining) loggingState()   {}

// takeManualMiningRange consumes the state, returning the active manual
// empty-block run start, if any. The state is always reset to empty.
func (c *collector) takeManualMiningRange() *uint64 {
	state := c.state
	c.state = emptyState{}
	if s, ok := state.(*manualMining); ok {
		return s.rangeStart
	}
	return nil
}

// takeIntervalMiningRange is the interval-mining counterpart of
// takeManualMiningRange.
func (c *collector) takeIntervalMiningRange() *uint64 {
	state := c.state
	c.state = emptyState{}
	if s, ok := state.(*intervalMining); ok {
		return s.rangeStart
	}
	return nil
}

// collapsedMethod returns the active collapsing run for method, if any.
func (c *collector) collapsedMethod(method string) *collapsingMethod {
	if cm, ok := c.state.(*collapsingMethod); ok && cm.method == method {
		return cm
	}
	return nil
}
