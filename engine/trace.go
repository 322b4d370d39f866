package engine

import "github.com/ethereum/go-ethereum/common"

// Message kinds recorded by the engine's call tracer. Only the shallow
// before/after envelope is modeled here; step-level tracing belongs to the
// engine.
type TraceMessage interface {
	traceMessage()
}

// BeforeMessage records the entry of a call or create frame.
type BeforeMessage struct {
	Depth int
	// To is nil for contract creations.
	To *common.Address
	// Data is the calldata of a call, or the init code of a creation.
	Data []byte
	// Code is the executed bytecode; nil or empty when the target has no
	// code.
	Code []byte
}

// AfterMessage records the exit of a frame together with its result.
type AfterMessage struct {
	Result *ExecutionResult
}

func (*BeforeMessage) traceMessage() {}
func (*AfterMessage) traceMessage()  {}

// Trace is the ordered message stream of one transaction execution.
type Trace struct {
	Messages []TraceMessage
}

// FirstBefore returns the trace's opening frame, or nil for an empty trace.
func (t *Trace) FirstBefore() *BeforeMessage {
	if t == nil || len(t.Messages) == 0 {
		return nil
	}
	before, _ := t.Messages[0].(*BeforeMessage)
	return before
}

// LastResult returns the execution result attached to the trace's closing
// message. Panics if the trace opened a frame but never closed it; the
// engine guarantees every before message has a matching after message.
func (t *Trace) LastResult() *ExecutionResult {
	if len(t.Messages) == 0 {
		return nil
	}
	after, ok := t.Messages[len(t.Messages)-1].(*AfterMessage)
	if !ok {
		panic("engine: trace before message without an after message")
	}
	return after.Result
}

// Result kinds of an ExecutionResult.
const (
	ResultSuccess = iota
	ResultRevert
	ResultHalt
)

// ExecutionResult is the engine's verdict on one executed message.
type ExecutionResult struct {
	Kind    int
	GasUsed uint64

	// Output is the return data of a successful call or the revert payload;
	// unused for halts.
	Output []byte

	// CreatedAddress is set for successful contract creations.
	CreatedAddress *common.Address

	// Reason is only meaningful for halts.
	Reason HaltReason
}

func (r *ExecutionResult) Succeeded() bool {
	return r.Kind == ResultSuccess
}
