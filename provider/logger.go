package provider

import "github.com/verichains/devnode/engine"

// Logger receives one call per engine event and turns the event stream into
// the developer-facing activity narrative. Implementations are driven by a
// single worker goroutine at a time; they need no internal locking.
type Logger interface {
	Enabled() bool
	SetEnabled(enabled bool)

	// LogCall reports an eth_call style execution.
	LogCall(spec engine.SpecID, tx *engine.Transaction, result *engine.CallResult) error

	// LogEstimateGasFailure reports a failed gas estimation.
	LogEstimateGasFailure(spec engine.SpecID, tx *engine.Transaction, failure *engine.EstimateGasFailure) error

	// LogIntervalMined reports one block produced by timer-driven mining.
	LogIntervalMined(spec engine.SpecID, result *engine.DebugMineBlockResult) error

	// LogMinedBlocks reports the blocks produced by an explicit mine
	// request.
	LogMinedBlocks(spec engine.SpecID, results []*engine.DebugMineBlockResult) error

	// LogSendTransaction reports a sent transaction together with every
	// block that had to be mined to include it.
	LogSendTransaction(spec engine.SpecID, tx *engine.Transaction, results []*engine.DebugMineBlockResult) error

	// PrintMethodLogs is invoked once per JSON-RPC method call, after the
	// method ran; err is nil on success.
	PrintMethodLogs(method string, err error) error
}
