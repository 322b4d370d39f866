package engine

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// TransactionFailure is the pre-formatted description of a failed execution.
// Decoding of revert reason strings and solidity stack traces is owned by
// the host; at this boundary the failure is an opaque message plus the
// revert-vs-halt flag the reporter needs to pick an error heading.
type TransactionFailure struct {
	TxHash   *common.Hash
	IsRevert bool
	Message  string

	// Trace of the failed execution, used by the reporter to identify the
	// contract and function involved.
	Trace *Trace
}

func (f *TransactionFailure) String() string {
	return f.Message
}

// FailureFromResult derives a TransactionFailure from an execution result,
// or nil if the execution succeeded.
func FailureFromResult(result *ExecutionResult, txHash *common.Hash, trace *Trace) *TransactionFailure {
	switch result.Kind {
	case ResultSuccess:
		return nil
	case ResultRevert:
		message := "Transaction reverted without a reason string"
		if len(result.Output) > 0 {
			message = fmt.Sprintf("VM Exception while processing transaction: reverted with data %s", hexutil.Encode(result.Output))
		}
		return &TransactionFailure{
			TxHash:   txHash,
			IsRevert: true,
			Message:  message,
			Trace:    trace,
		}
	default:
		return &TransactionFailure{
			TxHash:  txHash,
			Message: fmt.Sprintf("Transaction failed: %s", ClassifyHalt(result.Reason)),
			Trace:   trace,
		}
	}
}
