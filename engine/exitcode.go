package engine

import "fmt"

// HaltReason is the engine-internal code describing why execution stopped
// exceptionally before spending its gas budget on a normal stop or revert.
type HaltReason int

const (
	HaltOutOfGas HaltReason = iota
	HaltOpcodeNotFound
	HaltInvalidFEOpcode
	HaltNotActivated
	HaltInvalidJump
	HaltStackUnderflow
	HaltStackOverflow
	HaltOutOfOffset
	HaltCreateCollision
	HaltPrecompileError
	HaltNonceOverflow
	HaltCreateContractSizeLimit
	HaltCreateContractStartingWithEF
	HaltCreateInitCodeSizeLimit

	// The reasons below are internal to the engine's interpreter loop and
	// must be resolved before results cross the engine boundary. They are
	// listed so the classifier can reject them loudly.
	HaltOverflowPayment
	HaltStateChangeDuringStaticCall
	HaltCallNotAllowedInsideStatic
	HaltOutOfFunds
	HaltCallTooDeep
)

// ExitCode is the public, stable classification of a transaction outcome
// exposed through the API and the activity reporter.
type ExitCode int

const (
	ExitSuccess ExitCode = iota
	ExitRevert
	ExitOutOfGas
	ExitInternalError
	ExitInvalidOpcode
	ExitStackUnderflow
	ExitCodesizeExceedsMaximum
	ExitCreateCollision
	ExitUnknownHaltReason
)

func (c ExitCode) String() string {
	switch c {
	case ExitSuccess:
		return "Success"
	case ExitRevert:
		return "Revert"
	case ExitOutOfGas:
		return "OutOfGas"
	case ExitInternalError:
		return "InternalError"
	case ExitInvalidOpcode:
		return "InvalidOpcode"
	case ExitStackUnderflow:
		return "StackUnderflow"
	case ExitCodesizeExceedsMaximum:
		return "CodesizeExceedsMaximum"
	case ExitCreateCollision:
		return "CreateCollision"
	case ExitUnknownHaltReason:
		return "UnknownHaltReason"
	}
	return fmt.Sprintf("ExitCode(%d)", int(c))
}

// ClassifyHalt maps an engine halt reason to its public exit code. The
// mapping is total over the reasons the engine may legitimately emit;
// receiving one of the interpreter-internal reasons is an engine contract
// violation and panics instead of being remapped.
func ClassifyHalt(reason HaltReason) ExitCode {
	switch reason {
	case HaltOutOfGas:
		return ExitOutOfGas
	case HaltOpcodeNotFound, HaltInvalidFEOpcode, HaltNotActivated:
		return ExitInvalidOpcode
	case HaltStackUnderflow:
		return ExitStackUnderflow
	case HaltCreateContractSizeLimit:
		return ExitCodesizeExceedsMaximum
	case HaltCreateCollision:
		return ExitCreateCollision
	case HaltPrecompileError, HaltNonceOverflow:
		return ExitInternalError
	case HaltInvalidJump, HaltStackOverflow, HaltOutOfOffset,
		HaltCreateContractStartingWithEF, HaltCreateInitCodeSizeLimit:
		return ExitUnknownHaltReason
	case HaltOverflowPayment, HaltStateChangeDuringStaticCall,
		HaltCallNotAllowedInsideStatic, HaltOutOfFunds, HaltCallTooDeep:
		panic(fmt.Sprintf("engine: internal halt reason %d crossed the engine boundary", reason))
	}
	return ExitUnknownHaltReason
}

// ExitCodeOf classifies a complete execution result.
func ExitCodeOf(result *ExecutionResult) ExitCode {
	switch result.Kind {
	case ResultSuccess:
		return ExitSuccess
	case ResultRevert:
		return ExitRevert
	default:
		return ClassifyHalt(result.Reason)
	}
}
