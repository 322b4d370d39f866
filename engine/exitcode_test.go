package engine

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyHaltCoversPublicReasons(t *testing.T) {
	cases := map[HaltReason]ExitCode{
		HaltOutOfGas:                     ExitOutOfGas,
		HaltOpcodeNotFound:               ExitInvalidOpcode,
		HaltInvalidFEOpcode:              ExitInvalidOpcode,
		HaltNotActivated:                 ExitInvalidOpcode,
		HaltStackUnderflow:               ExitStackUnderflow,
		HaltCreateContractSizeLimit:      ExitCodesizeExceedsMaximum,
		HaltCreateCollision:              ExitCreateCollision,
		HaltPrecompileError:              ExitInternalError,
		HaltNonceOverflow:                ExitInternalError,
		HaltInvalidJump:                  ExitUnknownHaltReason,
		HaltStackOverflow:                ExitUnknownHaltReason,
		HaltOutOfOffset:                  ExitUnknownHaltReason,
		HaltCreateContractStartingWithEF: ExitUnknownHaltReason,
		HaltCreateInitCodeSizeLimit:      ExitUnknownHaltReason,
	}
	for reason, want := range cases {
		assert.Equal(t, want, ClassifyHalt(reason), "reason %d", reason)
	}
}

func TestClassifyHaltRejectsInternalReasons(t *testing.T) {
	internal := []HaltReason{
		HaltOverflowPayment,
		HaltStateChangeDuringStaticCall,
		HaltCallNotAllowedInsideStatic,
		HaltOutOfFunds,
		HaltCallTooDeep,
	}
	for _, reason := range internal {
		reason := reason
		require.Panics(t, func() { ClassifyHalt(reason) }, "reason %d", reason)
	}
}

func TestExitCodeOf(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCodeOf(&ExecutionResult{Kind: ResultSuccess}))
	assert.Equal(t, ExitRevert, ExitCodeOf(&ExecutionResult{Kind: ResultRevert}))
	assert.Equal(t, ExitOutOfGas, ExitCodeOf(&ExecutionResult{Kind: ResultHalt, Reason: HaltOutOfGas}))
}

func TestFailureFromResult(t *testing.T) {
	require.Nil(t, FailureFromResult(&ExecutionResult{Kind: ResultSuccess}, nil, nil))

	revert := FailureFromResult(&ExecutionResult{Kind: ResultRevert}, nil, nil)
	require.NotNil(t, revert)
	assert.True(t, revert.IsRevert)
	assert.Equal(t, "Transaction reverted without a reason string", revert.Message)

	halt := FailureFromResult(&ExecutionResult{Kind: ResultHalt, Reason: HaltOutOfGas}, nil, nil)
	require.NotNil(t, halt)
	assert.False(t, halt.IsRevert)
	assert.Contains(t, halt.Message, "OutOfGas")
}

func TestIsPrecompile(t *testing.T) {
	ecrecover := common.BytesToAddress([]byte{1})
	assert.True(t, IsPrecompile(SpecBerlin, ecrecover))

	blake2f := common.BytesToAddress([]byte{9})
	assert.True(t, IsPrecompile(SpecIstanbul, blake2f))
	assert.False(t, IsPrecompile(SpecByzantium, blake2f))

	assert.False(t, IsPrecompile(SpecBerlin, common.BytesToAddress([]byte{0x40})))
}
