//
// Created on 2023/3/15 by khanghh
// Project: github.com/verichains/devnode
// Copyright (c) 2023 Verichains Lab
//

// Package engine declares the boundary types produced by the blocking
// execution engine. The engine itself (EVM, mempool, mining policy) lives
// outside this module; everything here is an opaque, already-computed value
// that the activity reporter and the provider shell consume.
package engine

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Transaction carries the fields of an executed transaction that the
// reporter renders. From is already recovered by the engine; To is nil for
// contract creations.
type Transaction struct {
	Hash     common.Hash
	From     common.Address
	To       *common.Address
	Value    *uint256.Int
	GasLimit uint64
	Input    []byte
	Nonce    uint64
}

// Block is a mined block header plus its transactions in execution order.
// BaseFee is nil before the london fork.
type Block struct {
	Number       uint64
	Hash         common.Hash
	BaseFee      *uint256.Int
	Transactions []*Transaction
}

// DebugMineBlockResult is the outcome of mining one block. The three slices
// transactions/results/traces of the block line up index by index.
type DebugMineBlockResult struct {
	Block              *Block
	TransactionResults []*ExecutionResult
	TransactionTraces  []*Trace

	// Raw console.log call payloads captured during the block's execution,
	// decoded later through the host bridge.
	ConsoleLogInputs [][]byte
}

// CallResult is the outcome of an eth_call style execution.
type CallResult struct {
	ConsoleLogInputs [][]byte
	ExecutionResult  *ExecutionResult
	Trace            *Trace
}

// EstimateGasFailure is produced when a gas estimation fails; the contained
// failure always carries the trace of the failed execution.
type EstimateGasFailure struct {
	ConsoleLogInputs [][]byte
	Failure          *TransactionFailure
}
