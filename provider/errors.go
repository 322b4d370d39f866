//
// Created on 2023/3/17 by khanghh
// Project: github.com/verichains/devnode
// Copyright (c) 2023 Verichains Lab
//

package provider

import (
	"errors"
	"fmt"

	"github.com/verichains/devnode/engine"
)

var (
	// ErrInvalidChainID is returned when a raw transaction is signed for a
	// different chain than the node is running.
	ErrInvalidChainID = errors.New("trying to send an EIP-155 transaction signed for another chain")

	// ErrPrintLine is returned when the host print callback reports a
	// failure; it aborts only the render in progress.
	ErrPrintLine = errors.New("failed to print line")
)

// UnsupportedMethodError is returned for JSON-RPC methods the node does not
// implement. The reporter renders it minimally, without the usual method
// heading.
type UnsupportedMethodError struct {
	Method string
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("Method %s is not supported", e.Method)
}

// TransactionFailedError wraps an execution failure whose detail has already
// been rendered by the transaction logging path; the reporter must not
// render it a second time.
type TransactionFailedError struct {
	Failure *engine.TransactionFailure
}

func (e *TransactionFailedError) Error() string {
	return e.Failure.Message
}
