package provider

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/verichains/devnode/hostcall"
)

// CallOverrideResult is a host-supplied replacement for a contract call
// outcome.
type CallOverrideResult struct {
	Output       []byte
	ShouldRevert bool
}

type callOverrideQuery struct {
	Contract common.Address
	Data     []byte
}

// CallOverride lets the host intercept contract calls before the engine
// applies their result. The host callback may be asynchronous internally;
// from the worker's point of view the override is one blocking round trip.
type CallOverride struct {
	bridge *hostcall.Bridge[callOverrideQuery, *CallOverrideResult]
}

// NewCallOverride binds the host's override callback.
func NewCallOverride(host *hostcall.Host, callback func(contract common.Address, data []byte) (*CallOverrideResult, error)) *CallOverride {
	return &CallOverride{
		bridge: hostcall.Register(host, func(q callOverrideQuery) (*CallOverrideResult, error) {
			return callback(q.Contract, q.Data)
		}),
	}
}

// MaybeOverride asks the host for an override of the given call. A nil
// result means the engine's own outcome stands; that is not an error.
func (c *CallOverride) MaybeOverride(contract common.Address, data []byte) (*CallOverrideResult, error) {
	return c.bridge.Invoke(callOverrideQuery{Contract: contract, Data: data})
}
