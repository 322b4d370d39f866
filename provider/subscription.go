package provider

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/verichains/devnode/engine"
	"github.com/verichains/devnode/hostcall"
)

// Subscription event kinds.
const (
	SubscriptionLogs = iota
	SubscriptionNewHeads
	SubscriptionNewPendingTransactions
)

// SubscriptionEvent is one domain event addressed to a host subscription.
// Filtering by subscription id is the host's job; the dispatcher only keeps
// the emission order intact.
type SubscriptionEvent struct {
	FilterID rpc.ID
	Kind     int

	// Exactly one of the payloads below is set, matching Kind.
	Logs   []*types.Log
	Head   *engine.Block
	TxHash common.Hash
}

// Subscriber delivers subscription events to the host. Notify blocks until
// the host consumed the event: were it fire-and-forget, a fast second event
// could overtake a slow first one.
type Subscriber struct {
	bridge *hostcall.Bridge[SubscriptionEvent, struct{}]
}

// NewSubscriber binds the host's subscription callback.
func NewSubscriber(host *hostcall.Host, callback func(SubscriptionEvent) error) *Subscriber {
	return &Subscriber{
		bridge: hostcall.Register(host, func(event SubscriptionEvent) (struct{}, error) {
			return struct{}{}, callback(event)
		}),
	}
}

// Notify delivers one event. No batching, deduplication or filtering.
func (s *Subscriber) Notify(event SubscriptionEvent) error {
	_, err := s.bridge.Invoke(event)
	return err
}
