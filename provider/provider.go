//
// Created on 2023/3/17 by khanghh
// Project: github.com/verichains/devnode
// Copyright (c) 2023 Verichains Lab
//

// Package provider hosts the request-facing shell around the execution
// engine: per-request logging hooks, the scenario side channel, subscription
// and call-override dispatch, and interval mining. The JSON-RPC wire
// handling and the engine algorithms themselves live outside this module.
package provider

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/verichains/devnode/engine"
)

// Engine is the narrow view of the execution engine the provider consumes.
// Every method blocks the calling worker until the engine finished.
type Engine interface {
	// HandleRequest dispatches one JSON-RPC method call and returns its
	// result value. Logging hooks for the executed operation have already
	// fired by the time it returns.
	HandleRequest(ctx context.Context, method string, params json.RawMessage) (interface{}, error)

	// MineBlock mines one block from the current pending pool.
	MineBlock(ctx context.Context) (*engine.DebugMineBlockResult, error)
}

// Config is the provider configuration; it is also what the scenario
// recorder serializes as the first line of a recording.
type Config struct {
	ChainID       uint64        `json:"chainId"`
	NetworkID     uint64        `json:"networkId"`
	Hardfork      engine.SpecID `json:"hardfork"`
	BlockGasLimit uint64        `json:"blockGasLimit"`

	// MiningInterval enables timer-driven mining when positive.
	MiningInterval time.Duration `json:"miningInterval"`

	// MaxResponseSize caps the length of a pre-serialized response; larger
	// results are handed back structured. Zero means no ceiling.
	MaxResponseSize int `json:"maxResponseSize"`
}

// DefaultConfig contains the settings of a local development chain.
var DefaultConfig = Config{
	ChainID:         31337,
	NetworkID:       31337,
	Hardfork:        engine.SpecShanghai,
	BlockGasLimit:   30_000_000,
	MaxResponseSize: 32 * 1024 * 1024,
}

// Request is one inbound JSON-RPC method call.
type Request struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response carries a method result either pre-serialized or, when the
// serialized form exceeds the configured ceiling, as the structured value
// itself.
type Response struct {
	Raw   string
	Value interface{}
}

// Provider glues the engine, the activity logger and the scenario recorder
// together. One worker goroutine drives it at a time.
type Provider struct {
	config   Config
	engine   Engine
	logger   Logger
	recorder *ScenarioRecorder
	miner    *IntervalMiner
}

// New assembles a provider. The scenario recorder is armed from the
// environment; a nil recorder simply disables the side channel.
func New(config Config, eng Engine, logger Logger) (*Provider, error) {
	recorder, err := NewScenarioRecorder(&config)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		config:   config,
		engine:   eng,
		logger:   logger,
		recorder: recorder,
	}
	if config.MiningInterval > 0 {
		p.miner = StartIntervalMiner(eng, logger, config.Hardfork, config.MiningInterval)
	}
	return p, nil
}

// HandleRequest records, dispatches and logs one method call. Scenario
// write failures abort the request; they are ordinary errors, never silently
// dropped.
func (p *Provider) HandleRequest(ctx context.Context, req Request) (*Response, error) {
	if p.recorder != nil {
		if err := p.recorder.Record(req); err != nil {
			return nil, err
		}
	}

	result, err := p.engine.HandleRequest(ctx, req.Method, req.Params)

	if logErr := p.logger.PrintMethodLogs(req.Method, err); logErr != nil {
		log.Warn("Failed to print method logs", "method", req.Method, "err", logErr)
	}
	if err != nil {
		return nil, err
	}

	return marshalResponse(result, p.config.MaxResponseSize)
}

// Close stops the interval miner and the scenario recorder. The underlying
// engine and host are owned by the caller.
func (p *Provider) Close() error {
	var err error
	if p.miner != nil {
		err = p.miner.Stop()
	}
	if p.recorder != nil {
		if cerr := p.recorder.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// marshalResponse serializes result, falling back to the structured value
// when the serialized form exceeds the ceiling.
func marshalResponse(result interface{}, ceiling int) (*Response, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	if ceiling > 0 && len(data) > ceiling {
		return &Response{Value: result}, nil
	}
	return &Response{Raw: string(data)}, nil
}
