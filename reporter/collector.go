//
// Created on 2023/3/16 by khanghh
// Project: github.com/verichains/devnode
// Copyright (c) 2023 Verichains Lab
//

// Package reporter renders JSON-RPC method calls, block mining outcomes and
// decoded console.log output as an ordered, human readable narrative. It is
// driven by the blocking engine worker and talks back to the host (printing,
// console.log decoding, contract name resolution) through hostcall bridges.
package reporter

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/fatih/color"
	"github.com/verichains/devnode/engine"
	"github.com/verichains/devnode/hostcall"
	"github.com/verichains/devnode/provider"
)

var (
	methodStyle    = color.New(color.FgGreen)
	errorStyle     = color.New(color.FgRed)
	hintStyle      = color.New(color.FgYellow)
	highlightStyle = color.New(color.Bold)
)

const metamaskChainIDHint = "If you are using MetaMask, you can learn how to fix this error here: https://hardhat.org/metamask-issue"

// ContractAndFunctionName is the host's answer to a contract identification
// request. FunctionName is empty for deployments.
type ContractAndFunctionName struct {
	ContractName string
	FunctionName string
}

// contractMetaQuery asks the host to identify a contract by its code.
// Calldata is nil for deployments, where Code holds the init code.
type contractMetaQuery struct {
	Code     []byte
	Calldata []byte
}

type printLineCall struct {
	Message string
	Replace bool
}

// Config carries the host callbacks the reporter renders through. All three
// callbacks run on the host executor, one at a time.
type Config struct {
	// Enabled controls whether narrative output is produced at all.
	// console.log output is always surfaced, even when disabled.
	Enabled bool

	// DecodeConsoleLogInputs decodes raw console.log payloads into printable
	// strings. A failure here is a host contract violation.
	DecodeConsoleLogInputs func(inputs [][]byte) ([]string, error)

	// GetContractAndFunctionName resolves a contract (and called function)
	// from deployed code and calldata. Calldata is nil for deployments.
	GetContractAndFunctionName func(code []byte, calldata []byte) (ContractAndFunctionName, error)

	// PrintLine delivers one rendered line. When replace is true the line
	// overwrites the previously printed one.
	PrintLine func(message string, replace bool) error
}

// Logger is the stateful activity logger. It must be driven by a single
// worker goroutine; the only shared component is the host bridge, which
// serializes callback execution internally.
type Logger struct {
	collector
}

// New registers the config's callbacks on the host and returns a ready
// logger. The registrations never keep the host alive; closing the host
// while the logger is still in use is fatal to subsequent renders.
func New(host *hostcall.Host, config Config) *Logger {
	if config.DecodeConsoleLogInputs == nil || config.GetContractAndFunctionName == nil || config.PrintLine == nil {
		panic("reporter: incomplete logger config")
	}
	return &Logger{
		collector: collector{
			decodeConsoleLogs: hostcall.Register(host, func(inputs [][]byte) ([]string, error) {
				return config.DecodeConsoleLogInputs(inputs)
			}),
			contractMeta: hostcall.Register(host, func(q contractMetaQuery) (ContractAndFunctionName, error) {
				return config.GetContractAndFunctionName(q.Code, q.Calldata)
			}),
			printLine: hostcall.Register(host, func(call printLineCall) (struct{}, error) {
				return struct{}{}, config.PrintLine(call.Message, call.Replace)
			}),
			enabled: config.Enabled,
			state:   emptyState{},
		},
	}
}

func (l *Logger) Enabled() bool {
	return l.enabled
}

func (l *Logger) SetEnabled(enabled bool) {
	l.enabled = enabled
}

// LogCall renders an eth_call style execution into the line buffer.
func (l *Logger) LogCall(spec engine.SpecID, tx *engine.Transaction, result *engine.CallResult) error {
	c := &l.collector
	c.state = emptyState{}

	return c.indented(func() error {
		c.logContractAndFunctionName(spec, result.Trace, true)

		c.logWithTitle("From", hexutil.Encode(tx.From.Bytes()))
		if tx.To != nil {
			c.logWithTitle("To", hexutil.Encode(tx.To.Bytes()))
		}
		if tx.Value != nil && !tx.Value.IsZero() {
			c.logWithTitle("Value", WeiToHumanReadable(tx.Value))
		}

		if err := c.logConsoleLogMessages(result.ConsoleLogInputs); err != nil {
			return err
		}

		if failure := engine.FailureFromResult(result.ExecutionResult, nil, result.Trace); failure != nil {
			c.logTransactionFailure(failure)
		}
		return nil
	})
}

// LogEstimateGasFailure renders a failed gas estimation into the line
// buffer.
func (l *Logger) LogEstimateGasFailure(spec engine.SpecID, tx *engine.Transaction, failure *engine.EstimateGasFailure) error {
	c := &l.collector
	c.state = emptyState{}

	return c.indented(func() error {
		c.logContractAndFunctionName(spec, failure.Failure.Trace, true)

		c.logWithTitle("From", hexutil.Encode(tx.From.Bytes()))
		if tx.To != nil {
			c.logWithTitle("To", hexutil.Encode(tx.To.Bytes()))
		}
		c.logWithTitle("Value", WeiToHumanReadable(tx.Value))

		if err := c.logConsoleLogMessages(failure.ConsoleLogInputs); err != nil {
			return err
		}

		c.logTransactionFailure(failure.Failure)
		return nil
	})
}

// LogMinedBlocks renders the outcome of an explicit mine request. Runs of
// empty blocks collapse into a single range line; non-empty blocks render in
// full and reset the run.
func (l *Logger) LogMinedBlocks(spec engine.SpecID, results []*engine.DebugMineBlockResult) error {
	c := &l.collector

	numResults := len(results)
	for idx, result := range results {
		rangeStart := c.takeManualMiningRange()

		if len(result.Block.Transactions) == 0 {
			c.logMinedEmptyBlock(result.Block, rangeStart)

			start := result.Block.Number
			if rangeStart != nil {
				start = *rangeStart
			}
			c.state = &manualMining{rangeStart: &start}
		} else {
			if err := c.logMinedBlock(spec, result); err != nil {
				return err
			}
			if idx < numResults-1 {
				c.logEmptyLine()
			}
		}
	}
	return nil
}

// LogIntervalMined renders one block produced by timer-driven mining. Empty
// blocks coalesce through the printed line (replacing it in place); a
// non-empty block prints immediately together with any buffered lines.
func (l *Logger) LogIntervalMined(spec engine.SpecID, result *engine.DebugMineBlockResult) error {
	c := &l.collector

	block := result.Block
	if len(block.Transactions) == 0 {
		rangeStart := c.takeIntervalMiningRange()

		if rangeStart != nil {
			if err := c.print(fmt.Sprintf("Mined empty block range #%d to #%d", *rangeStart, block.Number), true); err != nil {
				return err
			}
		} else {
			if err := c.print(emptyBlockLine(block), false); err != nil {
				return err
			}
		}

		start := block.Number
		if rangeStart != nil {
			start = *rangeStart
		}
		c.state = &intervalMining{rangeStart: &start}
		return nil
	}

	if err := c.logIntervalMinedBlock(spec, result); err != nil {
		return err
	}
	if err := c.print(fmt.Sprintf("Mined block #%d", block.Number), false); err != nil {
		return err
	}

	printed, err := c.printLogs()
	if err != nil {
		return err
	}
	if printed {
		return c.printEmptyLine()
	}
	return nil
}

// LogSendTransaction renders a sent transaction and every block mined on its
// behalf. The sent transaction must appear in one of the mining results;
// anything else is an engine contract violation.
func (l *Logger) LogSendTransaction(spec engine.SpecID, tx *engine.Transaction, results []*engine.DebugMineBlockResult) error {
	c := &l.collector
	if len(results) == 0 {
		return nil
	}
	c.state = emptyState{}

	var (
		sentBlock  *engine.DebugMineBlockResult
		sentResult *engine.ExecutionResult
		sentTrace  *engine.Trace
	)
search:
	for _, result := range results {
		for i, blockTx := range result.Block.Transactions {
			if blockTx.Hash == tx.Hash {
				sentBlock = result
				sentResult = result.TransactionResults[i]
				sentTrace = result.TransactionTraces[i]
				break search
			}
		}
	}
	if sentBlock == nil {
		panic("reporter: sent transaction not found in mining results")
	}

	if len(results) > 1 {
		c.logMultipleBlocksWarning()
		if err := c.logAutoMinedBlockResults(spec, results, tx.Hash); err != nil {
			return err
		}
		return c.logCurrentlySentTransaction(spec, sentBlock, tx, sentResult, sentTrace)
	}

	result := results[0]
	if len(result.Block.Transactions) > 1 {
		c.logMultipleTransactionsWarning()
		if err := c.logAutoMinedBlockResults(spec, results, tx.Hash); err != nil {
			return err
		}
		return c.logCurrentlySentTransaction(spec, sentBlock, tx, sentResult, sentTrace)
	}
	return c.logSingleTransactionMiningResult(spec, result, tx)
}

// PrintMethodLogs is the top-level per-request hook: it prints the method
// heading (collapsing repeats), flushes the buffered narrative and renders
// any method error.
func (l *Logger) PrintMethodLogs(method string, err error) error {
	c := &l.collector

	if err != nil {
		c.state = emptyState{}

		var unsupported *provider.UnsupportedMethodError
		if errors.As(err, &unsupported) {
			return c.print(errorStyle.Sprint(err.Error()), false)
		}

		if perr := c.print(errorStyle.Sprint(method), false); perr != nil {
			return perr
		}
		if _, perr := c.printLogs(); perr != nil {
			return perr
		}

		// Transaction execution failures already rendered their own detail.
		var txFailed *provider.TransactionFailedError
		if !errors.As(err, &txFailed) {
			if perr := c.printEmptyLine(); perr != nil {
				return perr
			}
			message := err.Error()
			if perr := c.indented(func() error { return c.print(message, false) }); perr != nil {
				return perr
			}
			if errors.Is(err, provider.ErrInvalidChainID) {
				perr := c.indented(func() error {
					return c.print(hintStyle.Sprint(metamaskChainIDHint), false)
				})
				if perr != nil {
					return perr
				}
			}
		}
		return c.printEmptyLine()
	}

	if perr := c.printMethod(method); perr != nil {
		return perr
	}
	printed, perr := c.printLogs()
	if perr != nil {
		return perr
	}
	if printed {
		return c.printEmptyLine()
	}
	return nil
}

// logLine is one buffered narrative line; titled lines render with a padded
// title column.
type logLine struct {
	titled bool
	title  string
	text   string
}

type collector struct {
	decodeConsoleLogs *hostcall.Bridge[[][]byte, []string]
	contractMeta      *hostcall.Bridge[contractMetaQuery, ContractAndFunctionName]
	printLine         *hostcall.Bridge[printLineCall, struct{}]

	indentation int
	enabled     bool
	logs        []logLine
	state       loggingState
	titleLength int
}

// indented runs fn with the indentation level raised by one step, restoring
// it on every exit path.
func (c *collector) indented(fn func() error) error {
	c.indentation += 2
	defer func() { c.indentation -= 2 }()
	return fn()
}

// indentedDo is indented for render steps that cannot fail.
func (c *collector) indentedDo(fn func()) {
	c.indentation += 2
	defer func() { c.indentation -= 2 }()
	fn()
}

// format prefixes every line of message with the current indentation.
func (c *collector) format(message string) string {
	if message == "" {
		return message
	}
	indent := strings.Repeat(" ", c.indentation)
	lines := strings.Split(message, "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}

func (c *collector) log(message string) {
	c.logs = append(c.logs, logLine{text: c.format(message)})
}

func (c *collector) logEmptyLine() {
	c.log("")
}

func (c *collector) logWithTitle(title, message string) {
	title = strings.Repeat(" ", c.indentation) + title
	if len(title) > c.titleLength {
		c.titleLength = len(title)
	}
	c.logs = append(c.logs, logLine{titled: true, title: title, text: message})
}

// replaceLastLogLine swaps the most recent buffered line for message.
func (c *collector) replaceLastLogLine(message string) {
	if len(c.logs) == 0 {
		panic("reporter: no log line to replace")
	}
	c.logs[len(c.logs)-1] = logLine{text: c.format(message)}
}

// print sends one line to the host. Disabled loggers drop narrative output
// here. A host-side print failure aborts only this render.
func (c *collector) print(message string, replace bool) error {
	if !c.enabled {
		return nil
	}
	if _, err := c.printLine.Invoke(printLineCall{Message: c.format(message), Replace: replace}); err != nil {
		return provider.ErrPrintLine
	}
	return nil
}

func (c *collector) printEmptyLine() error {
	return c.print("", false)
}

// printLogs flushes the buffered lines through the print bridge, aligning
// titled lines on a shared title column. Reports whether anything was
// flushed.
func (c *collector) printLogs() (bool, error) {
	logs := c.logs
	c.logs = nil
	if len(logs) == 0 {
		return false, nil
	}

	titleLength := c.titleLength
	c.titleLength = 0

	for _, line := range logs {
		text := line.text
		if line.titled {
			text = fmt.Sprintf("%-*s %s", titleLength+1, line.title+":", line.text)
		}
		if err := c.print(text, false); err != nil {
			return false, err
		}
	}
	return true, nil
}

// printMethod prints a method heading, collapsing immediate repeats of the
// same method into a single "method (count)" line.
func (c *collector) printMethod(method string) error {
	if cm := c.collapsedMethod(method); cm != nil {
		cm.count++
		return c.print(methodStyle.Sprintf("%s (%d)", method, cm.count), true)
	}

	c.state = &collapsingMethod{method: method, count: 1}
	return c.print(methodStyle.Sprint(method), false)
}

// contractAndFunctionName resolves contract metadata through the host. A
// failing host callback violates the bridge contract.
func (c *collector) contractAndFunctionName(code, calldata []byte) ContractAndFunctionName {
	name, err := c.contractMeta.Invoke(contractMetaQuery{Code: code, Calldata: calldata})
	if err != nil {
		panic(fmt.Sprintf("reporter: get_contract_and_function_name failed: %v", err))
	}
	return name
}

// logConsoleLogMessages decodes console.log payloads through the host. With
// an enabled logger the decoded lines join the buffered narrative; with a
// disabled one they are printed immediately, since there is no narrative to
// interleave with.
func (c *collector) logConsoleLogMessages(inputs [][]byte) error {
	decoded, err := c.decodeConsoleLogs.Invoke(inputs)
	if err != nil {
		panic(fmt.Sprintf("reporter: decode_console_log_inputs failed: %v", err))
	}

	if c.enabled {
		if len(decoded) == 0 {
			return nil
		}
		c.logEmptyLine()
		c.log("console.log:")
		return c.indented(func() error {
			for _, line := range decoded {
				c.log(line)
			}
			return nil
		})
	}

	for _, line := range decoded {
		if _, err := c.printLine.Invoke(printLineCall{Message: line}); err != nil {
			return provider.ErrPrintLine
		}
	}
	return nil
}

// logContractAndFunctionName identifies the first frame of a trace: a
// precompile call, a call to a plain account, a contract call or a contract
// deployment.
func (c *collector) logContractAndFunctionName(spec engine.SpecID, trace *engine.Trace, warnNonContract bool) {
	before := trace.FirstBefore()
	if before == nil {
		return
	}

	if before.To != nil {
		to := *before.To
		if engine.IsPrecompile(spec, to) {
			number := binary.BigEndian.Uint16(to[18:20])
			c.logWithTitle("Precompile call", fmt.Sprintf("<PrecompileContract %d>", number))
			return
		}
		if len(before.Code) == 0 {
			if warnNonContract {
				c.log("WARNING: Calling an account which is not a contract")
			}
			return
		}

		meta := c.contractAndFunctionName(before.Code, before.Data)
		name := meta.ContractName
		if meta.FunctionName != "" {
			name = meta.ContractName + "#" + meta.FunctionName
		}
		c.logWithTitle("Contract call", name)
		return
	}

	result := trace.LastResult()
	meta := c.contractAndFunctionName(before.Data, nil)
	c.logWithTitle("Contract deployment", meta.ContractName)

	if result != nil && result.Succeeded() && result.CreatedAddress != nil {
		c.logWithTitle("Contract address", hexutil.Encode(result.CreatedAddress.Bytes()))
	}
}

func (c *collector) logTransactionFailure(failure *engine.TransactionFailure) {
	errorType := "TransactionExecutionError"
	if failure.IsRevert {
		errorType = "Error"
	}
	c.logEmptyLine()
	c.log(errorType + ": " + failure.Message)
}

func emptyBlockLine(block *engine.Block) string {
	baseFee := ""
	if block.BaseFee != nil {
		baseFee = " with base fee " + block.BaseFee.Dec()
	}
	return fmt.Sprintf("Mined empty block #%d%s", block.Number, baseFee)
}

// logMinedEmptyBlock coalesces a freshly mined empty block into the current
// run, replacing the previous line with the widened range.
func (c *collector) logMinedEmptyBlock(block *engine.Block, rangeStart *uint64) {
	c.indentedDo(func() {
		if rangeStart != nil {
			c.replaceLastLogLine(fmt.Sprintf("Mined empty block range #%d to #%d", *rangeStart, block.Number))
		} else {
			c.log(emptyBlockLine(block))
		}
	})
}

func (c *collector) logBaseFee(block *engine.Block) {
	if block.BaseFee != nil {
		c.log("Base fee: " + block.BaseFee.Dec())
	}
}

func (c *collector) logEmptyLineBetweenTransactions(idx, numTransactions int) {
	if numTransactions > 1 && idx < numTransactions-1 {
		c.logEmptyLine()
	}
}

// logBlockTransaction renders one transaction of a block, optionally
// highlighting its hash.
func (c *collector) logBlockTransaction(
	spec engine.SpecID,
	tx *engine.Transaction,
	result *engine.ExecutionResult,
	trace *engine.Trace,
	consoleLogInputs [][]byte,
	highlightHash bool,
) error {
	hash := tx.Hash.Hex()
	if highlightHash {
		c.logWithTitle("Transaction", highlightStyle.Sprint(hash))
	} else {
		c.logWithTitle("Transaction", hash)
	}

	return c.indented(func() error {
		c.logContractAndFunctionName(spec, trace, false)
		c.logWithTitle("From", hexutil.Encode(tx.From.Bytes()))
		if tx.To != nil {
			c.logWithTitle("To", hexutil.Encode(tx.To.Bytes()))
		}
		c.logWithTitle("Value", WeiToHumanReadable(tx.Value))
		c.logWithTitle("Gas used", fmt.Sprintf("%d of %d", result.GasUsed, tx.GasLimit))

		if err := c.logConsoleLogMessages(consoleLogInputs); err != nil {
			return err
		}

		txHash := tx.Hash
		if failure := engine.FailureFromResult(result, &txHash, trace); failure != nil {
			c.logTransactionFailure(failure)
		}
		return nil
	})
}

// logMinedBlock renders one explicitly mined block in full.
func (c *collector) logMinedBlock(spec engine.SpecID, result *engine.DebugMineBlockResult) error {
	block := result.Block
	return c.indented(func() error {
		if len(block.Transactions) == 0 {
			c.log(emptyBlockLine(block))
			return nil
		}

		c.log(fmt.Sprintf("Mined block #%d", block.Number))
		return c.indented(func() error {
			c.log("Block: " + block.Hash.Hex())
			return c.indented(func() error {
				c.logBaseFee(block)
				return c.logBlockTransactions(spec, result, common.Hash{}, false)
			})
		})
	})
}

// logIntervalMinedBlock renders the transactions of an interval-mined block
// into the buffer; the "Mined block" heading is printed by the caller.
func (c *collector) logIntervalMinedBlock(spec engine.SpecID, result *engine.DebugMineBlockResult) error {
	block := result.Block
	return c.indented(func() error {
		c.log("Block: " + block.Hash.Hex())
		return c.indented(func() error {
			c.logBaseFee(block)
			return c.logBlockTransactions(spec, result, common.Hash{}, false)
		})
	})
}

// logBlockTransactions renders every transaction of a mined block,
// highlighting the one matching highlight when requested.
func (c *collector) logBlockTransactions(spec engine.SpecID, result *engine.DebugMineBlockResult, highlight common.Hash, doHighlight bool) error {
	transactions := result.Block.Transactions
	numTransactions := len(transactions)
	if numTransactions != len(result.TransactionResults) || numTransactions != len(result.TransactionTraces) {
		panic("reporter: mining result slices out of sync")
	}

	for idx, tx := range transactions {
		shouldHighlight := doHighlight && tx.Hash == highlight
		err := c.logBlockTransaction(spec, tx, result.TransactionResults[idx], result.TransactionTraces[idx], result.ConsoleLogInputs, shouldHighlight)
		if err != nil {
			return err
		}
		c.logEmptyLineBetweenTransactions(idx, numTransactions)
	}
	return nil
}

// logAutoMinedBlockResults renders every block mined on behalf of a sent
// transaction, highlighting the sent hash wherever it appears.
func (c *collector) logAutoMinedBlockResults(spec engine.SpecID, results []*engine.DebugMineBlockResult, sentHash common.Hash) error {
	for _, result := range results {
		if err := c.logBlockFromAutoMine(spec, result, sentHash); err != nil {
			return err
		}
	}
	return nil
}

func (c *collector) logBlockFromAutoMine(spec engine.SpecID, result *engine.DebugMineBlockResult, sentHash common.Hash) error {
	block := result.Block
	err := c.indented(func() error {
		c.log(fmt.Sprintf("Block #%d: %s", block.Number, block.Hash.Hex()))
		return c.indented(func() error {
			c.logBaseFee(block)
			return c.logBlockTransactions(spec, result, sentHash, true)
		})
	})
	if err != nil {
		return err
	}
	c.logEmptyLine()
	return nil
}

func (c *collector) logMultipleBlocksWarning() {
	c.indentedDo(func() {
		c.log("There were other pending transactions. More than one block had to be mined:")
	})
	c.logEmptyLine()
}

func (c *collector) logMultipleTransactionsWarning() {
	c.indentedDo(func() {
		c.log("There were other pending transactions mined in the same block:")
	})
	c.logEmptyLine()
}

func (c *collector) logCurrentlySentTransaction(
	spec engine.SpecID,
	blockResult *engine.DebugMineBlockResult,
	tx *engine.Transaction,
	result *engine.ExecutionResult,
	trace *engine.Trace,
) error {
	c.indentedDo(func() {
		c.log("Currently sent transaction:")
		c.log("")
	})
	return c.logTransaction(spec, blockResult, tx, result, trace)
}

func (c *collector) logSingleTransactionMiningResult(spec engine.SpecID, result *engine.DebugMineBlockResult, tx *engine.Transaction) error {
	if len(result.TransactionTraces) == 0 || len(result.TransactionResults) == 0 {
		panic("reporter: mined transaction without result or trace")
	}
	return c.logTransaction(spec, result, tx, result.TransactionResults[0], result.TransactionTraces[0])
}

// logTransaction renders the compact detail block of a single mined
// transaction, including the block it landed in.
func (c *collector) logTransaction(
	spec engine.SpecID,
	blockResult *engine.DebugMineBlockResult,
	tx *engine.Transaction,
	result *engine.ExecutionResult,
	trace *engine.Trace,
) error {
	return c.indented(func() error {
		c.logContractAndFunctionName(spec, trace, false)

		c.logWithTitle("Transaction", tx.Hash.Hex())
		c.logWithTitle("From", hexutil.Encode(tx.From.Bytes()))
		if tx.To != nil {
			c.logWithTitle("To", hexutil.Encode(tx.To.Bytes()))
		}
		c.logWithTitle("Value", WeiToHumanReadable(tx.Value))
		c.logWithTitle("Gas used", fmt.Sprintf("%d of %d", result.GasUsed, tx.GasLimit))

		block := blockResult.Block
		c.logWithTitle(fmt.Sprintf("Block #%d", block.Number), block.Hash.Hex())

		if err := c.logConsoleLogMessages(blockResult.ConsoleLogInputs); err != nil {
			return err
		}

		txHash := tx.Hash
		if failure := engine.FailureFromResult(result, &txHash, trace); failure != nil {
			c.logTransactionFailure(failure)
		}
		return nil
	})
}
