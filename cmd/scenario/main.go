//
// Created on 2023/3/18 by khanghh
// Project: github.com/verichains/devnode
// Copyright (c) 2023 Verichains Lab
//

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ethereum/go-ethereum/log"
	"github.com/olekukonko/tablewriter"
	"github.com/verichains/devnode/hostcall"
	"github.com/verichains/devnode/provider"
	"github.com/verichains/devnode/reporter"
	"gopkg.in/urfave/cli.v1"
)

var (
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""

	app *cli.App
)

func init() {
	app = cli.NewApp()
	app.Name = filepath.Base(os.Args[0])
	app.Usage = "Inspect and replay devnode scenario recordings"
	app.Version = fmt.Sprintf("%s - %s", gitCommit, gitDate)
	app.Commands = []cli.Command{
		{
			Name:      "inspect",
			Usage:     "Summarize the requests of a scenario file",
			ArgsUsage: "<scenario.jsonl>",
			Action:    inspectScenario,
		},
		{
			Name:      "replay",
			Usage:     "Replay a scenario's method stream through the activity logger",
			ArgsUsage: "<scenario.jsonl>",
			Action:    replayScenario,
		},
	}
	app.Before = func(ctx *cli.Context) error {
		glogger := log.NewGlogHandler(log.StreamHandler(os.Stderr, log.TerminalFormat(true)))
		glogger.Verbosity(log.LvlInfo)
		log.Root().SetHandler(glogger)
		return nil
	}
}

// loadScenario parses a recording: line one is the provider config, every
// following line is one request.
func loadScenario(path string) (*provider.Config, []provider.Request, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	if !scanner.Scan() {
		return nil, nil, fmt.Errorf("scenario file %s is empty", path)
	}
	var config provider.Config
	if err := json.Unmarshal(scanner.Bytes(), &config); err != nil {
		return nil, nil, fmt.Errorf("invalid scenario config line: %v", err)
	}

	var requests []provider.Request
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var req provider.Request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			return nil, nil, fmt.Errorf("invalid scenario request line %d: %v", len(requests)+2, err)
		}
		requests = append(requests, req)
	}
	return &config, requests, scanner.Err()
}

func inspectScenario(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("expecting exactly one scenario file", 1)
	}
	config, requests, err := loadScenario(ctx.Args().First())
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	fmt.Printf("Chain id:        %d\n", config.ChainID)
	fmt.Printf("Block gas limit: %d\n", config.BlockGasLimit)
	fmt.Printf("Requests:        %d\n\n", len(requests))

	counts := make(map[string]int)
	for _, req := range requests {
		counts[req.Method]++
	}
	methods := make([]string, 0, len(counts))
	for method := range counts {
		methods = append(methods, method)
	}
	sort.Strings(methods)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Method", "Calls"})
	for _, method := range methods {
		table.Append([]string{method, fmt.Sprintf("%d", counts[method])})
	}
	table.Render()
	return nil
}

func replayScenario(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("expecting exactly one scenario file", 1)
	}
	_, requests, err := loadScenario(ctx.Args().First())
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	host := hostcall.NewHost()
	defer host.Close()

	logger := reporter.New(host, reporter.Config{
		Enabled: true,
		DecodeConsoleLogInputs: func(inputs [][]byte) ([]string, error) {
			decoded := make([]string, len(inputs))
			for i, input := range inputs {
				decoded[i] = string(input)
			}
			return decoded, nil
		},
		GetContractAndFunctionName: func(code, calldata []byte) (reporter.ContractAndFunctionName, error) {
			return reporter.ContractAndFunctionName{ContractName: "<unknown>"}, nil
		},
		PrintLine: printToStdout,
	})

	for _, req := range requests {
		if err := logger.PrintMethodLogs(req.Method, nil); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
	}
	return nil
}

// printToStdout renders one narrative line; replace rewrites the previous
// terminal line the way the live node does.
func printToStdout(message string, replace bool) error {
	if replace {
		if _, err := fmt.Print("\x1b[1A\x1b[2K"); err != nil {
			return err
		}
	}
	_, err := fmt.Println(message)
	return err
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
