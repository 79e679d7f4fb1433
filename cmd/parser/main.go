package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	_ "github.com/azure-architect/archdiagram/internal/handler" // register scope handlers
	"github.com/azure-architect/archdiagram/internal/logger"
	"github.com/azure-architect/archdiagram/internal/parser"
)

func main() {
	input := flag.String("input", "-", "Path to chat text or analysis payload (- for stdin)")
	mode := flag.String("mode", "auto", "Input mode: text, payload or auto")
	output := flag.String("o", "", "Write the diagram JSON to this file instead of stdout")
	logLevel := flag.String("log-level", "warn", "Log level: debug, info, warn or error (LOG_LEVEL overrides)")
	governance := flag.Bool("governance", true, "Include governance scopes and preflight warnings")
	flag.Parse()

	m, err := parser.ParseMode(*mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.PrintDefaults()
		os.Exit(2)
	}

	var data []byte
	if *input == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(*input)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "read input: %v\n", err)
		os.Exit(1)
	}

	opts := parser.DefaultOptions()
	opts.Logger = logger.FromEnv(*logLevel)
	opts.Governance = *governance
	p := parser.New(nil, opts)
	res, err := p.Parse(string(data), m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse: %v\n", err)
		os.Exit(1)
	}

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "create %s: %v\n", *output, err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		fmt.Fprintf(os.Stderr, "write result: %v\n", err)
		os.Exit(1)
	}

	for _, w := range res.Warnings {
		opts.Logger.Info("warning", "type", w.Type, "nodeId", w.NodeID, "message", w.Message)
	}
	if !res.Success {
		for _, e := range res.Errors {
			fmt.Fprintf(os.Stderr, "ERROR [%s] %s\n", e.NodeID, e.Message)
			if e.Suggestion != "" {
				fmt.Fprintf(os.Stderr, "  suggestion: %s\n", e.Suggestion)
			}
		}
		if *output != "" {
			// flush the file before exiting
			out.Close()
		}
		os.Exit(1)
	}
}
