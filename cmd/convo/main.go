package main

import (
	"fmt"
	"os"
)

const usageText = `convo reduces conversation event streams into renderable sessions.

Usage:
  convo <command> [flags]

Commands:
  tail      follow a live event stream and print transcript lines
  replay    reduce a JSONL event recording and print the transcript
  sessions  list, show, or delete archived sessions
  config    print configuration (effective or defaults)
  ui        run the terminal viewer
  help      show help

Flags:
  -h, --help   show help

Examples:
  convo tail 0199a2b7
  convo replay recording.jsonl --archive
  convo sessions
  convo sessions 0199a2b7
  convo config --default --format toml
  convo ui 0199a2b7
  convo ui --replay recording.jsonl
`

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return
	}

	wiring := defaultCommandWiring(os.Stdout, os.Stderr)
	commands := buildCommands(wiring)

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return
	}

	runner, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
	exitOnErr(args[0], runner.Run(args[1:]), wiring.stderr)
}
