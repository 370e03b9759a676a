package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"convo/internal/app"
	"convo/internal/client"
	"convo/internal/config"
	"convo/internal/logging"
	"convo/internal/reduce"
	"convo/internal/store"
)

type UICommand struct {
	stdout     io.Writer
	stderr     io.Writer
	loadConfig func() (config.Config, error)
	newClient  clientFactory
}

func NewUICommand(wiring commandWiring) *UICommand {
	return &UICommand{
		stdout:     wiring.stdout,
		stderr:     wiring.stderr,
		loadConfig: wiring.loadConfig,
		newClient:  wiring.newClient,
	}
}

func (c *UICommand) Run(args []string) error {
	fs := flag.NewFlagSet("ui", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	replayPath := fs.String("replay", "", "view a JSONL recording instead of a live stream")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *replayPath == "" && fs.NArg() < 1 {
		return errors.New("ui requires a session id or --replay")
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	// The alternate screen owns the terminal; diagnostics stay quiet.
	logger := logging.Nop()

	sessions := store.NewSessionStore()
	reducer := reduce.New(sessions, logger)
	opts := app.Options{
		ShowThoughts: cfg.UI.ShowThoughts,
		WrapWidth:    cfg.WrapWidth(),
	}

	if *replayPath != "" {
		input, closeInput, err := openRecording(*replayPath)
		if err != nil {
			return err
		}
		if err := client.ForEachEvent(input, reducer.Process); err != nil {
			_ = closeInput()
			return fmt.Errorf("read recording: %w", err)
		}
		_ = closeInput()
		return app.Run(sessions, opts)
	}

	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()

	cli := c.newClient(cfg, logger)
	events, cancel, err := cli.EventStream(ctx, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("attach to %s: %w", fs.Arg(0), err)
	}
	defer cancel()

	go func() {
		for event := range events {
			reducer.Process(event)
		}
	}()

	return app.Run(sessions, opts)
}
