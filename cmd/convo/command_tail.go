package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"convo/internal/app"
	"convo/internal/config"
	"convo/internal/logging"
	"convo/internal/reduce"
	"convo/internal/store"
	"convo/internal/types"
)

type TailCommand struct {
	stdout     io.Writer
	stderr     io.Writer
	loadConfig func() (config.Config, error)
	newLogger  func(cfg config.Config) logging.Logger
	newClient  clientFactory
}

func NewTailCommand(wiring commandWiring) *TailCommand {
	return &TailCommand{
		stdout:     wiring.stdout,
		stderr:     wiring.stderr,
		loadConfig: wiring.loadConfig,
		newLogger:  wiring.newLogger,
		newClient:  wiring.newClient,
	}
}

func (c *TailCommand) Run(args []string) error {
	fs := flag.NewFlagSet("tail", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	thoughts := fs.Bool("thoughts", false, "include reasoning lines")
	width := fs.Int("width", 100, "transcript width")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("tail requires a session id")
	}
	id := fs.Arg(0)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	logger := c.newLogger(cfg)
	cli := c.newClient(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	events, cancel, err := cli.EventStream(ctx, id)
	if err != nil {
		return fmt.Errorf("attach to %s: %w", id, err)
	}
	defer cancel()

	reducer := reduce.New(store.NewSessionStore(), logger)
	opts := app.TranscriptOptions{Width: *width, ShowThoughts: *thoughts}
	printed := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			reducer.Process(event)
			printed = c.printNewLines(reducer.Store().Snapshot(), printed, opts)
		}
	}
}

// printNewLines prints only transcript lines that finished since the last
// event. Streaming drafts are excluded: a draft's lines rewrite in place,
// and a line printer cannot take lines back.
func (c *TailCommand) printNewLines(session *types.Session, printed int, opts app.TranscriptOptions) int {
	settled := *session
	settled.Streaming = nil
	settled.ActiveTools = nil
	lines := app.RenderTranscript(&settled, opts)
	for ; printed < len(lines); printed++ {
		fmt.Fprintln(c.stdout, lines[printed])
	}
	return printed
}
