package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"convo/internal/app"
	"convo/internal/client"
	"convo/internal/config"
	"convo/internal/logging"
	"convo/internal/reduce"
	"convo/internal/store"
)

type ReplayCommand struct {
	stdout      io.Writer
	stderr      io.Writer
	loadConfig  func() (config.Config, error)
	newLogger   func(cfg config.Config) logging.Logger
	openArchive archiveFactory
}

func NewReplayCommand(wiring commandWiring) *ReplayCommand {
	return &ReplayCommand{
		stdout:      wiring.stdout,
		stderr:      wiring.stderr,
		loadConfig:  wiring.loadConfig,
		newLogger:   wiring.newLogger,
		openArchive: wiring.openArchive,
	}
}

func (c *ReplayCommand) Run(args []string) error {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	archive := fs.Bool("archive", false, "store the finished session in the archive")
	thoughts := fs.Bool("thoughts", false, "include reasoning lines")
	width := fs.Int("width", 100, "transcript width")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("replay requires a recording file (or - for stdin)")
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	logger := c.newLogger(cfg)

	input, closeInput, err := openRecording(fs.Arg(0))
	if err != nil {
		return err
	}
	defer closeInput()

	reducer := reduce.New(store.NewSessionStore(), logger)
	if err := client.ForEachEvent(input, reducer.Process); err != nil {
		return fmt.Errorf("read recording: %w", err)
	}

	session := reducer.Store().Snapshot()
	printTranscript(c.stdout, session, app.TranscriptOptions{
		Width:        *width,
		ShowThoughts: *thoughts,
	})

	if !*archive {
		return nil
	}
	if session.ID == "" {
		return errors.New("recording produced no session to archive")
	}
	archiveStore, err := c.openArchive(cfg)
	if err != nil {
		return err
	}
	defer archiveStore.Close()
	if err := archiveStore.Put(context.Background(), session); err != nil {
		return fmt.Errorf("archive session %s: %w", session.ID, err)
	}
	fmt.Fprintf(c.stdout, "archived %s\n", session.ID)
	return nil
}

func openRecording(path string) (io.Reader, func() error, error) {
	if path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return file, file.Close, nil
}
