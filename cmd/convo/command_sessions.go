package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"convo/internal/app"
	"convo/internal/config"
)

type SessionsCommand struct {
	stdout      io.Writer
	stderr      io.Writer
	loadConfig  func() (config.Config, error)
	openArchive archiveFactory
}

func NewSessionsCommand(wiring commandWiring) *SessionsCommand {
	return &SessionsCommand{
		stdout:      wiring.stdout,
		stderr:      wiring.stderr,
		loadConfig:  wiring.loadConfig,
		openArchive: wiring.openArchive,
	}
}

func (c *SessionsCommand) Run(args []string) error {
	fs := flag.NewFlagSet("sessions", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	remove := fs.Bool("delete", false, "delete the archived session instead of showing it")
	asJSON := fs.Bool("json", false, "print the archived session as JSON")
	thoughts := fs.Bool("thoughts", false, "include reasoning lines")
	width := fs.Int("width", 100, "transcript width")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	archive, err := c.openArchive(cfg)
	if err != nil {
		return err
	}
	defer archive.Close()

	ctx := context.Background()
	if fs.NArg() == 0 {
		if *remove {
			return errors.New("delete requires a session id")
		}
		entries, err := archive.List(ctx)
		if err != nil {
			return err
		}
		printArchiveEntries(c.stdout, entries)
		return nil
	}

	id := fs.Arg(0)
	if *remove {
		if err := archive.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "deleted %s\n", id)
		return nil
	}

	session, err := archive.Get(ctx, id)
	if err != nil {
		return err
	}
	if *asJSON {
		encoder := json.NewEncoder(c.stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(session)
	}
	printTranscript(c.stdout, session, app.TranscriptOptions{
		Width:        *width,
		ShowThoughts: *thoughts,
	})
	return nil
}
