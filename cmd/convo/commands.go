package main

import (
	"io"
	"os"

	"convo/internal/client"
	"convo/internal/config"
	"convo/internal/logging"
	"convo/internal/store"
)

type commandRunner interface {
	Run(args []string) error
}

type clientFactory func(cfg config.Config, logger logging.Logger) *client.Client

type archiveFactory func(cfg config.Config) (*store.ArchiveStore, error)

type commandWiring struct {
	stdout      io.Writer
	stderr      io.Writer
	loadConfig  func() (config.Config, error)
	newLogger   func(cfg config.Config) logging.Logger
	newClient   clientFactory
	openArchive archiveFactory
}

func defaultCommandWiring(stdout, stderr io.Writer) commandWiring {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return commandWiring{
		stdout:     stdout,
		stderr:     stderr,
		loadConfig: config.Load,
		newLogger: func(cfg config.Config) logging.Logger {
			return logging.New(stderr, logging.ParseLevel(cfg.LogLevel()))
		},
		newClient: func(cfg config.Config, logger logging.Logger) *client.Client {
			return client.New(cfg.ServerBaseURL(), cfg.Server.Token, logger)
		},
		openArchive: func(cfg config.Config) (*store.ArchiveStore, error) {
			path, err := cfg.ResolveArchivePath()
			if err != nil {
				return nil, err
			}
			return store.NewArchiveStore(path)
		},
	}
}

func buildCommands(wiring commandWiring) map[string]commandRunner {
	return map[string]commandRunner{
		"tail":     NewTailCommand(wiring),
		"replay":   NewReplayCommand(wiring),
		"sessions": NewSessionsCommand(wiring),
		"config":   NewConfigCommand(wiring),
		"ui":       NewUICommand(wiring),
	}
}
