package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"convo/internal/config"
	"convo/internal/logging"
	"convo/internal/store"
)

func testWiring(stdout, stderr *bytes.Buffer, archivePath string) commandWiring {
	wiring := defaultCommandWiring(stdout, stderr)
	wiring.loadConfig = func() (config.Config, error) {
		return config.DefaultConfig(), nil
	}
	wiring.newLogger = func(config.Config) logging.Logger {
		return logging.Nop()
	}
	if archivePath != "" {
		wiring.openArchive = func(config.Config) (*store.ArchiveStore, error) {
			return store.NewArchiveStore(archivePath)
		}
	}
	return wiring
}

func TestBuildCommandsExposesAllCommands(t *testing.T) {
	commands := buildCommands(defaultCommandWiring(nil, nil))
	for _, name := range []string{"tail", "replay", "sessions", "config", "ui"} {
		if _, ok := commands[name]; !ok {
			t.Fatalf("missing command %q", name)
		}
	}
}

func TestReplayPrintsTranscriptAndArchives(t *testing.T) {
	recording := strings.Join([]string{
		`{"method":"session/snapshot","params":{"user_session_id":"s1","session":{"id":"s1","vendor":"anthropic","title":"demo","messages":[]}}}`,
		`{"method":"turn/started","params":{"session_id":"s1","user_session_id":"s1"}}`,
		`{"method":"item/agentMessage/delta","params":{"session_id":"s1","user_session_id":"s1","delta":"hello there"}}`,
		`{"method":"turn/completed","params":{"session_id":"s1","user_session_id":"s1"}}`,
	}, "\n")
	dir := t.TempDir()
	recordingPath := filepath.Join(dir, "rec.jsonl")
	if err := os.WriteFile(recordingPath, []byte(recording), 0o600); err != nil {
		t.Fatalf("write recording: %v", err)
	}

	var stdout, stderr bytes.Buffer
	wiring := testWiring(&stdout, &stderr, filepath.Join(dir, "archive.db"))
	if err := NewReplayCommand(wiring).Run([]string{"--archive", recordingPath}); err != nil {
		t.Fatalf("replay: %v", err)
	}
	out := stdout.String()
	if !strings.Contains(out, "hello there") {
		t.Fatalf("expected transcript in output:\n%s", out)
	}
	if !strings.Contains(out, "archived s1") {
		t.Fatalf("expected archive confirmation:\n%s", out)
	}

	stdout.Reset()
	if err := NewSessionsCommand(wiring).Run(nil); err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if !strings.Contains(stdout.String(), "s1") {
		t.Fatalf("expected archived session listed:\n%s", stdout.String())
	}

	stdout.Reset()
	if err := NewSessionsCommand(wiring).Run([]string{"s1"}); err != nil {
		t.Fatalf("sessions show: %v", err)
	}
	if !strings.Contains(stdout.String(), "hello there") {
		t.Fatalf("expected archived transcript:\n%s", stdout.String())
	}
}

func TestReplayRequiresRecordingArgument(t *testing.T) {
	var stdout, stderr bytes.Buffer
	wiring := testWiring(&stdout, &stderr, "")
	if err := NewReplayCommand(wiring).Run(nil); err == nil {
		t.Fatalf("expected error without a recording argument")
	}
}

func TestConfigCommandPrintsDefaults(t *testing.T) {
	var stdout, stderr bytes.Buffer
	wiring := testWiring(&stdout, &stderr, "")
	if err := NewConfigCommand(wiring).Run([]string{"--default", "--format", "toml"}); err != nil {
		t.Fatalf("config: %v", err)
	}
	out := stdout.String()
	if !strings.Contains(out, "show_thoughts") {
		t.Fatalf("expected ui settings in output:\n%s", out)
	}
	if !strings.Contains(out, "127.0.0.1:7707") {
		t.Fatalf("expected default address in output:\n%s", out)
	}
}

func TestConfigCommandRejectsUnknownFormat(t *testing.T) {
	var stdout, stderr bytes.Buffer
	wiring := testWiring(&stdout, &stderr, "")
	if err := NewConfigCommand(wiring).Run([]string{"--format", "yaml"}); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
