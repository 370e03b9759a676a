package app

import (
	"errors"
	"strings"
	"testing"
)

func TestCopyPrefersSystemClipboard(t *testing.T) {
	origSystem, origOSC := clipboardWriteAll, clipboardWriteOSC52
	t.Cleanup(func() {
		clipboardWriteAll, clipboardWriteOSC52 = origSystem, origOSC
	})

	var got string
	oscCalled := false
	clipboardWriteAll = func(text string) error {
		got = text
		return nil
	}
	clipboardWriteOSC52 = func(string) error {
		oscCalled = true
		return nil
	}

	if err := copyTextToClipboard("payload"); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if got != "payload" {
		t.Fatalf("expected system clipboard write, got %q", got)
	}
	if oscCalled {
		t.Fatalf("expected no OSC52 fallback when system copy succeeds")
	}
}

func TestCopyFallsBackToOSC52(t *testing.T) {
	origSystem, origOSC := clipboardWriteAll, clipboardWriteOSC52
	t.Cleanup(func() {
		clipboardWriteAll, clipboardWriteOSC52 = origSystem, origOSC
	})

	clipboardWriteAll = func(string) error {
		return errors.New("no display")
	}
	var got string
	clipboardWriteOSC52 = func(text string) error {
		got = text
		return nil
	}

	if err := copyTextToClipboard("payload"); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if got != "payload" {
		t.Fatalf("expected OSC52 fallback write, got %q", got)
	}
}

func TestCopyReportsBothFailures(t *testing.T) {
	origSystem, origOSC := clipboardWriteAll, clipboardWriteOSC52
	t.Cleanup(func() {
		clipboardWriteAll, clipboardWriteOSC52 = origSystem, origOSC
	})

	clipboardWriteAll = func(string) error { return errors.New("no display") }
	clipboardWriteOSC52 = func(string) error { return errors.New("no tty") }

	err := copyTextToClipboard("payload")
	if err == nil {
		t.Fatalf("expected error when both methods fail")
	}
	if !strings.Contains(err.Error(), "no display") || !strings.Contains(err.Error(), "no tty") {
		t.Fatalf("expected both causes reported, got %v", err)
	}
}
