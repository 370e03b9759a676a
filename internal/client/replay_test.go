package client

import (
	"strings"
	"testing"

	"convo/internal/types"
)

func TestReadEventsSkipsBadLines(t *testing.T) {
	recording := strings.Join([]string{
		`{"method":"turn/started","params":{"session_id":"s1"}}`,
		``,
		`not json at all`,
		`{"method":"item/agentMessage/delta","params":{"session_id":"s1","delta":"hi"}}`,
		`{"method":"turn/completed","params":{"session_id":"s1"}}`,
	}, "\n")

	events, err := ReadEvents(strings.NewReader(recording))
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if _, ok := events[0].(types.TurnStarted); !ok {
		t.Fatalf("expected TurnStarted first, got %T", events[0])
	}
	if delta, ok := events[1].(types.TextDelta); !ok || delta.Delta != "hi" {
		t.Fatalf("unexpected second event %+v", events[1])
	}
	if _, ok := events[2].(types.TurnEnded); !ok {
		t.Fatalf("expected TurnEnded last, got %T", events[2])
	}
}

func TestReadEventsEmptyInput(t *testing.T) {
	events, err := ReadEvents(strings.NewReader(""))
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}
