package client

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"convo/internal/types"
)

// ForEachEvent reads a JSONL event recording and invokes fn with each
// decoded event in order. Blank and undecodable lines are skipped; a
// recording with a few bad lines still replays.
func ForEachEvent(r io.Reader, fn func(types.Event)) error {
	if r == nil || fn == nil {
		return nil
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var frame WireEvent
		if err := json.Unmarshal([]byte(line), &frame); err != nil {
			continue
		}
		event := Decode(frame)
		if event == nil {
			continue
		}
		fn(event)
	}
	return scanner.Err()
}

// ReadEvents collects every event in a JSONL recording.
func ReadEvents(r io.Reader) ([]types.Event, error) {
	var out []types.Event
	err := ForEachEvent(r, func(event types.Event) {
		out = append(out, event)
	})
	return out, err
}
