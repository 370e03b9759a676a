package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"convo/internal/logging"
	"convo/internal/types"
)

// Client subscribes to the server's event push stream. It owns decoding wire
// frames into the event union; the reduction core never sees raw payloads.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  logging.Logger
}

func New(baseURL, token string, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		http:    &http.Client{},
		logger:  logger,
	}
}

// EventStream opens the SSE feed for a session and emits decoded events in
// arrival order. The returned func cancels the stream; the channel closes
// when the server ends the feed or the context is done.
func (c *Client) EventStream(ctx context.Context, sessionID string) (<-chan types.Event, func(), error) {
	if c == nil {
		return nil, nil, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, nil, fmt.Errorf("session id is required")
	}

	ctx, cancel := context.WithCancel(ctx)
	url := fmt.Sprintf("%s/v1/sessions/%s/events?follow=1", c.baseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		cancel()
		return nil, nil, fmt.Errorf("event stream: unexpected status %d", resp.StatusCode)
	}

	ch := make(chan types.Event, 256)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		start := time.Now()
		count := 0
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		var dataLines []string

		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				if len(dataLines) == 0 {
					continue
				}
				payload := strings.Join(dataLines, "\n")
				dataLines = dataLines[:0]
				var frame WireEvent
				if err := json.Unmarshal([]byte(payload), &frame); err != nil {
					c.logger.Debug("skipped undecodable frame", logging.F("session_id", sessionID))
					continue
				}
				event := Decode(frame)
				if event == nil {
					continue
				}
				select {
				case ch <- event:
					count++
				case <-ctx.Done():
					return
				}
				continue
			}
			if strings.HasPrefix(line, "data:") {
				dataLines = append(dataLines, strings.TrimSpace(line[len("data:"):]))
			}
		}
		if err := scanner.Err(); err != nil {
			c.logger.Warn("event stream scan error", logging.F("session_id", sessionID), logging.F("err", err))
		}
		c.logger.Debug("event stream closed",
			logging.F("session_id", sessionID),
			logging.F("count", count),
			logging.F("dur", time.Since(start)),
		)
	}()

	return ch, cancel, nil
}
