package types

import "encoding/json"

// EventScope carries the correlation ids every wire event arrives with.
// UserSessionID is the root conversation the viewer is attached to; when it
// differs from SessionID the event belongs to a nested sub-conversation.
type EventScope struct {
	SessionID       string `json:"session_id,omitempty"`
	ParentSessionID string `json:"parent_session_id,omitempty"`
	UserSessionID   string `json:"user_session_id,omitempty"`
}

func (s EventScope) Scope() EventScope {
	return s
}

func (s EventScope) IsSubConversation() bool {
	return s.SessionID != "" && s.UserSessionID != "" && s.SessionID != s.UserSessionID
}

// Event is the closed union of decoded wire events. The wire decoder owns
// mapping raw payloads into variants; kinds it recognizes but must drop, and
// kinds it does not recognize at all, both decode to Ignored so the reducer's
// switch stays exhaustive.
type Event interface {
	Scope() EventScope
	event()
}

// SnapshotMessage is one message as it appears inside a session snapshot,
// with vendor-shaped content that still needs normalizing.
type SnapshotMessage struct {
	ID      string `json:"id,omitempty"`
	Role    string `json:"role,omitempty"`
	Content any    `json:"content,omitempty"`
}

// SessionSnapshot replaces the session wholesale.
type SessionSnapshot struct {
	EventScope
	Vendor   string            `json:"vendor,omitempty"`
	Title    string            `json:"title,omitempty"`
	Messages []SnapshotMessage `json:"messages,omitempty"`
}

// UserMessage is a complete user message arriving out of band, for example
// from voice transcription.
type UserMessage struct {
	EventScope
	MessageID string `json:"message_id,omitempty"`
	Content   any    `json:"content,omitempty"`
}

type TextDelta struct {
	EventScope
	Delta string `json:"delta,omitempty"`
}

type ThoughtDelta struct {
	EventScope
	Delta string `json:"delta,omitempty"`
}

type TurnStarted struct {
	EventScope
	TurnID string `json:"turn_id,omitempty"`
}

type TurnEnded struct {
	EventScope
	TurnID string     `json:"turn_id,omitempty"`
	Usage  *TurnUsage `json:"usage,omitempty"`
}

type ToolSelected struct {
	EventScope
	ToolID string          `json:"tool_id,omitempty"`
	Name   string          `json:"name,omitempty"`
	Input  json.RawMessage `json:"input,omitempty"`
}

type ToolActive struct {
	EventScope
	ToolID  string          `json:"tool_id,omitempty"`
	Active  bool            `json:"active"`
	Results json.RawMessage `json:"results,omitempty"`
	IsError bool            `json:"is_error,omitempty"`
}

type MediaRendered struct {
	EventScope
	MessageID   string           `json:"message_id,omitempty"`
	Content     string           `json:"content,omitempty"`
	ContentType MediaContentType `json:"content_type,omitempty"`
}

// Ignored stands in for every wire kind the reducer must recognize and drop
// without touching any state, and for unknown kinds (forward compatibility).
type Ignored struct {
	EventScope
	Kind string `json:"kind,omitempty"`
}

func (SessionSnapshot) event() {}
func (UserMessage) event()     {}
func (TextDelta) event()       {}
func (ThoughtDelta) event()    {}
func (TurnStarted) event()     {}
func (TurnEnded) event()       {}
func (ToolSelected) event()    {}
func (ToolActive) event()      {}
func (MediaRendered) event()   {}
func (Ignored) event()         {}
