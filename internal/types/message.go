package types

import (
	"encoding/json"
	"time"
)

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

type MessageKind string

const (
	MessageKindMessage MessageKind = "message"
	MessageKindThought MessageKind = "thought"
	MessageKindMedia   MessageKind = "media"
)

type MessageStatus string

const (
	MessageStatusStreaming MessageStatus = "streaming"
	MessageStatusComplete  MessageStatus = "complete"
	MessageStatusError     MessageStatus = "error"
)

type MediaContentType string

const (
	MediaContentHTML MediaContentType = "html"
	MediaContentSVG  MediaContentType = "svg"
)

// TurnUsage is stamped onto a message when its turn finalizes.
type TurnUsage struct {
	InputTokens  int    `json:"input_tokens,omitempty"`
	OutputTokens int    `json:"output_tokens,omitempty"`
	StopReason   string `json:"stop_reason,omitempty"`
	Vendor       string `json:"vendor,omitempty"`
}

type Message struct {
	ID      string         `json:"id"`
	Role    MessageRole    `json:"role"`
	Kind    MessageKind    `json:"kind"`
	Status  MessageStatus  `json:"status"`
	Content MessageContent `json:"content"`

	// ContentType is set on media-kind messages only. The raw content is
	// passed through verbatim for a downstream sanitizer.
	ContentType MediaContentType `json:"content_type,omitempty"`

	// Sub-conversation tagging is set at creation and never changes.
	SubConversation bool   `json:"sub_conversation,omitempty"`
	SessionID       string `json:"session_id,omitempty"`
	ParentSessionID string `json:"parent_session_id,omitempty"`

	// Collapsed is a presentation hint; thoughts start collapsed.
	Collapsed bool `json:"collapsed,omitempty"`

	Usage       *TurnUsage       `json:"usage,omitempty"`
	Invocations []ToolInvocation `json:"invocations,omitempty"`
	CreatedAt   time.Time        `json:"created_at,omitzero"`
}

func (m Message) Clone() Message {
	out := m
	out.Content = m.Content.Clone()
	if m.Usage != nil {
		usage := *m.Usage
		out.Usage = &usage
	}
	if m.Invocations != nil {
		out.Invocations = make([]ToolInvocation, 0, len(m.Invocations))
		for _, inv := range m.Invocations {
			out.Invocations = append(out.Invocations, inv.Clone())
		}
	}
	return out
}

type ToolStatus string

const (
	ToolStatusPreparing ToolStatus = "preparing"
	ToolStatusExecuting ToolStatus = "executing"
	ToolStatusComplete  ToolStatus = "complete"
)

type ToolInvocation struct {
	ID      string          `json:"id"`
	Name    string          `json:"name,omitempty"`
	Status  ToolStatus      `json:"status"`
	Input   json.RawMessage `json:"input,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	IsError bool            `json:"is_error,omitempty"`
}

func (t ToolInvocation) Clone() ToolInvocation {
	out := t
	if t.Input != nil {
		out.Input = append(json.RawMessage{}, t.Input...)
	}
	if t.Result != nil {
		out.Result = append(json.RawMessage{}, t.Result...)
	}
	return out
}
