package types

import (
	"sort"
	"time"
)

// Session is the observable conversation state. Store mutations publish a
// fresh clone, so a Session handed to a subscriber is never written again.
type Session struct {
	ID     string `json:"id"`
	Vendor string `json:"vendor,omitempty"`
	Title  string `json:"title,omitempty"`

	// Messages is the permanent ordered history. Streaming holds the
	// in-progress drafts for the current turn, at most one per lane.
	Messages  []Message `json:"messages"`
	Streaming []Message `json:"streaming,omitempty"`

	// ActiveTools mirrors the tracker's in-flight invocations for
	// transient UI display.
	ActiveTools []ToolInvocation `json:"active_tools,omitempty"`

	// SubSessions lists known nested agent-to-agent conversation ids.
	// These are visible live but are not persisted across a resume.
	SubSessions []string  `json:"sub_sessions,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
}

func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Messages = cloneMessages(s.Messages)
	out.Streaming = cloneMessages(s.Streaming)
	if s.ActiveTools != nil {
		out.ActiveTools = make([]ToolInvocation, 0, len(s.ActiveTools))
		for _, inv := range s.ActiveTools {
			out.ActiveTools = append(out.ActiveTools, inv.Clone())
		}
	}
	if s.SubSessions != nil {
		out.SubSessions = append([]string{}, s.SubSessions...)
	}
	return &out
}

func cloneMessages(in []Message) []Message {
	if in == nil {
		return nil
	}
	out := make([]Message, 0, len(in))
	for _, msg := range in {
		out = append(out, msg.Clone())
	}
	return out
}

func (s *Session) HasSubSession(id string) bool {
	if s == nil {
		return false
	}
	for _, candidate := range s.SubSessions {
		if candidate == id {
			return true
		}
	}
	return false
}

// AddSubSession records a nested conversation id, keeping the set sorted.
// Reports whether the set changed.
func (s *Session) AddSubSession(id string) bool {
	if s == nil || id == "" || s.HasSubSession(id) {
		return false
	}
	s.SubSessions = append(s.SubSessions, id)
	sort.Strings(s.SubSessions)
	return true
}
