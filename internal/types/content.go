package types

import "encoding/json"

type ContentPartKind string

const (
	ContentPartText        ContentPartKind = "text"
	ContentPartImage       ContentPartKind = "image"
	ContentPartToolUse     ContentPartKind = "tool_use"
	ContentPartToolResult  ContentPartKind = "tool_result"
	ContentPartUnsupported ContentPartKind = "unsupported"
)

// ContentPart is one typed fragment of message content. A tool_result part
// may itself carry nested parts, so the type is recursive through Content.
type ContentPart struct {
	Kind ContentPartKind `json:"kind"`

	// text
	Text string `json:"text,omitempty"`

	// image
	Source *ImageSource `json:"source,omitempty"`

	// tool_use / tool_result
	ToolUseID string          `json:"tool_use_id,omitempty"`
	ToolName  string          `json:"tool_name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	Content   *MessageContent `json:"content,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`

	// unsupported keeps the original fragment tag and payload so nothing is
	// lost when a vendor ships a fragment kind this build does not know.
	Tag string          `json:"tag,omitempty"`
	Raw json.RawMessage `json:"raw,omitempty"`
}

type ImageSource struct {
	Type      string `json:"type,omitempty"`
	MediaType string `json:"media_type,omitempty"`
	Data      string `json:"data,omitempty"`
	URL       string `json:"url,omitempty"`
}

func (p ContentPart) Clone() ContentPart {
	out := p
	if p.Source != nil {
		src := *p.Source
		out.Source = &src
	}
	if p.Input != nil {
		out.Input = append(json.RawMessage{}, p.Input...)
	}
	if p.Content != nil {
		content := p.Content.Clone()
		out.Content = &content
	}
	if p.Raw != nil {
		out.Raw = append(json.RawMessage{}, p.Raw...)
	}
	return out
}

// MessageContent is either a plain string or an ordered list of parts. The
// structured form wins whenever Parts is non-nil.
type MessageContent struct {
	Text  string
	Parts []ContentPart
}

func PlainContent(text string) MessageContent {
	return MessageContent{Text: text}
}

func PartsContent(parts ...ContentPart) MessageContent {
	if parts == nil {
		parts = []ContentPart{}
	}
	return MessageContent{Parts: parts}
}

func (c MessageContent) IsStructured() bool {
	return c.Parts != nil
}

func (c MessageContent) IsEmpty() bool {
	return c.Parts == nil && c.Text == ""
}

func (c MessageContent) Clone() MessageContent {
	out := MessageContent{Text: c.Text}
	if c.Parts != nil {
		out.Parts = make([]ContentPart, 0, len(c.Parts))
		for _, part := range c.Parts {
			out.Parts = append(out.Parts, part.Clone())
		}
	}
	return out
}

func (c MessageContent) MarshalJSON() ([]byte, error) {
	if c.Parts != nil {
		return json.Marshal(c.Parts)
	}
	return json.Marshal(c.Text)
}

func (c *MessageContent) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		c.Text = text
		c.Parts = nil
		return nil
	}
	var parts []ContentPart
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	c.Text = ""
	c.Parts = parts
	return nil
}
