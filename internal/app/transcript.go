package app

import (
	"fmt"
	"strings"

	runewidth "github.com/mattn/go-runewidth"

	"convo/internal/content"
	"convo/internal/types"
)

const transcriptGutter = 9

// TranscriptOptions controls how a reduced session is rendered to lines.
// Styled output targets the terminal viewer; plain output is what the CLI
// prints and what gets copied to the clipboard.
type TranscriptOptions struct {
	Width        int
	ShowThoughts bool
	Styled       bool
}

// RenderTranscript flattens a session snapshot into display lines: permanent
// messages first, then streaming drafts, then in-flight tool activity.
func RenderTranscript(session *types.Session, opts TranscriptOptions) []string {
	if session == nil {
		return nil
	}
	if opts.Width <= 0 {
		opts.Width = 80
	}
	var lines []string
	for _, msg := range session.Messages {
		lines = appendMessage(lines, msg, opts)
	}
	for _, msg := range session.Streaming {
		lines = appendMessage(lines, msg, opts)
	}
	for _, inv := range session.ActiveTools {
		lines = append(lines, activeToolLine(inv, opts))
	}
	return lines
}

func appendMessage(lines []string, msg types.Message, opts TranscriptOptions) []string {
	if msg.Kind == types.MessageKindThought && !opts.ShowThoughts {
		return lines
	}
	body := messageBody(msg, opts)
	if len(body) == 0 {
		return lines
	}
	if len(lines) > 0 {
		lines = append(lines, "")
	}
	gutter := messageGutter(msg, opts)
	indent := strings.Repeat(" ", transcriptGutter)
	for i, line := range body {
		if i == 0 {
			lines = append(lines, gutter+line)
		} else {
			lines = append(lines, indent+line)
		}
	}
	for _, inv := range msg.Invocations {
		lines = append(lines, indent+invocationLine(inv, opts))
	}
	if msg.Usage != nil && (msg.Usage.StopReason != "" || msg.Usage.OutputTokens > 0) {
		lines = append(lines, indent+usageLine(msg.Usage, opts))
	}
	return lines
}

func messageBody(msg types.Message, opts TranscriptOptions) []string {
	text := msg.Content.Text
	if msg.Content.IsStructured() {
		text = content.ExtractPlainText(msg.Content)
	}
	text = scrubTerminalText(text)
	switch msg.Kind {
	case types.MessageKindThought:
		return thoughtBody(text, msg, opts)
	case types.MessageKindMedia:
		return mediaBody(text, msg, opts)
	}
	if text == "" {
		return nil
	}
	if msg.Status == types.MessageStatusStreaming {
		text += " ▌"
	}
	if opts.Styled && msg.Role == types.MessageRoleAssistant {
		return strings.Split(renderMarkdown(text, bodyWidth(opts)), "\n")
	}
	return strings.Split(text, "\n")
}

func thoughtBody(text string, msg types.Message, opts TranscriptOptions) []string {
	if text == "" {
		return nil
	}
	parts := strings.Split(text, "\n")
	if msg.Collapsed && msg.Status != types.MessageStatusStreaming && len(parts) > 1 {
		parts = []string{parts[0] + " …"}
	}
	if opts.Styled {
		for i, part := range parts {
			parts[i] = thoughtStyle.Render(part)
		}
	}
	return parts
}

func mediaBody(text string, msg types.Message, opts TranscriptOptions) []string {
	if text == "" {
		return nil
	}
	sanitized := SanitizeMedia(text, msg.ContentType)
	header := fmt.Sprintf("(%s, %d bytes)", msg.ContentType, len(text))
	lines := append([]string{header}, strings.Split(strings.TrimSpace(sanitized), "\n")...)
	if opts.Styled {
		for i, line := range lines {
			lines[i] = mediaStyle.Render(line)
		}
	}
	return lines
}

func messageGutter(msg types.Message, opts TranscriptOptions) string {
	label := "agent"
	labelStyle := agentLabelStyle
	switch {
	case msg.Kind == types.MessageKindThought:
		label = "thinking"
		labelStyle = thoughtLabelStyle
	case msg.Kind == types.MessageKindMedia:
		label = "media"
		labelStyle = mediaStyle
	case msg.Role == types.MessageRoleUser:
		label = "you"
		labelStyle = userLabelStyle
	}
	if msg.SubConversation {
		label = "↳" + label
		labelStyle = subConvoStyle
	}
	padded := runewidth.FillRight(label, transcriptGutter)
	if !opts.Styled {
		return padded
	}
	pad := transcriptGutter - runewidth.StringWidth(label)
	if pad < 1 {
		pad = 1
	}
	return labelStyle.Render(label) + strings.Repeat(" ", pad)
}

func invocationLine(inv types.ToolInvocation, opts TranscriptOptions) string {
	status := string(inv.Status)
	style := toolStyle
	if inv.IsError {
		status = "error"
		style = toolErrorStyle
	}
	line := fmt.Sprintf("⚙ %s (%s)", toolLabel(inv), status)
	if !opts.Styled {
		return line
	}
	return style.Render(line)
}

func activeToolLine(inv types.ToolInvocation, opts TranscriptOptions) string {
	line := fmt.Sprintf("⚙ %s %s…", toolLabel(inv), inv.Status)
	if !opts.Styled {
		return line
	}
	return toolStyle.Render(line)
}

func toolLabel(inv types.ToolInvocation) string {
	if inv.Name != "" {
		return inv.Name
	}
	return inv.ID
}

func usageLine(usage *types.TurnUsage, opts TranscriptOptions) string {
	parts := make([]string, 0, 2)
	if usage.StopReason != "" {
		parts = append(parts, usage.StopReason)
	}
	if usage.OutputTokens > 0 {
		parts = append(parts, fmt.Sprintf("%d tokens", usage.OutputTokens))
	}
	line := strings.Join(parts, ", ")
	if !opts.Styled {
		return line
	}
	return metaStyle.Render(line)
}

func bodyWidth(opts TranscriptOptions) int {
	width := opts.Width - transcriptGutter
	if width < 20 {
		width = 20
	}
	return width
}
