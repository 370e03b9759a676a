package app

import (
	"strings"
	"testing"

	"convo/internal/types"
)

func plainOpts() TranscriptOptions {
	return TranscriptOptions{Width: 80, ShowThoughts: false, Styled: false}
}

func TestTranscriptOrdersMessagesDraftsAndTools(t *testing.T) {
	session := &types.Session{
		ID: "s1",
		Messages: []types.Message{
			{ID: "m1", Role: types.MessageRoleUser, Kind: types.MessageKindMessage, Status: types.MessageStatusComplete, Content: types.PlainContent("hello")},
			{ID: "m2", Role: types.MessageRoleAssistant, Kind: types.MessageKindMessage, Status: types.MessageStatusComplete, Content: types.PlainContent("answer")},
		},
		Streaming: []types.Message{
			{ID: "d1", Role: types.MessageRoleAssistant, Kind: types.MessageKindMessage, Status: types.MessageStatusStreaming, Content: types.PlainContent("partial")},
		},
		ActiveTools: []types.ToolInvocation{
			{ID: "t1", Name: "search", Status: types.ToolStatusExecuting},
		},
	}

	lines := RenderTranscript(session, plainOpts())
	joined := strings.Join(lines, "\n")
	for _, want := range []string{"hello", "answer", "partial", "search"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected transcript to contain %q:\n%s", want, joined)
		}
	}
	if strings.Index(joined, "hello") > strings.Index(joined, "answer") {
		t.Fatalf("expected permanent messages in order:\n%s", joined)
	}
	if strings.Index(joined, "answer") > strings.Index(joined, "partial") {
		t.Fatalf("expected drafts after permanent messages:\n%s", joined)
	}
	last := lines[len(lines)-1]
	if !strings.Contains(last, "search") || !strings.Contains(last, "executing") {
		t.Fatalf("expected active tool on the final line, got %q", last)
	}
}

func TestThoughtsHiddenUnlessRequested(t *testing.T) {
	session := &types.Session{
		Messages: []types.Message{
			{ID: "m1", Role: types.MessageRoleAssistant, Kind: types.MessageKindThought, Status: types.MessageStatusComplete, Content: types.PlainContent("secret reasoning")},
			{ID: "m2", Role: types.MessageRoleAssistant, Kind: types.MessageKindMessage, Status: types.MessageStatusComplete, Content: types.PlainContent("visible answer")},
		},
	}

	hidden := strings.Join(RenderTranscript(session, plainOpts()), "\n")
	if strings.Contains(hidden, "secret reasoning") {
		t.Fatalf("expected thought hidden by default:\n%s", hidden)
	}

	opts := plainOpts()
	opts.ShowThoughts = true
	shown := strings.Join(RenderTranscript(session, opts), "\n")
	if !strings.Contains(shown, "secret reasoning") {
		t.Fatalf("expected thought when requested:\n%s", shown)
	}
}

func TestCollapsedThoughtShowsFirstLineOnly(t *testing.T) {
	session := &types.Session{
		Messages: []types.Message{
			{
				ID:        "m1",
				Role:      types.MessageRoleAssistant,
				Kind:      types.MessageKindThought,
				Status:    types.MessageStatusComplete,
				Collapsed: true,
				Content:   types.PlainContent("first line\nsecond line"),
			},
		},
	}
	opts := plainOpts()
	opts.ShowThoughts = true

	joined := strings.Join(RenderTranscript(session, opts), "\n")
	if !strings.Contains(joined, "first line …") {
		t.Fatalf("expected collapsed marker on first line:\n%s", joined)
	}
	if strings.Contains(joined, "second line") {
		t.Fatalf("expected later lines collapsed away:\n%s", joined)
	}
}

func TestInvocationAndUsageLinesFollowMessage(t *testing.T) {
	session := &types.Session{
		Messages: []types.Message{
			{
				ID:      "m1",
				Role:    types.MessageRoleAssistant,
				Kind:    types.MessageKindMessage,
				Status:  types.MessageStatusComplete,
				Content: types.PlainContent("done"),
				Invocations: []types.ToolInvocation{
					{ID: "t1", Name: "search", Status: types.ToolStatusComplete},
					{ID: "t2", Name: "fetch", Status: types.ToolStatusComplete, IsError: true},
				},
				Usage: &types.TurnUsage{StopReason: "end_turn", OutputTokens: 42},
			},
		},
	}

	joined := strings.Join(RenderTranscript(session, plainOpts()), "\n")
	if !strings.Contains(joined, "search (complete)") {
		t.Fatalf("expected invocation summary:\n%s", joined)
	}
	if !strings.Contains(joined, "fetch (error)") {
		t.Fatalf("expected error invocation marked:\n%s", joined)
	}
	if !strings.Contains(joined, "end_turn, 42 tokens") {
		t.Fatalf("expected usage line:\n%s", joined)
	}
}

func TestMediaContentIsSanitizedBeforeDisplay(t *testing.T) {
	session := &types.Session{
		Messages: []types.Message{
			{
				ID:          "v1",
				Role:        types.MessageRoleAssistant,
				Kind:        types.MessageKindMedia,
				Status:      types.MessageStatusComplete,
				ContentType: types.MediaContentHTML,
				Content:     types.PlainContent("<p>report</p><script>alert(1)</script>"),
			},
		},
	}

	joined := strings.Join(RenderTranscript(session, plainOpts()), "\n")
	if !strings.Contains(joined, "report") {
		t.Fatalf("expected sanitized body kept:\n%s", joined)
	}
	if strings.Contains(joined, "script") || strings.Contains(joined, "alert") {
		t.Fatalf("expected active content stripped:\n%s", joined)
	}
	if !strings.Contains(joined, "(html,") {
		t.Fatalf("expected media header:\n%s", joined)
	}
}

func TestSubConversationMessagesAreMarked(t *testing.T) {
	session := &types.Session{
		Messages: []types.Message{
			{
				ID:              "m1",
				Role:            types.MessageRoleAssistant,
				Kind:            types.MessageKindMessage,
				Status:          types.MessageStatusComplete,
				SubConversation: true,
				Content:         types.PlainContent("delegated work"),
			},
		},
	}

	joined := strings.Join(RenderTranscript(session, plainOpts()), "\n")
	if !strings.Contains(joined, "↳agent") {
		t.Fatalf("expected sub-conversation gutter marker:\n%s", joined)
	}
}

func TestStructuredContentFlattensToPlainText(t *testing.T) {
	session := &types.Session{
		Messages: []types.Message{
			{
				ID:     "m1",
				Role:   types.MessageRoleUser,
				Kind:   types.MessageKindMessage,
				Status: types.MessageStatusComplete,
				Content: types.PartsContent(
					types.ContentPart{Kind: types.ContentPartText, Text: "look at this"},
					types.ContentPart{Kind: types.ContentPartImage},
				),
			},
		},
	}

	joined := strings.Join(RenderTranscript(session, plainOpts()), "\n")
	if !strings.Contains(joined, "look at this") || !strings.Contains(joined, "[Image]") {
		t.Fatalf("expected flattened structured content:\n%s", joined)
	}
}

func TestNilSessionRendersNothing(t *testing.T) {
	if lines := RenderTranscript(nil, plainOpts()); lines != nil {
		t.Fatalf("expected no lines for nil session, got %v", lines)
	}
}
