package content

import (
	"testing"

	"convo/internal/types"
)

func TestNormalizeStringPassesThrough(t *testing.T) {
	got := Normalize("plain words", "anthropic")
	if got.IsStructured() || got.Text != "plain words" {
		t.Fatalf("unexpected normalized content %+v", got)
	}
}

func TestNormalizePreservesFragmentOrderAndTypes(t *testing.T) {
	raw := []any{
		map[string]any{"type": "text", "text": "look:"},
		map[string]any{"type": "image", "source": map[string]any{"type": "base64", "media_type": "image/png", "data": "aaa"}},
		map[string]any{"type": "tool_use", "id": "t1", "name": "search", "input": map[string]any{"q": "go"}},
		map[string]any{"type": "tool_result", "tool_use_id": "t1", "content": []any{
			map[string]any{"type": "text", "text": "found it"},
		}},
	}
	got := Normalize(raw, "anthropic")
	if !got.IsStructured() || len(got.Parts) != 4 {
		t.Fatalf("expected 4 parts, got %+v", got)
	}
	wantKinds := []types.ContentPartKind{
		types.ContentPartText,
		types.ContentPartImage,
		types.ContentPartToolUse,
		types.ContentPartToolResult,
	}
	for i, kind := range wantKinds {
		if got.Parts[i].Kind != kind {
			t.Fatalf("part %d: expected kind %s, got %s", i, kind, got.Parts[i].Kind)
		}
	}
	if got.Parts[1].Source == nil || got.Parts[1].Source.MediaType != "image/png" {
		t.Fatalf("expected image source carried as-is, got %+v", got.Parts[1].Source)
	}
	if got.Parts[2].ToolUseID != "t1" || got.Parts[2].ToolName != "search" {
		t.Fatalf("unexpected tool_use part %+v", got.Parts[2])
	}
	nested := got.Parts[3].Content
	if nested == nil || len(nested.Parts) != 1 || nested.Parts[0].Text != "found it" {
		t.Fatalf("expected recursively normalized tool result, got %+v", nested)
	}
}

func TestNormalizeUnknownFragmentBecomesUnsupported(t *testing.T) {
	raw := []any{
		map[string]any{"type": "audio", "data": "..."},
	}
	got := Normalize(raw, "anthropic")
	if len(got.Parts) != 1 {
		t.Fatalf("unknown fragment must not be dropped, got %+v", got)
	}
	part := got.Parts[0]
	if part.Kind != types.ContentPartUnsupported || part.Tag != "audio" {
		t.Fatalf("expected unsupported part tagged audio, got %+v", part)
	}
	if len(part.Raw) == 0 {
		t.Fatalf("expected original payload retained")
	}
}

func TestNormalizeStringToolResultContent(t *testing.T) {
	raw := []any{
		map[string]any{"type": "tool_result", "tool_use_id": "t1", "content": "done", "is_error": true},
	}
	got := Normalize(raw, "anthropic")
	part := got.Parts[0]
	if part.Content == nil || part.Content.Text != "done" {
		t.Fatalf("expected string tool result content, got %+v", part.Content)
	}
	if !part.IsError {
		t.Fatalf("expected error flag preserved")
	}
}

func TestNormalizeVendorTagAliases(t *testing.T) {
	raw := []any{
		map[string]any{"type": "tool", "id": "t1", "name": "bash"},
		map[string]any{"type": "file", "url": "https://example.com/x.png"},
	}
	got := Normalize(raw, "opencode")
	if got.Parts[0].Kind != types.ContentPartToolUse {
		t.Fatalf("expected opencode tool fragment mapped to tool_use, got %s", got.Parts[0].Kind)
	}
	if got.Parts[1].Kind != types.ContentPartImage || got.Parts[1].Source == nil || got.Parts[1].Source.URL == "" {
		t.Fatalf("expected opencode file fragment mapped to image, got %+v", got.Parts[1])
	}
}

func TestExtractPlainText(t *testing.T) {
	content := types.PartsContent(
		types.ContentPart{Kind: types.ContentPartText, Text: "see the chart"},
		types.ContentPart{Kind: types.ContentPartImage},
		types.ContentPart{Kind: types.ContentPartToolUse, ToolName: "search"},
		types.ContentPart{Kind: types.ContentPartToolResult, Content: &types.MessageContent{Text: "42 results"}},
	)
	got := ExtractPlainText(content)
	want := "see the chart\n[Image]\n[Tool: search]\n42 results"
	if got != want {
		t.Fatalf("unexpected plain text:\n got %q\nwant %q", got, want)
	}
}

func TestExtractPlainTextPlainContent(t *testing.T) {
	if got := ExtractPlainText(types.PlainContent("hello")); got != "hello" {
		t.Fatalf("unexpected plain text %q", got)
	}
}
