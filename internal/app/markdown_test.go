package app

import "testing"

func TestTranscriptStyleConfigDisablesDocumentOuterMargins(t *testing.T) {
	cfg := transcriptStyleConfig()
	if cfg.Document.StylePrimitive.BlockPrefix != "" {
		t.Fatalf("expected empty document block prefix, got %q", cfg.Document.StylePrimitive.BlockPrefix)
	}
	if cfg.Document.StylePrimitive.BlockSuffix != "" {
		t.Fatalf("expected empty document block suffix, got %q", cfg.Document.StylePrimitive.BlockSuffix)
	}
	if cfg.Document.Margin == nil {
		t.Fatalf("expected document margin pointer")
	}
	if *cfg.Document.Margin != 0 {
		t.Fatalf("expected document margin 0, got %d", *cfg.Document.Margin)
	}
}

func TestRenderMarkdownEmptyInput(t *testing.T) {
	if out := renderMarkdown("", 80); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
	if out := renderMarkdown("\n\n", 80); out != "" {
		t.Fatalf("expected trailing newlines trimmed to empty, got %q", out)
	}
}
