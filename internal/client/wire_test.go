package client

import (
	"encoding/json"
	"testing"

	"convo/internal/types"
)

func frame(method, params string) WireEvent {
	return WireEvent{Method: method, Params: json.RawMessage(params)}
}

func TestDecodeTextAndThoughtDeltas(t *testing.T) {
	event := Decode(frame("item/agentMessage/delta", `{"session_id":"s1","user_session_id":"s1","delta":"hel"}`))
	text, ok := event.(types.TextDelta)
	if !ok {
		t.Fatalf("expected TextDelta, got %T", event)
	}
	if text.Delta != "hel" || text.SessionID != "s1" {
		t.Fatalf("unexpected delta %+v", text)
	}

	event = Decode(frame("item/reasoning/delta", `{"session_id":"s1","user_session_id":"s1","text":"thinking"}`))
	thought, ok := event.(types.ThoughtDelta)
	if !ok {
		t.Fatalf("expected ThoughtDelta, got %T", event)
	}
	if thought.Delta != "thinking" {
		t.Fatalf("expected text fallback for delta, got %q", thought.Delta)
	}
}

func TestDecodeTurnLifecycle(t *testing.T) {
	event := Decode(frame("turn/started", `{"session_id":"s1","turn_id":"turn-1"}`))
	if started, ok := event.(types.TurnStarted); !ok || started.TurnID != "turn-1" {
		t.Fatalf("unexpected event %+v", event)
	}

	event = Decode(frame("turn/completed", `{"session_id":"s1","turn_id":"turn-1","usage":{"output_tokens":12,"stop_reason":"end_turn"}}`))
	ended, ok := event.(types.TurnEnded)
	if !ok {
		t.Fatalf("expected TurnEnded, got %T", event)
	}
	if ended.Usage == nil || ended.Usage.OutputTokens != 12 || ended.Usage.StopReason != "end_turn" {
		t.Fatalf("unexpected usage %+v", ended.Usage)
	}
}

func TestDecodeToolEvents(t *testing.T) {
	event := Decode(frame("item/tool/selected", `{"session_id":"s1","tool_id":"t1","name":"search","input":{"q":"go"}}`))
	selected, ok := event.(types.ToolSelected)
	if !ok || selected.ToolID != "t1" || selected.Name != "search" {
		t.Fatalf("unexpected event %+v", event)
	}

	event = Decode(frame("item/tool/active", `{"session_id":"s1","tool_id":"t1","active":false,"results":{"hits":3},"is_error":false}`))
	activeEvent, ok := event.(types.ToolActive)
	if !ok || activeEvent.Active || activeEvent.ToolID != "t1" {
		t.Fatalf("unexpected event %+v", event)
	}
	if len(activeEvent.Results) == 0 {
		t.Fatalf("expected results payload carried through")
	}
}

func TestDecodeSessionSnapshot(t *testing.T) {
	params := `{"user_session_id":"s1","session":{"id":"s1","vendor":"anthropic","title":"demo","messages":[{"id":"m1","role":"user","content":"hi"}]}}`
	event := Decode(frame("session/snapshot", params))
	snapshot, ok := event.(types.SessionSnapshot)
	if !ok {
		t.Fatalf("expected SessionSnapshot, got %T", event)
	}
	if snapshot.SessionID != "s1" {
		t.Fatalf("expected session id lifted from payload, got %q", snapshot.SessionID)
	}
	if snapshot.Vendor != "anthropic" || len(snapshot.Messages) != 1 {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}
}

func TestDecodeMediaRendered(t *testing.T) {
	event := Decode(frame("item/media/rendered", `{"session_id":"s1","message_id":"v1","content":"<svg/>","content_type":"SVG"}`))
	media, ok := event.(types.MediaRendered)
	if !ok {
		t.Fatalf("expected MediaRendered, got %T", event)
	}
	if media.ContentType != types.MediaContentSVG {
		t.Fatalf("expected normalized content type, got %q", media.ContentType)
	}
}

func TestDecodeIgnoreSetAndUnknownKinds(t *testing.T) {
	for _, method := range []string{
		"session/replay",
		"item/agentMessage/legacy",
		"item/reasoning/completed",
		"system/prompt",
		"something/new",
	} {
		event := Decode(frame(method, `{"session_id":"s1"}`))
		ignored, ok := event.(types.Ignored)
		if !ok {
			t.Fatalf("%s: expected Ignored, got %T", method, event)
		}
		if ignored.Kind != method {
			t.Fatalf("expected kind %q retained, got %q", method, ignored.Kind)
		}
	}
}

func TestDecodeEmptyMethodYieldsNil(t *testing.T) {
	if event := Decode(WireEvent{}); event != nil {
		t.Fatalf("expected nil for empty frame, got %T", event)
	}
}

func TestDecodeMalformedParamsYieldIgnored(t *testing.T) {
	event := Decode(frame("item/tool/selected", `{"tool_id":`))
	if _, ok := event.(types.Ignored); !ok {
		t.Fatalf("expected malformed payload to decode to Ignored, got %T", event)
	}
}

func TestDecodeSubConversationScope(t *testing.T) {
	event := Decode(frame("item/agentMessage/delta", `{"session_id":"S2","parent_session_id":"S1","user_session_id":"S1","delta":"x"}`))
	if !event.Scope().IsSubConversation() {
		t.Fatalf("expected sub-conversation scope")
	}
	event = Decode(frame("item/agentMessage/delta", `{"session_id":"S1","user_session_id":"S1","delta":"x"}`))
	if event.Scope().IsSubConversation() {
		t.Fatalf("expected primary scope when ids match")
	}
}
