package client

import (
	"encoding/json"
	"strings"

	"convo/internal/types"
)

// WireEvent is one decoded frame of the push stream: a method name plus a
// raw params payload, the shape the server speaks regardless of vendor.
type WireEvent struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
	TS     string          `json:"ts,omitempty"`
}

const (
	methodSessionSnapshot = "session/snapshot"
	methodUserMessage     = "message/user"
	methodTextDelta       = "item/agentMessage/delta"
	methodThoughtDelta    = "item/reasoning/delta"
	methodTurnStarted     = "turn/started"
	methodTurnCompleted   = "turn/completed"
	methodToolSelected    = "item/tool/selected"
	methodToolActive      = "item/tool/active"
	methodMediaRendered   = "item/media/rendered"
)

// ignoredMethods are recognized wire kinds that must be dropped without
// mutating anything: historical replay frames, the legacy delta shape, the
// superseded reasoning-complete notice, and system-prompt echoes.
var ignoredMethods = map[string]struct{}{
	"session/replay":           {},
	"item/agentMessage/legacy": {},
	"item/reasoning/completed": {},
	"system/prompt":            {},
}

// Decode maps a wire frame onto the event union. Recognized-but-ignored and
// unknown methods both decode to types.Ignored; a frame with no method
// decodes to nil and the caller drops it.
func Decode(event WireEvent) types.Event {
	method := strings.TrimSpace(event.Method)
	if method == "" {
		return nil
	}
	scope := decodeScope(event.Params)
	if _, ignored := ignoredMethods[method]; ignored {
		return types.Ignored{EventScope: scope, Kind: method}
	}

	switch method {
	case methodSessionSnapshot:
		var payload struct {
			Session struct {
				ID       string                  `json:"id"`
				Vendor   string                  `json:"vendor"`
				Title    string                  `json:"title"`
				Messages []types.SnapshotMessage `json:"messages"`
			} `json:"session"`
		}
		if err := json.Unmarshal(event.Params, &payload); err != nil {
			return types.Ignored{EventScope: scope, Kind: method}
		}
		if scope.SessionID == "" {
			scope.SessionID = payload.Session.ID
		}
		return types.SessionSnapshot{
			EventScope: scope,
			Vendor:     payload.Session.Vendor,
			Title:      payload.Session.Title,
			Messages:   payload.Session.Messages,
		}
	case methodUserMessage:
		var payload struct {
			MessageID string `json:"message_id"`
			Content   any    `json:"content"`
		}
		if err := json.Unmarshal(event.Params, &payload); err != nil {
			return types.Ignored{EventScope: scope, Kind: method}
		}
		return types.UserMessage{EventScope: scope, MessageID: payload.MessageID, Content: payload.Content}
	case methodTextDelta:
		return types.TextDelta{EventScope: scope, Delta: decodeDelta(event.Params)}
	case methodThoughtDelta:
		return types.ThoughtDelta{EventScope: scope, Delta: decodeDelta(event.Params)}
	case methodTurnStarted:
		var payload struct {
			TurnID string `json:"turn_id"`
		}
		_ = json.Unmarshal(event.Params, &payload)
		return types.TurnStarted{EventScope: scope, TurnID: payload.TurnID}
	case methodTurnCompleted:
		var payload struct {
			TurnID string           `json:"turn_id"`
			Usage  *types.TurnUsage `json:"usage"`
		}
		_ = json.Unmarshal(event.Params, &payload)
		return types.TurnEnded{EventScope: scope, TurnID: payload.TurnID, Usage: payload.Usage}
	case methodToolSelected:
		var payload struct {
			ToolID string          `json:"tool_id"`
			Name   string          `json:"name"`
			Input  json.RawMessage `json:"input"`
		}
		if err := json.Unmarshal(event.Params, &payload); err != nil {
			return types.Ignored{EventScope: scope, Kind: method}
		}
		return types.ToolSelected{EventScope: scope, ToolID: payload.ToolID, Name: payload.Name, Input: payload.Input}
	case methodToolActive:
		var payload struct {
			ToolID  string          `json:"tool_id"`
			Active  bool            `json:"active"`
			Results json.RawMessage `json:"results"`
			IsError bool            `json:"is_error"`
		}
		if err := json.Unmarshal(event.Params, &payload); err != nil {
			return types.Ignored{EventScope: scope, Kind: method}
		}
		return types.ToolActive{
			EventScope: scope,
			ToolID:     payload.ToolID,
			Active:     payload.Active,
			Results:    payload.Results,
			IsError:    payload.IsError,
		}
	case methodMediaRendered:
		var payload struct {
			MessageID   string `json:"message_id"`
			Content     string `json:"content"`
			ContentType string `json:"content_type"`
		}
		if err := json.Unmarshal(event.Params, &payload); err != nil {
			return types.Ignored{EventScope: scope, Kind: method}
		}
		return types.MediaRendered{
			EventScope:  scope,
			MessageID:   payload.MessageID,
			Content:     payload.Content,
			ContentType: types.MediaContentType(strings.ToLower(strings.TrimSpace(payload.ContentType))),
		}
	default:
		return types.Ignored{EventScope: scope, Kind: method}
	}
}

func decodeScope(params json.RawMessage) types.EventScope {
	if len(params) == 0 {
		return types.EventScope{}
	}
	var scope types.EventScope
	_ = json.Unmarshal(params, &scope)
	return scope
}

func decodeDelta(params json.RawMessage) string {
	if len(params) == 0 {
		return ""
	}
	var payload struct {
		Delta string `json:"delta"`
		Text  string `json:"text"`
	}
	if err := json.Unmarshal(params, &payload); err != nil {
		return ""
	}
	if payload.Delta != "" {
		return payload.Delta
	}
	return payload.Text
}
