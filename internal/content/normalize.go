package content

import (
	"encoding/json"
	"strings"

	"convo/internal/types"
)

// Vendor fragment tags differ per provider; each alias table maps a vendor
// tag onto the neutral part kind. Tags absent from the table pass through
// and, when still unrecognized, become unsupported parts.
var vendorTagAliases = map[string]map[string]string{
	"opencode": {
		"tool": "tool_use",
		"file": "image",
	},
	"codex": {
		"input_text":  "text",
		"output_text": "text",
	},
}

// Normalize converts a vendor-specific content value into the neutral
// representation. Strings pass through unchanged; lists map fragment by
// fragment; anything unrecognized survives as an unsupported part. It never
// fails and never drops a fragment.
func Normalize(raw any, vendor string) types.MessageContent {
	switch value := raw.(type) {
	case nil:
		return types.PlainContent("")
	case string:
		return types.PlainContent(value)
	case json.RawMessage:
		return normalizeRaw(value, vendor)
	case []byte:
		return normalizeRaw(value, vendor)
	case []any:
		parts := make([]types.ContentPart, 0, len(value))
		for _, entry := range value {
			parts = append(parts, normalizeFragment(entry, vendor))
		}
		return types.PartsContent(parts...)
	case map[string]any:
		// A bare fragment object counts as a single-element list.
		return types.PartsContent(normalizeFragment(value, vendor))
	default:
		return types.PartsContent(unsupportedPart("", raw))
	}
}

func normalizeRaw(data []byte, vendor string) types.MessageContent {
	if len(data) == 0 {
		return types.PlainContent("")
	}
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return types.PlainContent(string(data))
	}
	return Normalize(decoded, vendor)
}

func normalizeFragment(raw any, vendor string) types.ContentPart {
	fragment, ok := raw.(map[string]any)
	if !ok {
		return unsupportedPart("", raw)
	}
	tag := strings.TrimSpace(asString(fragment["type"]))
	kind := tag
	if aliases, ok := vendorTagAliases[strings.ToLower(strings.TrimSpace(vendor))]; ok {
		if mapped, ok := aliases[strings.ToLower(kind)]; ok {
			kind = mapped
		}
	}

	switch kind {
	case "text":
		return types.ContentPart{
			Kind: types.ContentPartText,
			Text: asString(fragment["text"]),
		}
	case "image":
		return types.ContentPart{
			Kind:   types.ContentPartImage,
			Source: imageSource(fragment),
		}
	case "tool_use":
		return types.ContentPart{
			Kind:      types.ContentPartToolUse,
			ToolUseID: asString(fragment["id"]),
			ToolName:  asString(fragment["name"]),
			Input:     rawField(fragment["input"]),
		}
	case "tool_result":
		nested := Normalize(fragment["content"], vendor)
		return types.ContentPart{
			Kind:      types.ContentPartToolResult,
			ToolUseID: asString(fragment["tool_use_id"]),
			Content:   &nested,
			IsError:   asBool(fragment["is_error"]),
		}
	default:
		return unsupportedPart(tag, fragment)
	}
}

func unsupportedPart(tag string, raw any) types.ContentPart {
	part := types.ContentPart{
		Kind: types.ContentPartUnsupported,
		Tag:  tag,
	}
	if data, err := json.Marshal(raw); err == nil {
		part.Raw = data
	}
	return part
}

func imageSource(fragment map[string]any) *types.ImageSource {
	source, _ := fragment["source"].(map[string]any)
	if source == nil {
		if url := asString(fragment["url"]); url != "" {
			return &types.ImageSource{Type: "url", URL: url}
		}
		return nil
	}
	return &types.ImageSource{
		Type:      asString(source["type"]),
		MediaType: asString(source["media_type"]),
		Data:      asString(source["data"]),
		URL:       asString(source["url"]),
	}
}

func rawField(value any) json.RawMessage {
	if value == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	return data
}

// ExtractPlainText flattens content into a human-readable fallback for
// previews and search. Non-text fragments collapse into short bracketed
// placeholders; the structured parts remain the system of record.
func ExtractPlainText(content types.MessageContent) string {
	if !content.IsStructured() {
		return content.Text
	}
	var out []string
	for _, part := range content.Parts {
		switch part.Kind {
		case types.ContentPartText:
			if part.Text != "" {
				out = append(out, part.Text)
			}
		case types.ContentPartImage:
			out = append(out, "[Image]")
		case types.ContentPartToolUse:
			if part.ToolName != "" {
				out = append(out, "[Tool: "+part.ToolName+"]")
			} else {
				out = append(out, "[Tool]")
			}
		case types.ContentPartToolResult:
			if part.Content != nil {
				if nested := ExtractPlainText(*part.Content); nested != "" {
					out = append(out, nested)
					continue
				}
			}
			out = append(out, "[Tool result]")
		case types.ContentPartUnsupported:
			if part.Tag != "" {
				out = append(out, "["+part.Tag+"]")
			}
		}
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func asString(value any) string {
	text, _ := value.(string)
	return text
}

func asBool(value any) bool {
	flag, _ := value.(bool)
	return flag
}
