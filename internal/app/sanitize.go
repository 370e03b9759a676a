package app

import (
	"github.com/microcosm-cc/bluemonday"

	"convo/internal/types"
)

// Rendered media arrives verbatim from the agent; it is sanitized here, at
// display time, never inside the reduction core.
var (
	htmlPolicy = bluemonday.UGCPolicy()
	svgPolicy  = newSVGPolicy()
)

func newSVGPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"svg", "g", "defs", "use", "symbol", "title", "desc",
		"path", "rect", "circle", "ellipse", "line", "polyline", "polygon",
		"text", "tspan", "linearGradient", "radialGradient", "stop",
	)
	p.AllowAttrs(
		"id", "class", "x", "y", "x1", "y1", "x2", "y2",
		"cx", "cy", "r", "rx", "ry", "d", "points",
		"width", "height", "viewbox", "preserveaspectratio",
		"fill", "fill-opacity", "fill-rule", "stroke", "stroke-width",
		"stroke-linecap", "stroke-linejoin", "stroke-dasharray", "opacity",
		"transform", "font-size", "font-family", "font-weight", "text-anchor",
		"offset", "stop-color", "stop-opacity", "xmlns",
	).Globally()
	return p
}

// SanitizeMedia strips scripts, event handlers, and other active content
// from a rendered media payload. Unknown content types get the strictest
// treatment.
func SanitizeMedia(content string, contentType types.MediaContentType) string {
	switch contentType {
	case types.MediaContentSVG:
		return svgPolicy.Sanitize(content)
	case types.MediaContentHTML:
		return htmlPolicy.Sanitize(content)
	default:
		return bluemonday.StrictPolicy().Sanitize(content)
	}
}
