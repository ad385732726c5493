package detect

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Minimum visible size for a candidate field. Smaller inputs are treated as
// decoys or honeypots and skipped.
const (
	minFieldWidth  = 100
	minFieldHeight = 20
)

// Field is a detected candidate email input.
type Field struct {
	Node        *html.Node
	Type        string
	Name        string
	ID          string
	Placeholder string
}

// attr returns the value of the named attribute on n, or "".
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// hasAttr reports whether n carries the named attribute at all.
func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return true
		}
	}
	return false
}

// isEmailInput applies the field heuristic: an input whose type is "email",
// or whose name, id, or placeholder contains the substring "email"
// case-insensitively.
func isEmailInput(n *html.Node) bool {
	if n.Type != html.ElementNode || !strings.EqualFold(n.Data, "input") {
		return false
	}
	if strings.EqualFold(attr(n, "type"), "email") {
		return true
	}
	for _, key := range []string{"name", "id", "placeholder"} {
		if strings.Contains(strings.ToLower(attr(n, key)), "email") {
			return true
		}
	}
	return false
}

// isViable rejects candidates that are hidden, disabled, read-only, already
// filled, or below the minimum visible size.
func isViable(n *html.Node) bool {
	if strings.EqualFold(attr(n, "type"), "hidden") || hasAttr(n, "hidden") {
		return false
	}
	if hasAttr(n, "disabled") || hasAttr(n, "readonly") {
		return false
	}
	if strings.TrimSpace(attr(n, "value")) != "" {
		return false
	}

	style := strings.ToLower(attr(n, "style"))
	if strings.Contains(style, "display:none") || strings.Contains(style, "display: none") ||
		strings.Contains(style, "visibility:hidden") || strings.Contains(style, "visibility: hidden") {
		return false
	}

	if w, ok := fieldSize(n, "width"); ok && w < minFieldWidth {
		return false
	}
	if h, ok := fieldSize(n, "height"); ok && h < minFieldHeight {
		return false
	}
	return true
}

// fieldSize resolves a pixel dimension from the width/height attribute or the
// inline style. Documents without layout information yield no size, and such
// fields pass the size check.
func fieldSize(n *html.Node, dim string) (int, bool) {
	if v := attr(n, dim); v != "" {
		if px, err := strconv.Atoi(strings.TrimSuffix(v, "px")); err == nil {
			return px, true
		}
	}
	for _, decl := range strings.Split(attr(n, "style"), ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(k), dim) {
			continue
		}
		v = strings.TrimSpace(strings.ToLower(v))
		if px, err := strconv.Atoi(strings.TrimSuffix(v, "px")); err == nil {
			return px, true
		}
	}
	return 0, false
}

func newField(n *html.Node) Field {
	return Field{
		Node:        n,
		Type:        attr(n, "type"),
		Name:        attr(n, "name"),
		ID:          attr(n, "id"),
		Placeholder: attr(n, "placeholder"),
	}
}
