package rendering

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var contentPolicy = bluemonday.UGCPolicy()

// SanitizeContent strips scripts, event handlers and other unsafe markup
// from user supplied content, keeping basic formatting. Line breaks become
// <br> so plain text keeps its shape.
func SanitizeContent(content string) string {
	clean := contentPolicy.Sanitize(strings.TrimSpace(content))
	return strings.ReplaceAll(clean, "\n", "<br>\n")
}
