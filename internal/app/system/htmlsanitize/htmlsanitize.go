// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips dangerous markup from user-generated
// content (discussion bodies, comments, action descriptions) before it
// is stored.
package htmlsanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

// policy is a UGC policy extended with the formatting that rich-text
// editors emit: highlighted text, underline/strikethrough, and styled
// tables.
var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("mark", "u", "s")
	p.AllowAttrs("class", "style").OnElements("table", "thead", "tbody", "tfoot", "tr", "th", "td")
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	return p
}

// Sanitize returns s with scripts, event handlers, and unsafe URLs
// removed. Safe formatting tags are preserved.
func Sanitize(s string) string {
	return policy.Sanitize(s)
}
