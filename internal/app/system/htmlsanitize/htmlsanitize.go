// Package htmlsanitize cleans user-entered text before it is stored.
//
// Group, event, and item descriptions come straight from the mobile
// client; sanitizing at the write path keeps stored documents safe for
// any future surface that renders them as HTML.
package htmlsanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	ugc    *bluemonday.Policy
	strict *bluemonday.Policy
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	once.Do(func() {
		ugc = bluemonday.UGCPolicy()
		strict = bluemonday.StrictPolicy()
	})
	return ugc, strict
}

// Sanitize removes unsafe markup (scripts, event handlers, javascript:
// URLs) while preserving basic formatting tags and safe links.
func Sanitize(s string) string {
	p, _ := policies()
	return p.Sanitize(s)
}

// StripTags removes all markup, returning plain text. Used for fields
// that should never contain formatting (names, locations, join codes).
func StripTags(s string) string {
	_, p := policies()
	return strings.TrimSpace(p.Sanitize(s))
}
