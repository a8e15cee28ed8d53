// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Plain strips all HTML from user-supplied display strings (group names,
// profile fields) and trims surrounding whitespace. The result is safe to
// store and to hand to the chat provider as-is.
func Plain(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
