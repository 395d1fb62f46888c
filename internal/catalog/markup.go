package catalog

import "strings"

var markupEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	`"`, "&quot;",
)

// EscapeMarkup escapes text for use in Pango markup.
func EscapeMarkup(s string) string {
	return markupEscaper.Replace(s)
}

var markupUnescaper = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&apos;", "'",
	"&quot;", `"`,
)

// UnescapeMarkup reverses EscapeMarkup for plain text output.
func UnescapeMarkup(s string) string {
	return markupUnescaper.Replace(s)
}
