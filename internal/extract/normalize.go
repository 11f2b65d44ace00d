package extract

import (
	"regexp"
	"strings"
)

// entityReplacer handles stage one of normalization: line-break tags
// become a single space and the two entities the source page uses are
// decoded to their literal characters.
//
// The extra forms exist because the cell markup we normalize is a
// parse-then-serialize round trip of the original page: the parser
// decodes &nbsp; to U+00A0 before we see it, and the serializer
// re-escapes ampersands, apostrophes, and quotes in text nodes.
var entityReplacer = strings.NewReplacer(
	"<br>", " ",
	"<br/>", " ",
	"<br />", " ",
	"&amp;", "&",
	"&nbsp;", " ",
	"\u00a0", " ",
	"&#39;", "'",
	"&#34;", `"`,
)

// whitespaceRun matches any run of ASCII whitespace characters.
var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize cleans a fragment of cell markup into display text.
//
// Normalization runs in two stages: entity and break substitution
// first, then whitespace-run collapsing and trimming. Two stages are
// required because entity decoding introduces new literal whitespace
// (a non-breaking space becomes a plain space) that must itself be
// collapsed. The result is stable: normalizing an already-normalized
// string is a no-op.
func Normalize(s string) string {
	s = entityReplacer.Replace(s)
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
