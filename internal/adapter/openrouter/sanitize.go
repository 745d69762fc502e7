package openrouter

import (
	"regexp"
	"strings"
)

// The thinking-artifact dialects models are known to emit. Each entry
// is an opening and closing marker as regexp fragments.
var thinkingDialects = [][2]string{
	{`◁think▷`, `◁/think▷`},
	{`<think>`, `</think>`},
	{`\[THINKING\]`, `\[/THINKING\]`},
	{`<!--\s*thinking\s*-->`, `<!--\s*/thinking\s*-->`},
}

var (
	balancedThinking  []*regexp.Regexp
	unclosedThinking  []*regexp.Regexp
	danglingThinking  []*regexp.Regexp
	excessiveNewlines = regexp.MustCompile(`\n\s*\n\s*\n`)
)

func init() {
	for _, d := range thinkingDialects {
		opening, closing := d[0], d[1]
		balancedThinking = append(balancedThinking,
			regexp.MustCompile(opening+`[\s\S]*?`+closing))
		unclosedThinking = append(unclosedThinking,
			regexp.MustCompile(opening+`[\s\S]*$`))
		// Greedy: with several unmatched closers, everything through the
		// last one goes, so one pass leaves no closing markers behind.
		danglingThinking = append(danglingThinking,
			regexp.MustCompile(`^[\s\S]*`+closing))
	}
}

// SanitizeResponse strips model "thinking" artifacts from finished text
// before structural parsing. Balanced blocks are removed first in every
// dialect; only then are unterminated opening markers (through end of
// text) and unmatched closing markers (from start of text) cleaned up,
// so a balanced block is never half-eaten by the unbalanced rules.
// Finally runs of 3+ newlines collapse to exactly two and surrounding
// whitespace is trimmed. The transform is idempotent.
func SanitizeResponse(content string) string {
	cleaned := content
	for _, re := range balancedThinking {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	for _, re := range unclosedThinking {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	for _, re := range danglingThinking {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	cleaned = excessiveNewlines.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}
