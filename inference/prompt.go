package inference

import (
	"fmt"
	"strings"
)

// systemPrompt instructs chat models to behave like an abstractive
// summarizer bounded by p.
func systemPrompt(p Params) string {
	return fmt.Sprintf(
		"You summarize YouTube video transcripts. Reply with a single plain-text paragraph "+
			"of between %d and %d words. Do not add a preamble, headings or commentary.",
		p.MinLength, p.MaxLength,
	)
}

// tokenBudget caps chat completions at twice the word limit in the prompt.
func tokenBudget(p Params) int64 {
	return int64(2 * p.MaxLength)
}

func ensureTrailingSlash(u string) string {
	if u == "" || strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
