// Package narration extracts spoken-summary text from assistant responses.
//
// Assistants wrap the short spoken summary in <voice_narration> tags inside
// their normal output. This package finds those spans, cleans them up for
// text-to-speech, and can strip them back out of the response shown on
// screen.
package narration

import (
	"regexp"
	"strings"
)

// Delimiter tokens the assistant is instructed to emit. Matching is
// case-insensitive and spans line breaks.
const (
	StartTag = "<voice_narration>"
	EndTag   = "</voice_narration>"
)

var (
	// Non-greedy body match so an unterminated opening tag never swallows
	// the remainder of the response.
	narrationRe = regexp.MustCompile(`(?is)<voice_narration>(.*?)</voice_narration>`)

	codeFenceRe  = regexp.MustCompile("(?s)```.*?```")
	headingRe    = regexp.MustCompile(`#+\s*`)
	emphasisRe   = regexp.MustCompile(`\*\*?(.*?)\*\*?`)
	linkRe       = regexp.MustCompile(`\[(.*?)\]\(.*?\)`)
	urlRe        = regexp.MustCompile(`https?://\S+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Extract returns the narration contained in text, sanitized for speech.
// When multiple narration spans occur they are concatenated in document
// order with a single separating space. ok is false when the text carries
// no narration at all, which is a normal outcome for non-coding replies.
func Extract(text string) (narration string, ok bool) {
	matches := narrationRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return "", false
	}

	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, m[1])
	}
	return Sanitize(strings.Join(parts, " ")), true
}

// Sanitize cleans narration text for speech output: code blocks and URLs are
// dropped entirely, markdown decoration is unwrapped, and whitespace runs
// collapse to single spaces. Sanitize is idempotent.
func Sanitize(text string) string {
	cleaned := codeFenceRe.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, "`", "")
	cleaned = headingRe.ReplaceAllString(cleaned, "")
	cleaned = emphasisRe.ReplaceAllString(cleaned, "$1")
	cleaned = linkRe.ReplaceAllString(cleaned, "$1")
	cleaned = urlRe.ReplaceAllString(cleaned, "")
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// StripTags removes narration spans (tags and bodies) from text, leaving
// the terminal-facing output.
func StripTags(text string) string {
	return strings.TrimSpace(narrationRe.ReplaceAllString(text, ""))
}

// Split separates a response into its terminal text and its spoken
// narration. ok is false when no narration was present.
func Split(text string) (terminal string, narration string, ok bool) {
	narration, ok = Extract(text)
	return StripTags(text), narration, ok
}
