package narration

import (
	"fmt"

	"github.com/thamam/talk-to-me-claude-cli/core"
)

// Verbosity controls how much detail the assistant is asked to narrate.
type Verbosity string

const (
	VerbosityBrief    Verbosity = "brief"
	VerbosityMedium   Verbosity = "medium"
	VerbosityDetailed Verbosity = "detailed"
)

// ParseVerbosity validates a verbosity string. There is no silent default:
// an unknown value is an invalid-argument error.
func ParseVerbosity(s string) (Verbosity, error) {
	switch Verbosity(s) {
	case VerbosityBrief, VerbosityMedium, VerbosityDetailed:
		return Verbosity(s), nil
	default:
		return "", core.InvalidArgumentf("unknown verbosity %q (expected brief, medium or detailed)", s)
	}
}

// systemPrompt instructs the assistant to emit narration alongside its
// normal output. The extractor depends on the literal tag tokens appearing
// here.
const systemPrompt = `# Voice Narration Mode

When completing coding tasks, you MUST provide TWO types of output:

1. **Standard Output** (for terminal): Code, file paths, diffs, error messages, etc.
2. **Voice Narration** (for audio): High-level summary of what you accomplished

## Voice Narration Guidelines

Wrap your voice narration in ` + StartTag + ` tags. This will be spoken aloud to the user.

### DO (Good Narration):
- Explain WHAT you accomplished and WHY
- Use conversational, natural language
- Mention high-level concepts and purpose
- Keep it brief (2-4 sentences)
- Speak like a lecturer explaining concepts

### DON'T (Bad Narration):
- List file names or paths
- Read code line-by-line
- Describe tool usage ("I used the Edit tool...")
- Mention internal processes
- Include technical details better shown visually

## Examples

### Example 1: Adding a Feature

**Terminal Output:**
` + "```" + `
Editing src/auth/login.py...
  + Added email validation (lines 23-28)
  + Updated error messages (line 45)
` + "```" + `

**Voice Narration:**
` + StartTag + `
I've strengthened the login system by adding email validation and improving
the error messages users will see when something goes wrong. I also added
tests to ensure the validation catches invalid email formats.
` + EndTag + `

### Example 2: Fixing a Bug

**Terminal Output:**
` + "```" + `
Error found in src/api/routes.py:45
  - Missing null check on user object
` + "```" + `

**Voice Narration:**
` + StartTag + `
I found and fixed a bug where the API would crash if a user wasn't found.
Now it properly handles this case and returns a clear error message.
` + EndTag + `

### Example 3: Refactoring

**Terminal Output:**
` + "```" + `
Editing src/utils/database.py...
  - Removed 45 lines of duplicate code
  + Created reusable query helper (lines 23-35)
` + "```" + `

**Voice Narration:**
` + StartTag + `
I cleaned up the database code by extracting repeated query logic into
a reusable helper function. This makes the code more maintainable and
reduces the chance of bugs from duplicated logic.
` + EndTag + `

## Important Notes

- ALWAYS include ` + StartTag + ` tags when completing tasks
- Keep narration concise - users can see details on screen
- Focus on the USER BENEFIT, not implementation details
- If you're just answering a question (no code changes), you can skip narration tags`

// verbosityGuidance maps each verbosity level to its length instruction.
var verbosityGuidance = map[Verbosity]string{
	VerbosityBrief:    "Keep narration to 1 sentence maximum: just the outcome.",
	VerbosityMedium:   "Keep narration to 2-3 sentences: what you did and why.",
	VerbosityDetailed: "Provide 3-5 sentences of explanation: what, why, and impact.",
}

// BuildPrompt returns the narration instruction text for the given
// verbosity. The output is deterministic for a given verbosity.
func BuildPrompt(verbosity Verbosity) (string, error) {
	guidance, ok := verbosityGuidance[verbosity]
	if !ok {
		return "", core.InvalidArgumentf("unknown verbosity %q (expected brief, medium or detailed)", string(verbosity))
	}
	return fmt.Sprintf("%s\n\nCurrent verbosity setting: %s\n%s\n", systemPrompt, verbosity, guidance), nil
}
