package extract

import (
	"regexp"
	"strings"
)

var (
	fenceOpenRE    = regexp.MustCompile("(?m)^```[a-zA-Z]*")
	fenceCloseRE   = regexp.MustCompile("```\\s*$")
	htmlCommentRE  = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockCommentRE = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentRE  = regexp.MustCompile(`(?m)^[ \t]*//.*$`)
)

// CleanCode strips markdown code-fence markers and source comments from a
// block of generated HTML, CSS, or JS. Removed: start-of-line fence markers
// (with optional language tag), a trailing fence, <!-- --> and /* */ comments
// (both multi-line), and // comments occupying an entire line. A // that
// follows code on the same line is kept, so URLs and string literals
// containing "//" survive. The result is whitespace-trimmed and the function
// is idempotent: removing a comment can expose a fence marker that only then
// sits at start-of-line (or end-of-text), so the passes repeat until the
// text stops changing.
//
// Removal is plain regex over unparsed text: a comment-looking sequence
// inside a string literal is stripped too. That is the accepted trade-off
// for handling all three languages with one pass.
func CleanCode(code string) string {
	// Every pass only deletes, so the loop strictly shrinks and terminates.
	for {
		cleaned := stripPass(code)
		if cleaned == code {
			return cleaned
		}
		code = cleaned
	}
}

func stripPass(code string) string {
	code = fenceOpenRE.ReplaceAllString(code, "")
	code = fenceCloseRE.ReplaceAllString(code, "")
	code = htmlCommentRE.ReplaceAllString(code, "")
	code = blockCommentRE.ReplaceAllString(code, "")
	code = lineCommentRE.ReplaceAllString(code, "")
	return strings.TrimSpace(code)
}
