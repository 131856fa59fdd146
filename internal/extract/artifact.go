// Package extract recovers the three site source artifacts (markup,
// stylesheet, script) from raw model output. The model may return strict
// JSON, JSON buried in prose or markdown fences, a full HTML document with
// inline <style>/<script> tags, or something in between; a chain of
// extraction strategies tries each interpretation in a fixed order and the
// first usable result wins.
package extract

import (
	"fmt"

	"promptsite/internal/utils"
)

// previewLimit caps how much raw output an UnparseableError carries.
const previewLimit = 1000

// Artifact is the canonical extracted result. Every field is always present;
// a field the model did not produce is the empty string. Fields are
// independent of each other.
type Artifact struct {
	Markup     string `json:"html"`
	Stylesheet string `json:"css"`
	Script     string `json:"js"`
}

// Empty reports whether no field carries content.
func (a Artifact) Empty() bool {
	return a.Markup == "" && a.Stylesheet == "" && a.Script == ""
}

// WithScript returns a copy of the artifact with the script replaced. The
// sanitizer uses this so the original artifact stays immutable.
func (a Artifact) WithScript(script string) Artifact {
	a.Script = script
	return a
}

// ParsedOutput is an Artifact plus the name of the strategy that produced
// it, surfaced so callers can report which extraction tier succeeded.
type ParsedOutput struct {
	Artifact
	Strategy string
}

// UnparseableError is returned when every extraction strategy was exhausted
// without recovering any content. Preview holds a truncated copy of the raw
// model output for diagnostics.
type UnparseableError struct {
	Preview string
}

func (e *UnparseableError) Error() string {
	return fmt.Sprintf("model output matched no extraction strategy (preview: %s)", e.Preview)
}

func newUnparseableError(raw string) *UnparseableError {
	return &UnparseableError{Preview: utils.Truncate(raw, previewLimit)}
}
