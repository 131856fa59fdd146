package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// status tags the outcome of one extraction attempt.
type status int

const (
	// statusNoMatch means the strategy found nothing to work with.
	statusNoMatch status = iota
	// statusMatch means the strategy recovered at least one artifact field.
	statusMatch
	// statusMalformed means the strategy found a candidate block but could
	// not parse it. Soft failure: the chain logs it and moves on.
	statusMalformed
)

// result is the tagged outcome of a single strategy attempt. It never leaves
// the parser chain.
type result struct {
	status   status
	artifact Artifact
	err      error
}

func noMatch() result            { return result{status: statusNoMatch} }
func matched(a Artifact) result  { return result{status: statusMatch, artifact: a} }
func malformed(err error) result { return result{status: statusMalformed, err: err} }

// strategy is one self-contained algorithm for recovering the artifact
// triple from raw model output.
type strategy interface {
	name() string
	attempt(raw string) result
}

// artifactKeys are the structured-output keys the model is asked to use.
var artifactKeys = [...]string{"html", "css", "js"}

// decodeObject interprets text as a JSON object carrying at least one of the
// recognized keys. Missing keys default to empty strings; non-string values
// (numbers, null, nested objects) coerce to empty. An object where every
// recognized value coerces to empty is not a usable result, so the caller
// can fall through to later strategies.
func decodeObject(text string) (Artifact, bool, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return Artifact{}, false, err
	}

	found := false
	values := map[string]string{}
	for _, key := range artifactKeys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		found = true
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			values[key] = s
		}
	}
	if !found {
		return Artifact{}, false, nil
	}

	a := Artifact{
		Markup:     strings.TrimSpace(values["html"]),
		Stylesheet: strings.TrimSpace(values["css"]),
		Script:     strings.TrimSpace(values["js"]),
	}
	return a, !a.Empty(), nil
}

// jsonStrategy parses the entire raw text as one structured object.
type jsonStrategy struct{}

func (jsonStrategy) name() string { return "json" }

func (jsonStrategy) attempt(raw string) result {
	// A whole-text parse failure is expected for most model replies, so it
	// is a quiet no-match rather than a malformed outcome.
	a, ok, err := decodeObject(raw)
	if err != nil || !ok {
		return noMatch()
	}
	return matched(a)
}

var (
	leadFenceRE  = regexp.MustCompile("(?i)^```(?:json)?[ \t]*\n?")
	trailFenceRE = regexp.MustCompile("(?i)\n?[ \t]*```$")
)

// embeddedJSONStrategy recovers a structured object buried in prose or
// markdown. It takes the greedy span from the first '{' to the last '}' —
// deliberately not the shortest balanced span, so a complete intended object
// is favored over a truncated nested one. Braces inside string literals can
// defeat this; that is a documented limitation of the span heuristic.
type embeddedJSONStrategy struct{}

func (embeddedJSONStrategy) name() string { return "embedded-json" }

func (embeddedJSONStrategy) attempt(raw string) result {
	text := strings.TrimSpace(raw)
	text = leadFenceRE.ReplaceAllString(text, "")
	text = trailFenceRE.ReplaceAllString(text, "")

	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first < 0 || last < first {
		return noMatch()
	}

	a, ok, err := decodeObject(text[first : last+1])
	if err != nil {
		return malformed(fmt.Errorf("embedded brace span is not valid JSON: %w", err))
	}
	if !ok {
		return noMatch()
	}
	return matched(a)
}

var (
	styleRE   = regexp.MustCompile(`(?is)<style[^>]*>(.*?)</style>`)
	scriptRE  = regexp.MustCompile(`(?is)<script([^>]*)>(.*?)</script>`)
	srcAttrRE = regexp.MustCompile(`(?i)\bsrc\s*=`)
	bodyRE    = regexp.MustCompile(`(?is)<body[^>]*>(.*?)</body>`)
	headRE    = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)

	// One pattern per container tag: RE2 has no backreferences, so the
	// close tag is spelled out instead of matched by \1.
	containerREs = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<div\b[^>]*>.*?</div>`),
		regexp.MustCompile(`(?is)<main\b[^>]*>.*?</main>`),
		regexp.MustCompile(`(?is)<section\b[^>]*>.*?</section>`),
		regexp.MustCompile(`(?is)<article\b[^>]*>.*?</article>`),
	}
)

// htmlStrategy treats the raw text as literal markup and pulls the artifact
// fields out of it heuristically. All tag matching is case-insensitive.
type htmlStrategy struct{}

func (htmlStrategy) name() string { return "html" }

func (htmlStrategy) attempt(raw string) result {
	a := Artifact{
		Stylesheet: firstStyle(raw),
		Script:     firstInlineScript(raw),
		Markup:     extractMarkup(raw),
	}
	if a.Empty() {
		return noMatch()
	}
	return matched(a)
}

func firstStyle(text string) string {
	if m := styleRE.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// firstInlineScript prefers the first <script> without a src attribute;
// when every script is an external include it falls back to the first one
// regardless.
func firstInlineScript(text string) string {
	blocks := scriptRE.FindAllStringSubmatch(text, -1)
	if len(blocks) == 0 {
		return ""
	}
	for _, m := range blocks {
		if !srcAttrRE.MatchString(m[1]) {
			return strings.TrimSpace(m[2])
		}
	}
	return strings.TrimSpace(blocks[0][2])
}

// extractMarkup picks the markup field: <body> inner content first; else,
// for a full document, the whole text with the <head> removed; else the
// earliest block-level container element, whole element inclusive.
func extractMarkup(text string) string {
	if m := bodyRE.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if strings.Contains(strings.ToLower(text), "<html") {
		return strings.TrimSpace(headRE.ReplaceAllString(text, ""))
	}

	best := -1
	var element string
	for _, re := range containerREs {
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if best < 0 || loc[0] < best {
			best = loc[0]
			element = text[loc[0]:loc[1]]
		}
	}
	return strings.TrimSpace(element)
}
