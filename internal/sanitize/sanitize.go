// Package sanitize hardens extracted scripts before they are written to
// disk. Generated previews are served locally, so constructs that reach out
// to the network (fetch, XMLHttpRequest, dynamic remote script/style tags)
// or evaluate strings as code are replaced with inert equivalents. Matching
// is textual: the input is unstructured model output, not a validated AST,
// and anything not confidently matched is left in place. This is best-effort
// hardening for a local preview, not a security boundary.
package sanitize

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Category names one class of unsafe construct. Categories can be disabled
// individually via Config.
type Category string

const (
	CategoryFetch  Category = "fetch"
	CategoryXHR    Category = "xhr"
	CategoryInject Category = "inject"
	CategoryEval   Category = "eval"
	CategoryCustom Category = "custom"
)

// Finding records one replacement the sanitizer made.
type Finding struct {
	Category Category `json:"category"`
	Rule     string   `json:"rule"`
	Match    string   `json:"match"`
	// Offset is the byte offset of the match in the original input.
	Offset int `json:"offset"`
}

// Report lists every replacement made during one Sanitize call. An empty
// report means the script was clean.
type Report struct {
	Findings []Finding `json:"findings"`
}

// Clean reports whether nothing was replaced.
func (r Report) Clean() bool { return len(r.Findings) == 0 }

// Config selects which rule categories are active and may append custom
// removal patterns. The zero value disables everything; use DefaultConfig
// for the everything-on default.
type Config struct {
	Fetch  bool
	XHR    bool
	Inject bool
	Eval   bool

	// CustomPatterns are extra regular expressions whose matches are
	// removed outright. They compile at construction; an invalid pattern
	// fails New, never Sanitize.
	CustomPatterns []string
}

// DefaultConfig enables every built-in category.
func DefaultConfig() Config {
	return Config{Fetch: true, XHR: true, Inject: true, Eval: true}
}

// rule is one pattern/replacement pair.
type rule struct {
	name     string
	category Category
	re       *regexp.Regexp
	// replacement may reference capture groups with $1 etc.
	replacement string
}

// Inert stand-ins. The fetch stub keeps call sites working: it is a function
// expression, so the original argument list still applies to it, and it
// resolves to a response-shaped object.
const (
	fetchStub = `(function(){return Promise.resolve({ok:true,status:200,json:function(){return Promise.resolve({})},text:function(){return Promise.resolve("")}})})`
	xhrStub   = `({open:function(){},send:function(){},setRequestHeader:function(){},abort:function(){},addEventListener:function(){}})`
	evalStub  = `(function(){})`
	funcStub  = `(function(){return function(){}})`
)

// The call rules consume an optional window/self/globalThis receiver so the
// whole member access is replaced in one piece. A call through any other
// receiver (cache.fetch, api.eval) is deliberately not matched: rewriting
// just the method name would leave a dangling "receiver." behind, a syntax
// error that kills the whole script, so an unrecognized receiver means the
// construct is left in place. RE2 has no lookbehind, so the leading
// `(^|[^.\w$])` group stands guard against matching after a dot.
const optReceiver = `(?:(?:window|self|globalThis)\s*\.\s*)?`

var builtinRules = map[Category][]rule{
	CategoryFetch: {
		{
			name:        "fetch-call",
			category:    CategoryFetch,
			re:          regexp.MustCompile(`(^|[^.\w$])` + optReceiver + `fetch\s*\(`),
			replacement: `$1` + fetchStub + `(`,
		},
	},
	CategoryXHR: {
		{
			name:        "xhr-new",
			category:    CategoryXHR,
			re:          regexp.MustCompile(`\bnew\s+` + optReceiver + `XMLHttpRequest\s*(?:\(\s*\))?`),
			replacement: xhrStub,
		},
	},
	CategoryInject: {
		{
			name:        "inject-create-element",
			category:    CategoryInject,
			re:          regexp.MustCompile(`(?i)document\.createElement\s*\(\s*['"](?:script|link)['"]\s*\)`),
			replacement: `document.createElement("template")`,
		},
		{
			name:        "inject-src-assign",
			category:    CategoryInject,
			re:          regexp.MustCompile(`(?i)(\.(?:src|href)\s*=\s*)['"](?:https?:)?//[^'"]*['"]`),
			replacement: `$1""`,
		},
		{
			name:        "inject-set-attribute",
			category:    CategoryInject,
			re:          regexp.MustCompile(`(?i)(setAttribute\s*\(\s*['"](?:src|href)['"]\s*,\s*)['"](?:https?:)?//[^'"]*['"]`),
			replacement: `$1""`,
		},
	},
	CategoryEval: {
		{
			name:        "eval-call",
			category:    CategoryEval,
			re:          regexp.MustCompile(`(^|[^.\w$])` + optReceiver + `eval\s*\(`),
			replacement: `$1` + evalStub + `(`,
		},
		{
			name:        "eval-new-function",
			category:    CategoryEval,
			re:          regexp.MustCompile(`\bnew\s+` + optReceiver + `Function\s*\(`),
			replacement: funcStub + `(`,
		},
	},
}

// Sanitizer applies its rule set to script text. Safe for concurrent use
// once constructed; Sanitize itself never fails.
type Sanitizer struct {
	rules []rule
}

// New builds a sanitizer from cfg. The only error source is an invalid
// custom pattern.
func New(cfg Config) (*Sanitizer, error) {
	var rules []rule
	for _, cat := range []struct {
		enabled  bool
		category Category
	}{
		{cfg.Fetch, CategoryFetch},
		{cfg.XHR, CategoryXHR},
		{cfg.Inject, CategoryInject},
		{cfg.Eval, CategoryEval},
	} {
		if cat.enabled {
			rules = append(rules, builtinRules[cat.category]...)
		}
	}

	for i, pattern := range cfg.CustomPatterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("custom sanitize pattern %d (%q): %w", i, pattern, err)
		}
		rules = append(rules, rule{
			name:        fmt.Sprintf("custom-%d", i),
			category:    CategoryCustom,
			re:          re,
			replacement: "",
		})
	}

	return &Sanitizer{rules: rules}, nil
}

// replacementSpan is one accepted match: where it sits in the original
// input, what goes in its place, and the finding that records it.
type replacementSpan struct {
	start, end  int
	replacement string
	finding     Finding
}

func overlapsAny(spans []replacementSpan, start, end int) bool {
	for _, sp := range spans {
		if start < sp.end && sp.start < end {
			return true
		}
	}
	return false
}

// Sanitize replaces every matched construct with its inert stand-in and
// reports what was replaced. Unmatched or ambiguous constructs pass through
// unchanged. All rules scan the original input, so a finding's Match and
// Offset always describe the caller's text, never another rule's stub, and
// inserted stubs are not themselves rescanned. Where matches overlap, the
// rule listed first wins (built-ins before custom patterns).
func (s *Sanitizer) Sanitize(script string) (string, Report) {
	var spans []replacementSpan
	for _, r := range s.rules {
		for _, m := range r.re.FindAllStringSubmatchIndex(script, -1) {
			if overlapsAny(spans, m[0], m[1]) {
				continue
			}
			spans = append(spans, replacementSpan{
				start:       m[0],
				end:         m[1],
				replacement: string(r.re.ExpandString(nil, r.replacement, script, m)),
				finding: Finding{
					Category: r.category,
					Rule:     r.name,
					Match:    script[m[0]:m[1]],
					Offset:   m[0],
				},
			})
		}
	}
	if len(spans) == 0 {
		return script, Report{}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var sb strings.Builder
	var report Report
	last := 0
	for _, sp := range spans {
		sb.WriteString(script[last:sp.start])
		sb.WriteString(sp.replacement)
		last = sp.end
		report.Findings = append(report.Findings, sp.finding)
	}
	sb.WriteString(script[last:])
	return sb.String(), report
}
