package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "fenced js block",
			in:   "```javascript\nconsole.log(1);\n```",
			want: "console.log(1);",
		},
		{
			name: "fence with no language tag",
			in:   "```\nbody { margin: 0 }\n```",
			want: "body { margin: 0 }",
		},
		{
			name: "html comment removed",
			in:   "<p>hi</p><!-- greeting block -->",
			want: "<p>hi</p>",
		},
		{
			name: "multiline html comment removed",
			in:   "<div>a</div>\n<!-- line one\nline two -->\n<div>b</div>",
			want: "<div>a</div>\n\n<div>b</div>",
		},
		{
			name: "block comment removed",
			in:   "/* reset */\nbody { margin: 0 }",
			want: "body { margin: 0 }",
		},
		{
			name: "multiline block comment removed",
			in:   "a();\n/* one\ntwo */\nb();",
			want: "a();\n\nb();",
		},
		{
			name: "whole line slash comment removed",
			in:   "  // setup\nlet x = 1;",
			want: "let x = 1;",
		},
		{
			name: "trailing slash comment kept",
			in:   `const url = "https://example.com/a"; // keep`,
			want: `const url = "https://example.com/a"; // keep`,
		},
		{
			name: "protocol relative url kept",
			in:   `const u = "//cdn.example.com/lib";`,
			want: `const u = "//cdn.example.com/lib";`,
		},
		{
			name: "fence exposed by comment removal",
			in:   "<!--x-->```js\nconsole.log(1)",
			want: "console.log(1)",
		},
		{
			name: "trailing fence exposed by line comment removal",
			in:   "code``` \n// trailing comment",
			want: "code",
		},
		{
			name: "trims surrounding whitespace",
			in:   "\n\n  <h1>Hi</h1>  \n",
			want: "<h1>Hi</h1>",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanCode(tt.in))
		})
	}
}

func TestCleanCodeIdempotent(t *testing.T) {
	inputs := []string{
		"```html\n<h1>Hi</h1><!-- c -->\n```",
		"/* a */ body {} // b",
		"// only a comment",
		"plain text with no markers",
		"```js\nfetch('/x'); // inline\n```",
		"<!--x-->```js\nconsole.log(1)",
		"code``` \n// trailing comment",
		"",
	}
	for _, in := range inputs {
		once := CleanCode(in)
		assert.Equal(t, once, CleanCode(once), "input %q", in)
	}
}
