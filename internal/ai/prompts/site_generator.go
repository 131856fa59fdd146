package prompts

import "fmt"

// SystemInstruction pins the model to the structured-output contract the
// parser expects first: a bare JSON object with html/css/js keys and no
// external includes.
func SystemInstruction() string {
	return `You are a code generator. Respond ONLY with valid JSON in this exact format:
{"html":"...","css":"...","js":"..."}
No explanations, markdown, or extra text. Do not use external <script src> or <link> tags.`
}

// SitePrompt renders the generation prompt for a user's site description.
func SitePrompt(userPrompt string) string {
	return fmt.Sprintf(`You are an expert web developer AI.

The user asked: "%s"

Automatically break the request into parts and produce full valid code:
  "html": the page body content (HTML5)
  "css": the full stylesheet (CSS3)
  "js": the page behavior (vanilla JavaScript, no frameworks)

The HTML must not include its own <link> or <script src> tags; the stylesheet
and script are attached automatically. Return only runnable code, no
explanations or commented-out text.`, userPrompt)
}
