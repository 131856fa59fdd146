// Package site persists an extracted artifact triple as a loadable static
// site: index.html, styles.css, and app.js inside a destination directory.
package site

import (
	"fmt"
	"html"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"promptsite/internal/extract"
)

// Fixed output filenames. The preview server expects exactly these names,
// with IndexFile as the directory index.
const (
	IndexFile  = "index.html"
	StylesFile = "styles.css"
	ScriptFile = "app.js"
)

const (
	stylesPlaceholder = "/* empty */"
	scriptPlaceholder = "// empty"
)

// indexShell wraps the extracted markup so the three files always load
// together, regardless of how complete the model's own document was.
const indexShell = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>LLM-generated site</title>
  <link rel="stylesheet" href="./styles.css" />
</head>
<body>
%s

<script src="./app.js" defer></script>
</body>
</html>`

// fallbackShell shows raw model output when no strategy could extract
// anything, so the user still sees what came back.
const fallbackShell = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Generation failed</title>
</head>
<body>
<h1>Could not extract a site from the model output</h1>
<pre>%s</pre>
</body>
</html>`

// WriteError reports a filesystem failure while persisting artifacts.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Writer persists artifact triples. Pre-existing files at the destination
// are overwritten; there are no merge semantics.
type Writer struct {
	logger *zap.Logger
}

func NewWriter(logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{logger: logger}
}

// Write persists the triple under dir, creating the directory if needed.
// The markup always goes through the index shell, even when it already was a
// full document, so index.html references styles.css and app.js by their
// fixed relative names. Empty stylesheet/script fields get a placeholder
// comment rather than an empty file.
func (w *Writer) Write(dir string, a extract.Artifact) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &WriteError{Path: dir, Err: err}
	}

	files := []struct {
		name    string
		content string
	}{
		{IndexFile, fmt.Sprintf(indexShell, a.Markup)},
		{StylesFile, orPlaceholder(a.Stylesheet, stylesPlaceholder)},
		{ScriptFile, orPlaceholder(a.Script, scriptPlaceholder)},
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, []byte(f.content), 0o644); err != nil {
			return &WriteError{Path: path, Err: err}
		}
		w.logger.Debug("wrote artifact file", zap.String("path", path))
	}
	return nil
}

// WriteFallback writes an index.html that displays the raw model output,
// HTML-escaped, inside a <pre> block. Used by callers that want to surface
// unparseable output instead of failing silently.
func (w *Writer) WriteFallback(dir, raw string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &WriteError{Path: dir, Err: err}
	}
	path := filepath.Join(dir, IndexFile)
	content := fmt.Sprintf(fallbackShell, html.EscapeString(raw))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

func orPlaceholder(content, placeholder string) string {
	if content == "" {
		return placeholder
	}
	return content
}

// Clear removes everything inside dir. It is the destructive pre-step a
// caller may run before Write; a missing directory is not an error.
func Clear(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &WriteError{Path: dir, Err: err}
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return &WriteError{Path: filepath.Join(dir, entry.Name()), Err: err}
		}
	}
	return nil
}
