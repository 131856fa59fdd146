// Package ai drives a website generation run: prompt the model, parse its
// output into artifacts, sanitize the script, and write the result to disk.
package ai

import "context"

// Client is one code-generation model backend. Complete sends a system
// instruction plus a user prompt and returns the model's raw text output.
// An empty completion is a client-level error.
type Client interface {
	Name() string
	Complete(ctx context.Context, system, user string) (string, error)
}
