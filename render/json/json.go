// Package json renders outcomes as JSON (serializes core.Outcome as-is).
package json

import (
	"encoding/json"
	"io"

	"github.com/sonnes/censor/core"
)

// Renderer renders an outcome to JSON.
type Renderer struct {
	// Indent controls pretty-printing. When true, output is indented.
	Indent bool
}

// New creates a JSON Renderer with indentation enabled.
func New() *Renderer {
	return &Renderer{Indent: true}
}

// Render writes the outcome as a single JSON document followed by a newline.
func (r *Renderer) Render(w io.Writer, o *core.Outcome) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if r.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(o)
}
