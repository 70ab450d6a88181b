// Package render defines the interface for writing a redaction outcome in
// various output formats.
package render

import (
	"io"

	"github.com/sonnes/censor/core"
)

// Renderer writes an outcome to the given writer in a specific format.
type Renderer interface {
	Render(w io.Writer, o *core.Outcome) error
}
