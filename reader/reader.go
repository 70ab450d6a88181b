// Package reader defines the interface for decoding webhook deliveries into
// the normalized event the handler consumes.
package reader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sonnes/censor/core"
)

// ErrUnsupportedEvent is returned for event names that carry no inspectable
// body (push, star, ...).
var ErrUnsupportedEvent = errors.New("unsupported event")

// Reader decodes a webhook payload.
type Reader interface {
	// Read decodes payload for the event type name (the X-GitHub-Event
	// header or GITHUB_EVENT_NAME).
	Read(name string, payload io.Reader) (*core.Event, error)
}

// ReadFile decodes the payload stored at path.
func ReadFile(r Reader, name, path string) (*core.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open event payload: %w", err)
	}
	defer f.Close()
	return r.Read(name, f)
}
