// Package clip publishes to the system clipboard.
package clip

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Clipboard implements roshclip.Publisher on the system clipboard.
type Clipboard struct{}

// New returns the system clipboard publisher.
func New() *Clipboard {
	return &Clipboard{}
}

// Publish writes text to the clipboard; an empty string clears it.
func (*Clipboard) Publish(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}
