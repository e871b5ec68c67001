// Package screen captures the game-clock region of the primary display.
package screen

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/kbinani/screenshot"
)

// Reference geometry of the game clock on a 1920x1080 display. The HUD is
// laid out proportionally to the resolution, so the region scales with the
// display rather than sitting at fixed pixels.
const (
	refWidth  = 1920
	refHeight = 1080
	refLeft   = 937
	refTop    = 24
	refRight  = 983
	refBottom = 35
)

// Capturer grabs the timer region from one display.
type Capturer struct {
	display int
}

// NewCapturer returns a Capturer for the primary display.
func NewCapturer() *Capturer {
	return &Capturer{display: 0}
}

// CaptureRegion implements recognition.ScreenCapturer.
func (c *Capturer) CaptureRegion(_ context.Context) (image.Image, error) {
	if screenshot.NumActiveDisplays() <= c.display {
		return nil, fmt.Errorf("display %d is not active", c.display)
	}
	region := TimerRegion(screenshot.GetDisplayBounds(c.display))
	img, err := screenshot.CaptureRect(region)
	if err != nil {
		return nil, fmt.Errorf("capturing %v: %w", region, err)
	}
	return img, nil
}

// TimerRegion scales the reference clock region onto the given display
// bounds.
func TimerRegion(display image.Rectangle) image.Rectangle {
	scaleX := float64(display.Dx()) / refWidth
	scaleY := float64(display.Dy()) / refHeight
	return image.Rect(
		display.Min.X+int(math.Round(refLeft*scaleX)),
		display.Min.Y+int(math.Round(refTop*scaleY)),
		display.Min.X+int(math.Round(refRight*scaleX)),
		display.Min.Y+int(math.Round(refBottom*scaleY)),
	)
}
