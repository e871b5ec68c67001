// Package recognition turns the on-screen game clock into a duration,
// driving the capture and OCR collaborators under bounded retry budgets.
package recognition

import (
	"context"
	"image"
)

// Recognition is one raw guess from the OCR collaborator.
type Recognition struct {
	Text       string
	Confidence float64
}

// ScreenCapturer grabs a fresh frame of the timer region.
type ScreenCapturer interface {
	CaptureRegion(ctx context.Context) (image.Image, error)
}

// Recognizer extracts digit guesses from a captured frame.
type Recognizer interface {
	RecognizeDigits(ctx context.Context, img image.Image) ([]Recognition, error)
}
