// Package testutil provides hand-rolled mocks for the external
// collaborators.
package testutil

import (
	"context"
	"image"
	"sync"

	"github.com/dotatools/roshclip/recognition"
)

// MockCapturer is a mock implementation of recognition.ScreenCapturer.
type MockCapturer struct {
	CaptureFunc func(ctx context.Context) (image.Image, error)

	mu        sync.Mutex
	CallCount int
}

func (m *MockCapturer) CaptureRegion(ctx context.Context) (image.Image, error) {
	m.mu.Lock()
	m.CallCount++
	m.mu.Unlock()

	if m.CaptureFunc != nil {
		return m.CaptureFunc(ctx)
	}
	// Default: a blank frame the size of the reference timer region
	return image.NewRGBA(image.Rect(0, 0, 46, 11)), nil
}

// MockRecognizer is a mock implementation of recognition.Recognizer.
type MockRecognizer struct {
	RecognizeFunc func(ctx context.Context, img image.Image) ([]recognition.Recognition, error)

	mu        sync.Mutex
	CallCount int
}

func (m *MockRecognizer) RecognizeDigits(ctx context.Context, img image.Image) ([]recognition.Recognition, error) {
	m.mu.Lock()
	m.CallCount++
	m.mu.Unlock()

	if m.RecognizeFunc != nil {
		return m.RecognizeFunc(ctx, img)
	}
	// Default: a clean read
	return []recognition.Recognition{{Text: "5:30", Confidence: 0.99}}, nil
}

// Calls returns the number of recognition attempts made so far.
func (m *MockRecognizer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// MockPublisher is a mock implementation of roshclip.Publisher that records
// everything published.
type MockPublisher struct {
	PublishFunc func(text string) error

	mu        sync.Mutex
	Published []string
}

func (m *MockPublisher) Publish(text string) error {
	m.mu.Lock()
	m.Published = append(m.Published, text)
	m.mu.Unlock()

	if m.PublishFunc != nil {
		return m.PublishFunc(text)
	}
	return nil
}

// Texts returns a copy of everything published so far.
func (m *MockPublisher) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Published...)
}
