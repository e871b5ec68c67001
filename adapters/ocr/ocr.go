// Package ocr recognizes clock digits with Tesseract.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"github.com/dotatools/roshclip/recognition"
)

// The clock only ever shows digits and a separator, which OCR sometimes
// reads as a dot or comma. Everything else is noise.
const whitelist = "0123456789:.,"

// Tesseract implements recognition.Recognizer on top of gosseract. A fresh
// client is created per frame; Tesseract handles are not safe to reuse
// across SetImage calls with different geometries.
type Tesseract struct {
	language string
}

// NewTesseract returns a Recognizer using the given traineddata language,
// or "eng" when empty.
func NewTesseract(language string) *Tesseract {
	if language == "" {
		language = "eng"
	}
	return &Tesseract{language: language}
}

// RecognizeDigits implements recognition.Recognizer. Tesseract's plain-text
// path reports no per-result confidence, so the single guess carries the
// document confidence unset.
func (t *Tesseract) RecognizeDigits(_ context.Context, img image.Image) ([]recognition.Recognition, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding frame: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(t.language); err != nil {
		return nil, fmt.Errorf("setting language %q: %w", t.language, err)
	}
	if err := client.SetWhitelist(whitelist); err != nil {
		return nil, fmt.Errorf("setting whitelist: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return nil, fmt.Errorf("setting page segmentation: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("loading frame: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("recognizing: %w", err)
	}
	if text == "" {
		return nil, nil
	}
	return []recognition.Recognition{{Text: text}}, nil
}
