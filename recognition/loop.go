package recognition

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dotatools/roshclip/internal/retry"
	"github.com/dotatools/roshclip/timers"
)

const (
	// DefaultCaptures bounds how many fresh frames are taken.
	DefaultCaptures = 5
	// DefaultRecognitions bounds the OCR attempts per frame.
	DefaultRecognitions = 10
)

// Options configures the acquisition loop. Zero-value fields get defaults.
type Options struct {
	Captures     int
	Recognitions int
	Logger       zerolog.Logger
}

func (o *Options) applyDefaults() {
	if o.Captures == 0 {
		o.Captures = DefaultCaptures
	}
	if o.Recognitions == 0 {
		o.Recognitions = DefaultRecognitions
	}
}

// ExhaustedError reports that every capture and recognition attempt was
// spent without a usable timer string. Callers must not publish anything
// on this path.
type ExhaustedError struct {
	Captures     int
	Recognitions int
	Last         error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("no usable timer after %d captures x %d recognition attempts: %v",
		e.Captures, e.Recognitions, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

var errNoText = errors.New("recognizer produced no text")

// Acquire obtains the base game time. Each captured frame gets up to
// Recognitions OCR attempts; when those run out a fresh frame is captured,
// up to Captures times. The first non-empty result that survives repair and
// parsing wins immediately.
func Acquire(ctx context.Context, capture ScreenCapturer, recognize Recognizer, opts Options) (time.Duration, error) {
	opts.applyDefaults()

	d, err := retry.Do(ctx, retry.Options{
		Name:     "capture",
		Attempts: opts.Captures,
		Logger:   opts.Logger,
	}, func(frame int) (time.Duration, error) {
		img, err := capture.CaptureRegion(ctx)
		if err != nil {
			return 0, fmt.Errorf("capturing frame: %w", err)
		}
		return retry.Do(ctx, retry.Options{
			Name:     "recognize",
			Attempts: opts.Recognitions,
			Logger:   opts.Logger,
		}, func(attempt int) (time.Duration, error) {
			results, err := recognize.RecognizeDigits(ctx, img)
			if err != nil {
				return 0, err
			}
			text := firstText(results)
			if text == "" {
				return 0, errNoText
			}
			parsed, err := timers.ParseTimer(Repair(text))
			if err != nil {
				return 0, err
			}
			return parsed, nil
		})
	})
	if err != nil {
		var exhausted *retry.ExhaustedError
		if errors.As(err, &exhausted) {
			return 0, &ExhaustedError{
				Captures:     opts.Captures,
				Recognitions: opts.Recognitions,
				Last:         exhausted.Last,
			}
		}
		return 0, err
	}

	opts.Logger.Info().Str("timer", timers.FormatTimer(d)).Msg("recognized base time")
	return d, nil
}

func firstText(results []Recognition) string {
	for _, r := range results {
		if t := strings.TrimSpace(r.Text); t != "" {
			return t
		}
	}
	return ""
}

// Repair fixes the two recognition defects the engine produces on the game
// clock: the colon read as a dot or comma, and the colon dropped entirely.
// When the separator is missing, the last two characters are the seconds
// group.
func Repair(text string) string {
	s := strings.Map(func(r rune) rune {
		switch r {
		case '.', ',':
			return ':'
		case ' ', '\t':
			return -1
		}
		return r
	}, text)
	if !strings.Contains(s, ":") && len(s) > 2 {
		s = s[:len(s)-2] + ":" + s[len(s)-2:]
	}
	return s
}
