package roshclip

import (
	"github.com/rs/zerolog"

	"github.com/dotatools/roshclip/constants"
	"github.com/dotatools/roshclip/locale"
	"github.com/dotatools/roshclip/recognition"
)

// Config wires the collaborators into an App.
type Config struct {
	// Capture grabs the timer region of the screen. Required.
	Capture recognition.ScreenCapturer

	// Recognize extracts digit guesses from a frame. Required.
	Recognize recognition.Recognizer

	// Publisher receives the final string. Required.
	Publisher Publisher

	// Constants resolves cooldowns for the item and ability metrics.
	// Optional when only static metrics are used.
	Constants *constants.Cache

	// Locale is the label translation table. If nil, English.
	Locale locale.Table

	// Captures and Recognitions override the retry budgets. Zero keeps
	// the defaults.
	Captures     int
	Recognitions int

	Logger zerolog.Logger
}

func (c *Config) applyDefaults() {
	if c.Locale == nil {
		c.Locale = locale.For("en")
	}
}
