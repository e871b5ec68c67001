// Package cli implements the roshclip command line.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dotatools/roshclip"
	"github.com/dotatools/roshclip/adapters/clip"
	"github.com/dotatools/roshclip/adapters/ocr"
	"github.com/dotatools/roshclip/adapters/screen"
	"github.com/dotatools/roshclip/constants"
	"github.com/dotatools/roshclip/internal/config"
	"github.com/dotatools/roshclip/locale"
	"github.com/dotatools/roshclip/recognition"
	"github.com/dotatools/roshclip/timers"
)

var (
	configPath   string
	langFlag     string
	logLevel     string
	forceRefresh bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "roshclip [metric] [identifier]",
	Short: "Dota 2 timer macros for your clipboard",
	Long: `roshclip reads the in-game clock off your screen and copies derived
timers to the clipboard: Roshan respawn windows, glyph and buyback
cooldowns, or any item/ability cooldown from the OpenDota constants
database. Handy in combination with the Win+V clipboard history.`,
	Args: cobra.MaximumNArgs(2),
	Run:  runTrack,
}

func init() {
	RootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: ~/.config/roshclip/config.yaml)")
	RootCmd.Flags().StringVarP(&langFlag, "lang", "l", "", "Output label language (en or ru)")
	RootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	RootCmd.Flags().BoolVarP(&forceRefresh, "force-refresh", "F", false, "Refetch the constants cache regardless of freshness")
}

func runTrack(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitErr("config", err)
	}
	logger := setupLogger(cfg.Logging)

	metric := timers.MetricRoshan
	if len(args) > 0 {
		if metric, err = timers.ParseMetric(args[0]); err != nil {
			exitErr("usage", err)
		}
	}
	identifier := ""
	if len(args) > 1 {
		identifier = args[1]
	}
	lang := cfg.Output.Language
	if langFlag != "" {
		lang = langFlag
	}

	cache, err := constants.NewCache(cfg.Cache.Dir, constants.CacheOptions{
		Client: constants.NewClient(cfg.Cache.ConstantsURL, logger),
		TTL:    cfg.Cache.TTLDuration(),
		Logger: logger,
	})
	if err != nil {
		exitErr("cache", err)
	}

	app, err := roshclip.New(roshclip.Config{
		Capture:      screen.NewCapturer(),
		Recognize:    ocr.NewTesseract(cfg.Recognition.OCRLanguage),
		Publisher:    clip.New(),
		Constants:    cache,
		Locale:       locale.For(lang),
		Captures:     cfg.Recognition.Captures,
		Recognitions: cfg.Recognition.Recognitions,
		Logger:       logger,
	})
	if err != nil {
		exitErr("setup", err)
	}

	fmt.Printf("Tracking %s, reading the game clock...\n", metric)
	out, err := app.Run(cmd.Context(), metric, identifier, forceRefresh)
	if err != nil {
		exitErr(stage(err), err)
	}
	fmt.Printf("Copied to clipboard: %s\n", out)
}

// stage names the pipeline stage a failure came from, so the exit message
// says what broke rather than just that something did.
func stage(err error) string {
	var (
		missing      *constants.MissingIdentifierError
		notFound     *constants.NotFoundError
		notSupported *constants.NotSupportedError
		fetch        *constants.FetchError
		exhausted    *recognition.ExhaustedError
	)
	switch {
	case errors.As(err, &missing):
		return "usage"
	case errors.As(err, &notFound), errors.As(err, &notSupported):
		return "lookup"
	case errors.As(err, &fetch):
		return "fetch"
	case errors.As(err, &exhausted):
		return "recognition"
	default:
		return "run"
	}
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	levelName := cfg.Level
	if logLevel != "" {
		levelName = logLevel
	}
	level := zerolog.WarnLevel
	switch levelName {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func exitErr(stage string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", stage, err)
	os.Exit(1)
}
