// Package roshclip computes Dota 2 timer sequences from an OCR'd game
// clock and publishes them to the clipboard. The heavy lifting lives in the
// subpackages; this package wires the collaborators and runs one invocation
// end to end.
package roshclip

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dotatools/roshclip/recognition"
	"github.com/dotatools/roshclip/timers"
)

// App runs the resolve -> recognize -> build -> publish pipeline.
type App struct {
	cfg Config
}

// New validates the collaborators and returns an App.
func New(cfg Config) (*App, error) {
	cfg.applyDefaults()
	if cfg.Capture == nil {
		return nil, fmt.Errorf("Capture is required")
	}
	if cfg.Recognize == nil {
		return nil, fmt.Errorf("Recognize is required")
	}
	if cfg.Publisher == nil {
		return nil, fmt.Errorf("Publisher is required")
	}
	return &App{cfg: cfg}, nil
}

// Run performs one invocation for the given metric and returns the string
// it published. Cooldown resolution completes before any capture is taken;
// nothing is published when recognition fails, and the sink is cleared on
// exhaustion so a stale timer from an earlier run cannot be pasted by
// mistake.
func (a *App) Run(ctx context.Context, metric timers.Metric, identifier string, forceRefresh bool) (string, error) {
	log := a.cfg.Logger.With().
		Str("run_id", uuid.NewString()).
		Str("metric", metric.String()).
		Logger()

	var (
		offsets []time.Duration
		labels  []string
		err     error
	)
	name := metric.DisplayName()
	if metric.IsCatalog() {
		if a.cfg.Constants == nil {
			return "", fmt.Errorf("metric %s needs a constants cache", metric)
		}
		offsets, err = a.cfg.Constants.Resolve(ctx, metric.Family(), identifier, forceRefresh)
		if err != nil {
			return "", err
		}
		if metric == timers.MetricAbility {
			labels = timers.LevelLabels(len(offsets), a.cfg.Locale)
		}
		name = strings.ReplaceAll(identifier, "_", " ")
	} else {
		offsets = metric.Offsets()
		labels = metric.Labels(a.cfg.Locale)
	}

	base, err := recognition.Acquire(ctx, a.cfg.Capture, a.cfg.Recognize, recognition.Options{
		Captures:     a.cfg.Captures,
		Recognitions: a.cfg.Recognitions,
		Logger:       log,
	})
	if err != nil {
		var exhausted *recognition.ExhaustedError
		if errors.As(err, &exhausted) {
			if clearErr := a.cfg.Publisher.Publish(""); clearErr != nil {
				log.Warn().Err(clearErr).Msg("could not clear the clipboard")
			}
		}
		return "", err
	}

	policy := metric.Composition()
	entries := timers.Build(base, offsets, policy, labels)
	out := timers.Render(name, entries, policy.Separator())
	if err := a.cfg.Publisher.Publish(out); err != nil {
		return "", fmt.Errorf("publishing to clipboard: %w", err)
	}
	log.Info().Str("output", out).Msg("published timers")
	return out, nil
}
