package timers

import (
	"fmt"
	"strings"
	"time"

	"github.com/dotatools/roshclip/locale"
)

// Metric is a closed enumeration of the things the tool can track. Static
// kinds carry their offsets here; catalog kinds resolve offsets through the
// constants cache instead.
type Metric int

const (
	// MetricRoshan tracks the Roshan death timer: aegis expiration, then
	// the minimum and maximum respawn windows.
	MetricRoshan Metric = iota
	// MetricGlyph tracks the glyph of fortification cooldown.
	MetricGlyph
	// MetricBuyback tracks the buyback cooldown.
	MetricBuyback
	// MetricItem tracks an item cooldown resolved from the constants cache.
	MetricItem
	// MetricAbility tracks an ability cooldown resolved from the constants
	// cache, one timestamp per level.
	MetricAbility
)

// ParseMetric maps a CLI argument to a Metric.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(s) {
	case "roshan", "rosh":
		return MetricRoshan, nil
	case "glyph":
		return MetricGlyph, nil
	case "buyback", "bb":
		return MetricBuyback, nil
	case "item":
		return MetricItem, nil
	case "ability":
		return MetricAbility, nil
	}
	return 0, fmt.Errorf("unknown metric %q (want roshan, glyph, buyback, item or ability)", s)
}

func (m Metric) String() string {
	switch m {
	case MetricRoshan:
		return "roshan"
	case MetricGlyph:
		return "glyph"
	case MetricBuyback:
		return "buyback"
	case MetricItem:
		return "item"
	case MetricAbility:
		return "ability"
	}
	panic(fmt.Sprintf("timers: unknown metric %d", int(m)))
}

// DisplayName is the prefix of the clipboard string. Catalog kinds have no
// fixed name; the caller substitutes the looked-up identifier.
func (m Metric) DisplayName() string {
	switch m {
	case MetricRoshan:
		return "Roshan"
	case MetricGlyph:
		return "Glyph"
	case MetricBuyback:
		return "Buyback"
	case MetricItem, MetricAbility:
		return ""
	}
	panic(fmt.Sprintf("timers: unknown metric %d", int(m)))
}

// IsCatalog reports whether the metric resolves its offsets from the
// constants cache rather than the static table.
func (m Metric) IsCatalog() bool {
	return m == MetricItem || m == MetricAbility
}

// Family names the upstream constants dataset a catalog metric reads from.
// Empty for static kinds.
func (m Metric) Family() string {
	switch m {
	case MetricItem:
		return "items"
	case MetricAbility:
		return "abilities"
	case MetricRoshan, MetricGlyph, MetricBuyback:
		return ""
	}
	panic(fmt.Sprintf("timers: unknown metric %d", int(m)))
}

// Offsets is the static offset table. It is total over the non-catalog
// kinds and identical on every call; asking for a catalog kind is a
// programming error.
func (m Metric) Offsets() []time.Duration {
	switch m {
	case MetricRoshan:
		return []time.Duration{5 * time.Minute, 3 * time.Minute, 3 * time.Minute}
	case MetricGlyph:
		return []time.Duration{5 * time.Minute}
	case MetricBuyback:
		return []time.Duration{8 * time.Minute}
	case MetricItem, MetricAbility:
		panic("timers: catalog metrics resolve offsets through the constants cache")
	}
	panic(fmt.Sprintf("timers: unknown metric %d", int(m)))
}

// Composition selects how offsets combine with the recognized base time.
func (m Metric) Composition() Policy {
	switch m {
	case MetricRoshan:
		return Accumulate
	case MetricGlyph, MetricBuyback, MetricItem, MetricAbility:
		return Anchor
	}
	panic(fmt.Sprintf("timers: unknown metric %d", int(m)))
}

// Labels returns the localized label sequence for the metric, aligned with
// the entries Build produces, or nil when the kind is unlabeled. Catalog
// labels depend on the resolved offset count and come from LevelLabels.
func (m Metric) Labels(tbl locale.Table) []string {
	switch m {
	case MetricRoshan:
		return []string{tbl.Get("kill"), tbl.Get("exp"), tbl.Get("min"), tbl.Get("max")}
	case MetricGlyph, MetricBuyback, MetricItem, MetricAbility:
		return nil
	}
	panic(fmt.Sprintf("timers: unknown metric %d", int(m)))
}

// LevelLabels builds per-level labels for an ability cooldown vector. The
// common three-value case is an ultimate, labeled by the levels it is
// earned at; anything else is labeled by rank. One value means a flat
// cooldown and carries no labels.
func LevelLabels(n int, tbl locale.Table) []string {
	if n <= 1 {
		return nil
	}
	lvl := tbl.Get("lvl")
	if n == 3 {
		return []string{lvl + " 6", lvl + " 12", lvl + " 18"}
	}
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("%s %d", lvl, i+1)
	}
	return labels
}
