package timers

import (
	"strings"
	"time"
)

// Policy selects how a metric's offsets combine with the recognized base
// time.
type Policy int

const (
	// Accumulate sums each offset onto the previous entry: milestones that
	// happen one after another.
	Accumulate Policy = iota
	// Anchor measures every offset from the base independently: parallel
	// milestones from one point in time.
	Anchor
)

// Separator is the joiner between rendered entries: successive milestones
// read as a progression, parallel ones as alternatives.
func (p Policy) Separator() string {
	if p == Accumulate {
		return " -> "
	}
	return " || "
}

// Entry is one formatted timestamp with an optional label.
type Entry struct {
	Label string
	Timer string
}

// Build turns a base time and its offsets into the ordered entry sequence.
// The base is always the first entry. Labels are zipped onto entries when
// the count matches; a label sequence one short of the entries leaves the
// base entry unlabeled; anything else is ignored.
func Build(base time.Duration, offsets []time.Duration, p Policy, labels []string) []Entry {
	entries := make([]Entry, 0, len(offsets)+1)
	entries = append(entries, Entry{Timer: FormatTimer(base)})

	cur := base
	for _, off := range offsets {
		switch p {
		case Accumulate:
			cur += off
		case Anchor:
			cur = base + off
		}
		entries = append(entries, Entry{Timer: FormatTimer(cur)})
	}

	switch len(labels) {
	case len(entries):
		for i := range entries {
			entries[i].Label = labels[i]
		}
	case len(entries) - 1:
		for i := range labels {
			entries[i+1].Label = labels[i]
		}
	}
	return entries
}

// Render joins the entries into the final clipboard string, prefixed by the
// metric's display name.
func Render(name string, entries []Entry, sep string) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		if e.Label != "" {
			parts[i] = e.Label + " " + e.Timer
		} else {
			parts[i] = e.Timer
		}
	}
	return name + " " + strings.Join(parts, sep)
}
