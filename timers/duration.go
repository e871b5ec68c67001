// Package timers holds the pure timer arithmetic: formatting and parsing
// of game-clock tokens, the tracked metric registry, and the timestamp
// sequence builder.
package timers

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const secondsInAMinute = 60

// FormatTimer renders a duration as a game-clock token: minutes unpadded,
// seconds always two digits. Minutes keep counting past the hour, matching
// the in-game clock ("754:56"). Negative input is a caller bug.
func FormatTimer(d time.Duration) string {
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/secondsInAMinute, total%secondsInAMinute)
}

// ParseTimer parses a game-clock token back into a duration. The minutes
// group may be any width, the seconds group one or two digits and below 60.
// It is the inverse of FormatTimer for every valid token.
func ParseTimer(s string) (time.Duration, error) {
	mins, secs, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("timer %q has no minutes:seconds separator", s)
	}
	m, err := parseDigits(mins)
	if err != nil {
		return 0, fmt.Errorf("timer %q has a bad minutes group: %w", s, err)
	}
	sec, err := parseDigits(secs)
	if err != nil {
		return 0, fmt.Errorf("timer %q has a bad seconds group: %w", s, err)
	}
	if len(secs) > 2 || sec >= secondsInAMinute {
		return 0, fmt.Errorf("timer %q has an out-of-range seconds group", s)
	}
	return time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}

// parseDigits is strconv.Atoi restricted to non-empty all-digit input, so
// that signs and spaces are rejected rather than tolerated.
func parseDigits(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty digit group")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-digit character %q", r)
		}
	}
	return strconv.Atoi(s)
}
