package screen

import (
	"image"
	"testing"
)

func TestTimerRegion_ReferenceResolution(t *testing.T) {
	got := TimerRegion(image.Rect(0, 0, 1920, 1080))
	want := image.Rect(937, 24, 983, 35)
	if got != want {
		t.Errorf("TimerRegion(1920x1080) = %v, want %v", got, want)
	}
}

func TestTimerRegion_ScalesWithResolution(t *testing.T) {
	got := TimerRegion(image.Rect(0, 0, 3840, 2160))
	want := image.Rect(1874, 48, 1966, 70)
	if got != want {
		t.Errorf("TimerRegion(3840x2160) = %v, want %v", got, want)
	}
}

func TestTimerRegion_SecondaryDisplayOffset(t *testing.T) {
	got := TimerRegion(image.Rect(1920, 0, 3840, 1080))
	want := image.Rect(1920+937, 24, 1920+983, 35)
	if got != want {
		t.Errorf("TimerRegion(offset display) = %v, want %v", got, want)
	}
}
