package main

import (
	"fmt"
	"strings"
	"time"
)

// hud collects status lines for the window title.
type hud struct {
	lines  []string
	frames int
	since  time.Time
	fps    float64
}

func (h *hud) AddLine(format string, args ...any) {
	h.lines = append(h.lines, fmt.Sprintf(format, args...))
}

func (h *hud) Clear() { h.lines = h.lines[:0] }

func (h *hud) Text() string { return strings.Join(h.lines, " | ") }

// tick counts a frame and reports whether the FPS figure was refreshed.
func (h *hud) tick(now time.Time) bool {
	if h.since.IsZero() {
		h.since = now
	}
	h.frames++
	elapsed := now.Sub(h.since)
	if elapsed < 500*time.Millisecond {
		return false
	}
	h.fps = float64(h.frames) / elapsed.Seconds()
	h.frames = 0
	h.since = now
	return true
}
