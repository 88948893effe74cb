// Package inspector follows the viewer's lighting telemetry: a websocket
// client, a bounded frame history and an ImGui panel showing both.
package inspector

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/earthview/internal/telemetry"
)

// DefaultCapacity keeps about a minute of frames at the default interval.
const DefaultCapacity = 600

// History is a fixed-size ring of telemetry frames, safe for one writer
// and many readers.
type History struct {
	mu     sync.RWMutex
	frames []telemetry.Frame
	next   int
	full   bool
}

// NewHistory creates a history holding up to capacity frames.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{frames: make([]telemetry.Frame, capacity)}
}

// Add appends a frame, dropping the oldest when full.
func (h *History) Add(f telemetry.Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames[h.next] = f
	h.next = (h.next + 1) % len(h.frames)
	if h.next == 0 {
		h.full = true
	}
}

// Len returns the number of stored frames.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.len()
}

func (h *History) len() int {
	if h.full {
		return len(h.frames)
	}
	return h.next
}

// Latest returns the newest frame.
func (h *History) Latest() (telemetry.Frame, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.len() == 0 {
		return telemetry.Frame{}, false
	}
	i := (h.next - 1 + len(h.frames)) % len(h.frames)
	return h.frames[i], true
}

// Snapshot returns the stored frames oldest first.
func (h *History) Snapshot() []telemetry.Frame {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := h.len()
	out := make([]telemetry.Frame, 0, n)
	start := 0
	if h.full {
		start = h.next
	}
	for i := 0; i < n; i++ {
		out = append(out, h.frames[(start+i)%len(h.frames)])
	}
	return out
}

// Clear drops every frame.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next = 0
	h.full = false
}

// Stats summarises how the light direction moved over the history.
type Stats struct {
	Frames   int
	Span     float64 // seconds between first and last frame
	MaxDrift float64 // largest angle in degrees from the first direction
	Rate     float64 // mean angular speed in degrees per second
}

// Stats computes drift figures for the stored frames.
func (h *History) Stats() Stats {
	frames := h.Snapshot()
	s := Stats{Frames: len(frames)}
	if len(frames) < 2 {
		return s
	}
	first := frames[0]
	last := frames[len(frames)-1]
	s.Span = last.Time - first.Time

	var travelled float64
	for i, f := range frames {
		if d := angleDeg(first.LightDirection, f.LightDirection); d > s.MaxDrift {
			s.MaxDrift = d
		}
		if i > 0 {
			travelled += angleDeg(frames[i-1].LightDirection, f.LightDirection)
		}
	}
	if s.Span > 0 {
		s.Rate = travelled / s.Span
	}
	return s
}

// angleDeg returns the angle between two directions, 0 if either is zero.
func angleDeg(a, b [3]float32) float64 {
	va, vb := mgl32.Vec3(a), mgl32.Vec3(b)
	la, lb := va.Len(), vb.Len()
	if la == 0 || lb == 0 {
		return 0
	}
	c := float64(va.Dot(vb) / (la * lb))
	c = math.Max(-1, math.Min(1, c))
	return math.Acos(c) * 180 / math.Pi
}

var csvHeader = []string{
	"time",
	"light_x", "light_y", "light_z",
	"sun_x", "sun_y", "sun_z",
	"sky_rot_x", "sky_rot_y", "sky_rot_z",
}

// WriteCSV writes the history oldest first with a header row.
func (h *History) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, f := range h.Snapshot() {
		row := make([]string, 0, len(csvHeader))
		row = append(row, strconv.FormatFloat(f.Time, 'f', 4, 64))
		for _, v := range [][3]float32{f.LightDirection, f.SunPosition, f.SkyboxRotation} {
			for _, c := range v {
				row = append(row, strconv.FormatFloat(float64(c), 'g', -1, 32))
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}
