package inspector

import (
	"bytes"
	"encoding/csv"
	"math"
	"testing"

	"github.com/Faultbox/earthview/internal/telemetry"
)

func frame(t float64, dir [3]float32) telemetry.Frame {
	return telemetry.Frame{Type: "lighting", Time: t, LightDirection: dir}
}

func TestHistoryRing(t *testing.T) {
	h := NewHistory(3)
	if _, ok := h.Latest(); ok {
		t.Fatal("empty history should have no latest frame")
	}
	for i := 0; i < 5; i++ {
		h.Add(frame(float64(i), [3]float32{0, 0, 1}))
	}

	if h.Len() != 3 {
		t.Fatalf("Len = %d, want 3", h.Len())
	}
	snap := h.Snapshot()
	for i, want := range []float64{2, 3, 4} {
		if snap[i].Time != want {
			t.Errorf("snapshot[%d].Time = %v, want %v", i, snap[i].Time, want)
		}
	}
	if f, _ := h.Latest(); f.Time != 4 {
		t.Errorf("Latest.Time = %v, want 4", f.Time)
	}

	h.Clear()
	if h.Len() != 0 || len(h.Snapshot()) != 0 {
		t.Error("Clear should empty the history")
	}
}

func TestNewHistoryDefaultCapacity(t *testing.T) {
	h := NewHistory(0)
	for i := 0; i < DefaultCapacity+10; i++ {
		h.Add(frame(float64(i), [3]float32{1, 0, 0}))
	}
	if h.Len() != DefaultCapacity {
		t.Errorf("Len = %d, want %d", h.Len(), DefaultCapacity)
	}
}

func TestHistoryStats(t *testing.T) {
	tests := []struct {
		name     string
		frames   []telemetry.Frame
		maxDrift float64
		rate     float64
	}{
		{
			name:   "single frame",
			frames: []telemetry.Frame{frame(0, [3]float32{1, 0, 0})},
		},
		{
			name: "steady",
			frames: []telemetry.Frame{
				frame(0, [3]float32{0, 0, -1}),
				frame(1, [3]float32{0, 0, -1}),
				frame(2, [3]float32{0, 0, -1}),
			},
		},
		{
			name: "quarter turn over two seconds",
			frames: []telemetry.Frame{
				frame(0, [3]float32{1, 0, 0}),
				frame(1, [3]float32{0.70710677, 0.70710677, 0}),
				frame(2, [3]float32{0, 1, 0}),
			},
			maxDrift: 90,
			rate:     45,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistory(10)
			for _, f := range tt.frames {
				h.Add(f)
			}
			s := h.Stats()
			if s.Frames != len(tt.frames) {
				t.Errorf("Frames = %d, want %d", s.Frames, len(tt.frames))
			}
			if math.Abs(s.MaxDrift-tt.maxDrift) > 1e-3 {
				t.Errorf("MaxDrift = %v, want %v", s.MaxDrift, tt.maxDrift)
			}
			if math.Abs(s.Rate-tt.rate) > 1e-3 {
				t.Errorf("Rate = %v, want %v", s.Rate, tt.rate)
			}
		})
	}
}

func TestAngleDegZeroVector(t *testing.T) {
	if a := angleDeg([3]float32{}, [3]float32{1, 0, 0}); a != 0 {
		t.Errorf("angle with zero vector = %v, want 0", a)
	}
	if a := angleDeg([3]float32{1, 0, 0}, [3]float32{-2, 0, 0}); math.Abs(a-180) > 1e-6 {
		t.Errorf("opposite angle = %v, want 180", a)
	}
}

func TestWriteCSV(t *testing.T) {
	h := NewHistory(4)
	h.Add(telemetry.Frame{
		Type:           "lighting",
		Time:           1.5,
		LightDirection: [3]float32{0, 0, -1},
		SunPosition:    [3]float32{10, 20, 30},
		SkyboxRotation: [3]float32{0.25, -0.5, 0},
	})

	var buf bytes.Buffer
	if err := h.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0][0] != "time" || len(rows[0]) != 10 {
		t.Errorf("header = %v", rows[0])
	}
	want := []string{"1.5000", "0", "0", "-1", "10", "20", "30", "0.25", "-0.5", "0"}
	for i := range want {
		if rows[1][i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, rows[1][i], want[i])
		}
	}
}
