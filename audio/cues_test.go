package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/telemetry"
)

// drain streams s to completion and returns the sample count and peak amplitude.
func drain(s beep.Streamer) (total int, peak float64) {
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for _, frame := range buf[:n] {
			peak = math.Max(peak, math.Abs(frame[0]))
		}
		total += n
		if !ok {
			return total, peak
		}
	}
}

// ---------- cues ----------

func TestCue_Lengths(t *testing.T) {
	tests := []struct {
		event telemetry.EventType
		d     time.Duration
	}{
		{telemetry.EventPredatorStrike, strikeDuration},
		{telemetry.EventSchoolFormed, schoolDuration},
		{telemetry.EventScatter, scatterDuration},
		{telemetry.EventStall, stallDuration},
	}
	for _, tt := range tests {
		t.Run(string(tt.event), func(t *testing.T) {
			s := Cue(tt.event, 0.5)
			if s == nil {
				t.Fatal("Cue returned nil")
			}
			total, peak := drain(s)
			if want := sampleRate.N(tt.d); total != want {
				t.Errorf("samples = %d, want %d", total, want)
			}
			if peak == 0 {
				t.Error("cue is silent")
			}
			if peak > 0.5+1e-9 {
				t.Errorf("peak = %v, want <= volume 0.5", peak)
			}
		})
	}
}

func TestCue_Unknown(t *testing.T) {
	if s := Cue("nope", 1); s != nil {
		t.Error("unknown event should have no cue")
	}
}

func TestCue_ZeroVolumeIsSilent(t *testing.T) {
	_, peak := drain(Cue(telemetry.EventPredatorStrike, 0))
	if peak != 0 {
		t.Errorf("peak = %v, want 0", peak)
	}
}

// ---------- generators ----------

func TestNoiseBurst_Deterministic(t *testing.T) {
	a := NewNoiseBurstGenerator(sampleRate, 42)
	b := NewNoiseBurstGenerator(sampleRate, 42)
	bufA := make([][2]float64, 64)
	bufB := make([][2]float64, 64)
	a.Stream(bufA)
	b.Stream(bufB)
	for i := range bufA {
		if bufA[i] != bufB[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, bufA[i], bufB[i])
		}
	}
}

func TestBuzz_FadesIn(t *testing.T) {
	buf := make([][2]float64, 1)
	NewBuzzGenerator(sampleRate, 110).Stream(buf)
	if buf[0][0] != 0 {
		t.Errorf("first sample = %v, want 0", buf[0][0])
	}
}

// ---------- player ----------

func TestCues_NoopWithoutInitialize(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("uninitialized cues panicked: %v", r)
		}
	}()

	c := NewCues(config.AudioConfig{Volume: 0.2})
	c.HandleEvent(telemetry.Event{Type: telemetry.EventPredatorStrike})
	c.Play(telemetry.EventScatter)
	c.Cleanup()
}
