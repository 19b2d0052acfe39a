// Package audio plays short synthesized cues when flock events fire.
// Audio is optional: every method is a no-op until Initialize succeeds.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/telemetry"
)

const sampleRate = beep.SampleRate(44100)

// Cue durations.
const (
	strikeDuration  = 150 * time.Millisecond
	schoolDuration  = 200 * time.Millisecond
	scatterDuration = 300 * time.Millisecond
	stallDuration   = 250 * time.Millisecond
)

// Cues mixes event sounds into the speaker.
type Cues struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
}

// NewCues creates an uninitialized cue player.
func NewCues(cfg config.AudioConfig) *Cues {
	return &Cues{
		mixer:  &beep.Mixer{},
		volume: cfg.Volume,
	}
}

// Initialize opens the speaker. Calling it twice is a no-op.
func (c *Cues) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Cleanup stops playback and closes the speaker.
func (c *Cues) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	c.initialized = false
}

// HandleEvent plays the cue for ev. It matches game.Options.OnEvent.
func (c *Cues) HandleEvent(ev telemetry.Event) {
	c.Play(ev.Type)
}

// Play queues the cue for an event type.
func (c *Cues) Play(t telemetry.EventType) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	s := Cue(t, c.volume)
	if s == nil {
		return
	}
	speaker.Lock()
	c.mixer.Add(s)
	speaker.Unlock()
}

// Cue returns a finite streamer for t, or nil for unknown types.
func Cue(t telemetry.EventType, volume float64) beep.Streamer {
	var s beep.Streamer
	switch t {
	case telemetry.EventPredatorStrike:
		s = beep.Take(sampleRate.N(strikeDuration), NewBuzzGenerator(sampleRate, 110))
	case telemetry.EventSchoolFormed:
		sine, err := generators.SineTone(sampleRate, 660)
		if err != nil {
			return nil
		}
		s = beep.Take(sampleRate.N(schoolDuration), sine)
	case telemetry.EventScatter:
		s = beep.Take(sampleRate.N(scatterDuration), NewNoiseBurstGenerator(sampleRate, 1))
	case telemetry.EventStall:
		s = beep.Take(sampleRate.N(stallDuration), NewSweepGenerator(sampleRate, 440, 220, stallDuration))
	default:
		return nil
	}
	return newVolume(s, volume)
}

// newVolume scales s linearly; zero or negative volume is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
