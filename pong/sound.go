package pong

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate   = beep.SampleRate(48000)
	blipDuration = 60 * time.Millisecond
)

// Sound plays collision feedback.
type Sound interface {
	Blip(kind CollisionKind)
}

// BeepSound plays short sine blips through the speaker.
type BeepSound struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
}

func NewBeepSound(volume float64) *BeepSound {
	return &BeepSound{
		mixer:  &beep.Mixer{},
		volume: volume,
	}
}

// Init opens the speaker and starts the mixer.
func (s *BeepSound) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// Close silences every pending blip.
func (s *BeepSound) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	s.initialized = false
}

func (s *BeepSound) Blip(kind CollisionKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	streamer, err := blip(kind, s.volume)
	if err != nil {
		return
	}
	speaker.Lock()
	s.mixer.Add(streamer)
	speaker.Unlock()
}

func blipFrequency(kind CollisionKind) float64 {
	if kind == HitPaddle {
		return 880
	}
	return 440
}

// blip builds a finite tone for kind at volume in [0, 1].
func blip(kind CollisionKind, volume float64) (beep.Streamer, error) {
	tone, err := generators.SineTone(sampleRate, blipFrequency(kind))
	if err != nil {
		return nil, err
	}
	short := beep.Take(sampleRate.N(blipDuration), tone)
	if volume <= 0 {
		return &effects.Volume{Streamer: short, Base: 2, Silent: true}, nil
	}
	return &effects.Volume{Streamer: short, Base: 2, Volume: math.Log2(volume)}, nil
}
