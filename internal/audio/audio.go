// Package audio plays short synthesized cues for game events.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Cues are the game's sound events.
type Cues interface {
	Flap()
	Score()
	Death()
}

// Nop is silent.
type Nop struct{}

func (Nop) Flap()  {}
func (Nop) Score() {}
func (Nop) Death() {}

// Synth plays cues through the system speaker.
type Synth struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	closed bool
}

// NewSynth opens the speaker. On failure it logs and returns Nop, so the
// game always gets a usable Cues.
func NewSynth(logger *log.Logger) (Cues, func()) {
	if logger == nil {
		logger = log.Default()
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		logger.Warn("audio unavailable, continuing silently", "error", err)
		return Nop{}, func() {}
	}
	s := &Synth{mixer: &beep.Mixer{}}
	speaker.Play(s.mixer)
	return s, s.Close
}

func (s *Synth) play(st beep.Streamer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	speaker.Lock()
	s.mixer.Add(&effects.Gain{Streamer: st, Gain: -0.6})
	speaker.Unlock()
}

// Flap is a short rising chirp.
func (s *Synth) Flap() {
	s.play(Sweep(320, 640, 70*time.Millisecond, sampleRate))
}

// Score is a two-note chime.
func (s *Synth) Score() {
	s.play(beep.Seq(
		Sweep(660, 660, 60*time.Millisecond, sampleRate),
		Sweep(880, 880, 90*time.Millisecond, sampleRate),
	))
}

// Death is a low falling tone.
func (s *Synth) Death() {
	s.play(Sweep(220, 70, 450*time.Millisecond, sampleRate))
}

// Close stops playback and releases the speaker.
func (s *Synth) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	speaker.Clear()
	speaker.Close()
}

// sweep is a sine tone gliding linearly between two frequencies with a
// short linear fade out.
type sweep struct {
	from, to float64
	total    int
	pos      int
	phase    float64
	rate     beep.SampleRate
}

// Sweep returns a finite sine streamer gliding from one frequency to another.
func Sweep(from, to float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return &sweep{from: from, to: to, total: rate.N(d), rate: rate}
}

func (w *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if w.pos >= w.total {
			return i, i > 0
		}
		progress := float64(w.pos) / float64(w.total)
		freq := w.from + (w.to-w.from)*progress
		amp := 1.0
		if fade := 0.8; progress > fade {
			amp = (1 - progress) / (1 - fade)
		}
		v := amp * math.Sin(2*math.Pi*w.phase)
		samples[i][0] = v
		samples[i][1] = v

		w.phase += freq / float64(w.rate)
		w.phase -= math.Floor(w.phase)
		w.pos++
	}
	return len(samples), true
}

func (w *sweep) Err() error { return nil }
